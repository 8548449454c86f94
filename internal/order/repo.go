package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListFilter struct {
	Status    *Status
	CreatedBy *string
}

type Repository interface {
	Create(ctx context.Context, o *Order, items []ItemInput) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]Order, error)
	Update(ctx context.Context, id int64, p UpdatePatch) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, st Status) (*Order, error)
	Delete(ctx context.Context, id int64) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so loads can
// run inside or outside a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Create persists the order and its line items in one transaction. The
// referenced literature rows are resolved inside the same transaction
// and their current price is snapshotted into each item, so a
// concurrent catalog reimport cannot produce a half-created order or an
// item pointing at a deleted row.
func (r *PGRepo) Create(ctx context.Context, o *Order, items []ItemInput) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var prio *string
	if o.Priority != "" {
		s := string(o.Priority)
		prio = &s
	}

	var id int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (title, description, quantity, unit, priority, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,COALESCE($5,'medium'),$6,NOW(),NOW())
		RETURNING id
	`, o.Title, o.Description, o.Quantity, o.Unit, prio, o.CreatedBy).Scan(&id); err != nil {
		return nil, err
	}

	if len(items) > 0 {
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.LiteratureID)
		}
		prices := make(map[int64]int64, len(ids))
		rows, err := tx.Query(ctx, `SELECT id, price FROM literature WHERE id = ANY($1)`, ids)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var lid, price int64
			if err := rows.Scan(&lid, &price); err != nil {
				rows.Close()
				return nil, err
			}
			prices[lid] = price
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		if len(prices) != len(ids) {
			return nil, ErrLiteratureNotFound
		}

		for _, it := range items {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items (order_id, literature_id, quantity, price, created_at)
				VALUES ($1,$2,$3,$4,NOW())
			`, id, it.LiteratureID, it.Quantity, prices[it.LiteratureID]); err != nil {
				return nil, err
			}
		}
	}

	created, err := loadOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return loadOrder(ctx, r.db, id)
}

func (r *PGRepo) List(ctx context.Context, f ListFilter) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := ""
	args := []any{}
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.CreatedBy != nil {
		args = append(args, *f.CreatedBy)
		where += fmt.Sprintf(" AND created_by = $%d", len(args))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, quantity, unit, priority, status, created_by, created_at, updated_at
		FROM orders
		WHERE TRUE`+where+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	ids := []int64{}
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		o.Items = []Item{}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := loadItems(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]Item, len(ids))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range out {
		if its, ok := byOrder[out[i].ID]; ok {
			out[i].Items = its
		}
	}
	return out, nil
}

// Update touches only the scalar fields present in the patch; line
// items are immutable after creation.
func (r *PGRepo) Update(ctx context.Context, id int64, p UpdatePatch) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := "updated_at = NOW()"
	args := []any{id}
	add := func(col string, val any) {
		args = append(args, val)
		set += fmt.Sprintf(", %s = $%d", col, len(args))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.DescriptionSet {
		add("description", p.Description)
	}
	if p.UnitSet {
		add("unit", p.Unit)
	}
	if p.QuantitySet {
		add("quantity", p.Quantity)
	}
	if p.Priority != nil {
		add("priority", *p.Priority)
	}

	tag, err := r.db.Exec(ctx, `UPDATE orders SET `+set+` WHERE id = $1`, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return loadOrder(ctx, r.db, id)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id int64, st Status) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, st)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return loadOrder(ctx, r.db, id)
}

func (r *PGRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// order_items go with the order via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.Title, &o.Description, &o.Quantity, &o.Unit,
		&o.Priority, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
}

func loadOrder(ctx context.Context, q querier, id int64) (*Order, error) {
	var o Order
	err := scanOrder(q.QueryRow(ctx, `
		SELECT id, title, description, quantity, unit, priority, status, created_by, created_at, updated_at
		FROM orders WHERE id = $1
	`, id), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := loadItems(ctx, q, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func loadItems(ctx context.Context, q querier, orderIDs []int64) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.literature_id, oi.quantity, oi.price, oi.created_at,
		       l.id, l.type, l.title, l.price, l.sort_order, l.created_at, l.updated_at
		FROM order_items oi
		JOIN literature l ON l.id = oi.literature_id
		WHERE oi.order_id = ANY($1)
		ORDER BY l.sort_order ASC
	`, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LiteratureID, &it.Quantity, &it.Price, &it.CreatedAt,
			&it.Literature.ID, &it.Literature.Type, &it.Literature.Title, &it.Literature.Price,
			&it.Literature.SortOrder, &it.Literature.CreatedAt, &it.Literature.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
