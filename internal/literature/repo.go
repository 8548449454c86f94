package literature

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]Literature, error)
	ReplaceAll(ctx context.Context, items []Literature) error
}

// db is satisfied by *pgxpool.Pool; tests swap in a recording fake.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PGRepo struct{ db db }

func NewPGRepo(pool *pgxpool.Pool) *PGRepo { return &PGRepo{db: pool} }

func (r *PGRepo) List(ctx context.Context) ([]Literature, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, type, title, price, sort_order, created_at, updated_at
		FROM literature
		ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Literature{}
	for rows.Next() {
		var l Literature
		if err := rows.Scan(&l.ID, &l.Type, &l.Title, &l.Price, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the whole catalog in one transaction. Existing order
// line items reference the old rows, so they are cleared first; the
// orders themselves survive without items. Destructive on purpose — the
// import is the only way the catalog changes.
func (r *PGRepo) ReplaceAll(ctx context.Context, items []Literature) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM order_items`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM literature`); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO literature (type, title, price, sort_order, created_at, updated_at)
			VALUES ($1,$2,$3,$4,NOW(),NOW())
		`, it.Type, it.Title, it.Price, it.SortOrder); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
