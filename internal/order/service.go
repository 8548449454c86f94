package order

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// GroupResolver turns the client-supplied group label into the identity
// stored on the order. There is no authentication today, so the default
// resolver passes the label through; a real identity layer can replace
// it without touching any order logic.
type GroupResolver interface {
	Resolve(ctx context.Context, label string) (string, error)
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(_ context.Context, label string) (string, error) {
	return label, nil
}

type Service struct {
	repo   Repository
	groups GroupResolver
	log    *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, groups: passthroughResolver{}, log: log}
}

// WithGroupResolver swaps the identity hook.
func (s *Service) WithGroupResolver(g GroupResolver) *Service {
	s.groups = g
	return s
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*OrderDTO, error) {
	title, err := normalizeText(req.Title, "title", 1, 100)
	if err != nil {
		return nil, err
	}
	createdBy, err := normalizeText(req.CreatedBy, "createdBy", 1, 100)
	if err != nil {
		return nil, err
	}
	desc, err := optionalText(req.Description, "description", 2000)
	if err != nil {
		return nil, err
	}
	unit, err := optionalText(req.Unit, "unit", 50)
	if err != nil {
		return nil, err
	}
	qty, err := optionalInt(req.Quantity, "quantity")
	if err != nil {
		return nil, err
	}
	prio, err := parsePriority(req.Priority)
	if err != nil {
		return nil, err
	}
	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	createdBy, err = s.groups.Resolve(ctx, createdBy)
	if err != nil {
		return nil, err
	}

	o := &Order{
		Title:       title,
		Description: desc,
		Quantity:    qty,
		Unit:        unit,
		CreatedBy:   createdBy,
	}
	if prio != nil {
		o.Priority = *prio
	}

	created, err := s.repo.Create(ctx, o, items)
	if errors.Is(err, ErrLiteratureNotFound) {
		return nil, validationf("One or more literature items were not found")
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Int64("order_id", created.ID),
		zap.String("created_by", created.CreatedBy),
		zap.Int("items", len(created.Items)),
	)
	return Enrich(created), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*OrderDTO, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return Enrich(o), nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]*OrderDTO, error) {
	var f ListFilter
	if q.Status != nil {
		st, err := parseStatus(*q.Status)
		if err != nil {
			return nil, err
		}
		f.Status = &st
	}
	if q.CreatedBy != nil {
		createdBy, err := normalizeText(*q.CreatedBy, "createdBy", 1, 100)
		if err != nil {
			return nil, err
		}
		f.CreatedBy = &createdBy
	}

	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, Enrich(&orders[i]))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, body []byte) (*OrderDTO, error) {
	patch, err := ParseUpdate(body)
	if err != nil {
		return nil, err
	}
	o, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return Enrich(o), nil
}

// UpdateStatus validates the requested transition against the
// Transitions table before persisting. Under concurrent requests the
// store's row semantics decide which write wins; last write wins.
func (s *Service) UpdateStatus(ctx context.Context, id int64, target string) (*OrderDTO, error) {
	st, err := parseStatus(target)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, st) {
		return nil, validationf("Cannot transition status from %s to %s", current.Status, st)
	}

	o, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.Int64("order_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(st)),
	)
	return Enrich(o), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", zap.Int64("order_id", id))
	return nil
}
