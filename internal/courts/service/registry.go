package service

import (
	"context"
	"fmt"
	"sync"

	courtserrors "courtbook/internal/courts/errors"
	"courtbook/internal/courts/validator"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
)

// Observer is notified with a copy of a court after every successful
// mutation. Notifications happen outside the registry lock.
type Observer interface {
	OnCourtChanged(ctx context.Context, court model.Court) error
}

type Registry interface {
	Find(id string) (model.Court, bool)
	Get(id string) (model.Court, error)
	List() []model.Court
	Add(ctx context.Context, court model.Court) (model.Court, error)
	SetStatus(ctx context.Context, id string, status model.CourtStatus) (model.Court, error)
	Seed(ctx context.Context, courts []model.Court) error
	Restore(courts []model.Court) error
}

type registry struct {
	mu        sync.RWMutex
	courts    map[string]*model.Court
	order     []string
	validator *validator.CourtValidator
	cfg       *config.Config
	observers []Observer
}

func NewRegistry(cfg *config.Config, validator *validator.CourtValidator, observers ...Observer) Registry {
	return &registry{
		courts:    make(map[string]*model.Court),
		validator: validator,
		cfg:       cfg,
		observers: observers,
	}
}

func (r *registry) Find(id string) (model.Court, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courts[id]
	if !ok {
		return model.Court{}, false
	}
	return *c, true
}

func (r *registry) Get(id string) (model.Court, error) {
	if id == "" {
		return model.Court{}, apperrors.InvalidInput("Court ID cannot be empty")
	}
	c, ok := r.Find(id)
	if !ok {
		return model.Court{}, apperrors.NotFoundWithID("Court", id).WithCause(courtserrors.ErrNotFound)
	}
	return c, nil
}

// List returns the courts in insertion order.
func (r *registry) List() []model.Court {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Court, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.courts[id])
	}
	return out
}

func (r *registry) Add(ctx context.Context, court model.Court) (model.Court, error) {
	if court.Status == "" {
		court.Status = model.CourtAvailable
	}

	if err := r.validator.Validate(&court); err != nil {
		r.cfg.Log.Warn("Court validation failed",
			"court_id", court.ID,
			"error", err,
		)
		return model.Court{}, apperrors.Validation("Court validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	added, err := r.insert(court)
	if err != nil {
		r.cfg.Log.Warn("Court rejected", "court_id", court.ID, "error", err)
		return model.Court{}, err
	}

	r.cfg.Log.Info("Court added",
		"court_id", added.ID,
		"category", added.Category,
		"status", added.Status,
	)
	r.notify(ctx, added)
	return added, nil
}

func (r *registry) insert(court model.Court) (model.Court, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courts[court.ID]; exists {
		return model.Court{}, apperrors.Conflict(fmt.Sprintf("Court %s already exists", court.ID)).
			WithDetails(map[string]any{"court_id": court.ID}).
			WithCause(courtserrors.ErrDuplicate)
	}

	court.Version = 1
	c := court
	r.courts[c.ID] = &c
	r.order = append(r.order, c.ID)
	return c, nil
}

func (r *registry) SetStatus(ctx context.Context, id string, status model.CourtStatus) (model.Court, error) {
	if !status.Valid() {
		return model.Court{}, apperrors.Validation("Invalid court status", map[string]any{
			"status": string(status),
		}).WithCause(courtserrors.ErrInvalidStatus)
	}

	r.mu.Lock()
	c, ok := r.courts[id]
	if !ok {
		r.mu.Unlock()
		return model.Court{}, apperrors.NotFoundWithID("Court", id).WithCause(courtserrors.ErrNotFound)
	}
	changed := c.Status != status
	if changed {
		c.Status = status
		c.Version++
	}
	updated := *c
	r.mu.Unlock()

	if !changed {
		return updated, nil
	}

	r.cfg.Log.Info("Court status changed",
		"court_id", id,
		"status", status,
		"version", updated.Version,
	)
	r.notify(ctx, updated)
	return updated, nil
}

// Seed adds every court that is not registered yet. Existing courts keep
// their current status.
func (r *registry) Seed(ctx context.Context, courts []model.Court) error {
	added := 0
	for _, court := range courts {
		if _, ok := r.Find(court.ID); ok {
			continue
		}
		if _, err := r.Add(ctx, court); err != nil {
			if apperrors.HasCode(err, apperrors.CodeConflict) {
				continue
			}
			return fmt.Errorf("failed to seed court %s: %w", court.ID, err)
		}
		added++
	}

	if added > 0 {
		r.cfg.Log.Info("Seeded default courts", "count", added)
	}
	return nil
}

// Restore loads persisted courts as they are, keeping their versions.
// Observers are not notified.
func (r *registry) Restore(courts []model.Court) error {
	for i := range courts {
		if err := r.validator.Validate(&courts[i]); err != nil {
			return fmt.Errorf("invalid persisted court %q: %w", courts[i].ID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, court := range courts {
		c := court
		if _, exists := r.courts[c.ID]; !exists {
			r.order = append(r.order, c.ID)
		}
		r.courts[c.ID] = &c
	}
	return nil
}

func (r *registry) notify(ctx context.Context, court model.Court) {
	for _, o := range r.observers {
		if err := o.OnCourtChanged(ctx, court); err != nil {
			r.cfg.Log.Error("Court observer failed",
				"court_id", court.ID,
				"version", court.Version,
				"error", err,
			)
		}
	}
}
