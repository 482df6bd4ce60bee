package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	courtserrors "courtbook/internal/courts/errors"
	"courtbook/internal/courts/validator"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

type recordingObserver struct {
	mu     sync.Mutex
	courts []model.Court
	err    error
}

func (o *recordingObserver) OnCourtChanged(ctx context.Context, court model.Court) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.courts = append(o.courts, court)
	return o.err
}

func newTestRegistry(observers ...Observer) Registry {
	cfg := &config.Config{Log: logger.Discard()}
	return NewRegistry(cfg, validator.NewCourtValidator(cfg.Log), observers...)
}

func TestRegistry_AddAndFind(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	added, err := r.Add(ctx, model.Court{ID: "C1", Category: model.CategorySingles})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added.Status != model.CourtAvailable {
		t.Errorf("expected default status available, got %s", added.Status)
	}
	if added.Version != 1 {
		t.Errorf("expected version 1, got %d", added.Version)
	}

	got, ok := r.Find("C1")
	if !ok || got.Category != model.CategorySingles {
		t.Errorf("Find(C1) = %+v, %v", got, ok)
	}

	if _, ok := r.Find("missing"); ok {
		t.Error("expected unknown court to be absent")
	}
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	if _, err := r.Add(ctx, model.Court{ID: "C1", Category: model.CategorySingles}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := r.Add(ctx, model.Court{ID: "C1", Category: model.CategoryDoubles})
	if !errors.Is(err, courtserrors.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT code, got %v", err)
	}

	got, _ := r.Find("C1")
	if got.Category != model.CategorySingles {
		t.Errorf("duplicate add must not replace the court, got %+v", got)
	}
}

func TestRegistry_AddInvalid(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Add(context.Background(), model.Court{ID: "C1", Category: "squash"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(r.List()) != 0 {
		t.Error("invalid court must not be registered")
	}
}

func TestRegistry_ListKeepsInsertionOrder(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	ids := []string{"C3", "C1", "C2"}
	for _, id := range ids {
		if _, err := r.Add(ctx, model.Court{ID: id, Category: model.CategoryDoubles}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	list := r.List()
	if len(list) != len(ids) {
		t.Fatalf("expected %d courts, got %d", len(ids), len(list))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
	}
}

func TestRegistry_SetStatus(t *testing.T) {
	obs := &recordingObserver{}
	r := newTestRegistry(obs)
	ctx := context.Background()

	if _, err := r.Add(ctx, model.Court{ID: "C1", Category: model.CategorySingles}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := r.SetStatus(ctx, "C1", model.CourtUnavailable)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.CourtUnavailable || updated.Version != 2 {
		t.Errorf("unexpected court after update: %+v", updated)
	}

	// Setting the same status again is a no-op.
	if _, err := r.SetStatus(ctx, "C1", model.CourtUnavailable); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs.courts) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(obs.courts))
	}

	got, _ := r.Find("C1")
	if got.Bookable() {
		t.Error("court should not be bookable after being marked unavailable")
	}
}

func TestRegistry_SetStatusErrors(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.SetStatus(ctx, "nope", model.CourtAvailable)
	if !errors.Is(err, courtserrors.ErrNotFound) || !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}

	_, err = r.SetStatus(ctx, "nope", "broken")
	if !errors.Is(err, courtserrors.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestRegistry_ObserverErrorDoesNotFailMutation(t *testing.T) {
	obs := &recordingObserver{err: errors.New("store down")}
	r := newTestRegistry(obs)

	if _, err := r.Add(context.Background(), model.Court{ID: "C1", Category: model.CategorySingles}); err != nil {
		t.Fatalf("observer failure leaked to caller: %v", err)
	}
	if len(obs.courts) != 1 {
		t.Errorf("expected one notification, got %d", len(obs.courts))
	}
}

func TestRegistry_SeedSkipsExisting(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	if err := r.Restore([]model.Court{{ID: "C1", Category: model.CategorySingles, Status: model.CourtUnavailable, Version: 4}}); err != nil {
		t.Fatalf("restore: %v", err)
	}

	seeds := []model.Court{
		{ID: "C1", Category: model.CategorySingles, Status: model.CourtAvailable},
		{ID: "C2", Category: model.CategoryDoubles, Status: model.CourtAvailable},
	}
	if err := r.Seed(ctx, seeds); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c1, _ := r.Find("C1")
	if c1.Status != model.CourtUnavailable || c1.Version != 4 {
		t.Errorf("seed must not overwrite a restored court, got %+v", c1)
	}
	if _, ok := r.Find("C2"); !ok {
		t.Error("expected C2 to be seeded")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()
	if _, err := r.Add(ctx, model.Court{ID: "C1", Category: model.CategorySingles}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			status := model.CourtAvailable
			if i%2 == 0 {
				status = model.CourtUnavailable
			}
			_, _ = r.SetStatus(ctx, "C1", status)
		}(i)
		go func() {
			defer wg.Done()
			_ = r.List()
			_, _ = r.Find("C1")
		}()
	}
	wg.Wait()

	if len(r.List()) != 1 {
		t.Errorf("expected exactly one court, got %d", len(r.List()))
	}
}
