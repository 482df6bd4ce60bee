package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	bookingserrors "courtbook/internal/bookings/errors"
	courtserrors "courtbook/internal/courts/errors"
	"courtbook/internal/pricing"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"

	"github.com/google/uuid"
)

const (
	bookingIDPrefix   = "BK"
	maxIDAttempts     = 8
	bookingIDHexChars = 8
)

// CourtLookup resolves courts for the ledger.
type CourtLookup interface {
	Find(id string) (model.Court, bool)
}

// Observer receives every committed mutation, after the ledger lock has been
// released. Errors are logged and never reach the caller.
type Observer interface {
	OnBookingEvent(ctx context.Context, event model.BookingEvent) error
}

type Ledger interface {
	Create(ctx context.Context, studentID, courtID string, interval model.TimeInterval) (*model.Booking, error)
	Cancel(ctx context.Context, studentID, bookingID string) (*model.Booking, error)
	Confirm(ctx context.Context, bookingID string) (*model.Booking, error)
	Rate(ctx context.Context, studentID, bookingID string, rating int) (*model.Booking, error)
	IsConflict(courtID string, interval model.TimeInterval) bool

	Get(bookingID string) (*model.Booking, error)
	All() []*model.Booking
	ByStudent(studentID string) []*model.Booking
	ByCourt(courtID string) []*model.Booking

	Restore(bookings []*model.Booking) error
}

type Option func(*ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *ledger) { l.now = now }
}

// WithPastBookingCheck toggles rejection of intervals that start before now.
func WithPastBookingCheck(enabled bool) Option {
	return func(l *ledger) { l.rejectPast = enabled }
}

func WithObservers(observers ...Observer) Option {
	return func(l *ledger) { l.observers = append(l.observers, observers...) }
}

func WithIDGenerator(gen func() string) Option {
	return func(l *ledger) { l.newID = gen }
}

type ledger struct {
	mu       sync.RWMutex
	bookings map[string]*model.Booking
	order    []string
	byCourt  map[string][]*model.Booking

	courts     CourtLookup
	policy     pricing.FeePolicy
	cfg        *config.Config
	observers  []Observer
	now        func() time.Time
	newID      func() string
	rejectPast bool
}

func NewLedger(cfg *config.Config, courts CourtLookup, policy pricing.FeePolicy, opts ...Option) Ledger {
	l := &ledger{
		bookings:   make(map[string]*model.Booking),
		byCourt:    make(map[string][]*model.Booking),
		courts:     courts,
		policy:     policy,
		cfg:        cfg,
		now:        time.Now,
		newID:      newBookingID,
		rejectPast: cfg.RejectPastBookings,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newBookingID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return bookingIDPrefix + strings.ToUpper(hex[:bookingIDHexChars])
}

func (l *ledger) Create(ctx context.Context, studentID, courtID string, interval model.TimeInterval) (*model.Booking, error) {
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}
	if interval.IsZero() {
		return nil, apperrors.InvalidInput("Booking interval is required").WithCause(model.ErrInvalidInterval)
	}

	court, ok := l.courts.Find(courtID)
	if !ok {
		return nil, apperrors.NotFoundWithID("Court", courtID).WithCause(courtserrors.ErrNotFound)
	}
	if !court.Bookable() {
		l.cfg.Log.Warn("Booking rejected, court unavailable", "court_id", courtID, "student_id", studentID)
		return nil, apperrors.ResourceUnavailable("Court", courtID).WithCause(courtserrors.ErrUnavailable)
	}

	now := l.now()
	if l.rejectPast && interval.StartAt(now.Location()).Before(now) {
		return nil, apperrors.Validation("Booking interval is in the past", map[string]any{
			"interval": interval.String(),
		}).WithCause(bookingserrors.ErrInPast)
	}

	l.mu.Lock()
	if existing := l.findConflictLocked(courtID, interval); existing != nil {
		l.mu.Unlock()
		l.cfg.Log.Warn("Booking rejected, time conflict",
			"court_id", courtID,
			"student_id", studentID,
			"interval", interval.String(),
			"conflicting_booking_id", existing.ID,
		)
		return nil, conflictError(existing)
	}

	id, err := l.uniqueIDLocked()
	if err != nil {
		l.mu.Unlock()
		return nil, err
	}

	booking := &model.Booking{
		ID:        id,
		StudentID: studentID,
		CourtID:   courtID,
		Interval:  interval,
		State:     model.BookingPending,
		Fee:       l.policy.ComputeFee(court.Category, interval),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	l.insertLocked(booking)
	created := booking.Clone()
	l.mu.Unlock()

	l.cfg.Log.Info("Booking created",
		"id", created.ID,
		"student_id", studentID,
		"court_id", courtID,
		"interval", interval.String(),
		"fee", created.Fee,
	)
	l.notify(ctx, model.EventBookingCreated, created)
	return created, nil
}

func conflictError(existing *model.Booking) error {
	return apperrors.Conflict(fmt.Sprintf(
		"Court %s is already booked for %s", existing.CourtID, existing.Interval.String(),
	)).WithDetails(map[string]any{
		"conflicting_booking_id": existing.ID,
		"court_id":               existing.CourtID,
		"interval":               existing.Interval.String(),
	}).WithCause(bookingserrors.ErrTimeConflict)
}

func (l *ledger) uniqueIDLocked() (string, error) {
	for range maxIDAttempts {
		id := l.newID()
		if _, taken := l.bookings[id]; !taken {
			return id, nil
		}
	}
	return "", apperrors.Internal("Failed to allocate a booking ID",
		fmt.Errorf("%w: %d colliding ids", bookingserrors.ErrInvariantViolation, maxIDAttempts))
}

func (l *ledger) insertLocked(b *model.Booking) {
	l.bookings[b.ID] = b
	l.order = append(l.order, b.ID)
	l.byCourt[b.CourtID] = append(l.byCourt[b.CourtID], b)
}

func (l *ledger) findConflictLocked(courtID string, interval model.TimeInterval) *model.Booking {
	for _, b := range l.byCourt[courtID] {
		if b.State.Active() && b.Interval.Overlaps(interval) {
			return b
		}
	}
	return nil
}

func (l *ledger) IsConflict(courtID string, interval model.TimeInterval) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.findConflictLocked(courtID, interval) != nil
}

func (l *ledger) Cancel(ctx context.Context, studentID, bookingID string) (*model.Booking, error) {
	return l.transition(ctx, bookingID, model.EventBookingCancelled, func(b *model.Booking) error {
		if b.StudentID != studentID {
			return forbidden(b)
		}
		switch b.State {
		case model.BookingCancelled:
			return stateError("Booking is already cancelled", b.State)
		case model.BookingCompleted:
			return stateError("Booking is already completed and cannot be cancelled", b.State)
		}
		b.State = model.BookingCancelled
		return nil
	})
}

func (l *ledger) Confirm(ctx context.Context, bookingID string) (*model.Booking, error) {
	return l.transition(ctx, bookingID, model.EventBookingCompleted, func(b *model.Booking) error {
		switch b.State {
		case model.BookingCompleted:
			return stateError("Booking is already completed", b.State)
		case model.BookingCancelled:
			return stateError("Booking is already cancelled and cannot be completed", b.State)
		}
		b.State = model.BookingCompleted
		return nil
	})
}

func (l *ledger) Rate(ctx context.Context, studentID, bookingID string, rating int) (*model.Booking, error) {
	return l.transition(ctx, bookingID, model.EventBookingRated, func(b *model.Booking) error {
		if b.StudentID != studentID {
			return forbidden(b)
		}
		if b.State != model.BookingCompleted {
			return stateError("Only completed bookings can be rated", b.State)
		}
		if rating < model.MinRating || rating > model.MaxRating {
			return apperrors.Validation(
				fmt.Sprintf("Rating must be between %d and %d", model.MinRating, model.MaxRating),
				map[string]any{"rating": rating},
			).WithCause(bookingserrors.ErrInvalidRating)
		}
		b.Rating = rating
		return nil
	})
}

// transition applies mutate to a working copy under the write lock and
// commits it only when mutate succeeds, so a refused operation leaves the
// stored booking untouched.
func (l *ledger) transition(ctx context.Context, bookingID string, event model.BookingEventType, mutate func(*model.Booking) error) (*model.Booking, error) {
	l.mu.Lock()
	stored, ok := l.bookings[bookingID]
	if !ok {
		l.mu.Unlock()
		return nil, apperrors.NotFoundWithID("Booking", bookingID).WithCause(bookingserrors.ErrNotFound)
	}

	working := stored.Clone()
	if err := mutate(working); err != nil {
		l.mu.Unlock()
		l.cfg.Log.Warn("Booking operation rejected",
			"id", bookingID,
			"event", event,
			"state", stored.State,
			"error", err,
		)
		return nil, err
	}

	working.UpdatedAt = l.now()
	working.Version = stored.Version + 1
	*stored = *working
	updated := stored.Clone()
	l.mu.Unlock()

	l.cfg.Log.Info("Booking updated",
		"id", updated.ID,
		"event", event,
		"state", updated.State,
		"version", updated.Version,
	)
	l.notify(ctx, event, updated)
	return updated, nil
}

func forbidden(b *model.Booking) error {
	return apperrors.Forbidden("Booking belongs to another student").
		WithDetails(map[string]any{"booking_id": b.ID}).
		WithCause(bookingserrors.ErrNotOwner)
}

func stateError(message string, state model.BookingState) error {
	return apperrors.InvalidState(message, string(state)).
		WithCause(&bookingserrors.StateError{State: state})
}

func (l *ledger) Get(bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bookings[bookingID]
	if !ok {
		return nil, apperrors.NotFoundWithID("Booking", bookingID).WithCause(bookingserrors.ErrNotFound)
	}
	return b.Clone(), nil
}

// All returns copies of every booking in creation order.
func (l *ledger) All() []*model.Booking {
	return l.collect(func(*model.Booking) bool { return true })
}

func (l *ledger) ByStudent(studentID string) []*model.Booking {
	return l.collect(func(b *model.Booking) bool { return b.StudentID == studentID })
}

func (l *ledger) ByCourt(courtID string) []*model.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*model.Booking, 0, len(l.byCourt[courtID]))
	for _, b := range l.byCourt[courtID] {
		out = append(out, b.Clone())
	}
	return out
}

func (l *ledger) collect(keep func(*model.Booking) bool) []*model.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*model.Booking, 0)
	for _, id := range l.order {
		if b := l.bookings[id]; keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Restore replaces the ledger contents with a persisted snapshot. The
// snapshot is rejected as a whole when it references an unknown court,
// repeats an id, carries an unknown state or impossible rating, or holds
// overlapping active bookings.
func (l *ledger) Restore(bookings []*model.Booking) error {
	byCourt := make(map[string][]*model.Booking)
	byID := make(map[string]*model.Booking, len(bookings))
	order := make([]string, 0, len(bookings))

	for _, src := range bookings {
		b := src.Clone()
		if _, ok := l.courts.Find(b.CourtID); !ok {
			return invariantError("booking %s references unknown court %s", b.ID, b.CourtID)
		}
		if _, dup := byID[b.ID]; dup {
			return invariantError("duplicate booking id %s", b.ID)
		}
		if !b.State.Valid() {
			return invariantError("booking %s has unknown state %q", b.ID, b.State)
		}
		if b.Rating != 0 && (b.State != model.BookingCompleted || b.Rating < model.MinRating || b.Rating > model.MaxRating) {
			return invariantError("booking %s has rating %d in state %s", b.ID, b.Rating, b.State)
		}
		if b.State.Active() {
			for _, other := range byCourt[b.CourtID] {
				if other.State.Active() && other.Interval.Overlaps(b.Interval) {
					return invariantError("bookings %s and %s overlap on court %s", other.ID, b.ID, b.CourtID)
				}
			}
		}
		byID[b.ID] = b
		order = append(order, b.ID)
		byCourt[b.CourtID] = append(byCourt[b.CourtID], b)
	}

	l.mu.Lock()
	l.bookings = byID
	l.order = order
	l.byCourt = byCourt
	l.mu.Unlock()

	l.cfg.Log.Info("Ledger restored", "bookings", len(order))
	return nil
}

func invariantError(format string, args ...any) error {
	return apperrors.Internal("Booking ledger snapshot is inconsistent",
		fmt.Errorf("%w: "+format, append([]any{bookingserrors.ErrInvariantViolation}, args...)...))
}

func (l *ledger) notify(ctx context.Context, eventType model.BookingEventType, b *model.Booking) {
	if len(l.observers) == 0 {
		return
	}
	event := model.BookingEvent{
		Type:       eventType,
		Booking:    *b,
		OccurredAt: b.UpdatedAt,
	}
	for _, o := range l.observers {
		if err := o.OnBookingEvent(ctx, event); err != nil {
			l.cfg.Log.Error("Booking observer failed",
				"id", b.ID,
				"event", eventType,
				"version", b.Version,
				"error", err,
			)
		}
	}
}
