package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "courtbook/internal/bookings/errors"
	"courtbook/pkg/config"
	mongodb "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type bookingDocument struct {
	ID        string    `bson:"_id"`
	StudentID string    `bson:"student_id"`
	CourtID   string    `bson:"court_id"`
	Date      time.Time `bson:"date"`
	Start     string    `bson:"start"`
	End       string    `bson:"end"`
	State     string    `bson:"state"`
	Fee       float64   `bson:"fee"`
	Rating    int       `bson:"rating,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Version   int64     `bson:"version"`
}

func toDocument(b *model.Booking) bookingDocument {
	return bookingDocument{
		ID:        b.ID,
		StudentID: b.StudentID,
		CourtID:   b.CourtID,
		Date:      b.Interval.Date(),
		Start:     b.Interval.Start().String(),
		End:       b.Interval.End().String(),
		State:     string(b.State),
		Fee:       b.Fee,
		Rating:    b.Rating,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Version:   b.Version,
	}
}

func (d bookingDocument) toModel() (*model.Booking, error) {
	start, err := model.ParseClock(d.Start)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	end, err := model.ParseClock(d.End)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	interval, err := model.NewTimeInterval(d.Date, start, end)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", d.ID, err)
	}
	state := model.BookingState(d.State)
	if !state.Valid() {
		return nil, fmt.Errorf("booking %s: %w: unknown state %q", d.ID, bookingserrors.ErrInvariantViolation, d.State)
	}

	return &model.Booking{
		ID:        d.ID,
		StudentID: d.StudentID,
		CourtID:   d.CourtID,
		Interval:  interval,
		State:     state,
		Fee:       d.Fee,
		Rating:    d.Rating,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Version,
	}, nil
}

type BookingRepository interface {
	Save(ctx context.Context, booking *model.Booking) error
	LoadAll(ctx context.Context) ([]*model.Booking, error)
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) *mongoBookingRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo.Client, cfg.Log),
	}
}

// OnBookingEvent writes the booking snapshot carried by the event.
func (r *mongoBookingRepository) OnBookingEvent(ctx context.Context, event model.BookingEvent) error {
	return r.Save(ctx, &event.Booking)
}

// Save replaces the stored booking when ours is newer. Observers run
// outside the ledger lock, so writes for one booking can arrive out of
// order; an older version loses against the filter and the upsert then
// collides on _id.
func (r *mongoBookingRepository) Save(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":     booking.ID,
		"version": bson.M{"$lt": booking.Version},
	}

	_, err := r.collection.ReplaceOne(ctx, filter, toDocument(booking), options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.cfg.Log.Debug("Skipped stale booking write", "id", booking.ID, "version", booking.Version)
			return nil
		}
		return fmt.Errorf("failed to save booking %s: %w", booking.ID, err)
	}
	return nil
}

// LoadAll returns every stored booking in creation order.
func (r *mongoBookingRepository) LoadAll(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for _, d := range docs {
		b, err := d.toModel()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// ReadSnapshot runs fn in a transaction when the deployment supports one
// and without it otherwise.
func (r *mongoBookingRepository) ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.txManager.ExecuteWithFallback(ctx, fn)
}
