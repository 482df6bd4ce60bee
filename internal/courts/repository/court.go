package repository

import (
	"context"
	"fmt"
	"time"

	courtserrors "courtbook/internal/courts/errors"
	"courtbook/pkg/config"
	mongodb "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Courts"
)

type courtDocument struct {
	ID        string    `bson:"_id"`
	Category  string    `bson:"category"`
	Status    string    `bson:"status"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
}

type CourtRepository interface {
	Save(ctx context.Context, court model.Court) error
	LoadAll(ctx context.Context) ([]model.Court, error)
}

type mongoCourtRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCourtRepository(cfg *config.Config) *mongoCourtRepository {
	db := cfg.Client.Mongo.Client.Database(cfg.MongoDatabaseName)
	return &mongoCourtRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// OnCourtChanged persists the registry's mutations.
func (r *mongoCourtRepository) OnCourtChanged(ctx context.Context, court model.Court) error {
	return r.Save(ctx, court)
}

// upsertCourt builds the version-guarded upsert for court. The filter only
// matches a stored document with an older version; when the stored one is
// the same or newer the upsert collides on _id.
func upsertCourt(court model.Court, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"_id":     court.ID,
		"version": bson.M{"$lt": court.Version},
	}
	update := bson.M{
		"$set": bson.M{
			"category": string(court.Category),
			"status":   string(court.Status),
			"version":  court.Version,
		},
		"$setOnInsert": bson.M{
			"created_at": now.UTC(),
		},
	}
	return filter, update
}

func (d courtDocument) toModel() (model.Court, error) {
	court := model.Court{
		ID:       d.ID,
		Category: model.CourtCategory(d.Category),
		Status:   model.CourtStatus(d.Status),
		Version:  d.Version,
	}
	if !court.Category.Valid() {
		return model.Court{}, fmt.Errorf("court %s: unknown category %q", d.ID, d.Category)
	}
	if !court.Status.Valid() {
		return model.Court{}, fmt.Errorf("court %s: %w %q", d.ID, courtserrors.ErrInvalidStatus, d.Status)
	}
	return court, nil
}

// Save upserts court unless the stored document already has the same or a
// newer version. A stale write ends in a duplicate key error on _id and is
// dropped.
func (r *mongoCourtRepository) Save(ctx context.Context, court model.Court) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter, update := upsertCourt(court, time.Now())
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.cfg.Log.Debug("Skipped stale court write", "court_id", court.ID, "version", court.Version)
			return nil
		}
		return fmt.Errorf("failed to save court %s: %w", court.ID, err)
	}
	return nil
}

// LoadAll returns every stored court in the order it was first saved.
func (r *mongoCourtRepository) LoadAll(ctx context.Context) ([]model.Court, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query courts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []courtDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode courts: %w", err)
	}

	courts := make([]model.Court, 0, len(docs))
	for _, d := range docs {
		court, err := d.toModel()
		if err != nil {
			return nil, err
		}
		courts = append(courts, court)
	}
	return courts, nil
}
