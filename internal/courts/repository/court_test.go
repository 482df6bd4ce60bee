package repository

import (
	"errors"
	"testing"
	"time"

	courtserrors "courtbook/internal/courts/errors"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUpsertCourt(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	court := model.Court{ID: "C1", Category: model.CategoryDoubles, Status: model.CourtUnavailable, Version: 4}

	filter, update := upsertCourt(court, now)

	if filter["_id"] != "C1" {
		t.Errorf("filter _id = %v", filter["_id"])
	}
	guard, ok := filter["version"].(bson.M)
	if !ok || guard["$lt"] != int64(4) {
		t.Errorf("expected version guard $lt 4, got %v", filter["version"])
	}

	set := update["$set"].(bson.M)
	if set["category"] != "doubles" || set["status"] != "unavailable" || set["version"] != int64(4) {
		t.Errorf("unexpected $set: %v", set)
	}

	onInsert := update["$setOnInsert"].(bson.M)
	if got := onInsert["created_at"].(time.Time); !got.Equal(now) || got.Location() != time.UTC {
		t.Errorf("created_at = %v, want %v in UTC", got, now)
	}
	if _, ok := set["created_at"]; ok {
		t.Error("created_at must only be written on insert")
	}
}

func TestCourtDocumentToModel(t *testing.T) {
	tests := []struct {
		name    string
		doc     courtDocument
		wantErr bool
		wantIs  error
	}{
		{"valid", courtDocument{ID: "C1", Category: "singles", Status: "available", Version: 2}, false, nil},
		{"unknown category", courtDocument{ID: "C1", Category: "squash", Status: "available"}, true, nil},
		{"unknown status", courtDocument{ID: "C1", Category: "singles", Status: "closed"}, true, courtserrors.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			court, err := tt.doc.toModel()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := model.Court{ID: "C1", Category: model.CategorySingles, Status: model.CourtAvailable, Version: 2}
				if court != want {
					t.Errorf("got %+v, want %+v", court, want)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("expected %v, got %v", tt.wantIs, err)
			}
		})
	}
}
