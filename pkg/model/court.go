package model

type CourtCategory string

const (
	CategorySingles CourtCategory = "singles"
	CategoryDoubles CourtCategory = "doubles"
)

func (c CourtCategory) Valid() bool {
	return c == CategorySingles || c == CategoryDoubles
}

type CourtStatus string

const (
	CourtAvailable   CourtStatus = "available"
	CourtUnavailable CourtStatus = "unavailable"
)

func (s CourtStatus) Valid() bool {
	return s == CourtAvailable || s == CourtUnavailable
}

type Court struct {
	ID       string        `json:"id" validate:"required,min=1,max=32,court_id"`
	Category CourtCategory `json:"category" validate:"required,oneof=singles doubles"`
	Status   CourtStatus   `json:"status" validate:"required,oneof=available unavailable"`
	Version  int64         `json:"version"`
}

func (c Court) Bookable() bool {
	return c.Status == CourtAvailable
}

type CourtStatusUpdate struct {
	Status CourtStatus `json:"status" validate:"required,oneof=available unavailable"`
}
