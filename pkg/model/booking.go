package model

import (
	"time"
)

type BookingState string

const (
	BookingPending   BookingState = "PENDING"
	BookingCompleted BookingState = "COMPLETED"
	BookingCancelled BookingState = "CANCELLED"
)

func (s BookingState) Valid() bool {
	switch s {
	case BookingPending, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

func (s BookingState) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

func (s BookingState) Active() bool {
	return s != BookingCancelled
}

const (
	MinRating = 1
	MaxRating = 5
)

type Booking struct {
	ID        string       `json:"id"`
	StudentID string       `json:"student_id"`
	CourtID   string       `json:"court_id"`
	Interval  TimeInterval `json:"interval"`
	State     BookingState `json:"state"`
	Fee       float64      `json:"fee"`
	Rating    int          `json:"rating,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	// Version increments on every mutation.
	Version int64 `json:"version"`
}

func (b *Booking) Rated() bool {
	return b.Rating >= MinRating
}

func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}

// BookingRequest is the inbound shape for creating a booking.
type BookingRequest struct {
	CourtID string `json:"court_id" validate:"required,min=1,max=32"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Start   string `json:"start" validate:"required,datetime=15:04"`
	End     string `json:"end" validate:"required,datetime=15:04"`
}

type RatingRequest struct {
	Rating int `json:"rating"`
}
