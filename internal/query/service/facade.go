package service

import (
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

// BookingReader is the read side of the booking ledger.
type BookingReader interface {
	All() []*model.Booking
	ByStudent(studentID string) []*model.Booking
	IsConflict(courtID string, interval model.TimeInterval) bool
}

type CourtLister interface {
	List() []model.Court
}

// Facade answers read-only questions over courts and bookings. Every method
// returns copies and is safe for concurrent use.
type Facade interface {
	BookingsByStudent(studentID string) []*model.Booking
	AllBookings() []*model.Booking
	AllCourts() []model.Court
	// AvailableCourts returns courts that are open for booking. A nil
	// category matches every category; a nil interval skips the conflict
	// check.
	AvailableCourts(interval *model.TimeInterval, category *model.CourtCategory) []model.Court
}

type facade struct {
	bookings BookingReader
	courts   CourtLister
	log      *logger.Logger
}

func NewFacade(bookings BookingReader, courts CourtLister, log *logger.Logger) Facade {
	return &facade{
		bookings: bookings,
		courts:   courts,
		log:      log,
	}
}

func (f *facade) BookingsByStudent(studentID string) []*model.Booking {
	return f.bookings.ByStudent(studentID)
}

func (f *facade) AllBookings() []*model.Booking {
	return f.bookings.All()
}

func (f *facade) AllCourts() []model.Court {
	return f.courts.List()
}

func (f *facade) AvailableCourts(interval *model.TimeInterval, category *model.CourtCategory) []model.Court {
	all := f.courts.List()
	available := make([]model.Court, 0, len(all))

	for _, court := range all {
		if !court.Bookable() {
			continue
		}
		if category != nil && court.Category != *category {
			continue
		}
		// Each court is checked under its own read lock; a booking created
		// between two checks is reported by the next call.
		if interval != nil && f.bookings.IsConflict(court.ID, *interval) {
			continue
		}
		available = append(available, court)
	}

	f.log.Debug("Computed available courts",
		"total", len(all),
		"available", len(available),
	)
	return available
}
