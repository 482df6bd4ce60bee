package service

import (
	"time"

	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

// Source supplies the records reports aggregate over.
type Source interface {
	AllBookings() []*model.Booking
	AllCourts() []model.Court
}

type CourtRating struct {
	CourtID       string              `json:"court_id"`
	Category      model.CourtCategory `json:"category"`
	AverageRating float64             `json:"average_rating"`
	RatingCount   int                 `json:"rating_count"`
}

type Reporter interface {
	// CourtRatings returns one entry per court in registry order. Courts
	// without rated bookings report an average of zero.
	CourtRatings() []CourtRating
	// Revenue sums the fees of COMPLETED bookings dated within [from, to].
	Revenue(from, to time.Time) (float64, error)
	// BookingCounts counts bookings in any state dated within [from, to].
	BookingCounts(from, to time.Time) (int, error)
}

type reporter struct {
	source Source
	log    *logger.Logger
}

func NewReporter(source Source, log *logger.Logger) Reporter {
	return &reporter{
		source: source,
		log:    log,
	}
}

func (r *reporter) CourtRatings() []CourtRating {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, b := range r.source.AllBookings() {
		if !b.Rated() {
			continue
		}
		sums[b.CourtID] += b.Rating
		counts[b.CourtID]++
	}

	courts := r.source.AllCourts()
	ratings := make([]CourtRating, 0, len(courts))
	for _, c := range courts {
		rating := CourtRating{
			CourtID:     c.ID,
			Category:    c.Category,
			RatingCount: counts[c.ID],
		}
		if n := counts[c.ID]; n > 0 {
			rating.AverageRating = float64(sums[c.ID]) / float64(n)
		}
		ratings = append(ratings, rating)
	}
	return ratings
}

func (r *reporter) Revenue(from, to time.Time) (float64, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}

	var total float64
	completed := 0
	for _, b := range r.source.AllBookings() {
		if b.State != model.BookingCompleted || !within(b.Interval, from, to) {
			continue
		}
		total += b.Fee
		completed++
	}

	r.log.Debug("Computed revenue",
		"from", from.Format(model.DateLayout),
		"to", to.Format(model.DateLayout),
		"completed_bookings", completed,
		"revenue", total,
	)
	return total, nil
}

func (r *reporter) BookingCounts(from, to time.Time) (int, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}

	count := 0
	for _, b := range r.source.AllBookings() {
		if within(b.Interval, from, to) {
			count++
		}
	}
	return count, nil
}

func checkRange(from, to time.Time) error {
	if from.After(to) {
		return apperrors.InvalidInput("from must not be after to").WithDetails(map[string]any{
			"from": from.Format(model.DateLayout),
			"to":   to.Format(model.DateLayout),
		})
	}
	return nil
}

func within(interval model.TimeInterval, from, to time.Time) bool {
	d := interval.Date()
	return !d.Before(model.TruncateDate(from)) && !d.After(model.TruncateDate(to))
}
