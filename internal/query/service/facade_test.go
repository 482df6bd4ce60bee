package service

import (
	"context"
	"testing"

	bookingsservice "courtbook/internal/bookings/service"
	courtsservice "courtbook/internal/courts/service"
	courtsvalidator "courtbook/internal/courts/validator"
	"courtbook/internal/pricing"
	"courtbook/pkg/config"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/stretchr/testify/suite"
)

type FacadeSuite struct {
	suite.Suite
	ctx    context.Context
	courts courtsservice.Registry
	ledger bookingsservice.Ledger
	facade Facade
}

func TestFacadeSuite(t *testing.T) {
	suite.Run(t, new(FacadeSuite))
}

func (s *FacadeSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := &config.Config{Log: logger.Discard()}

	s.courts = courtsservice.NewRegistry(cfg, courtsvalidator.NewCourtValidator(cfg.Log))
	for _, c := range []model.Court{
		{ID: "C1", Category: model.CategorySingles},
		{ID: "C2", Category: model.CategoryDoubles},
		{ID: "C3", Category: model.CategorySingles},
	} {
		_, err := s.courts.Add(s.ctx, c)
		s.Require().NoError(err)
	}

	s.ledger = bookingsservice.NewLedger(cfg, s.courts, pricing.NewDefaultPolicy())
	s.facade = NewFacade(s.ledger, s.courts, cfg.Log)
}

func (s *FacadeSuite) book(student, court, start, end string) *model.Booking {
	b, err := s.ledger.Create(s.ctx, student, court, model.MustInterval("2024-06-03", start, end))
	s.Require().NoError(err)
	return b
}

func ids(courts []model.Court) []string {
	out := make([]string, 0, len(courts))
	for _, c := range courts {
		out = append(out, c.ID)
	}
	return out
}

func (s *FacadeSuite) TestAvailableCourts_NoFilters() {
	s.Equal([]string{"C1", "C2", "C3"}, ids(s.facade.AvailableCourts(nil, nil)))
}

func (s *FacadeSuite) TestAvailableCourts_ExcludesUnavailable() {
	_, err := s.courts.SetStatus(s.ctx, "C3", model.CourtUnavailable)
	s.Require().NoError(err)

	s.Equal([]string{"C1", "C2"}, ids(s.facade.AvailableCourts(nil, nil)))
}

func (s *FacadeSuite) TestAvailableCourts_ByCategory() {
	singles := model.CategorySingles
	s.Equal([]string{"C1", "C3"}, ids(s.facade.AvailableCourts(nil, &singles)))

	doubles := model.CategoryDoubles
	s.Equal([]string{"C2"}, ids(s.facade.AvailableCourts(nil, &doubles)))
}

func (s *FacadeSuite) TestAvailableCourts_ExcludesConflicts() {
	s.book("S1", "C1", "09:00", "10:00")

	overlapping := model.MustInterval("2024-06-03", "09:30", "10:30")
	s.Equal([]string{"C2", "C3"}, ids(s.facade.AvailableCourts(&overlapping, nil)))

	adjacent := model.MustInterval("2024-06-03", "10:00", "11:00")
	s.Equal([]string{"C1", "C2", "C3"}, ids(s.facade.AvailableCourts(&adjacent, nil)))
}

func (s *FacadeSuite) TestAvailableCourts_CancelledBookingFreesSlot() {
	b := s.book("S1", "C1", "09:00", "10:00")
	_, err := s.ledger.Cancel(s.ctx, "S1", b.ID)
	s.Require().NoError(err)

	interval := model.MustInterval("2024-06-03", "09:00", "10:00")
	singles := model.CategorySingles
	s.Equal([]string{"C1", "C3"}, ids(s.facade.AvailableCourts(&interval, &singles)))
}

func (s *FacadeSuite) TestBookingsByStudent() {
	first := s.book("S1", "C1", "09:00", "10:00")
	s.book("S2", "C2", "09:00", "10:00")
	second := s.book("S1", "C3", "11:00", "12:00")

	got := s.facade.BookingsByStudent("S1")
	s.Require().Len(got, 2)
	s.Equal(first.ID, got[0].ID)
	s.Equal(second.ID, got[1].ID)

	s.Empty(s.facade.BookingsByStudent("nobody"))
	s.Len(s.facade.AllBookings(), 3)
	s.Len(s.facade.AllCourts(), 3)
}
