package handler

import (
	"context"
	"errors"
	"net/http"

	"courtbook/internal/bookings/events"
	"courtbook/internal/bookings/service"
	"courtbook/internal/bookings/validator"
	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/middleware"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	ledger    service.Ledger
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewBookingHandler(ledger service.Ledger, validator *validator.BookingValidator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		ledger:    ledger,
		validator: validator,
		log:       log,
	}
}

type ConflictResponse struct {
	CourtID  string             `json:"court_id"`
	Interval model.TimeInterval `json:"interval"`
	Conflict bool               `json:"conflict"`
}

// mutationContext carries the request id into published events.
func mutationContext(r *http.Request) context.Context {
	return events.WithCorrelationID(r.Context(), middleware.RequestID(r.Context()))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	studentID, err := httputil.StudentID(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	interval, err := h.validator.ValidateRequest(&req)
	if err != nil {
		h.log.Warn("Booking request validation failed", "student_id", studentID, "error", err)
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			h.writeError(w, "Create", apperrors.Validation("Booking request validation failed", map[string]any{
				"errors": fieldErrs,
			}))
			return
		}
		h.writeError(w, "Create", apperrors.InvalidInput(err.Error()).WithCause(err))
		return
	}

	booking, err := h.ledger.Create(mutationContext(r), studentID, req.CourtID, interval)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.ledger.Get(ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// GetAll lists bookings in creation order, optionally for one court.
func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	var bookings []*model.Booking
	if courtID := r.URL.Query().Get("court_id"); courtID != "" {
		bookings = h.ledger.ByCourt(courtID)
	} else {
		bookings = h.ledger.All()
	}

	page := httputil.Paginate(bookings, limit, offset)
	if err := httputil.WritePaginated(w, page, int64(len(bookings)), limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studentID, err := httputil.StudentID(r)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	booking, err := h.ledger.Cancel(mutationContext(r), studentID, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccess", "error", err)
	}
}

// Confirm marks a booking as completed. Administrative; authorization is
// enforced upstream.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.ledger.Confirm(mutationContext(r), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Confirm", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Rate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studentID, err := httputil.StudentID(r)
	if err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	var req model.RatingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	booking, err := h.ledger.Rate(mutationContext(r), studentID, ps.ByName("id"), req.Rating)
	if err != nil {
		h.writeError(w, "Rate", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Rate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Conflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	courtID := r.URL.Query().Get("court_id")
	if courtID == "" {
		h.writeError(w, "Conflict", apperrors.InvalidInput("court_id is required"))
		return
	}

	interval, err := httputil.IntervalFromQuery(r)
	if err != nil {
		h.writeError(w, "Conflict", err)
		return
	}
	if interval == nil {
		h.writeError(w, "Conflict", apperrors.InvalidInput("date, start and end are required"))
		return
	}

	if err := httputil.WriteSuccess(w, ConflictResponse{
		CourtID:  courtID,
		Interval: *interval,
		Conflict: h.ledger.IsConflict(courtID, *interval),
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Conflict", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/conflict", h.Conflict)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.POST("/api/v1/bookings/id/:id/confirm", h.Confirm)
	router.POST("/api/v1/bookings/id/:id/rate", h.Rate)
}
