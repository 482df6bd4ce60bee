package handler

import (
	"net/http"

	"courtbook/internal/query/service"
	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type QueryHandler struct {
	facade service.Facade
	log    *logger.Logger
}

func NewQueryHandler(facade service.Facade, log *logger.Logger) *QueryHandler {
	return &QueryHandler{
		facade: facade,
		log:    log,
	}
}

// Availability lists bookable courts, optionally narrowed to a category and
// to courts free over date/start/end.
func (h *QueryHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	interval, err := httputil.IntervalFromQuery(r)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	var category *model.CourtCategory
	if raw := r.URL.Query().Get("category"); raw != "" {
		c := model.CourtCategory(raw)
		if !c.Valid() {
			h.writeError(w, "Availability", apperrors.InvalidInput("invalid category parameter: "+raw))
			return
		}
		category = &c
	}

	if err := httputil.WriteSuccess(w, h.facade.AvailableCourts(interval, category)); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *QueryHandler) StudentBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "StudentBookings", err)
		return
	}

	bookings := h.facade.BookingsByStudent(ps.ByName("id"))
	page := httputil.Paginate(bookings, limit, offset)
	if err := httputil.WritePaginated(w, page, int64(len(bookings)), limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "StudentBookings", "operation", "WritePaginated", "error", err)
	}
}

func (h *QueryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *QueryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Availability)
	router.GET("/api/v1/students/:id/bookings", h.StudentBookings)
}
