package handler

import (
	"net/http"

	"courtbook/internal/reports/service"
	apperrors "courtbook/pkg/errors"
	httputil "courtbook/pkg/http"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReportHandler struct {
	reporter service.Reporter
	log      *logger.Logger
}

func NewReportHandler(reporter service.Reporter, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reporter: reporter,
		log:      log,
	}
}

type RevenueResponse struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Revenue      float64 `json:"revenue"`
	BookingCount int     `json:"booking_count"`
}

func (h *ReportHandler) Ratings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.reporter.CourtRatings()); err != nil {
		h.log.Error("failed to write success response", "handler", "Ratings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	from, err := httputil.DateFromQuery(r, "from")
	if err != nil {
		h.writeError(w, "Revenue", err)
		return
	}
	to, err := httputil.DateFromQuery(r, "to")
	if err != nil {
		h.writeError(w, "Revenue", err)
		return
	}
	if from == nil || to == nil {
		h.writeError(w, "Revenue", apperrors.InvalidInput("from and to are required"))
		return
	}

	revenue, err := h.reporter.Revenue(*from, *to)
	if err != nil {
		h.writeError(w, "Revenue", err)
		return
	}
	count, err := h.reporter.BookingCounts(*from, *to)
	if err != nil {
		h.writeError(w, "Revenue", err)
		return
	}

	if err := httputil.WriteSuccess(w, RevenueResponse{
		From:         from.Format(model.DateLayout),
		To:           to.Format(model.DateLayout),
		Revenue:      revenue,
		BookingCount: count,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Revenue", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/ratings", h.Ratings)
	router.GET("/api/v1/reports/revenue", h.Revenue)
}
