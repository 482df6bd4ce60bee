package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courtbook/internal/courts/service"
	"courtbook/internal/courts/validator"
	"courtbook/pkg/config"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

func newTestRouter(t *testing.T) (*httprouter.Router, service.Registry) {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard()}
	registry := service.NewRegistry(cfg, validator.NewCourtValidator(cfg.Log))

	router := httprouter.New()
	NewCourtHandler(registry, cfg.Log).RegisterRoutes(router)
	return router, registry
}

func TestCourtHandler_CreateAndGet(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"id":"C7","category":"doubles","status":"available"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courts/id/C7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	var resp struct {
		Data model.Court `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Category != model.CategoryDoubles {
		t.Errorf("unexpected court %+v", resp.Data)
	}
}

func TestCourtHandler_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown court", http.MethodGet, "/api/v1/courts/id/none", "", http.StatusNotFound},
		{"malformed body", http.MethodPost, "/api/v1/courts", "{", http.StatusBadRequest},
		{"invalid category", http.MethodPost, "/api/v1/courts", `{"id":"C1","category":"tennis"}`, http.StatusUnprocessableEntity},
		{"status of unknown court", http.MethodPatch, "/api/v1/courts/id/none/status", `{"status":"unavailable"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCourtHandler_UpdateStatus(t *testing.T) {
	router, registry := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/courts", strings.NewReader(`{"id":"C1","category":"singles"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/courts/id/C1/status", strings.NewReader(`{"status":"unavailable"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}

	c, _ := registry.Find("C1")
	if c.Status != model.CourtUnavailable {
		t.Errorf("expected unavailable, got %s", c.Status)
	}
}
