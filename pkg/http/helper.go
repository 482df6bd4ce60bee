package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
)

// HeaderStudentID identifies the requesting student. Authentication happens
// upstream; this service trusts the header.
const HeaderStudentID = "X-Student-ID"

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// Paginate slices items according to limit and offset.
func Paginate[T any](items []T, limit int, offset int64) []T {
	if offset >= int64(len(items)) {
		return []T{}
	}
	end := offset + int64(limit)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[offset:end]
}

func StudentID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderStudentID))
	if id == "" {
		return "", apperrors.Unauthorized(fmt.Sprintf("missing %s header", HeaderStudentID))
	}
	return id, nil
}

func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.InvalidInput("Invalid request body").WithDetails(map[string]any{
			"error": err.Error(),
		})
	}
	return nil
}

// IntervalFromQuery reads date, start and end query parameters. It returns
// nil when none of them is set.
func IntervalFromQuery(r *http.Request) (*model.TimeInterval, error) {
	q := r.URL.Query()
	date, start, end := q.Get("date"), q.Get("start"), q.Get("end")
	if date == "" && start == "" && end == "" {
		return nil, nil
	}
	if date == "" || start == "" || end == "" {
		return nil, apperrors.InvalidInput("date, start and end must be given together")
	}
	interval, err := model.ParseTimeInterval(date, start, end)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error()).WithCause(err)
	}
	return &interval, nil
}

func DateFromQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", name, raw)).WithCause(err)
	}
	return &d, nil
}
