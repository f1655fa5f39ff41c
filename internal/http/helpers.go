package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
)

// maxBodyBytes caps JSON request bodies. Expense payloads are tiny; anything
// bigger is abuse.
const maxBodyBytes = 1 << 20

// userHandler is a handler that runs on behalf of an authenticated user.
// Authentication itself happens upstream (reverse proxy); the server trusts
// the X-User-ID header it injects.
type userHandler func(w http.ResponseWriter, r *http.Request, userID int64)

func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if raw == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing X-User-ID header")
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			writeJSONError(w, http.StatusUnauthorized, "invalid X-User-ID header")
			return
		}
		next(w, r, userID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode JSON response", "error", err)
		}
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps domain errors to HTTP statuses. Validation problems are
// 422, missing rows 404, reference conflicts 409.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrCategoryInUse),
		errors.Is(err, core.ErrPaymentMethodInUse):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrDefaultImmutable):
		writeJSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrMissingSpender),
		errors.Is(err, core.ErrMissingPaymentMethod),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrEndBeforeStart):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

// pathID extracts the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryDate reads an optional yyyy-MM-dd query parameter.
func queryDate(r *http.Request, key string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return "", nil
	}
	return core.ParseDate(v)
}

// queryInt reads an optional integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryYearMonth reads year and month parameters, defaulting to the current
// calendar month.
func queryYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = queryInt(r, "year", now.Year())
	month = queryInt(r, "month", int(now.Month()))
	return year, month
}

// sanitizeInput strips control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
