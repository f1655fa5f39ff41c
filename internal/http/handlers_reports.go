package http

import (
	"fmt"
	"net/http"

	"spendwise/internal/core"
	"spendwise/internal/services"
)

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request, userID int64) {
	year, month := queryYearMonth(r)
	if month < 1 || month > 12 {
		writeJSONError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	key := fmt.Sprintf("u%d:monthly:%04d-%02d", userID, year, month)
	if summary, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.reports.MonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRangeSummary(w http.ResponseWriter, r *http.Request, userID int64) {
	start, end, ok := requireRange(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("u%d:range:%s:%s", userID, start, end)
	if summary, found := s.summaryCache.Get(key); found {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.reports.DateRangeSummary(r.Context(), userID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBySpender(w http.ResponseWriter, r *http.Request, userID int64) {
	start, end, ok := requireRange(w, r)
	if !ok {
		return
	}
	totals, err := s.reports.BySpender(r.Context(), userID, start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// handleCategoryTrend returns the per-category monthly matrix for the last N
// months (default 6, capped at 24).
func (s *Server) handleCategoryTrend(w http.ResponseWriter, r *http.Request, userID int64) {
	months := queryInt(r, "months", 6)
	if months < 1 {
		months = 1
	}
	if months > 24 {
		months = 24
	}

	key := fmt.Sprintf("u%d:trend:%d", userID, months)
	if trend, ok := s.trendCache.Get(key); ok {
		writeJSON(w, http.StatusOK, trend)
		return
	}

	trend, err := s.reports.CategoryTrend(r.Context(), userID, months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.trendCache.Set(key, trend)
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID int64) {
	dashboard, err := s.reports.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardPayload(dashboard))
}

// dashboardPayload swaps the raw expense structs for their wire shape; the
// aggregate types already serialize cleanly.
func dashboardPayload(d services.Dashboard) map[string]any {
	return map[string]any{
		"month":         d.Month,
		"average_daily": d.AverageDaily,
		"daily":         d.Daily,
		"recent":        toExpenseListJSON(d.Recent),
	}
}

// requireRange reads mandatory start_date and end_date parameters and rejects
// inverted windows.
func requireRange(w http.ResponseWriter, r *http.Request) (start, end core.Date, ok bool) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, r, err)
		return "", "", false
	}
	end, err = queryDate(r, "end_date")
	if err != nil {
		writeError(w, r, err)
		return "", "", false
	}
	if start.IsZero() || end.IsZero() {
		writeJSONError(w, http.StatusBadRequest, "start_date and end_date are required")
		return "", "", false
	}
	if end.Before(start) {
		writeJSONError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return "", "", false
	}
	return start, end, true
}
