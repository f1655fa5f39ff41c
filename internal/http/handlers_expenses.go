package http

import (
	"net/http"
	"strings"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/export"
	"spendwise/internal/storage"
)

type expenseRequest struct {
	CategoryID      int64  `json:"category_id"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Spender         string `json:"spender"`
	PaymentMethodID int64  `json:"payment_method_id"`
}

func (req expenseRequest) toExpense() (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		CategoryID:      req.CategoryID,
		Amount:          core.Money{Cents: cents},
		Description:     sanitizeInput(req.Description),
		Date:            date,
		Spender:         sanitizeInput(req.Spender),
		PaymentMethodID: req.PaymentMethodID,
	}, nil
}

// expenseFilter builds the storage filter from query parameters. Invalid
// dates fail the request instead of silently widening the window.
func expenseFilter(r *http.Request) (storage.ExpenseFilter, error) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		return storage.ExpenseFilter{}, err
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		return storage.ExpenseFilter{}, err
	}
	return storage.ExpenseFilter{
		StartDate:       start,
		EndDate:         end,
		CategoryID:      int64(queryInt(r, "category_id", 0)),
		Spender:         strings.TrimSpace(r.URL.Query().Get("spender")),
		PaymentMethodID: int64(queryInt(r, "payment_method_id", 0)),
	}, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := expenseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.expenses.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseListJSON(expenses))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	expense, err := s.expenses.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(expense))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	expense, err := req.toExpense()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.expenses.Create(r.Context(), userID, expense)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logs.LogExpenseCreated(r.Context(), created.Description, created.Amount.Cents,
		created.CategoryName, created.Spender)
	s.invalidateReports(userID)
	writeJSON(w, http.StatusCreated, toExpenseJSON(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req expenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	expense, err := req.toExpense()
	if err != nil {
		writeError(w, r, err)
		return
	}
	expense.ID = id

	updated, err := s.expenses.Update(r.Context(), userID, expense)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	writeJSON(w, http.StatusOK, toExpenseJSON(updated))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.expenses.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	w.WriteHeader(http.StatusNoContent)
}

// handleExportCSV streams the user's (optionally filtered) expenses as a CSV
// download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request, userID int64) {
	filter, err := expenseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.expenses.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.Filename(core.NewDate(time.Now()))+`"`)
	if err := export.WriteCSV(w, expenses); err != nil {
		// Headers are already gone; nothing to do but log.
		writeError(w, r, err)
	}
}
