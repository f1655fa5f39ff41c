package http

import (
	"net/http"
	"strings"
	"time"

	"spendwise/internal/core"
)

type recurringRequest struct {
	CategoryID      int64  `json:"category_id"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	Spender         string `json:"spender"`
	PaymentMethodID int64  `json:"payment_method_id"`
	Frequency       string `json:"frequency"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

func (req recurringRequest) toRecurring() (core.RecurringExpense, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.RecurringExpense{}, err
	}
	start, err := core.ParseDate(strings.TrimSpace(req.StartDate))
	if err != nil {
		return core.RecurringExpense{}, err
	}
	var end core.Date
	if strings.TrimSpace(req.EndDate) != "" {
		end, err = core.ParseDate(strings.TrimSpace(req.EndDate))
		if err != nil {
			return core.RecurringExpense{}, err
		}
	}
	return core.RecurringExpense{
		CategoryID:      req.CategoryID,
		Amount:          core.Money{Cents: cents},
		Description:     sanitizeInput(req.Description),
		Spender:         sanitizeInput(req.Spender),
		PaymentMethodID: req.PaymentMethodID,
		Frequency:       core.Frequency(strings.ToLower(strings.TrimSpace(req.Frequency))),
		StartDate:       start,
		EndDate:         end,
	}, nil
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	templates, err := s.recurring.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringListJSON(templates))
}

// handlePendingRecurring lists the templates awaiting confirmation. The
// today parameter exists for clients in other time zones; it defaults to the
// server's date.
func (s *Server) handlePendingRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	today, err := queryDate(r, "today")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if today.IsZero() {
		today = core.NewDate(time.Now())
	}
	pending, err := s.recurring.Pending(r.Context(), userID, today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringListJSON(pending))
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	re, err := s.recurring.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(re))
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	re, err := req.toRecurring()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.recurring.Create(r.Context(), userID, re)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecurringJSON(created))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req recurringRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	re, err := req.toRecurring()
	if err != nil {
		writeError(w, r, err)
		return
	}
	re.ID = id
	updated, err := s.recurring.Update(r.Context(), userID, re)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(updated))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.recurring.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleConfirmRecurring records the due occurrence as a real expense and
// advances the template. The expense insert and the advance are separate
// statements; if the advance fails the expense is already on the books, so
// the handler reports the failure but keeps the 201 out of the response.
func (s *Server) handleConfirmRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	expense, err := s.recurring.Confirm(r.Context(), userID, id)
	if err != nil {
		if expense.ID != 0 {
			// Expense recorded, template stuck. The next pending poll
			// will surface the template again.
			s.invalidateReports(userID)
		}
		writeError(w, r, err)
		return
	}

	s.invalidateReports(userID)
	writeJSON(w, http.StatusCreated, toExpenseJSON(expense))
}

func (s *Server) handleSkipRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.recurring.Skip(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	re, err := s.recurring.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(re))
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	re, err := s.recurring.ToggleActive(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecurringJSON(re))
}
