package http

import (
	"errors"
	"net/http"

	"spendwise/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, userID int64) {
	categories, err := s.categories.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = toCategoryJSON(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, userID int64) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.categories.Create(r.Context(), userID, core.Category{
		Name:  sanitizeInput(req.Name),
		Icon:  sanitizeInput(req.Icon),
		Color: sanitizeInput(req.Color),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.categories.Update(r.Context(), userID, core.Category{
		ID:    id,
		Name:  sanitizeInput(req.Name),
		Icon:  sanitizeInput(req.Icon),
		Color: sanitizeInput(req.Color),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// A rename changes the denormalized name on every report bucket.
	s.invalidateReports(userID)
	writeJSON(w, http.StatusOK, toCategoryJSON(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.categories.Delete(r.Context(), userID, id); err != nil {
		// Tell the client how many expenses block the delete, so it can
		// say "reassign these N first" instead of a bare conflict.
		if errors.Is(err, core.ErrCategoryInUse) {
			if count, cntErr := s.categories.ExpenseCount(r.Context(), id); cntErr == nil {
				writeJSON(w, http.StatusConflict, map[string]any{
					"error":         err.Error(),
					"expense_count": count,
				})
				return
			}
		}
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type paymentMethodRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request, userID int64) {
	methods, err := s.payments.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]paymentMethodJSON, len(methods))
	for i, pm := range methods {
		out[i] = toPaymentMethodJSON(pm)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request, userID int64) {
	var req paymentMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.payments.Create(r.Context(), userID, sanitizeInput(req.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentMethodJSON(created))
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request, userID int64) {
	id, err := pathID(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.payments.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
