package http

import (
	"net/http"

	"spendwise/internal/core"
)

type profileRequest struct {
	Name          string   `json:"name"`
	FamilyMembers []string `json:"family_members"`
	Currency      string   `json:"currency"`
}

func (req profileRequest) toProfile() core.Profile {
	members := make([]string, 0, len(req.FamilyMembers))
	for _, m := range req.FamilyMembers {
		if clean := sanitizeInput(m); clean != "" {
			members = append(members, clean)
		}
	}
	return core.Profile{
		Name:          sanitizeInput(req.Name),
		FamilyMembers: members,
		Currency:      sanitizeInput(req.Currency),
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	profile, err := s.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileJSON(profile))
}

// handleCreateProfile is the one unauthenticated endpoint: it mints the user
// the X-User-ID header will refer to afterwards.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.profiles.Create(r.Context(), req.toProfile())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProfileJSON(created))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	updated, err := s.profiles.Update(r.Context(), userID, req.toProfile())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileJSON(updated))
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request, userID int64) {
	if err := s.profiles.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
