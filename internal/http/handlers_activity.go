package http

import (
	"net/http"
	"strings"

	"spendwise/internal/storage"
)

// handleListActivity returns one page of the user's audit timeline, newest
// first. The trail is written asynchronously by the activity worker, so very
// recent mutations may lag by a moment.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request, userID int64) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	filter := storage.ActivityFilter{
		EntityType: strings.TrimSpace(r.URL.Query().Get("entity_type")),
		Action:     strings.TrimSpace(r.URL.Query().Get("action")),
	}

	entries, err := s.activity.List(r.Context(), userID, filter, page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]activityJSON, len(entries))
	for i, a := range entries {
		out[i] = toActivityJSON(a)
	}
	writeJSON(w, http.StatusOK, out)
}
