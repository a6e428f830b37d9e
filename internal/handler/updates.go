package handler

import (
	"log/slog"
	"net/http"

	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/updates"
)

type UpdatesHandler struct {
	tracker *updates.Tracker
	logger  *slog.Logger
}

func NewUpdatesHandler(tracker *updates.Tracker, logger *slog.Logger) *UpdatesHandler {
	return &UpdatesHandler{tracker: tracker, logger: logger}
}

// Status reports whether the "what's new" banner should show.
func (h *UpdatesHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":         updates.CurrentVersion,
		"has_new_updates": h.tracker.HasNewUpdates(),
	})
}

// Acknowledge clears the banner.
func (h *UpdatesHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Acknowledge(); err != nil {
		h.logger.Error("acknowledge updates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to acknowledge updates")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForDate returns a date's per-category change log, newest first.
func (h *UpdatesHandler) ForDate(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	entries := h.tracker.CategoryUpdates(date)
	if entries == nil {
		entries = []model.CategoryUpdate{}
	}
	writeJSON(w, http.StatusOK, entries)
}
