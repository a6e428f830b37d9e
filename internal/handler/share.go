package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/harborlight/dayroster/internal/schedule"
	"github.com/harborlight/dayroster/internal/share"
	"github.com/harborlight/dayroster/internal/websocket"
)

type ShareHandler struct {
	sharing   *share.Service
	schedules *schedule.Store
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewShareHandler(sharing *share.Service, schedules *schedule.Store, hub *websocket.Hub, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{sharing: sharing, schedules: schedules, hub: hub, logger: logger}
}

func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !datePattern.MatchString(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sched, err := h.schedules.GetForDate(req.Date)
	if err != nil {
		h.logger.Error("load schedule for sharing", "date", req.Date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}
	if sched == nil {
		writeError(w, http.StatusNotFound, "no schedule for date")
		return
	}

	code, err := h.sharing.Share(*sched)
	if err != nil {
		h.logger.Error("share schedule", "date", req.Date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to share schedule")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

func (h *ShareHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !datePattern.MatchString(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sched, err := h.sharing.Import(req.Code, req.Date)
	switch {
	case errors.Is(err, share.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, share.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, share.ErrExpired):
		writeError(w, http.StatusGone, err.Error())
		return
	case err != nil:
		h.logger.Error("import schedule", "code", req.Code, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import schedule")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("schedule", "imported", sched.Date, nil))
	}
	writeJSON(w, http.StatusOK, sched)
}
