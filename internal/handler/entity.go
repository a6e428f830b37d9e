package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harborlight/dayroster/internal/entity"
	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/websocket"
)

// EntityHandler serves the reference lists. Each list is read and replaced
// wholesale — the facility edits a handful of rows on a settings screen.
type EntityHandler struct {
	entities *entity.Store
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewEntityHandler(entities *entity.Store, hub *websocket.Hub, logger *slog.Logger) *EntityHandler {
	return &EntityHandler{entities: entities, hub: hub, logger: logger}
}

func (h *EntityHandler) broadcast(entityName string) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage(entityName, "updated", "", nil))
	}
}

func (h *EntityHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.entities.LoadStaff())
}

func (h *EntityHandler) ReplaceStaff(w http.ResponseWriter, r *http.Request) {
	var list []model.Staff
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		if list[i].Name == "" {
			writeError(w, http.StatusBadRequest, "staff name is required")
			return
		}
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
		}
	}
	if err := h.entities.SaveStaff(list); err != nil {
		h.logger.Error("save staff", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save staff")
		return
	}
	h.broadcast("staff")
	writeJSON(w, http.StatusOK, list)
}

func (h *EntityHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.entities.LoadParticipants())
}

func (h *EntityHandler) ReplaceParticipants(w http.ResponseWriter, r *http.Request) {
	var list []model.Participant
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		if list[i].Name == "" {
			writeError(w, http.StatusBadRequest, "participant name is required")
			return
		}
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
		}
	}
	if err := h.entities.SaveParticipants(list); err != nil {
		h.logger.Error("save participants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save participants")
		return
	}
	h.broadcast("participants")
	writeJSON(w, http.StatusOK, list)
}

func (h *EntityHandler) ListChores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.entities.LoadChores())
}

func (h *EntityHandler) ReplaceChores(w http.ResponseWriter, r *http.Request) {
	var list []model.Chore
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		if list[i].Name == "" {
			writeError(w, http.StatusBadRequest, "chore name is required")
			return
		}
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
		}
	}
	if err := h.entities.SaveChores(list); err != nil {
		h.logger.Error("save chores", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save chores")
		return
	}
	h.broadcast("chores")
	writeJSON(w, http.StatusOK, list)
}

func (h *EntityHandler) ListChecklist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.entities.LoadChecklist())
}

func (h *EntityHandler) ReplaceChecklist(w http.ResponseWriter, r *http.Request) {
	var list []model.ChecklistItem
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		if list[i].Name == "" {
			writeError(w, http.StatusBadRequest, "checklist item name is required")
			return
		}
		if list[i].ID == "" {
			list[i].ID = uuid.NewString()
		}
	}
	if err := h.entities.SaveChecklist(list); err != nil {
		h.logger.Error("save checklist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save checklist")
		return
	}
	h.broadcast("checklist")
	writeJSON(w, http.StatusOK, list)
}

func (h *EntityHandler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.DefaultTimeSlots())
}
