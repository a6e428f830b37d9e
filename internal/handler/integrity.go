package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/harborlight/dayroster/internal/integrity"
	"github.com/harborlight/dayroster/internal/websocket"
)

type IntegrityHandler struct {
	checker *integrity.Checker
	hub     *websocket.Hub
	logger  *slog.Logger
}

func NewIntegrityHandler(checker *integrity.Checker, hub *websocket.Hub, logger *slog.Logger) *IntegrityHandler {
	return &IntegrityHandler{checker: checker, hub: hub, logger: logger}
}

// Check reports every persisted blob that no longer decodes.
func (h *IntegrityHandler) Check(w http.ResponseWriter, r *http.Request) {
	issues := h.checker.Check()
	if issues == nil {
		issues = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": len(issues) == 0,
		"issues":  issues,
	})
}

// Reset wipes all stored data back to defaults. Guarded by the admin PIN
// when one is configured.
func (h *IntegrityHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.checker.VerifyAdminPIN(req.PIN); err != nil {
		if errors.Is(err, integrity.ErrWrongPIN) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		h.logger.Error("verify admin pin", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to verify PIN")
		return
	}

	if err := h.checker.Reset(); err != nil {
		h.logger.Error("reset storage", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset data")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("storage", "reset", "", nil))
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPIN configures or clears the admin PIN gating Reset.
func (h *IntegrityHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.checker.SetAdminPIN(req.PIN); err != nil {
		h.logger.Error("set admin pin", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
