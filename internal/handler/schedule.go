package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harborlight/dayroster/internal/model"
	"github.com/harborlight/dayroster/internal/schedule"
	"github.com/harborlight/dayroster/internal/websocket"
)

type ScheduleHandler struct {
	schedules *schedule.Store
	hub       *websocket.Hub
	logger    *slog.Logger
}

func NewScheduleHandler(schedules *schedule.Store, hub *websocket.Hub, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, hub: hub, logger: logger}
}

func (h *ScheduleHandler) broadcast(action, date string) {
	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage("schedule", action, date, nil))
	}
}

type createScheduleRequest struct {
	Date                    string             `json:"date"`
	WorkingStaffIDs         []string           `json:"working_staff_ids"`
	AttendingParticipantIDs []string           `json:"attending_participant_ids"`
	Assignments             []model.Assignment `json:"assignments"`
	FinalChecklistStaffID   string             `json:"final_checklist_staff_id"`
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !datePattern.MatchString(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sched, err := h.schedules.Create(req.Date, req.WorkingStaffIDs, req.AttendingParticipantIDs, req.Assignments, req.FinalChecklistStaffID)
	if err != nil {
		h.logger.Error("create schedule", "date", req.Date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create schedule")
		return
	}

	h.broadcast("created", sched.Date)
	writeJSON(w, http.StatusCreated, sched)
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	sched, err := h.schedules.GetForDate(date)
	if err != nil {
		h.logger.Error("get schedule", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get schedule")
		return
	}
	if sched == nil {
		writeError(w, http.StatusNotFound, "no schedule for date")
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.schedules.List()
	if err != nil {
		h.logger.Error("list schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list schedules")
		return
	}
	if all == nil {
		all = []model.Schedule{}
	}
	writeJSON(w, http.StatusOK, all)
}

// UpdateCategory persists a whole schedule after one category was edited.
// The client sends the full aggregate back; partial patches do not exist.
func (h *ScheduleHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	var sched model.Schedule
	if err := json.NewDecoder(r.Body).Decode(&sched); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if sched.Date != date {
		writeError(w, http.StatusBadRequest, "schedule date does not match URL")
		return
	}

	if err := h.schedules.UpdateCategory(cat, &sched); err != nil {
		h.logger.Error("update schedule category", "date", date, "category", cat.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update schedule")
		return
	}

	h.broadcast(cat.String()+"_updated", date)
	writeJSON(w, http.StatusOK, sched)
}
