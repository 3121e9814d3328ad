package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/response"
)

// CreateLog records an entry/exit event for a scanned credential. The
// guard's client declares the action; every scan becomes its own row.
func (h *Handlers) CreateLog(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	var req domain.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := h.gateLogService.Record(r.Context(), claims.Sub, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "log recorded: "+event.Action, event)
}

// GetLogsByRoll lists one student's events, newest first (admin only).
func (h *Handlers) GetLogsByRoll(w http.ResponseWriter, r *http.Request) {
	rollNumber := r.URL.Query().Get("rollNumber")

	list, err := h.gateLogService.ListByRoll(r.Context(), rollNumber)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "", list)
}

// GetAllLogs lists every event, newest first (admin only).
func (h *Handlers) GetAllLogs(w http.ResponseWriter, r *http.Request) {
	list, err := h.gateLogService.ListAll(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "", list)
}

// GetTodayStats returns entry/exit counts for the server-local day.
func (h *Handlers) GetTodayStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gateLogService.TodayStats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}
