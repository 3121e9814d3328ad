package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/response"
)

// RegisterEmployee creates a guard or admin account (admin only).
func (h *Handlers) RegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := h.directoryService.RegisterEmployee(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, summary.Role+" registered successfully", summary)
}

// GetEmployees lists guard or admin accounts by the role query parameter.
func (h *Handlers) GetEmployees(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		response.Error(w, http.StatusBadRequest, "role is required (guard or admin)")
		return
	}

	summaries, err := h.directoryService.ListEmployees(r.Context(), role)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "", summaries)
}
