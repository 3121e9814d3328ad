package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/response"
)

// GetProfile returns the student record minus the secret and OTP fields
// (those never serialize; see the domain struct tags).
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	student, err := h.studentService.Profile(r.Context(), claims.Sub)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "", student)
}

// CompleteProfile stores the profile fields and issues the QR credential.
// One-shot: a second call gets a conflict.
func (h *Handlers) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	var req domain.CompleteProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	student, err := h.studentService.CompleteProfile(r.Context(), claims.Sub, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "profile completed successfully", student)
}
