package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/internal/http/response"
)

// RegisterStudent handles student self-registration. No token is issued;
// the student logs in afterwards.
func (h *Handlers) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := h.authService.RegisterStudent(r.Context(), &req); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "account created, please log in", nil)
}

// Login authenticates any of the three roles against its identity class.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// SendOTP emails a fresh verification code to the authenticated student.
func (h *Handlers) SendOTP(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	if err := h.authService.SendOTP(r.Context(), claims.Sub); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "OTP sent to your registered email", nil)
}

// VerifyOTP checks the submitted code and flips the verification state.
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.authService.VerifyOTP(r.Context(), claims.Sub, req.OTP); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "account verified successfully", nil)
}
