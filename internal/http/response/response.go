// Package response writes the JSON envelopes the mobile client expects:
// {"success": true, ...} on success and {"success": false, "message": ...}
// on failure.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iiitbh/gatepass/internal/domain"
	"github.com/iiitbh/gatepass/pkg/logger"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, envelope{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, envelope{Success: false, Message: message})
}

// FromError maps a service error onto the HTTP taxonomy. Anything that is
// not an expected condition surfaces as a 500 with a generic message.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMissingCode),
		errors.Is(err, domain.ErrInvalidCode):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotVerified):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrRollNumberTaken),
		errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrAlreadyVerified):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTooManyRequests):
		Error(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		Error(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("internal error", "error", err)
		Error(w, http.StatusInternalServerError, "something went wrong, please try again later")
	}
}
