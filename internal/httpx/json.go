// Package httpx holds the JSON response plumbing shared by all handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stocklog/inventory-service/internal/apperr"
)

type errorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError maps the error taxonomy onto HTTP statuses. Storage and
// unknown errors are reported generically so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	var e *apperr.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case apperr.KindValidation:
			status, msg = http.StatusBadRequest, e.Msg
		case apperr.KindUnauthorized:
			status, msg = http.StatusUnauthorized, e.Msg
		case apperr.KindForbidden:
			status, msg = http.StatusForbidden, e.Msg
		case apperr.KindNotFound:
			status, msg = http.StatusNotFound, e.Msg
		case apperr.KindConflict:
			status, msg = http.StatusConflict, e.Msg
		}
	}

	WriteJSON(w, status, errorResponse{Error: msg, Success: false})
}
