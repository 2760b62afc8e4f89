package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aradsms/phonebook_api/internal/phonebook_service/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

type messageData struct {
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

func respondSuccess(w http.ResponseWriter, code int, data any) {
	respondWithJSON(w, code, envelope{Status: statusSuccess, Data: data})
}

func respondWithFieldErrors(w http.ResponseWriter, fields map[string]string) {
	respondWithJSON(w, http.StatusBadRequest, envelope{Status: statusError, Data: fields})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, envelope{Status: statusError, Data: messageData{Message: message}})
}

func respondNotFound(w http.ResponseWriter) {
	respondWithError(w, http.StatusNotFound, "Phonebook item not found")
}

// writeError maps service errors to HTTP responses.
func (h *PhonebookItemHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithFieldErrors(w, verr.Fields)
	case errors.Is(err, domain.ErrDuplicatePhoneNumber):
		respondWithFieldErrors(w, map[string]string{"phone_number": domain.MsgPhoneNumberTaken})
	case errors.Is(err, domain.ErrNotFound):
		respondNotFound(w)
	default:
		h.logger.ErrorContext(r.Context(), "Request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
