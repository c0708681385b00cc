package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"voidchat/internal/chat"
	"voidchat/internal/model"
	"voidchat/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, model.APIError{
		Error:      title,
		Message:    message,
		StatusCode: status,
	})
}

// writeServiceError maps the service error taxonomy onto the wire envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "Validation Error", err.Error())
	case errors.Is(err, service.ErrAuthentication):
		writeError(w, http.StatusForbidden, "Authentication Error", "Please log in to continue chatting")
	case errors.Is(err, chat.ErrConversationNotFound):
		writeError(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, chat.ErrLastConversation),
		errors.Is(err, chat.ErrQueryInFlight):
		writeError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, service.ErrBackend), errors.Is(err, service.ErrNetwork):
		writeError(w, http.StatusBadGateway, "Backend Error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process request")
	}
}
