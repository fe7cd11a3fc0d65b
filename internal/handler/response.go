package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Vennela009/task-management-api/internal/model"
	"github.com/Vennela009/task-management-api/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto the wire. Anything unclassified is
// a persistence or internal fault: the client sees a generic message and the
// detail goes to the server log.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.HTTPStatus, model.ErrorResponse{Error: apiErr.Message})
	case errors.Is(err, model.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized - Invalid username or password"})
	case errors.Is(err, model.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized - Invalid token"})
	case errors.Is(err, model.ErrUserAlreadyExists):
		writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: "Username already exists"})
	case errors.Is(err, model.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "User not found"})
	case errors.Is(err, model.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, model.MessageResponse{Message: "Task not found"})
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "Invalid input"})
	default:
		slog.Error("internal error", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: "Internal Server Error"})
	}
}
