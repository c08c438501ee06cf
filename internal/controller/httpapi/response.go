package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string              `json:"error,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError переводит ошибку сервиса в HTTP статус
func writeError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var verrs model.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: verrs.ByField()})
	case errors.Is(err, model.ErrSlotAlreadyBooked):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrEventNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeBadRequest(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Errors: map[string][]string{field: {message}}})
}
