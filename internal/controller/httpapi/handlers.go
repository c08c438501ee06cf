package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// EventService создание и чтение событий
type EventService interface {
	Create(ctx context.Context, req service.CreateEventRequest) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.EventDetails, error)
}

// AvailabilityService расчёт свободных слотов
type AvailabilityService interface {
	Availabilities(ctx context.Context, startsAt time.Time) ([]model.DayAvailability, error)
}

type Handlers struct {
	events       EventService
	availability AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

func NewHandlers(events EventService, availability AvailabilityService, loc *time.Location, logger *zap.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		events:       events,
		availability: availability,
		loc:          loc,
		logger:       logger,
	}
}

// CreateEvent POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, "body", "is not valid JSON")
		return
	}

	event, err := h.events.Create(r.Context(), req)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// GetEvent GET /api/v1/events/{id}
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeBadRequest(w, "id", "must be a positive integer")
		return
	}

	details, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// GetAvailabilities GET /api/v1/availabilities?starts_at=
func (h *Handlers) GetAvailabilities(w http.ResponseWriter, r *http.Request) {
	startsAt, err := ParseStartsAt(r.URL.Query().Get("starts_at"), h.loc)
	if err != nil {
		writeBadRequest(w, "starts_at", err.Error())
		return
	}

	days, err := h.availability.Availabilities(r.Context(), startsAt)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	// Дата в прошлом: пустой список
	if days == nil {
		days = []model.DayAvailability{}
	}

	writeJSON(w, http.StatusOK, days)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ParseStartsAt принимает RFC3339 или дату YYYY-MM-DD (полночь в loc)
func ParseStartsAt(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errBlankStartsAt
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidStartsAt
}

type parseError string

func (e parseError) Error() string { return string(e) }

const (
	errBlankStartsAt   = parseError("can't be blank")
	errInvalidStartsAt = parseError("must be RFC3339 or YYYY-MM-DD")
)
