package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/service"
	"go.uber.org/zap"
)

// EventService создание событий
type EventService interface {
	Create(ctx context.Context, req service.CreateEventRequest) (*model.Event, error)
}

// AvailabilityService расчёт свободных слотов
type AvailabilityService interface {
	Availabilities(ctx context.Context, startsAt time.Time) ([]model.DayAvailability, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	events       EventService
	availability AvailabilityService
	loc          *time.Location
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	events EventService,
	availability AvailabilityService,
	loc *time.Location,
	logger *zap.Logger,
) *Handlers {
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
