package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"go.uber.org/zap"
)

// EventService создаёт события и отдаёт их вместе со слотами
type EventService struct {
	store     repository.Store
	validator *EventValidator
	generator *SlotGenerator
	booker    *SlotBooker
	cache     AvailabilityCache
	loc       *time.Location
	logger    *zap.Logger
}

func NewEventService(
	store repository.Store,
	validator *EventValidator,
	generator *SlotGenerator,
	booker *SlotBooker,
	cache AvailabilityCache,
	loc *time.Location,
	logger *zap.Logger,
) *EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		store:     store,
		validator: validator,
		generator: generator,
		booker:    booker,
		cache:     cache,
		loc:       loc,
		logger:    logger,
	}
}

// Create проверяет и сохраняет событие. Opening нарезается на слоты,
// appointment бронирует подходящие слоты. Всё в одной транзакции.
// Нарушения правил возвращаются как model.ValidationErrors
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*model.Event, error) {
	if errs := ValidateRequest(req); errs.Any() {
		return nil, errs
	}

	event := &model.Event{
		Kind:            model.EventKind(req.Kind),
		StartsAt:        req.StartsAt.In(s.loc),
		EndsAt:          req.EndsAt.In(s.loc),
		WeeklyRecurring: req.WeeklyRecurring,
	}
	// Appointment не бывает weekly
	if event.IsAppointment() {
		event.WeeklyRecurring = false
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		errs, err := s.validator.Validate(ctx, tx, event)
		if err != nil {
			return err
		}
		if errs.Any() {
			return errs
		}

		if err := tx.Events().Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}

		switch event.Kind {
		case model.EventKindOpening:
			_, err = s.generator.Generate(ctx, tx, event)
		case model.EventKindAppointment:
			err = s.booker.Book(ctx, tx, event)
		}
		return err
	})
	if err != nil {
		var verrs model.ValidationErrors
		if !errors.As(err, &verrs) {
			s.logger.Error("Failed to create event",
				zap.String("kind", string(event.Kind)),
				zap.Time("starts_at", event.StartsAt),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate availability cache", zap.Error(err))
		}
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.String("kind", string(event.Kind)),
		zap.Time("starts_at", event.StartsAt),
		zap.Time("ends_at", event.EndsAt),
		zap.Bool("weekly", event.WeeklyRecurring),
	)

	return event, nil
}

// GetByID возвращает событие и его слоты: нарезанные для opening,
// забронированные для appointment
func (s *EventService) GetByID(ctx context.Context, id int64) (*model.EventDetails, error) {
	event, err := s.store.Events().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, model.ErrEventNotFound
	}

	var slots []*model.Slot
	if event.IsOpening() {
		slots, err = s.store.Slots().GetByOpeningID(ctx, id)
	} else {
		slots, err = s.store.AppointmentSlots().GetSlotsByAppointmentID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get event slots: %w", err)
	}

	return &model.EventDetails{Event: event, Slots: slots}, nil
}
