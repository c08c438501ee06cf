package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
)

const (
	FieldKind             = "kind"
	FieldDateRange        = "date_range"
	FieldConflictingSlots = "conflicting_slots"
	FieldSlotsPresence    = "slots_presence"
)

const (
	MessageDateRange = "Date range (from 'start_at' to 'ends_at') " +
		"should consist of pieces 30 minutes each."
	MessageConflictingSlots = "You can't create event. Please pick another 'start_at' end" +
		"'ends_at' during opening creation + weekly mark."
	MessageSlotsPresence = "Date range (from 'start_at' to 'ends_at') you specified for the appointment is not valid. " +
		"Please pick 'start_at' to 'ends_at' which fits available slots."
)

// EventValidator проверяет правила сетки слотов перед сохранением события
type EventValidator struct {
	booker *SlotBooker
}

func NewEventValidator(booker *SlotBooker) *EventValidator {
	return &EventValidator{booker: booker}
}

// Validate собирает все нарушения для события. Ошибка возвращается
// только при сбое хранилища
func (v *EventValidator) Validate(ctx context.Context, store repository.Store, event *model.Event) (model.ValidationErrors, error) {
	var errs model.ValidationErrors

	switch event.Kind {
	case model.EventKindOpening:
		v.validateDateRange(event, &errs)
		if err := v.validateConflictingSlots(ctx, store, event, &errs); err != nil {
			return nil, err
		}
	case model.EventKindAppointment:
		if err := v.validateSlotsPresence(ctx, store, event, &errs); err != nil {
			return nil, err
		}
	default:
		errs.Add(FieldKind, fmt.Sprintf("%s is not valid", event.Kind))
	}

	return errs, nil
}

// validateDateRange: длительность opening'а должна быть целым положительным числом слотов
func (v *EventValidator) validateDateRange(event *model.Event, errs *model.ValidationErrors) {
	if !timeutil.IsWholeSlotCount(event.Duration()) {
		errs.Add(FieldDateRange, MessageDateRange)
	}
}

// validateConflictingSlots: opening не должен пересекаться с уже созданными слотами,
// ни по дате, ни с weekly слотами того же дня недели
func (v *EventValidator) validateConflictingSlots(ctx context.Context, store repository.Store, event *model.Event, errs *model.ValidationErrors) error {
	opened, err := store.Slots().OpenedBetweenDate(ctx, event.StartsAt, event.EndsAt)
	if err != nil {
		return fmt.Errorf("check conflicting slots: %w", err)
	}

	if len(opened) > 0 {
		errs.Add(FieldConflictingSlots, MessageConflictingSlots)
		return nil
	}

	weekly, err := store.Slots().FindWeekly(ctx, event.StartsAtSeconds(), event.EndsAtSeconds(), event.DayOfWeek())
	if err != nil {
		return fmt.Errorf("check conflicting weekly slots: %w", err)
	}

	if len(weekly) > 0 {
		errs.Add(FieldConflictingSlots, MessageConflictingSlots)
	}

	return nil
}

// validateSlotsPresence: каждой отметке времени appointment'а должен
// соответствовать доступный слот
func (v *EventValidator) validateSlotsPresence(ctx context.Context, store repository.Store, event *model.Event, errs *model.ValidationErrors) error {
	available, err := v.booker.AvailableSlots(ctx, store, event)
	if err != nil {
		return fmt.Errorf("check slots presence: %w", err)
	}

	marks := event.TimeMarks()
	if len(marks) != len(matchingMarks(available, marks)) {
		errs.Add(FieldSlotsPresence, MessageSlotsPresence)
	}

	return nil
}
