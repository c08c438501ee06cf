package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest(t *testing.T) {
	startsAt := at(4, 9, 30)
	endsAt := at(4, 10, 30)

	tests := []struct {
		name     string
		req      CreateEventRequest
		field    string
		message  string
		hasError bool
	}{
		{
			name: "valid opening",
			req:  request(model.EventKindOpening, startsAt, endsAt, true),
		},
		{
			name:     "blank kind",
			req:      CreateEventRequest{StartsAt: &startsAt, EndsAt: &endsAt},
			field:    "kind",
			message:  "can't be blank",
			hasError: true,
		},
		{
			name:     "unknown kind",
			req:      CreateEventRequest{Kind: "meeting", StartsAt: &startsAt, EndsAt: &endsAt},
			field:    "kind",
			message:  "meeting is not valid. Should be one: opening OR appointment",
			hasError: true,
		},
		{
			name:     "missing starts_at",
			req:      CreateEventRequest{Kind: "opening", EndsAt: &endsAt},
			field:    "starts_at",
			message:  "can't be blank",
			hasError: true,
		},
		{
			name:     "missing ends_at",
			req:      CreateEventRequest{Kind: "appointment", StartsAt: &startsAt},
			field:    "ends_at",
			message:  "can't be blank",
			hasError: true,
		},
		{
			name:     "ends before start",
			req:      request(model.EventKindOpening, endsAt, startsAt, false),
			field:    "ends_at",
			message:  "must be after starts_at",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRequest(tt.req)
			if !tt.hasError {
				assert.False(t, errs.Any(), errs)
				return
			}
			require.True(t, errs.Has(tt.field), errs)
			assert.Contains(t, errs.Messages(tt.field), tt.message)
		})
	}
}

func TestDateRange_RejectsPartialSlots(t *testing.T) {
	e := newMemEngine(t)
	startsAt := at(4, 9, 30)

	errs := e.rejected(t, request(model.EventKindOpening, startsAt, startsAt.Add(10*time.Minute+10*time.Second), false))
	assert.Equal(t, []string{MessageDateRange}, errs.Messages(FieldDateRange))

	errs = e.rejected(t, request(model.EventKindOpening, startsAt, startsAt.Add(45*time.Minute), false))
	assert.True(t, errs.Has(FieldDateRange))

	e.create(t, model.EventKindOpening, startsAt, startsAt.Add(90*time.Minute), false)
}

func TestConflictingSlots(t *testing.T) {
	e := newMemEngine(t)
	e.create(t, model.EventKindOpening, at(4, 9, 30), at(4, 12, 30), false)

	t.Run("overlapping opening", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindOpening, at(4, 11, 0), at(4, 13, 0), false))
		assert.Equal(t, []string{MessageConflictingSlots}, errs.Messages(FieldConflictingSlots))
	})

	t.Run("covering opening", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindOpening, at(4, 9, 0), at(4, 13, 0), false))
		assert.True(t, errs.Has(FieldConflictingSlots))
	})

	t.Run("opening ending where another begins", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindOpening, at(4, 9, 0), at(4, 9, 30), false))
		assert.Equal(t, []string{MessageConflictingSlots}, errs.Messages(FieldConflictingSlots))
	})

	t.Run("opening starting where another ends", func(t *testing.T) {
		e.create(t, model.EventKindOpening, at(4, 12, 30), at(4, 13, 30), false)
	})

	t.Run("another day", func(t *testing.T) {
		e.create(t, model.EventKindOpening, at(5, 9, 30), at(5, 12, 30), false)
	})
}

func TestConflictingSlots_Weekly(t *testing.T) {
	e := newMemEngine(t)
	e.create(t, model.EventKindOpening, at(4, 9, 30), at(4, 12, 30), true)

	// Следующий вторник пересекается с weekly слотами
	errs := e.rejected(t, request(model.EventKindOpening, at(11, 10, 0), at(11, 11, 0), false))
	assert.True(t, errs.Has(FieldConflictingSlots))

	// Среда свободна
	e.create(t, model.EventKindOpening, at(12, 10, 0), at(12, 11, 0), false)
}

func TestSlotsPresence(t *testing.T) {
	e := newMemEngine(t)
	e.create(t, model.EventKindOpening, at(4, 9, 30), at(4, 12, 30), false)

	t.Run("inside opening", func(t *testing.T) {
		appointment := e.create(t, model.EventKindAppointment, at(4, 10, 0), at(4, 11, 0), false)
		assert.False(t, appointment.WeeklyRecurring)
	})

	t.Run("outside opening", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindAppointment, at(4, 13, 0), at(4, 14, 0), false))
		assert.Equal(t, []string{MessageSlotsPresence}, errs.Messages(FieldSlotsPresence))
	})

	t.Run("partially outside opening", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindAppointment, at(4, 12, 0), at(4, 13, 0), false))
		assert.True(t, errs.Has(FieldSlotsPresence))
	})

	t.Run("already booked", func(t *testing.T) {
		errs := e.rejected(t, request(model.EventKindAppointment, at(4, 10, 30), at(4, 11, 0), false))
		assert.True(t, errs.Has(FieldSlotsPresence))
	})
}

func TestEventValidator_UnknownKind(t *testing.T) {
	booker := NewSlotBooker(nil, nil)
	v := NewEventValidator(booker)

	errs, err := v.Validate(context.Background(), newMemory(), &model.Event{Kind: "meeting"})
	require.NoError(t, err)
	assert.True(t, errs.Has(FieldKind))
}
