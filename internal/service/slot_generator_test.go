package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSlots_TilesOpening(t *testing.T) {
	opening := &model.Event{
		ID:       3,
		Kind:     model.EventKindOpening,
		StartsAt: at(4, 9, 30),
		EndsAt:   at(4, 12, 30),
	}

	slots := PlanSlots(opening)
	require.Len(t, slots, 6)

	for i, slot := range slots {
		expected := opening.StartsAt.Add(time.Duration(i) * 30 * time.Minute)
		assert.True(t, slot.BeginsAtDate.Equal(expected))
		assert.Equal(t, 34200+i*1800, slot.BeginsAtTime)
		assert.Equal(t, int64(3), slot.OpeningID)
		assert.False(t, slot.IsWeekly)
		assert.Nil(t, slot.DayOfWeek)
	}

	last := slots[len(slots)-1]
	assert.Equal(t, opening.EndsAtSeconds(), last.EndsAtTime())
}

func TestPlanSlots_Weekly(t *testing.T) {
	opening := &model.Event{
		Kind:            model.EventKindOpening,
		StartsAt:        at(4, 9, 30),
		EndsAt:          at(4, 10, 30),
		WeeklyRecurring: true,
	}

	slots := PlanSlots(opening)
	require.Len(t, slots, 2)
	for _, slot := range slots {
		assert.True(t, slot.IsWeekly)
		require.NotNil(t, slot.DayOfWeek)
		assert.Equal(t, 2, *slot.DayOfWeek)
	}
}

func TestPlanSlots_AcrossMidnight(t *testing.T) {
	opening := &model.Event{
		Kind:     model.EventKindOpening,
		StartsAt: at(4, 23, 30),
		EndsAt:   at(5, 0, 30),
	}

	slots := PlanSlots(opening)
	require.Len(t, slots, 2)
	assert.Equal(t, "23:30", slots[0].BeginsAtHours())
	assert.Equal(t, "00:00", slots[1].BeginsAtHours())
	assert.Equal(t, 0, slots[1].BeginsAtTime)
}

func TestPlanSlots_NoWholeSlot(t *testing.T) {
	opening := &model.Event{
		Kind:     model.EventKindOpening,
		StartsAt: at(4, 9, 30),
		EndsAt:   at(4, 9, 45),
	}
	assert.Empty(t, PlanSlots(opening))
}

func TestEventService_CreateOpeningPersistsSlots(t *testing.T) {
	e := newMemEngine(t)
	ctx := context.Background()

	opening := e.create(t, model.EventKindOpening, at(4, 9, 30), at(4, 12, 30), false)
	assert.NotZero(t, opening.ID)

	details, err := e.events.GetByID(ctx, opening.ID)
	require.NoError(t, err)
	require.Len(t, details.Slots, 6)

	// Слоты покрывают opening без пропусков
	for i := 1; i < len(details.Slots); i++ {
		assert.Equal(t, details.Slots[i-1].EndsAtTime(), details.Slots[i].BeginsAtTime)
	}
	assert.Equal(t, opening.StartsAtSeconds(), details.Slots[0].BeginsAtTime)
	assert.Equal(t, opening.EndsAtSeconds(), details.Slots[5].EndsAtTime())
}

func TestEventService_SlotFailureRollsBack(t *testing.T) {
	calls := 0
	mem := newMemory()
	e := newEngine(t, &failingStore{Store: mem, limit: 2, calls: &calls})
	ctx := context.Background()

	_, err := e.events.Create(ctx, request(model.EventKindOpening, at(4, 9, 30), at(4, 12, 30), false))
	require.ErrorIs(t, err, errDiskFull)

	event, err := mem.Events().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, event)

	slots, err := mem.Slots().OpenedBetweenDate(ctx, at(4, 0, 0), at(5, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, e.cache.invalidated)
}
