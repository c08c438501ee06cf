package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAvailability struct {
	calls []time.Time
	fail  map[string]bool
}

func (r *recordingAvailability) Availabilities(_ context.Context, startsAt time.Time) ([]model.DayAvailability, error) {
	r.calls = append(r.calls, startsAt)
	if r.fail[timeutil.FormatDate(startsAt)] {
		return nil, errors.New("storage down")
	}
	return []model.DayAvailability{}, nil
}

func TestScheduler_WarmUp(t *testing.T) {
	provider := &recordingAvailability{fail: map[string]bool{"2020-08-05": true}}
	clock := timeutil.FixedClock{At: time.Date(2020, 8, 1, 15, 45, 0, 0, time.UTC)}
	s := NewScheduler(provider, clock, time.UTC, time.Hour, zap.NewNop())

	warmed := s.WarmUp(context.Background())
	assert.Equal(t, 6, warmed)

	require.Len(t, provider.calls, 7)
	assert.True(t, provider.calls[0].Equal(time.Date(2020, 8, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, provider.calls[6].Equal(time.Date(2020, 8, 8, 0, 0, 0, 0, time.UTC)))
}

func TestScheduler_WarmUpStopsOnCancel(t *testing.T) {
	provider := &recordingAvailability{}
	s := NewScheduler(provider, timeutil.SystemClock{}, time.UTC, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Zero(t, s.WarmUp(ctx))
	assert.Empty(t, provider.calls)
}
