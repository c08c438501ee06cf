package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/memstore"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)

type engine struct {
	store        repository.Store
	events       *EventService
	availability *AvailabilityService
	cache        *fakeCache
}

func newEngine(t *testing.T, store repository.Store) *engine {
	t.Helper()
	logger := zap.NewNop()
	clock := timeutil.FixedClock{At: now}
	cache := newFakeCache()

	booker := NewSlotBooker(clock, logger)
	return &engine{
		store: store,
		events: NewEventService(store, NewEventValidator(booker), NewSlotGenerator(logger), booker,
			cache, time.UTC, logger),
		availability: NewAvailabilityService(store, nil, clock, time.UTC, logger),
		cache:        cache,
	}
}

func newMemory() *memstore.Store {
	return memstore.New(timeutil.FixedClock{At: now})
}

func newMemEngine(t *testing.T) *engine {
	return newEngine(t, newMemory())
}

func at(day, hour, minute int) time.Time {
	return time.Date(2020, 8, day, hour, minute, 0, 0, time.UTC)
}

func request(kind model.EventKind, startsAt, endsAt time.Time, weekly bool) CreateEventRequest {
	return CreateEventRequest{
		Kind:            string(kind),
		StartsAt:        &startsAt,
		EndsAt:          &endsAt,
		WeeklyRecurring: weekly,
	}
}

func (e *engine) create(t *testing.T, kind model.EventKind, startsAt, endsAt time.Time, weekly bool) *model.Event {
	t.Helper()
	event, err := e.events.Create(context.Background(), request(kind, startsAt, endsAt, weekly))
	require.NoError(t, err)
	require.NotNil(t, event)
	return event
}

func (e *engine) rejected(t *testing.T, req CreateEventRequest) model.ValidationErrors {
	t.Helper()
	event, err := e.events.Create(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, event)

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs
}

type cacheKey struct {
	generation int64
	startsAt   time.Time
}

type fakeCache struct {
	mu          sync.Mutex
	generation  int64
	days        map[cacheKey][]model.DayAvailability
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{days: make(map[cacheKey][]model.DayAvailability)}
}

func (c *fakeCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *fakeCache) Get(_ context.Context, generation int64, startsAt time.Time) ([]model.DayAvailability, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	days, ok := c.days[cacheKey{generation, startsAt}]
	return days, ok, nil
}

func (c *fakeCache) Set(_ context.Context, generation int64, startsAt time.Time, days []model.DayAvailability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days[cacheKey{generation, startsAt}] = days
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidated++
	return nil
}

// invalidatingStore сбрасывает кэш при чтении weekly слотов,
// как будто событие создали во время расчёта доступности
type invalidatingStore struct {
	repository.Store
	cache *fakeCache
}

type invalidatingSlots struct {
	repository.SlotRepo
	cache *fakeCache
}

func (s *invalidatingStore) Slots() repository.SlotRepo {
	return &invalidatingSlots{SlotRepo: s.Store.Slots(), cache: s.cache}
}

func (s *invalidatingSlots) Weekly(ctx context.Context) ([]*model.Slot, error) {
	if err := s.cache.Invalidate(ctx); err != nil {
		return nil, err
	}
	return s.SlotRepo.Weekly(ctx)
}

// failingStore ломает создание слотов после limit успешных вызовов
type failingStore struct {
	repository.Store
	limit int
	calls *int
}

type failingSlots struct {
	repository.SlotRepo
	store *failingStore
}

func (s *failingStore) Slots() repository.SlotRepo {
	return &failingSlots{SlotRepo: s.Store.Slots(), store: s}
}

func (s *failingStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(&failingStore{Store: tx, limit: s.limit, calls: s.calls})
	})
}

var errDiskFull = errors.New("disk full")

func (s *failingSlots) Create(ctx context.Context, slot *model.Slot) error {
	*s.store.calls++
	if *s.store.calls > s.store.limit {
		return errDiskFull
	}
	return s.SlotRepo.Create(ctx, slot)
}
