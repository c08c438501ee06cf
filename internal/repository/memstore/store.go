// Package memstore keeps events and slots in process memory. It serves the
// STORAGE=memory mode and the engine tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
)

type state struct {
	events      map[int64]*model.Event
	slots       map[int64]*model.Slot
	links       []model.AppointmentSlot
	nextEventID int64
	nextSlotID  int64
}

func newState() *state {
	return &state{
		events: make(map[int64]*model.Event),
		slots:  make(map[int64]*model.Slot),
	}
}

func (st *state) clone() *state {
	c := &state{
		events:      make(map[int64]*model.Event, len(st.events)),
		slots:       make(map[int64]*model.Slot, len(st.slots)),
		links:       append([]model.AppointmentSlot(nil), st.links...),
		nextEventID: st.nextEventID,
		nextSlotID:  st.nextSlotID,
	}
	for id, e := range st.events {
		c.events[id] = copyEvent(e)
	}
	for id, s := range st.slots {
		c.slots[id] = copySlot(s)
	}
	return c
}

type db struct {
	txMu  sync.Mutex // один пишущий в момент времени
	mu    sync.RWMutex
	data  *state
	clock timeutil.Clock
}

// Store is a repository.Store kept in memory. Transactions work on a private
// copy of the data that replaces the shared copy on commit, so readers never
// observe a half-finished transaction.
type Store struct {
	db *db
	tx *state
}

var _ repository.Store = (*Store)(nil)

// New creates an empty store. clock stamps CreatedAt fields.
func New(clock timeutil.Clock) *Store {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Store{db: &db{data: newState(), clock: clock}}
}

func (s *Store) Events() repository.EventRepo {
	return &eventRepo{store: s}
}

func (s *Store) Slots() repository.SlotRepo {
	return &slotRepo{store: s}
}

func (s *Store) AppointmentSlots() repository.AppointmentSlotRepo {
	return &appointmentSlotRepo{store: s}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.tx != nil {
		work := s.tx.clone()
		if err := fn(&Store{db: s.db, tx: work}); err != nil {
			return err
		}
		*s.tx = *work
		return nil
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()

	s.db.mu.RLock()
	work := s.db.data.clone()
	s.db.mu.RUnlock()

	if err := fn(&Store{db: s.db, tx: work}); err != nil {
		return err
	}

	s.db.mu.Lock()
	s.db.data = work
	s.db.mu.Unlock()

	return nil
}

func (s *Store) read(fn func(st *state)) {
	if s.tx != nil {
		fn(s.tx)
		return
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	fn(s.db.data)
}

func (s *Store) write(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}

	s.db.txMu.Lock()
	defer s.db.txMu.Unlock()
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.data)
}

func copyEvent(e *model.Event) *model.Event {
	c := *e
	return &c
}

func copySlot(s *model.Slot) *model.Slot {
	c := *s
	if s.DayOfWeek != nil {
		day := *s.DayOfWeek
		c.DayOfWeek = &day
	}
	return &c
}

func sortSlots(slots []*model.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].BeginsAtDate.Equal(slots[j].BeginsAtDate) {
			return slots[i].BeginsAtDate.Before(slots[j].BeginsAtDate)
		}
		return slots[i].ID < slots[j].ID
	})
}
