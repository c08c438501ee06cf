package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
)

type eventRepo struct {
	store *Store
}

func (r *eventRepo) Create(_ context.Context, event *model.Event) error {
	return r.store.write(func(st *state) error {
		st.nextEventID++
		event.ID = st.nextEventID
		event.CreatedAt = r.store.db.clock.Now()
		st.events[event.ID] = copyEvent(event)
		return nil
	})
}

func (r *eventRepo) GetByID(_ context.Context, id int64) (*model.Event, error) {
	var event *model.Event
	r.store.read(func(st *state) {
		if e, ok := st.events[id]; ok {
			event = copyEvent(e)
		}
	})
	return event, nil
}

type slotRepo struct {
	store *Store
}

func (r *slotRepo) Create(_ context.Context, slot *model.Slot) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.events[slot.OpeningID]; !ok {
			return fmt.Errorf("create slot: opening %d does not exist", slot.OpeningID)
		}
		st.nextSlotID++
		slot.ID = st.nextSlotID
		slot.CreatedAt = r.store.db.clock.Now()
		st.slots[slot.ID] = copySlot(slot)
		return nil
	})
}

func (r *slotRepo) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	var slot *model.Slot
	r.store.read(func(st *state) {
		if s, ok := st.slots[id]; ok {
			slot = copySlot(s)
		}
	})
	return slot, nil
}

func (r *slotRepo) GetByOpeningID(_ context.Context, openingID int64) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool {
		return s.OpeningID == openingID
	}), nil
}

func (r *slotRepo) OpenedBetweenDate(_ context.Context, from, to time.Time) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool {
		return !s.BeginsAtDate.Before(from) && !s.BeginsAtDate.After(to)
	}), nil
}

func (r *slotRepo) FindWeekly(_ context.Context, startSeconds, endSeconds, weekday int) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool {
		return s.IsWeekly &&
			s.DayOfWeek != nil && *s.DayOfWeek == weekday &&
			s.BeginsAtTime >= startSeconds &&
			s.BeginsAtTime+timeutil.SlotSeconds <= endSeconds
	}), nil
}

func (r *slotRepo) AvailableRegular(_ context.Context, from, to, now time.Time) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool {
		return !s.IsWeekly &&
			!s.IsFullyBooked &&
			s.BeginsAtDate.After(now) &&
			!s.BeginsAtDate.Before(from) &&
			!s.BeginsAtDate.After(to)
	}), nil
}

func (r *slotRepo) Weekly(_ context.Context) ([]*model.Slot, error) {
	return r.filter(func(s *model.Slot) bool {
		return s.IsWeekly
	}), nil
}

func (r *slotRepo) BookedWeekly(_ context.Context, from, to time.Time) ([]model.WeeklyBooking, error) {
	var bookings []model.WeeklyBooking
	r.store.read(func(st *state) {
		for _, link := range st.links {
			slot, ok := st.slots[link.SlotID]
			if !ok || !slot.IsWeekly {
				continue
			}
			appointment, ok := st.events[link.AppointmentID]
			if !ok || appointment.StartsAt.Before(from) || !appointment.StartsAt.Before(to) {
				continue
			}
			bookings = append(bookings, model.WeeklyBooking{
				SlotID:              slot.ID,
				AppointmentStartsAt: appointment.StartsAt,
			})
		}
	})
	return bookings, nil
}

// LockByIDs is a no-op: transactions are already serialized.
func (r *slotRepo) LockByIDs(_ context.Context, _ []int64) error {
	return nil
}

func (r *slotRepo) MarkFullyBooked(_ context.Context, id int64) error {
	return r.store.write(func(st *state) error {
		slot, ok := st.slots[id]
		if !ok || slot.IsFullyBooked {
			return model.ErrSlotAlreadyBooked
		}
		slot.IsFullyBooked = true
		return nil
	})
}

func (r *slotRepo) filter(match func(s *model.Slot) bool) []*model.Slot {
	var slots []*model.Slot
	r.store.read(func(st *state) {
		for _, s := range st.slots {
			if match(s) {
				slots = append(slots, copySlot(s))
			}
		}
	})
	sortSlots(slots)
	return slots
}

type appointmentSlotRepo struct {
	store *Store
}

func (r *appointmentSlotRepo) Create(_ context.Context, link *model.AppointmentSlot) error {
	return r.store.write(func(st *state) error {
		if _, ok := st.events[link.AppointmentID]; !ok {
			return fmt.Errorf("create appointment slot: appointment %d does not exist", link.AppointmentID)
		}
		if _, ok := st.slots[link.SlotID]; !ok {
			return fmt.Errorf("create appointment slot: slot %d does not exist", link.SlotID)
		}
		st.links = append(st.links, *link)
		return nil
	})
}

func (r *appointmentSlotRepo) GetSlotsByAppointmentID(_ context.Context, appointmentID int64) ([]*model.Slot, error) {
	var slots []*model.Slot
	r.store.read(func(st *state) {
		for _, link := range st.links {
			if link.AppointmentID != appointmentID {
				continue
			}
			if s, ok := st.slots[link.SlotID]; ok {
				slots = append(slots, copySlot(s))
			}
		}
	})
	sortSlots(slots)
	return slots, nil
}
