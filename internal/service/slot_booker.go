package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"go.uber.org/zap"
)

// SlotBooker привязывает appointment к свободным слотам
type SlotBooker struct {
	clock  timeutil.Clock
	logger *zap.Logger
}

func NewSlotBooker(clock timeutil.Clock, logger *zap.Logger) *SlotBooker {
	return &SlotBooker{clock: clock, logger: logger}
}

// AvailableSlots возвращает слоты, доступные для appointment'а:
// свободные обычные слоты в [starts_at, ends_at] и weekly слоты того же дня недели
// внутри окна appointment'а, ещё не занятые в эту календарную дату
func (b *SlotBooker) AvailableSlots(ctx context.Context, store repository.Store, appointment *model.Event) ([]*model.Slot, error) {
	regular, err := store.Slots().AvailableRegular(ctx, appointment.StartsAt, appointment.EndsAt, b.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("get available regular slots: %w", err)
	}

	weekly, err := store.Slots().FindWeekly(ctx,
		appointment.StartsAtSeconds(),
		appointment.EndsAtSeconds(),
		appointment.DayOfWeek(),
	)
	if err != nil {
		return nil, fmt.Errorf("find weekly slots: %w", err)
	}

	if len(weekly) > 0 {
		day := timeutil.StartOfDay(appointment.StartsAt)
		bookings, err := store.Slots().BookedWeekly(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("get booked weekly slots: %w", err)
		}
		weekly = withoutBooked(weekly, bookings)
	}

	return append(regular, weekly...), nil
}

// Book бронирует слоты под appointment. Слоты блокируются, после чего
// доступность перечитывается: конкурентная бронь тех же слотов получит
// ErrSlotAlreadyBooked и откатит свою транзакцию
func (b *SlotBooker) Book(ctx context.Context, store repository.Store, appointment *model.Event) error {
	marks := appointment.TimeMarks()

	candidates, err := b.AvailableSlots(ctx, store, appointment)
	if err != nil {
		return err
	}
	candidates = matchingMarks(candidates, marks)
	if len(candidates) == 0 {
		return nil
	}

	if err := store.Slots().LockByIDs(ctx, slotIDs(candidates)); err != nil {
		return err
	}

	// Перечитываем после блокировки
	available, err := b.AvailableSlots(ctx, store, appointment)
	if err != nil {
		return err
	}
	available = matchingMarks(available, marks)
	if len(available) < len(candidates) {
		return model.ErrSlotAlreadyBooked
	}

	for _, slot := range available {
		link := &model.AppointmentSlot{AppointmentID: appointment.ID, SlotID: slot.ID}
		if err := store.AppointmentSlots().Create(ctx, link); err != nil {
			return fmt.Errorf("book slot %d: %w", slot.ID, err)
		}

		// Weekly слоты остаются многоразовыми
		if slot.IsRegular() {
			if err := store.Slots().MarkFullyBooked(ctx, slot.ID); err != nil {
				return fmt.Errorf("book slot %d: %w", slot.ID, err)
			}
			slot.IsFullyBooked = true
		}
	}

	b.logger.Debug("Slots booked",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int("count", len(available)),
	)

	return nil
}

func withoutBooked(slots []*model.Slot, bookings []model.WeeklyBooking) []*model.Slot {
	if len(bookings) == 0 {
		return slots
	}

	taken := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		taken[b.SlotID] = struct{}{}
	}

	free := make([]*model.Slot, 0, len(slots))
	for _, s := range slots {
		if _, ok := taken[s.ID]; !ok {
			free = append(free, s)
		}
	}
	return free
}

func matchingMarks(slots []*model.Slot, marks []int) []*model.Slot {
	wanted := make(map[int]struct{}, len(marks))
	for _, m := range marks {
		wanted[m] = struct{}{}
	}

	var matched []*model.Slot
	for _, s := range slots {
		if _, ok := wanted[s.BeginsAtTime]; ok {
			matched = append(matched, s)
		}
	}
	return matched
}

func slotIDs(slots []*model.Slot) []int64 {
	ids := make([]int64, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	return ids
}
