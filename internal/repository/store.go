package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
)

// EventRepo хранит события (openings и appointments)
type EventRepo interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
}

// SlotRepo хранит слоты и отвечает на запросы движка расписания
type SlotRepo interface {
	Create(ctx context.Context, slot *model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	GetByOpeningID(ctx context.Context, openingID int64) ([]*model.Slot, error)

	// OpenedBetweenDate возвращает все слоты с begins_at_date в [from, to]
	OpenedBetweenDate(ctx context.Context, from, to time.Time) ([]*model.Slot, error)
	// FindWeekly возвращает weekly слоты дня недели, целиком лежащие в [startSeconds, endSeconds]
	FindWeekly(ctx context.Context, startSeconds, endSeconds, weekday int) ([]*model.Slot, error)
	// AvailableRegular возвращает свободные обычные слоты в [from, to], начинающиеся после now
	AvailableRegular(ctx context.Context, from, to, now time.Time) ([]*model.Slot, error)
	// Weekly возвращает все weekly слоты
	Weekly(ctx context.Context) ([]*model.Slot, error)
	// BookedWeekly возвращает брони weekly слотов appointment'ами, начавшимися в [from, to)
	BookedWeekly(ctx context.Context, from, to time.Time) ([]model.WeeklyBooking, error)

	// LockByIDs блокирует слоты до конца транзакции
	LockByIDs(ctx context.Context, ids []int64) error
	// MarkFullyBooked помечает слот занятым, только если он ещё свободен
	MarkFullyBooked(ctx context.Context, id int64) error
}

// AppointmentSlotRepo хранит связи appointment -> slot
type AppointmentSlotRepo interface {
	Create(ctx context.Context, link *model.AppointmentSlot) error
	GetSlotsByAppointmentID(ctx context.Context, appointmentID int64) ([]*model.Slot, error)
}

// Store набор репозиториев поверх одного соединения
type Store interface {
	Events() EventRepo
	Slots() SlotRepo
	AppointmentSlots() AppointmentSlotRepo

	// WithinTx выполняет fn в транзакции: ошибка откатывает всё, nil коммитит
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
