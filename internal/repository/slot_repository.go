package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, opening_id, begins_at_date, begins_at_time, day_of_week, is_weekly, is_fully_booked, created_at`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	query := `
		INSERT INTO slots (opening_id, begins_at_date, begins_at_time, day_of_week, is_weekly, is_fully_booked)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		slot.OpeningID,
		slot.BeginsAtDate,
		slot.BeginsAtTime,
		slot.DayOfWeek,
		slot.IsWeekly,
		slot.IsFullyBooked,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1`

	slot, err := scanSlot(r.DB().QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// GetByOpeningID получает все слоты opening'а
func (r *SlotRepository) GetByOpeningID(ctx context.Context, openingID int64) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE opening_id = $1
		ORDER BY begins_at_date
	`

	rows, err := r.DB().Query(ctx, query, openingID)
	if err != nil {
		return nil, fmt.Errorf("get slots by opening: %w", err)
	}

	return collectSlots(rows)
}

// OpenedBetweenDate получает слоты, начинающиеся в [from, to]
func (r *SlotRepository) OpenedBetweenDate(ctx context.Context, from, to time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE begins_at_date >= $1
		  AND begins_at_date <= $2
		ORDER BY begins_at_date
	`

	rows, err := r.DB().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get slots opened between dates: %w", err)
	}

	return collectSlots(rows)
}

// FindWeekly получает weekly слоты дня недели внутри временного окна
func (r *SlotRepository) FindWeekly(ctx context.Context, startSeconds, endSeconds, weekday int) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE is_weekly = true
		  AND day_of_week = $1
		  AND begins_at_time >= $2
		  AND (begins_at_time + 1800) <= $3
		ORDER BY begins_at_time
	`

	rows, err := r.DB().Query(ctx, query, weekday, startSeconds, endSeconds)
	if err != nil {
		return nil, fmt.Errorf("find weekly slots: %w", err)
	}

	return collectSlots(rows)
}

// AvailableRegular получает свободные обычные слоты в диапазоне дат
func (r *SlotRepository) AvailableRegular(ctx context.Context, from, to, now time.Time) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE is_weekly = false
		  AND is_fully_booked = false
		  AND begins_at_date > $1
		  AND begins_at_date >= $2
		  AND begins_at_date <= $3
		ORDER BY begins_at_date
	`

	rows, err := r.DB().Query(ctx, query, now, from, to)
	if err != nil {
		return nil, fmt.Errorf("get available regular slots: %w", err)
	}

	return collectSlots(rows)
}

// Weekly получает все weekly слоты
func (r *SlotRepository) Weekly(ctx context.Context) ([]*model.Slot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM slots
		WHERE is_weekly = true
		ORDER BY day_of_week, begins_at_time
	`

	rows, err := r.DB().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get weekly slots: %w", err)
	}

	return collectSlots(rows)
}

// BookedWeekly получает брони weekly слотов за период
func (r *SlotRepository) BookedWeekly(ctx context.Context, from, to time.Time) ([]model.WeeklyBooking, error) {
	query := `
		SELECT s.id, e.starts_at
		FROM slots s
		JOIN appointment_slots aps ON aps.slot_id = s.id
		JOIN events e ON e.id = aps.appointment_id
		WHERE s.is_weekly = true
		  AND e.starts_at >= $1
		  AND e.starts_at < $2
	`

	rows, err := r.DB().Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get booked weekly slots: %w", err)
	}
	defer rows.Close()

	var bookings []model.WeeklyBooking
	for rows.Next() {
		var b model.WeeklyBooking
		if err := rows.Scan(&b.SlotID, &b.AppointmentStartsAt); err != nil {
			return nil, fmt.Errorf("scan weekly booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly bookings: %w", err)
	}

	return bookings, nil
}

// LockByIDs блокирует строки слотов (SELECT ... FOR UPDATE)
func (r *SlotRepository) LockByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		SELECT id
		FROM slots
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	if _, err := r.DB().Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("lock slots: %w", err)
	}

	return nil
}

// MarkFullyBooked помечает обычный слот занятым
func (r *SlotRepository) MarkFullyBooked(ctx context.Context, id int64) error {
	query := `
		UPDATE slots
		SET is_fully_booked = true
		WHERE id = $1 AND is_fully_booked = false
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark slot fully booked: %w", err)
	}

	if affected == 0 {
		return model.ErrSlotAlreadyBooked
	}

	return nil
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.OpeningID,
		&slot.BeginsAtDate,
		&slot.BeginsAtTime,
		&slot.DayOfWeek,
		&slot.IsWeekly,
		&slot.IsFullyBooked,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func collectSlots(rows pgx.Rows) ([]*model.Slot, error) {
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
