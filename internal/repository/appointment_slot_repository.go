package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/base"
)

type AppointmentSlotRepository struct {
	*base.Repository
}

func NewAppointmentSlotRepository(db base.DBTX) *AppointmentSlotRepository {
	return &AppointmentSlotRepository{Repository: base.NewRepository(db)}
}

// Create связывает appointment со слотом
func (r *AppointmentSlotRepository) Create(ctx context.Context, link *model.AppointmentSlot) error {
	query := `
		INSERT INTO appointment_slots (appointment_id, slot_id)
		VALUES ($1, $2)
	`

	_, err := r.DB().Exec(ctx, query, link.AppointmentID, link.SlotID)
	if err != nil {
		return fmt.Errorf("create appointment slot: %w", err)
	}

	return nil
}

// GetSlotsByAppointmentID получает слоты, забронированные appointment'ом
func (r *AppointmentSlotRepository) GetSlotsByAppointmentID(ctx context.Context, appointmentID int64) ([]*model.Slot, error) {
	query := `
		SELECT s.id, s.opening_id, s.begins_at_date, s.begins_at_time, s.day_of_week,
		       s.is_weekly, s.is_fully_booked, s.created_at
		FROM slots s
		JOIN appointment_slots aps ON aps.slot_id = s.id
		WHERE aps.appointment_id = $1
		ORDER BY s.begins_at_date, s.id
	`

	rows, err := r.DB().Query(ctx, query, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("get slots by appointment: %w", err)
	}

	return collectSlots(rows)
}
