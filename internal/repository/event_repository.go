package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository/base"
)

type EventRepository struct {
	*base.Repository
}

func NewEventRepository(db base.DBTX) *EventRepository {
	return &EventRepository{Repository: base.NewRepository(db)}
}

// Create создаёт новое событие
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (kind, starts_at, ends_at, weekly_recurring)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB().QueryRow(
		ctx, query,
		event.Kind,
		event.StartsAt,
		event.EndsAt,
		event.WeeklyRecurring,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID получает событие по ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `
		SELECT id, kind, starts_at, ends_at, weekly_recurring, created_at
		FROM events
		WHERE id = $1
	`

	var event model.Event
	err := r.DB().QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Kind,
		&event.StartsAt,
		&event.EndsAt,
		&event.WeeklyRecurring,
		&event.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return &event, nil
}
