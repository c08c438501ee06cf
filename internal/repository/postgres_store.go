package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore реализация Store поверх pgx
type PostgresStore struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	events           *EventRepository
	slots            *SlotRepository
	appointmentSlots *AppointmentSlotRepository
}

// NewPostgresStore создаёт хранилище поверх пула соединений
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return newPostgresStore(pool, nil, pool)
}

func newPostgresStore(pool *pgxpool.Pool, tx pgx.Tx, db base.DBTX) *PostgresStore {
	return &PostgresStore{
		pool:             pool,
		tx:               tx,
		events:           NewEventRepository(db),
		slots:            NewSlotRepository(db),
		appointmentSlots: NewAppointmentSlotRepository(db),
	}
}

func (s *PostgresStore) Events() EventRepo {
	return s.events
}

func (s *PostgresStore) Slots() SlotRepo {
	return s.slots
}

func (s *PostgresStore) AppointmentSlots() AppointmentSlotRepo {
	return s.appointmentSlots
}

// WithinTx выполняет fn в транзакции. Внутри уже открытой транзакции
// используется savepoint
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	var (
		tx  pgx.Tx
		err error
	)

	if s.tx != nil {
		tx, err = s.tx.Begin(ctx)
	} else {
		tx, err = s.pool.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newPostgresStore(s.pool, tx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
