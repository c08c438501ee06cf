package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"go.uber.org/zap"
)

// AvailabilityProvider источник ответов доступности
type AvailabilityProvider interface {
	Availabilities(ctx context.Context, startsAt time.Time) ([]model.DayAvailability, error)
}

// Scheduler управляет фоновыми задачами: прогревает кэш доступности
// на ближайшие дни, чтобы запросы по дате попадали в кэш
type Scheduler struct {
	availability AvailabilityProvider
	clock        timeutil.Clock
	loc          *time.Location
	interval     time.Duration
	days         int
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	availability AvailabilityProvider,
	clock timeutil.Clock,
	loc *time.Location,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		availability: availability,
		clock:        clock,
		loc:          loc,
		interval:     interval,
		days:         7,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runWarmupTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runWarmupTask периодически пересчитывает доступность
func (s *Scheduler) runWarmupTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.WarmUp(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.WarmUp(ctx)
		case <-s.stopChan:
			s.logger.Info("Availability warmup task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Availability warmup task cancelled")
			return
		}
	}
}

// WarmUp запрашивает доступность с полуночи каждого из следующих дней.
// Сегодняшняя полночь уже в прошлом, поэтому начинаем с завтра
func (s *Scheduler) WarmUp(ctx context.Context) int {
	today := timeutil.StartOfDay(s.clock.Now().In(s.loc))

	warmed := 0
	for i := 1; i <= s.days; i++ {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.availability.Availabilities(ctx, today.AddDate(0, 0, i)); err != nil {
			s.logger.Error("Failed to warm up availability", zap.Int("day", i), zap.Error(err))
			continue
		}
		warmed++
	}

	s.logger.Debug("Availability cache warmed up", zap.Int("days", warmed))
	return warmed
}
