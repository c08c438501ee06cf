package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"go.uber.org/zap"
)

// AvailabilityWindowDays количество дней в ответе доступности
const AvailabilityWindowDays = 7

// AvailabilityCache кэш готовых ответов доступности. Промах не ошибка.
// Invalidate меняет поколение, Get и Set работают с переданным поколением
type AvailabilityCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, startsAt time.Time) ([]model.DayAvailability, bool, error)
	Set(ctx context.Context, generation int64, startsAt time.Time, days []model.DayAvailability) error
	Invalidate(ctx context.Context) error
}

type AvailabilityService struct {
	store  repository.Store
	cache  AvailabilityCache
	clock  timeutil.Clock
	loc    *time.Location
	logger *zap.Logger
}

func NewAvailabilityService(
	store repository.Store,
	cache AvailabilityCache,
	clock timeutil.Clock,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{
		store:  store,
		cache:  cache,
		clock:  clock,
		loc:    loc,
		logger: logger,
	}
}

// Availabilities возвращает свободные слоты на 7 дней начиная с даты startsAt.
// Для startsAt в прошлом возвращает nil без ошибки
func (s *AvailabilityService) Availabilities(ctx context.Context, startsAt time.Time) ([]model.DayAvailability, error) {
	now := s.clock.Now()
	if startsAt.Before(now) {
		return nil, nil
	}
	startsAt = startsAt.In(s.loc)

	// Поколение читается до расчёта: если событие создадут во время расчёта,
	// ответ ляжет в уже устаревшее поколение
	var (
		generation int64
		useCache   = s.cache != nil
	)
	if useCache {
		gen, err := s.cache.Generation(ctx)
		if err != nil {
			s.logger.Warn("Failed to read availability cache generation", zap.Error(err))
			useCache = false
		}
		generation = gen
	}

	if useCache {
		days, ok, err := s.cache.Get(ctx, generation, startsAt)
		if err != nil {
			s.logger.Warn("Failed to read availability cache", zap.Error(err))
		} else if ok {
			return days, nil
		}
	}

	days, err := s.calculate(ctx, startsAt, now)
	if err != nil {
		s.logger.Error("Failed to calculate availability",
			zap.Time("starts_at", startsAt),
			zap.Error(err),
		)
		return nil, err
	}

	if useCache {
		if err := s.cache.Set(ctx, generation, startsAt, days); err != nil {
			s.logger.Warn("Failed to write availability cache", zap.Error(err))
		}
	}

	return days, nil
}

func (s *AvailabilityService) calculate(ctx context.Context, startsAt, now time.Time) ([]model.DayAvailability, error) {
	endsAt := startsAt.AddDate(0, 0, AvailabilityWindowDays)
	firstDay := timeutil.StartOfDay(startsAt)
	lastDay := firstDay.AddDate(0, 0, AvailabilityWindowDays)

	regular, err := s.store.Slots().AvailableRegular(ctx, startsAt, endsAt, now)
	if err != nil {
		return nil, fmt.Errorf("get available regular slots: %w", err)
	}

	weekly, err := s.store.Slots().Weekly(ctx)
	if err != nil {
		return nil, fmt.Errorf("get weekly slots: %w", err)
	}

	bookings, err := s.store.Slots().BookedWeekly(ctx, firstDay, lastDay)
	if err != nil {
		return nil, fmt.Errorf("get booked weekly slots: %w", err)
	}

	// Занятые weekly слоты по датам
	booked := make(map[string]map[int64]struct{})
	for _, b := range bookings {
		date := timeutil.FormatDate(b.AppointmentStartsAt.In(s.loc))
		if booked[date] == nil {
			booked[date] = make(map[int64]struct{})
		}
		booked[date][b.SlotID] = struct{}{}
	}

	startSeconds := timeutil.SecondsSinceMidnight(startsAt)
	days := make([]model.DayAvailability, 0, AvailabilityWindowDays)

	for i := 0; i < AvailabilityWindowDays; i++ {
		day := firstDay.AddDate(0, 0, i)
		date := timeutil.FormatDate(day)

		var times []int
		for _, slot := range regular {
			if timeutil.SameDate(day, slot.BeginsAtDate) {
				times = append(times, timeutil.SecondsSinceMidnight(slot.BeginsAtDate.In(s.loc)))
			}
		}

		weekday := timeutil.Weekday(day)
		for _, slot := range weekly {
			if slot.Weekday() != weekday {
				continue
			}
			// В первый день не показываем weekly слоты раньше startsAt
			if i == 0 && slot.BeginsAtTime < startSeconds {
				continue
			}
			if _, taken := booked[date][slot.ID]; taken {
				continue
			}
			times = append(times, slot.BeginsAtTime)
		}

		days = append(days, model.DayAvailability{Date: date, Slots: formatTimes(times)})
	}

	return days, nil
}

// formatTimes сортирует и форматирует время как HH:MM.
// Разные слоты с одним временем начала остаются в ответе каждый
func formatTimes(times []int) []string {
	sort.Ints(times)

	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, timeutil.FormatSeconds(t))
	}
	return out
}
