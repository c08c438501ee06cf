package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/repository"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"go.uber.org/zap"
)

// SlotGenerator нарезает opening на 30-минутные слоты
type SlotGenerator struct {
	logger *zap.Logger
}

func NewSlotGenerator(logger *zap.Logger) *SlotGenerator {
	return &SlotGenerator{logger: logger}
}

// PlanSlots строит слоты opening'а без сохранения.
// begins_at_time пересчитывается от каждой новой даты, а не прибавляется,
// поэтому серия через полночь остаётся корректной
func PlanSlots(opening *model.Event) []*model.Slot {
	count := int(timeutil.SlotUnitCount(opening.Duration()))
	if count <= 0 {
		return nil
	}

	slots := make([]*model.Slot, 0, count)
	beginsAt := opening.StartsAt
	for i := 0; i < count; i++ {
		slot := &model.Slot{
			OpeningID:    opening.ID,
			BeginsAtDate: beginsAt,
			BeginsAtTime: timeutil.SecondsSinceMidnight(beginsAt),
			IsWeekly:     opening.IsWeekly(),
		}
		// День недели храним только у weekly слотов
		if opening.IsWeekly() {
			day := opening.DayOfWeek()
			slot.DayOfWeek = &day
		}

		slots = append(slots, slot)
		beginsAt = beginsAt.Add(timeutil.SlotDuration)
	}

	return slots
}

// Generate сохраняет слоты opening'а по одному. Вызывается внутри транзакции
// создания события, поэтому любая ошибка откатывает всю пачку
func (g *SlotGenerator) Generate(ctx context.Context, store repository.Store, opening *model.Event) ([]*model.Slot, error) {
	slots := PlanSlots(opening)

	for _, slot := range slots {
		if err := store.Slots().Create(ctx, slot); err != nil {
			return nil, fmt.Errorf("generate slots: %w", err)
		}
	}

	g.logger.Debug("Slots generated",
		zap.Int64("opening_id", opening.ID),
		zap.Int("count", len(slots)),
		zap.Bool("weekly", opening.IsWeekly()),
	)

	return slots, nil
}
