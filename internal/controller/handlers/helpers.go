package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/service"
)

var (
	ErrUsage       = errors.New("wrong number of arguments")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTime = errors.New("time must be HH:MM")

	ErrCrossesMidnight = errors.New("appointment must end on the same day")
)

// ParseEventArgs разбирает "<дата> <начало> <конец> [weekly]" в запрос на создание события.
// Для opening'а конец не позже начала означает переход через полночь.
// Appointment всегда в пределах одного дня: слоты через полночь не бронируются
func ParseEventArgs(kind model.EventKind, args []string, loc *time.Location) (service.CreateEventRequest, error) {
	allowWeekly := kind == model.EventKindOpening
	if len(args) != 3 && !(allowWeekly && len(args) == 4) {
		return service.CreateEventRequest{}, ErrUsage
	}

	day, err := time.ParseInLocation(DateLayout, args[0], loc)
	if err != nil {
		return service.CreateEventRequest{}, ErrInvalidDate
	}

	startsAt, err := atTime(day, args[1])
	if err != nil {
		return service.CreateEventRequest{}, err
	}
	endsAt, err := atTime(day, args[2])
	if err != nil {
		return service.CreateEventRequest{}, err
	}
	if !endsAt.After(startsAt) {
		if kind == model.EventKindAppointment {
			return service.CreateEventRequest{}, ErrCrossesMidnight
		}
		endsAt = endsAt.AddDate(0, 0, 1)
	}

	weekly := false
	if len(args) == 4 {
		if !strings.EqualFold(args[3], WeeklyFlag) {
			return service.CreateEventRequest{}, ErrUsage
		}
		weekly = true
	}

	return service.CreateEventRequest{
		Kind:            string(kind),
		StartsAt:        &startsAt,
		EndsAt:          &endsAt,
		WeeklyRecurring: weekly,
	}, nil
}

// ParseDate разбирает дату для /availability
func ParseDate(args []string, loc *time.Location) (time.Time, error) {
	if len(args) != 1 {
		return time.Time{}, ErrUsage
	}
	day, err := time.ParseInLocation(DateLayout, args[0], loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return day, nil
}

func atTime(day time.Time, raw string) (time.Time, error) {
	clock, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}

// commandArgs отрезает саму команду от текста сообщения
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// FormatEvent форматирует созданное событие
func FormatEvent(event *model.Event) string {
	title := "🗓 Opening"
	if event.IsAppointment() {
		title = "📌 Appointment"
	}

	text := fmt.Sprintf("%s #%d\n📅 %s %s-%s",
		title,
		event.ID,
		event.StartsAt.Format("02.01.2006"),
		event.StartsAt.Format(TimeLayout),
		event.EndsAt.Format(TimeLayout),
	)
	if event.IsWeekly() {
		text += "\n🔁 Каждую неделю"
	}
	return text
}

// FormatAvailability форматирует доступность по дням
func FormatAvailability(days []model.DayAvailability) string {
	if len(days) == 0 {
		return "📭 Дата уже прошла"
	}

	var sb strings.Builder
	sb.WriteString("🕐 Свободные слоты:\n")
	for _, day := range days {
		sb.WriteString("\n")
		sb.WriteString(day.Date)
		sb.WriteString(": ")
		if len(day.Slots) == 0 {
			sb.WriteString("нет")
			continue
		}
		sb.WriteString(strings.Join(day.Slots, ", "))
	}
	return sb.String()
}

// FormatValidationErrors форматирует нарушения правил для пользователя
func FormatValidationErrors(errs model.ValidationErrors) string {
	var sb strings.Builder
	sb.WriteString("❌ Событие не создано:")
	for _, e := range errs {
		sb.WriteString("\n• ")
		sb.WriteString(e.Field)
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}
