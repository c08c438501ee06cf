package model

import (
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
)

type EventKind string

const (
	EventKindOpening     EventKind = "opening"     // Доступное время провайдера
	EventKindAppointment EventKind = "appointment" // Запись на доступные слоты
)

// EventKinds lists every kind accepted on creation.
var EventKinds = []EventKind{EventKindOpening, EventKindAppointment}

type Event struct {
	ID              int64     `json:"id"`
	Kind            EventKind `json:"kind"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	WeeklyRecurring bool      `json:"weekly_recurring"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsOpening checks if event is an opening
func (e *Event) IsOpening() bool {
	return e.Kind == EventKindOpening
}

// IsAppointment checks if event is an appointment
func (e *Event) IsAppointment() bool {
	return e.Kind == EventKindAppointment
}

// IsWeekly checks if event repeats every week
func (e *Event) IsWeekly() bool {
	return e.WeeklyRecurring
}

// StartsAtSeconds is the time of day the event starts, in seconds since midnight.
func (e *Event) StartsAtSeconds() int {
	return timeutil.SecondsSinceMidnight(e.StartsAt)
}

// EndsAtSeconds is the time of day the event ends, in seconds since midnight.
func (e *Event) EndsAtSeconds() int {
	return timeutil.SecondsSinceMidnight(e.EndsAt)
}

// DayOfWeek returns the weekday of StartsAt (0 = Sunday).
func (e *Event) DayOfWeek() int {
	return timeutil.Weekday(e.StartsAt)
}

func (e *Event) Duration() time.Duration {
	return e.EndsAt.Sub(e.StartsAt)
}

// TimeMarks returns the slot start offsets the event is expected to cover.
func (e *Event) TimeMarks() []int {
	return timeutil.TimeMarks(e.StartsAtSeconds(), e.Duration())
}

// EventDetails is an event together with the slots it owns (opening)
// or booked (appointment).
type EventDetails struct {
	Event *Event  `json:"event"`
	Slots []*Slot `json:"slots"`
}
