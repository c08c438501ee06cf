package timeutil

import (
	"fmt"
	"time"
)

const (
	// SlotDuration is the fixed length of one bookable slot.
	SlotDuration = 30 * time.Minute
	// SlotSeconds is SlotDuration expressed in seconds.
	SlotSeconds = 1800

	secondsInDay = 24 * 60 * 60
)

// SecondsSinceMidnight returns the offset of t from the start of its day, in [0, 86400).
func SecondsSinceMidnight(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// Weekday returns the weekday index of t, 0 = Sunday, 6 = Saturday.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// SlotUnitCount returns how many slots fit into d. The result may be fractional,
// callers decide whether a fractional count is acceptable.
func SlotUnitCount(d time.Duration) float64 {
	return d.Seconds() / SlotSeconds
}

// IsWholeSlotCount reports whether d is a positive exact multiple of SlotDuration.
func IsWholeSlotCount(d time.Duration) bool {
	count := SlotUnitCount(d)
	return count > 0 && count == float64(int64(count))
}

// TimeMarks returns the start offsets (seconds since midnight) of every slot that
// fits into d, beginning at startSeconds.
func TimeMarks(startSeconds int, d time.Duration) []int {
	count := int(SlotUnitCount(d))
	if count <= 0 {
		return nil
	}

	marks := make([]int, count)
	for i := range marks {
		marks[i] = startSeconds + i*SlotSeconds
	}
	return marks
}

// FormatSeconds formats an offset from midnight as HH:MM.
func FormatSeconds(seconds int) string {
	seconds %= secondsInDay
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar date of a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
