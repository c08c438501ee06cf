package model

// DayAvailability lists free slot start times for one calendar date.
type DayAvailability struct {
	Date  string   `json:"date"`  // YYYY-MM-DD
	Slots []string `json:"slots"` // HH:MM, по возрастанию
}
