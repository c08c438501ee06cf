package model

import (
	"errors"
	"strings"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotAlreadyBooked = errors.New("slot not available or already booked")
)

// FieldError is a single rule violation attached to a field key.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates every violation found while validating an event.
type ValidationErrors []FieldError

func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) Any() bool {
	return len(v) > 0
}

// Has reports whether at least one violation is attached to field.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Messages returns the messages attached to field, in insertion order.
func (v ValidationErrors) Messages(field string) []string {
	var out []string
	for _, e := range v {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// ByField groups messages by field key.
func (v ValidationErrors) ByField() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, e := range v {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
