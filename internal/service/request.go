package service

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/go-playground/validator/v10"
)

// CreateEventRequest входные данные для создания события
type CreateEventRequest struct {
	Kind            string     `json:"kind" validate:"required,oneof=opening appointment"`
	StartsAt        *time.Time `json:"starts_at" validate:"required"`
	EndsAt          *time.Time `json:"ends_at" validate:"required"`
	WeeklyRecurring bool       `json:"weekly_recurring"`
}

const (
	messageBlank        = "can't be blank"
	messageInvalid      = "is invalid"
	messageEndsAtBefore = "must be after starts_at"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Ключ ошибки берём из json тега, как его видит клиент
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateRequest проверяет обязательные поля и допустимость kind
func ValidateRequest(req CreateEventRequest) model.ValidationErrors {
	var errs model.ValidationErrors

	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			errs.Add("base", err.Error())
			return errs
		}

		for _, fe := range validationErrors {
			errs.Add(fe.Field(), messageFor(fe))
		}
	}

	if req.StartsAt != nil && req.EndsAt != nil && !req.EndsAt.After(*req.StartsAt) {
		errs.Add("ends_at", messageEndsAtBefore)
	}

	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return messageBlank
	case "oneof":
		kinds := make([]string, len(model.EventKinds))
		for i, k := range model.EventKinds {
			kinds[i] = string(k)
		}
		return fmt.Sprintf("%v is not valid. Should be one: %s", fe.Value(), strings.Join(kinds, " OR "))
	default:
		return messageInvalid
	}
}
