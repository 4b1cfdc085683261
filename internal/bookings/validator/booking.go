package validator

import (
	"errors"
	"fmt"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate       *validator.Validate
	logger         *logger.Logger
	maxBookingDays int
}

func NewBookingValidator(log *logger.Logger, maxBookingDays int) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:       v,
		logger:         log,
		maxBookingDays: maxBookingDays,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if err := v.validateOrdering(booking.CheckIn, booking.CheckOut); err != nil {
		return err
	}
	return v.validateMaxStay(booking.CheckIn, booking.CheckOut)
}

// ValidateRange checks a standalone date range, used by availability and
// search queries where no booking document exists. Only ordering applies:
// the max-stay rule constrains what can be booked, not what can be asked.
func (v *BookingValidator) ValidateRange(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckIn",
				Message: "check_in is required",
			},
		}
	}
	if checkOut.IsZero() {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: "check_out is required",
			},
		}
	}
	return v.validateOrdering(checkIn, checkOut)
}

func (v *BookingValidator) validateOrdering(checkIn, checkOut time.Time) error {
	if !checkOut.After(checkIn) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: "check_out must be after check_in",
			},
		}
	}
	return nil
}

func (v *BookingValidator) validateMaxStay(checkIn, checkOut time.Time) error {
	if v.maxBookingDays <= 0 {
		return nil
	}

	maxStay := time.Duration(v.maxBookingDays) * 24 * time.Hour
	if checkOut.Sub(checkIn) > maxStay {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: fmt.Sprintf("stay cannot exceed %d days", v.maxBookingDays),
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
