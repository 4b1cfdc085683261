package validator

import (
	"errors"
	"fmt"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"strings"

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

type HotelValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHotelValidator(log *logger.Logger) *HotelValidator {
	log.Info("Hotel validator initialized successfully")

	return &HotelValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *HotelValidator) Validate(hotel *model.Hotel) error {
	if err := v.validate.Struct(hotel); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if hotel.AvailableRooms > hotel.TotalRooms {
		return ValidationErrors{
			ValidationError{
				Field:   "AvailableRooms",
				Message: fmt.Sprintf("available_rooms (%d) cannot exceed total_rooms (%d)", hotel.AvailableRooms, hotel.TotalRooms),
			},
		}
	}

	return nil
}

func (v *HotelValidator) ValidateUpdate(updates *model.HotelUpdate) error {
	if err := v.validate.Struct(updates); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	if updates.TotalRooms != nil && updates.AvailableRooms != nil && *updates.AvailableRooms > *updates.TotalRooms {
		return ValidationErrors{
			ValidationError{
				Field:   "AvailableRooms",
				Message: fmt.Sprintf("available_rooms (%d) cannot exceed total_rooms (%d)", *updates.AvailableRooms, *updates.TotalRooms),
			},
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "url":
			message = fmt.Sprintf("%s must contain valid URLs", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
