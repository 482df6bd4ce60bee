package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var courtIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

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

type CourtValidator struct {
	validate *validator.Validate
}

func NewCourtValidator(log *logger.Logger) *CourtValidator {
	v := validator.New()

	if err := v.RegisterValidation("court_id", validateCourtID); err != nil {
		log.Fatal("Failed to register 'court_id' validator", "error", err)
	}

	return &CourtValidator{validate: v}
}

func validateCourtID(fl validator.FieldLevel) bool {
	return courtIDRegex.MatchString(fl.Field().String())
}

func (v *CourtValidator) Validate(court *model.Court) error {
	return v.validateStruct(court)
}

func (v *CourtValidator) ValidateStatusUpdate(update *model.CourtStatusUpdate) error {
	return v.validateStruct(update)
}

func (v *CourtValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
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
			message = fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "court_id":
			message = fmt.Sprintf("%s may contain only letters, digits, '-' and '_'", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
