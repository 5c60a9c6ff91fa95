package global

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"church_connect/internal/common"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the shared validator instance and registers the
// custom validations used by the DTOs.
func InitValidator() {
	validateOnce.Do(func() {
		validate = validator.New()

		// milestone_week: weekly checkpoints run 1..12
		_ = validate.RegisterValidation("milestone_week", func(fl validator.FieldLevel) bool {
			week := fl.Field().Int()
			return week >= 1 && week <= 12
		})

		// experience_rating: experience feedback carries a 1..5 rating
		_ = validate.RegisterValidation("experience_rating", func(fl validator.FieldLevel) bool {
			rating := fl.Field().Int()
			return rating >= 1 && rating <= 5
		})
	})
}

// GetValidator returns the shared validator, initializing it on first use.
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a DTO and converts validator errors into the
// application's error taxonomy with a readable per-field message.
func ValidateStruct(s interface{}) error {
	if err := GetValidator().Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		ok := false
		if fieldErrs, ok = err.(validator.ValidationErrors); !ok {
			return common.ErrInvalidInput
		}

		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", fe.Field(), fe.Tag()))
		}
		return common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Invalid input: %s", strings.Join(msgs, "; ")),
			common.StatusBadRequest,
			fieldErrs.Error(),
		)
	}
	return nil
}
