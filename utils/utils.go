package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/now"
)

// Phone numbers use the form '+999999999', 9 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// IsValidPhone reports whether the phone number matches the accepted
// pattern.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateStruct runs the shared validator over a request payload and
// folds the first violation into a caller-facing error.
func ValidateStruct(payload interface{}) error {
	if err := validate.Struct(payload); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("field %s failed validation on %s", first.Field(), first.Tag())
		}
		return err
	}
	return nil
}

// ParseDate parses a user-supplied date and truncates it to the day.
// Empty input yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := now.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", value)
	}
	day := now.With(parsed).BeginningOfDay()
	return &day, nil
}
