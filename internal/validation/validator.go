// Package validation provides the shared struct validator for request payloads
// and untrusted oracle responses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Caption length bounds, in characters.
const (
	MinCaptionLength = 10
	MaxCaptionLength = 2000
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the aggregate of all failed rules for one value.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Validator wraps go-playground/validator with json field names and the
// custom rules used across the service.
type Validator struct {
	validate *validator.Validate
}

var (
	instance *Validator
	once     sync.Once
)

// Get returns the shared validator.
func Get() *Validator {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New creates a validator with custom rules registered.
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.validate.RegisterValidation("caption", captionValidator)
	_ = v.validate.RegisterValidation("notblank", notBlankValidator)
	return v
}

// Struct validates s against its validate tags.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		return formatError(err)
	}
	return nil
}

// Var validates a single value against tag.
func (v *Validator) Var(field any, tag string) error {
	if err := v.validate.Var(field, tag); err != nil {
		return formatError(err)
	}
	return nil
}

func formatError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, e := range verrs {
		field := e.Field()
		if field == "" {
			field = "value"
		}
		out = append(out, FieldError{Field: field, Message: message(e.Tag(), e.Param())})
	}
	return out
}

func message(tag, param string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "caption":
		return fmt.Sprintf("must be between %d and %d characters", MinCaptionLength, MaxCaptionLength)
	case "min":
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		return fmt.Sprintf("must be at most %s", param)
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "hexcolor":
		return "must be a hex color such as #FFB6C1"
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}

func captionValidator(fl validator.FieldLevel) bool {
	n := utf8.RuneCountInString(fl.Field().String())
	return n >= MinCaptionLength && n <= MaxCaptionLength
}

func notBlankValidator(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
