// Package validation collects field-level validation failures and renders them
// as human-readable messages keyed by request field name.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Error is returned by services when input fails schema or business rules.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Errors accumulates messages before they are turned into an *Error.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns nil when nothing was collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

// FieldError builds a single-field *Error.
func FieldError(field, message string) error {
	return &Error{Fields: map[string][]string{field: {message}}}
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v using its `validate` tags and records failures in errs.
func (e Errors) Struct(v any) {
	err := engine().Struct(v)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrs); !ok {
		e.Add("_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		e.Add(fe.Field(), message(fe.Field(), fe.Tag(), fe.Param()))
	}
}

// Var validates a single value against tag and records failures under field.
func (e Errors) Var(field string, value any, tag string) {
	err := engine().Var(value, tag)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrs); !ok {
		e.Add(field, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		e.Add(field, message(field, fe.Tag(), fe.Param()))
	}
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = fieldErrs
	}
	return ok
}

func message(field, tag, param string) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, param)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
