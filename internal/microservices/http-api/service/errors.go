package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound                = errors.New("not found")
	ErrDuplicateReview         = errors.New("you have already reviewed this title")
	ErrIdentityConflict        = errors.New("username or email is already registered with different details")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrValidation              = errors.New("validation failed")

	// re-exported so handlers only need to know this package
	ErrForbidden    = authz.ErrForbidden
	ErrUnauthorized = authz.ErrUnauthorized
)

// ValidationError carries per-field messages. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FromBindingError turns validator output into a ValidationError; anything
// else (malformed JSON, wrong types) becomes a single "body" field error.
func FromBindingError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("body", err.Error())
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldName(fe)] = describe(fe)
	}
	return out
}

// validateStruct runs the shared binding rules so services reject the same input handlers do
func validateStruct(v any) error {
	if err := dto.Validator().Struct(v); err != nil {
		return FromBindingError(err)
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "enter a valid email address"
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	case "notme":
		return `"me" cannot be used as a username`
	case "slug":
		return "may contain only letters, digits, hyphens and underscores"
	case "role":
		return "must be one of user, moderator, admin"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// notFound maps a repository miss onto ErrNotFound and wraps everything else
func notFound(what string, err error) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
