package dto

import (
	"regexp"
	"sync"

	"yamdb/internal/microservices/http-api/models"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// RegisterValidations adds the yamdb specific tags to v:
//
//	username  letters, digits and . @ + - _
//	notme     rejects the reserved "me" username
//	slug      letters, digits, - and _
//	role      one of user, moderator, admin
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"username": func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		},
		"notme": func(fl validator.FieldLevel) bool {
			return fl.Field().String() != models.ReservedUsername
		},
		"slug": func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		},
		"role": func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

// Validator returns a shared validator reading the same `binding` tags gin uses.
func Validator() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.SetTagName("binding")
		if err := RegisterValidations(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}
