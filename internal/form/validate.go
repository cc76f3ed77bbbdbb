package form

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the only password policy the form enforces
const MinPasswordLength = 5

// emailPattern mirrors the loose "x@y.z" check of the browser form; it is not RFC 5322
var emailPattern = regexp.MustCompile(`.+@.+\..+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic("form: register looseemail: " + err.Error())
	}
	return v
}

// Validate checks data for the given mode and returns every failing field
func Validate(data FormData, mode Mode) ErrorMap {
	errs := make(ErrorMap)

	collect(errs, validate.Struct(data))

	if mode == Register {
		if err := validate.Var(data.Contact, "required"); err != nil {
			errs[FieldContact] = newFieldError(FieldContact, "required")
		}
	}
	return errs
}

func collect(errs ErrorMap, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return
	}
	for _, fe := range fieldErrs {
		f := Field(fe.Field())
		errs[f] = newFieldError(f, fe.Tag())
	}
}

func newFieldError(f Field, tag string) FieldError {
	kind := kindForTag(tag)
	return FieldError{Field: f, Kind: kind, Message: messageFor(f, kind)}
}

func kindForTag(tag string) ErrorKind {
	switch tag {
	case "looseemail":
		return InvalidFormat
	case "min":
		return TooShort
	default:
		return MissingField
	}
}

func messageFor(f Field, kind ErrorKind) string {
	switch {
	case f == FieldEmail && kind == InvalidFormat:
		return "Please enter a valid email address"
	case f == FieldPassword && kind == TooShort:
		return "Password should be at least 5 characters long"
	case f == FieldEmail:
		return "Email is required"
	case f == FieldPassword:
		return "Password is required"
	case f == FieldContact:
		return "Contact is required"
	}
	return string(f) + " is invalid"
}
