package form

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown form field")
	ErrInvalidGender = errors.New("invalid gender")
)

// Field names a form input
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
	FieldUsername Field = "username"
	FieldGender   Field = "gender"
	FieldContact  Field = "contact"
)

// Gender is the register form's gender select
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender accepts male, female or other in any case
func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

// Mode selects between the login and register variants of the form
type Mode int

const (
	Login Mode = iota
	Register
)

func (m Mode) String() string {
	if m == Register {
		return "register"
	}
	return "login"
}

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == Register {
		return Login
	}
	return Register
}

// FormData is a snapshot of every input of the form
type FormData struct {
	Email    string `form:"email" validate:"required,looseemail"`
	Password string `form:"password" validate:"required,min=5"`
	Username string `form:"username"`
	Gender   Gender `form:"gender"`
	Contact  string `form:"contact"`
}

// With returns a copy of d with field set to value
func (d FormData) With(field Field, value string) (FormData, error) {
	switch field {
	case FieldEmail:
		d.Email = value
	case FieldPassword:
		d.Password = value
	case FieldUsername:
		d.Username = value
	case FieldContact:
		d.Contact = value
	case FieldGender:
		g, err := ParseGender(value)
		if err != nil {
			return d, err
		}
		d.Gender = g
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return d, nil
}

// ErrorKind classifies a field validation failure
type ErrorKind string

const (
	MissingField  ErrorKind = "MissingField"
	InvalidFormat ErrorKind = "InvalidFormat"
	TooShort      ErrorKind = "TooShort"
)

// FieldError is the validation failure of a single field
type FieldError struct {
	Field   Field
	Kind    ErrorKind
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// ErrorMap holds one entry per invalid field. An empty map means the form is valid
type ErrorMap map[Field]FieldError

// Valid reports whether no field failed
func (m ErrorMap) Valid() bool {
	return len(m) == 0
}

// Messages returns the user-facing message of every invalid field
func (m ErrorMap) Messages() map[Field]string {
	out := make(map[Field]string, len(m))
	for f, e := range m {
		out[f] = e.Message
	}
	return out
}

// Clone returns an independent copy of m
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for f, e := range m {
		out[f] = e
	}
	return out
}
