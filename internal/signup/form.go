package signup

import (
	"errors"
	"fmt"

	"ichthyo-signup/internal/authclient"
)

var ErrUnknownField = errors.New("unknown field")

// Field names one input of the registration form. The value doubles as the
// input's name attribute.
type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldName     Field = "name"
	FieldPassword Field = "password"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldUsername, FieldEmail, FieldName, FieldPassword}

func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldUsername, FieldEmail, FieldName, FieldPassword:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// FormState is the in-progress registration. The zero value is an empty form.
type FormState struct {
	Username string
	Email    string
	Name     string
	Password string
}

// With returns a copy of s with exactly one field replaced.
func (s FormState) With(f Field, value string) FormState {
	switch f {
	case FieldUsername:
		s.Username = value
	case FieldEmail:
		s.Email = value
	case FieldName:
		s.Name = value
	case FieldPassword:
		s.Password = value
	}
	return s
}

func (s FormState) Get(f Field) string {
	switch f {
	case FieldUsername:
		return s.Username
	case FieldEmail:
		return s.Email
	case FieldName:
		return s.Name
	case FieldPassword:
		return s.Password
	}
	return ""
}

func (s FormState) request() authclient.SignUpRequest {
	return authclient.SignUpRequest{
		Username: s.Username,
		Email:    s.Email,
		Name:     s.Name,
		Password: s.Password,
	}
}
