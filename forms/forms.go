// Package forms holds the user-supplied payloads for the authentication endpoints and
// their pre-flight validation. A form that fails Validate must not be sent.
package forms

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/d-madiou/job-board-client/users"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()-]+$`)

// LoginCredentials is the body of POST /auth/login/.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginCredentials) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// RegistrationForm is the body of POST /auth/register/.
type RegistrationForm struct {
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	Password        string         `json:"password"`
	PasswordConfirm string         `json:"password_confirm"`
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Role            users.RoleType `json:"role,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	Location        string         `json:"location,omitempty"`
}

func (r RegistrationForm) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.Role, validation.In(roles()...)),
		validation.Field(&r.Phone, validation.Length(7, 20), validation.Match(phonePattern)),
		validation.Field(&r.Location, validation.Length(0, 255)),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.By(passwordStrength),
		),
		validation.Field(
			&r.PasswordConfirm,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func passwordStrength(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	return users.ValidatePasswordStrength(s)
}

func roles() []any {
	out := make([]any, 0, len(users.Roles()))
	for _, r := range users.Roles() {
		out = append(out, r)
	}
	return out
}

// FieldErrors flattens a Validate error into field name -> message. Errors that are not
// per-field land under "form".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}
	return out
}

// Message renders a Validate error as one line, fields in name order.
func Message(err error) string {
	fields := FieldErrors(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}
