package forms_test

import (
	"testing"

	"github.com/d-madiou/job-board-client/forms"
	"github.com/d-madiou/job-board-client/users"
	"github.com/stretchr/testify/require"
)

func validRegistration() forms.RegistrationForm {
	return forms.RegistrationForm{
		Username:        "jdoe",
		Email:           "jane@example.com",
		Password:        "Secret123",
		PasswordConfirm: "Secret123",
		FirstName:       "Jane",
		LastName:        "Doe",
		Role:            users.RoleUser,
		Phone:           "+224 620 00 00 00",
		Location:        "Conakry",
	}
}

func TestLoginCredentials_Validate(t *testing.T) {
	tests := []struct {
		name      string
		creds     forms.LoginCredentials
		wantField string
	}{
		{name: "valid", creds: forms.LoginCredentials{Email: "jane@example.com", Password: "x"}},
		{name: "missing email", creds: forms.LoginCredentials{Password: "x"}, wantField: "email"},
		{name: "bad email", creds: forms.LoginCredentials{Email: "jane", Password: "x"}, wantField: "email"},
		{name: "missing password", creds: forms.LoginCredentials{Email: "jane@example.com"}, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, forms.FieldErrors(err), tt.wantField)
		})
	}
}

func TestRegistrationForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *forms.RegistrationForm)
		wantField string
	}{
		{name: "valid", mutate: func(f *forms.RegistrationForm) {}},
		{name: "role optional", mutate: func(f *forms.RegistrationForm) { f.Role = "" }},
		{name: "phone optional", mutate: func(f *forms.RegistrationForm) { f.Phone = "" }},
		{name: "passwords differ", mutate: func(f *forms.RegistrationForm) { f.PasswordConfirm = "Secret124" }, wantField: "password_confirm"},
		{name: "weak password", mutate: func(f *forms.RegistrationForm) { f.Password, f.PasswordConfirm = "password", "password" }, wantField: "password"},
		{name: "unknown role", mutate: func(f *forms.RegistrationForm) { f.Role = "recruiter" }, wantField: "role"},
		{name: "bad email", mutate: func(f *forms.RegistrationForm) { f.Email = "jane@" }, wantField: "email"},
		{name: "short username", mutate: func(f *forms.RegistrationForm) { f.Username = "jd" }, wantField: "username"},
		{name: "missing first name", mutate: func(f *forms.RegistrationForm) { f.FirstName = "" }, wantField: "first_name"},
		{name: "letters in phone", mutate: func(f *forms.RegistrationForm) { f.Phone = "call me maybe" }, wantField: "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validRegistration()
			tt.mutate(&form)

			err := form.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, forms.FieldErrors(err), tt.wantField)
		})
	}
}

func TestRegistrationForm_MismatchMessage(t *testing.T) {
	form := validRegistration()
	form.PasswordConfirm = "Other123"

	err := form.Validate()
	require.Equal(t, map[string]string{"password_confirm": "values must match"}, forms.FieldErrors(err))
	require.Equal(t, "password_confirm: values must match", forms.Message(err))
}

func TestFieldErrors_Nil(t *testing.T) {
	require.Nil(t, forms.FieldErrors(nil))
	require.Equal(t, "", forms.Message(nil))
}
