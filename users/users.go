package users

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// RoleType is the account kind chosen at registration. Authorization is enforced by the
// API; the client only branches on it.
type RoleType string

const (
	RoleUser     RoleType = "user"     // Job seeker
	RoleEmployer RoleType = "employer" // Posts jobs, reviews applications
	RoleAdmin    RoleType = "admin"    // Site administrator
)

// Roles lists every role the API accepts.
func Roles() []RoleType {
	return []RoleType{RoleUser, RoleEmployer, RoleAdmin}
}

// ParseRole maps a raw role string onto the closed role set.
func ParseRole(s string) (RoleType, error) {
	r := RoleType(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r RoleType) Valid() bool {
	switch r {
	case RoleUser, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID         int64     `json:"id"`                    // Unique identifier for the user
	Email      string    `json:"email"`                 // User's email address
	Username   string    `json:"username,omitempty"`    // Unique username
	FirstName  string    `json:"first_name"`            // First name of the user
	LastName   string    `json:"last_name"`             // Last name of the user
	Role       RoleType  `json:"role"`                  // user, employer or admin
	Phone      string    `json:"phone,omitempty"`       // Contact number
	Location   string    `json:"location,omitempty"`    // Free-form city/country
	Bio        string    `json:"bio,omitempty"`         // Profile summary
	DateJoined time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
}

// WellFormed reports whether the record is usable as a session identity.
func (u *User) WellFormed() bool {
	return u != nil && u.ID != 0
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the full name, then the username, then the email.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func (u *User) IsEmployer() bool {
	return u.Role == RoleEmployer
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}
