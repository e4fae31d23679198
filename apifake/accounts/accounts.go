// Package accounts stores the development API's user accounts.
package accounts

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/d-madiou/job-board-client/users"
)

var (
	NotFoundErr          = errors.New("account not found")
	DuplicateEmailErr    = errors.New("user with this email already exists.")
	DuplicateUsernameErr = errors.New("A user with that username already exists.")
)

// Account is a user record plus its credentials.
type Account struct {
	User         users.User
	PasswordHash []byte
	LastLogin    *time.Time
}

// SetPassword stores a bcrypt hash of password.
func (a *Account) SetPassword(password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) == nil
}

type Repo interface {
	// Create assigns the next user id and stores the account.
	Create(account *Account) error
	Update(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id int64) (*Account, error)
	SetLoggedIn(id int64, at time.Time) error
}
