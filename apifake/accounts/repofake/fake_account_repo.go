package fakeaccountrepo

import (
	"strings"
	"sync"
	"time"

	"github.com/d-madiou/job-board-client/apifake/accounts"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

type FakeAccountRepo struct {
	accounts map[int64]*accounts.Account
	emailIds map[string]int64 // lower-cased email to user id
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		accounts: make(map[int64]*accounts.Account),
		emailIds: make(map[string]int64),
		nextID:   1,
	}
}

func (ar *FakeAccountRepo) Create(account *accounts.Account) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	email := strings.ToLower(account.User.Email)
	if _, ok := ar.emailIds[email]; ok {
		return accounts.DuplicateEmailErr
	}
	if account.User.Username != "" {
		for _, a := range ar.accounts {
			if strings.EqualFold(a.User.Username, account.User.Username) {
				return accounts.DuplicateUsernameErr
			}
		}
	}

	account.User.ID = ar.nextID
	ar.nextID++
	stored := *account
	ar.accounts[account.User.ID] = &stored
	ar.emailIds[email] = account.User.ID
	return nil
}

func (ar *FakeAccountRepo) Update(account *accounts.Account) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if _, ok := ar.accounts[account.User.ID]; !ok {
		return accounts.NotFoundErr
	}
	stored := *account
	ar.accounts[account.User.ID] = &stored
	return nil
}

func (ar *FakeAccountRepo) GetByEmail(email string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.emailIds[strings.ToLower(email)]
	if !ok {
		return nil, accounts.NotFoundErr
	}
	a := *ar.accounts[id]
	return &a, nil
}

func (ar *FakeAccountRepo) GetByID(id int64) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	stored, ok := ar.accounts[id]
	if !ok {
		return nil, accounts.NotFoundErr
	}
	a := *stored
	return &a, nil
}

func (ar *FakeAccountRepo) SetLoggedIn(id int64, at time.Time) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	stored, ok := ar.accounts[id]
	if !ok {
		return accounts.NotFoundErr
	}
	stored.LastLogin = &at
	return nil
}

func (ar *FakeAccountRepo) Len() int {
	ar.lock.RLock()
	defer ar.lock.RUnlock()
	return len(ar.accounts)
}
