package fakesessionrepo

import (
	"context"
	"sync"

	"github.com/d-madiou/job-board-client/auth"
	interrors "github.com/d-madiou/job-board-client/internal/errors"
	"github.com/d-madiou/job-board-client/sessions"
	"github.com/d-madiou/job-board-client/users"
	"github.com/pkg/errors"
)

var _ auth.SessionRepo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps one session in memory. Setting SaveErr or ClearErr makes the
// matching call fail; a failed Save leaves no session behind, like sessions.Store.
type FakeSessionRepo struct {
	session *sessions.Session
	lock    sync.RWMutex

	SaveErr  error
	ClearErr error

	Saves  int
	Clears int
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

// Seed stores sess without counting it as a Save.
func (sr *FakeSessionRepo) Seed(sess sessions.Session) {
	sr.lock.Lock()
	defer sr.lock.Unlock()
	sr.session = &sess
}

func (sr *FakeSessionRepo) Save(_ context.Context, sess sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.Saves++
	if sr.SaveErr != nil {
		sr.session = nil
		return errors.Wrap(sr.SaveErr, "FakeSessionRepo.Save")
	}
	if !sess.Valid() {
		return interrors.ErrInvalidRequest
	}
	sr.session = &sess
	return nil
}

func (sr *FakeSessionRepo) Load(_ context.Context) (sessions.Session, bool) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.session == nil || !sr.session.Valid() {
		return sessions.Session{}, false
	}
	return *sr.session, true
}

func (sr *FakeSessionRepo) Clear(_ context.Context) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	sr.Clears++
	sr.session = nil
	if sr.ClearErr != nil {
		return errors.Wrap(sr.ClearErr, "FakeSessionRepo.Clear")
	}
	return nil
}

func (sr *FakeSessionRepo) UpdateUser(_ context.Context, user users.User) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.session == nil {
		return interrors.ErrSessionAbsent
	}
	sr.session.User = user
	return nil
}

// Session returns the stored session, or nil.
func (sr *FakeSessionRepo) Session() *sessions.Session {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.session == nil {
		return nil
	}
	s := *sr.session
	return &s
}
