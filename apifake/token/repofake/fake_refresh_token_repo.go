package refreshrepofake

import (
	"sync"

	"github.com/d-madiou/job-board-client/apifake/token"
)

var _ token.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*token.StoredRefreshToken
	lock   sync.RWMutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*token.StoredRefreshToken),
	}
}

func (tr *FakeRefreshTokenRepo) Upsert(refreshToken *token.StoredRefreshToken) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	rt := *refreshToken
	tr.tokens[refreshToken.Token] = &rt
	return nil
}

func (tr *FakeRefreshTokenRepo) Delete(t string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	if _, ok := tr.tokens[t]; !ok {
		return token.NotFoundErr
	}
	delete(tr.tokens, t)
	return nil
}

func (tr *FakeRefreshTokenRepo) Get(t string) (*token.StoredRefreshToken, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	rt, ok := tr.tokens[t]
	if !ok {
		return nil, token.NotFoundErr
	}
	out := *rt
	return &out, nil
}

func (tr *FakeRefreshTokenRepo) DeleteByUserID(userID int64) (int, error) {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	n := 0
	for k, rt := range tr.tokens {
		if rt.UserID == userID {
			delete(tr.tokens, k)
			n++
		}
	}
	return n, nil
}

func (tr *FakeRefreshTokenRepo) Len() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return len(tr.tokens)
}
