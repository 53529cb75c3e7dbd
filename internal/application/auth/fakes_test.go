package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Asjad-Ilahi/devops/internal/domain"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
)

type fakeUsers struct {
	mu         sync.Mutex
	byUsername map[string]*domain.User
	getErr     error
	createErr  error
	creates    int
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byUsername: make(map[string]*domain.User)}
	for _, u := range users {
		f.byUsername[u.Username] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, user *domain.User) (domain.UserID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return domain.UserID{}, f.createErr
	}
	if _, ok := f.byUsername[user.Username]; ok {
		return domain.UserID{}, domerrors.ErrUserExists
	}
	f.byUsername[user.Username] = user
	return user.ID, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byUsername[username], nil
}

func (f *fakeUsers) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byUsername {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

type fakeHasher struct {
	hashErr error
}

func (h fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h fakeHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password && strings.HasPrefix(hash, "hashed:")
}

type fakeIssuer struct {
	issued   []domain.Identity
	issueErr error
}

func (f *fakeIssuer) Issue(identity domain.Identity) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issued = append(f.issued, identity)
	return "token-for-" + identity.Username, nil
}

func (f *fakeIssuer) Verify(token string) (*domain.SessionClaims, bool) {
	return nil, false
}

type fakeLockout struct {
	locked    bool
	failures  map[string]int
	successes int
}

func (f *fakeLockout) IsLocked(ctx context.Context, username string) (bool, int) {
	return f.locked, 30
}

func (f *fakeLockout) RecordFailure(ctx context.Context, username string) {
	if f.failures == nil {
		f.failures = make(map[string]int)
	}
	f.failures[username]++
}

func (f *fakeLockout) RecordSuccess(ctx context.Context, username string) { f.successes++ }

var errStoreDown = errors.New("store down")
