package authflow_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authflow "github.com/hakbeom/go-authflow"
)

// testIdentity implements authflow.Identity
type testIdentity struct {
	id    string
	email string
	roles []string
}

func (t testIdentity) ID() string      { return t.id }
func (t testIdentity) Email() string   { return t.email }
func (t testIdentity) Roles() []string { return t.roles }

// MockNotifier implements authflow.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Deliver(ctx context.Context, address, subject, body string) error {
	args := m.Called(ctx, address, subject, body)
	return args.Error(0)
}

// stubUserStore is an in-memory CredentialStore/UserStore backed by a map.
type stubUserStore struct {
	mu    sync.Mutex
	users map[string]*authflow.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[string]*authflow.User{}}
}

func (s *stubUserStore) add(email, password string, roles ...string) *authflow.User {
	hash, err := authflow.HashPassword(password)
	if err != nil {
		panic(err)
	}

	roleModels := make([]*authflow.Role, 0, len(roles))
	for _, name := range roles {
		roleModels = append(roleModels, &authflow.Role{Name: name})
	}

	user := &authflow.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roleModels,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = user
	return user
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*authflow.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, authflow.ErrIdentityNotFound
	}
	return user, nil
}

func (s *stubUserStore) ResetPasswordByEmail(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return authflow.ErrIdentityNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

var (
	_ authflow.UserStore       = (*stubUserStore)(nil)
	_ authflow.CredentialStore = (*stubUserStore)(nil)
)
