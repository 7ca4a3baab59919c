package auth

import (
	"context"
	"sync"
	"time"

	"github.com/sebuszqo/Cashlex/internal/user"
)

type MockAuthRepository struct {
	mu       sync.Mutex
	Sessions map[string]Session
	Secrets  map[string]string
	Enabled  map[string]bool
	FailWith error
	Extended int
}

func NewMockAuthRepository() *MockAuthRepository {
	return &MockAuthRepository{
		Sessions: make(map[string]Session),
		Secrets:  make(map[string]string),
		Enabled:  make(map[string]bool),
	}
}

func (m *MockAuthRepository) CreateSession(_ context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Sessions[session.SessionToken] = session
	return nil
}

func (m *MockAuthRepository) GetSession(_ context.Context, sessionToken string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	session, ok := m.Sessions[sessionToken]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (m *MockAuthRepository) ExtendSession(_ context.Context, sessionToken string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.Sessions[sessionToken]
	if !ok {
		return ErrSessionNotFound
	}
	session.Expires = expires
	m.Sessions[sessionToken] = session
	m.Extended++
	return nil
}

func (m *MockAuthRepository) DeleteSession(_ context.Context, sessionToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, sessionToken)
	return nil
}

func (m *MockAuthRepository) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for token, session := range m.Sessions {
		if session.Expires.Before(now) {
			delete(m.Sessions, token)
			removed++
		}
	}
	return removed, nil
}

func (m *MockAuthRepository) SaveTwoFactorSecret(_ context.Context, userID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Secrets[userID] = secret
	return nil
}

func (m *MockAuthRepository) GetTwoFactorSecret(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.Secrets[userID]
	if !ok {
		return "", ErrTwoFactorNotRegistered
	}
	return secret, nil
}

func (m *MockAuthRepository) EnableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enabled[userID] = true
	return nil
}

func (m *MockAuthRepository) DisableTwoFactor(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enabled[userID] = false
	delete(m.Secrets, userID)
	return nil
}

// MockUserService reads the two-factor flag from the repository mock so
// enabling it through the auth service is visible on the next lookup.
type MockUserService struct {
	Users map[string]*user.User
	Repo  *MockAuthRepository
}

func (m *MockUserService) SignUp(context.Context, string, string, string) (*user.User, error) {
	panic("not used by auth tests")
}

func (m *MockUserService) GetUserByID(_ context.Context, userID string) (*user.User, error) {
	u, ok := m.Users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return m.withTwoFactor(u), nil
}

func (m *MockUserService) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return m.withTwoFactor(u), nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (m *MockUserService) withTwoFactor(u *user.User) *user.User {
	copied := *u
	if m.Repo != nil {
		m.Repo.mu.Lock()
		if enabled, ok := m.Repo.Enabled[u.ID]; ok {
			copied.TwoFactorEnabled = enabled
		}
		m.Repo.mu.Unlock()
	}
	return &copied
}

// MockAuthenticator accepts exactly one code.
type MockAuthenticator struct {
	ValidCode string
}

func (m MockAuthenticator) GenerateSecret(accountName string) (string, string, error) {
	return "otpauth://totp/Cashlex:" + accountName + "?secret=TESTSECRET", "TESTSECRET", nil
}

func (m MockAuthenticator) VerifyCode(secret, code string) bool {
	return secret != "" && code == m.ValidCode
}
