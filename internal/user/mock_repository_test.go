package user

import (
	"context"
	"errors"
	"time"
)

type MockUserRepository struct {
	Users     map[string]*User
	CreateErr error
	LookupErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*User)}
}

func (m *MockUserRepository) CreateUser(_ context.Context, user *User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if user.ID == "" {
		user.ID = "user-" + user.Username
	}
	user.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetUserByID(_ context.Context, id string) (*User, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *MockUserRepository) GetUserByUsername(_ context.Context, username string) (*User, error) {
	return m.find(func(u *User) bool { return u.Username == username })
}

func (m *MockUserRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *MockUserRepository) find(match func(u *User) bool) (*User, error) {
	if m.LookupErr != nil {
		return nil, m.LookupErr
	}
	for _, u := range m.Users {
		if match(u) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

var errDatabaseDown = errors.New("connection refused")
