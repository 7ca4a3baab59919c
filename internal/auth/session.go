package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidPendingToken = errors.New("pending login token is invalid")
	ErrExpiredPendingToken = errors.New("pending login token is expired")
)

const defaultPendingLoginDuration = 5 * time.Minute

// PendingLoginStoreInterface keeps logins that passed the password check and
// still wait for a two-factor code.
type PendingLoginStoreInterface interface {
	GeneratePendingToken(userID string, duration time.Duration) (string, error)
	VerifyPendingToken(token string) (string, error)
	DeletePendingToken(token string)
	StartCleanup(ctx context.Context, interval time.Duration)
}

type pendingLogin struct {
	UserID    string
	ExpiresAt time.Time
}

type PendingLoginStore struct {
	mu     sync.RWMutex
	tokens map[string]pendingLogin
	now    func() time.Time
}

func NewPendingLoginStore() *PendingLoginStore {
	return &PendingLoginStore{
		tokens: make(map[string]pendingLogin),
		now:    time.Now,
	}
}

func (s *PendingLoginStore) GeneratePendingToken(userID string, duration time.Duration) (string, error) {
	token, err := generateRandomToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = pendingLogin{
		UserID:    userID,
		ExpiresAt: s.now().Add(duration),
	}
	return token, nil
}

func (s *PendingLoginStore) VerifyPendingToken(token string) (string, error) {
	s.mu.RLock()
	pending, exists := s.tokens[token]
	s.mu.RUnlock()

	if !exists {
		return "", ErrInvalidPendingToken
	}
	if s.now().After(pending.ExpiresAt) {
		s.DeletePendingToken(token)
		return "", ErrExpiredPendingToken
	}
	return pending.UserID, nil
}

func (s *PendingLoginStore) DeletePendingToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// StartCleanup drops expired pending logins every interval until ctx is done.
func (s *PendingLoginStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.removeExpired()
			}
		}
	}()
}

func (s *PendingLoginStore) removeExpired() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, pending := range s.tokens {
		if now.After(pending.ExpiresAt) {
			delete(s.tokens, token)
		}
	}
}

// generateRandomToken returns 32 random bytes, hex encoded.
func generateRandomToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", ErrInternalError
	}
	return hex.EncodeToString(tokenBytes), nil
}
