package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 2
	minPasswordLength = 8
	bcryptCost        = 10
)

var (
	ErrInvalidEmail          = errors.New("email address is not valid")
	ErrUsernameLength        = fmt.Errorf("username must be at least %d characters long", minUsernameLength)
	ErrPasswordLength        = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrUsernameAlreadyExists = errors.New("Username already exists")
	ErrEmailAlreadyExists    = errors.New("Email already exists")
	ErrInternalError         = errors.New("internal Server Error")
)

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

type Service interface {
	SignUp(ctx context.Context, username, email, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewUserService(repo Repository, log logrus.FieldLogger) Service {
	return &service{
		repo: repo,
		log:  log,
	}
}

// IsInputError reports whether err is caused by bad sign-up input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrUsernameLength) || errors.Is(err, ErrPasswordLength)
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func validateSignUp(username, email, password string) error {
	if len([]rune(username)) < minUsernameLength {
		return ErrUsernameLength
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

func (s *service) SignUp(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateSignUp(username, email, password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, ErrUsernameAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		s.log.WithError(err).Error("Error with database request")
		return nil, ErrInternalError
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		s.log.WithError(err).Error("Error with database request")
		return nil, ErrInternalError
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.log.WithError(err).Error("Error during hashing the password")
		return nil, ErrInternalError
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	// a concurrent sign-up can still hit the unique constraints
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUsernameAlreadyExists) || errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		s.log.WithError(err).Error("Error during creating the user")
		return nil, ErrInternalError
	}

	s.log.WithField("user_id", user.ID).Info("User signed up")
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetUserByUsername(ctx, username)
}
