package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/Cashlex/internal/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInternalError          = errors.New("internal Server Error")
	ErrUser2FANotEnabled      = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled  = errors.New("2fa auth already enabled")
	ErrInvalid2FACode         = errors.New("2fa code is invalid")
	ErrTwoFactorNotRegistered = errors.New("two factor auth has not been registered")
	ErrSessionExpired         = errors.New("session is expired")
)

const (
	defaultAccessTokenDuration = 10 * time.Minute
	defaultSessionMaxAge       = 30 * 24 * time.Hour
	defaultSessionUpdateAge    = 24 * time.Hour
)

type Options struct {
	AccessTokenTTL   time.Duration
	SessionMaxAge    time.Duration
	SessionUpdateAge time.Duration
}

func (o Options) withDefaults() Options {
	if o.AccessTokenTTL <= 0 {
		o.AccessTokenTTL = defaultAccessTokenDuration
	}
	if o.SessionMaxAge <= 0 {
		o.SessionMaxAge = defaultSessionMaxAge
	}
	if o.SessionUpdateAge <= 0 || o.SessionUpdateAge > o.SessionMaxAge {
		o.SessionUpdateAge = defaultSessionUpdateAge
	}
	return o
}

// LoginResult is returned by every operation that can open or renew a session.
// When two-factor authentication is pending only PendingToken is set.
type LoginResult struct {
	User           *user.User
	AccessToken    string
	SessionToken   string
	SessionExpires time.Time
	PendingToken   string
}

func (r *LoginResult) TwoFactorRequired() bool {
	return r.PendingToken != ""
}

type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, pendingToken, code string) (*LoginResult, error)
	Refresh(ctx context.Context, sessionToken string) (*LoginResult, error)
	Logout(ctx context.Context, sessionToken string) error
	RegisterTwoFactor(ctx context.Context, userID string) (string, error)
	ConfirmTwoFactor(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID, code string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
	Authenticate(ctx context.Context, accessToken string) (string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	SessionCookieMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo          Repository
	userService   user.Service
	pendingLogins PendingLoginStoreInterface
	jwtManager    JWTManagerInterface
	authenticator TwoFactorAuthenticator
	opts          Options
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewAuthService(
	repo Repository,
	userService user.Service,
	pendingLogins PendingLoginStoreInterface,
	jwtManager JWTManagerInterface,
	authenticator TwoFactorAuthenticator,
	opts Options,
	log logrus.FieldLogger,
) Service {
	return &service{
		repo:          repo,
		userService:   userService,
		pendingLogins: pendingLogins,
		jwtManager:    jwtManager,
		authenticator: authenticator,
		opts:          opts.withDefaults(),
		log:           log,
		now:           time.Now,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	existingUser, err := s.userService.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.log.WithError(err).Error("error when getting user from database")
		return nil, ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		pendingToken, err := s.pendingLogins.GeneratePendingToken(existingUser.ID, defaultPendingLoginDuration)
		if err != nil {
			return nil, ErrInternalError
		}
		return &LoginResult{User: existingUser, PendingToken: pendingToken}, nil
	}

	return s.openSession(ctx, existingUser)
}

func (s *service) VerifyTwoFactor(ctx context.Context, pendingToken, code string) (*LoginResult, error) {
	userID, err := s.pendingLogins.VerifyPendingToken(pendingToken)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return nil, ErrUser2FANotEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return nil, err
	}

	s.pendingLogins.DeletePendingToken(pendingToken)
	return s.openSession(ctx, existingUser)
}

func (s *service) openSession(ctx context.Context, u *user.User) (*LoginResult, error) {
	sessionToken, err := generateRandomToken()
	if err != nil {
		return nil, ErrInternalError
	}

	session := Session{
		SessionToken: sessionToken,
		UserID:       u.ID,
		Expires:      s.now().Add(s.opts.SessionMaxAge),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.log.WithError(err).Error("could not store session")
		return nil, ErrInternalError
	}

	accessToken, err := s.jwtManager.GenerateAccessJWT(u.ID, sessionToken, s.opts.AccessTokenTTL)
	if err != nil {
		s.log.WithError(err).Error("error during JWT generation")
		return nil, ErrInternalError
	}

	s.log.WithField("user_id", u.ID).Info("Session opened")
	return &LoginResult{
		User:           u,
		AccessToken:    accessToken,
		SessionToken:   sessionToken,
		SessionExpires: session.Expires,
	}, nil
}

// Refresh issues a new access token. A session whose expiry was last pushed
// more than SessionUpdateAge ago is extended to now + SessionMaxAge.
func (s *service) Refresh(ctx context.Context, sessionToken string) (*LoginResult, error) {
	session, err := s.activeSession(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lastExtended := session.Expires.Add(-s.opts.SessionMaxAge)
	if now.Sub(lastExtended) >= s.opts.SessionUpdateAge {
		newExpiry := now.Add(s.opts.SessionMaxAge)
		if err := s.repo.ExtendSession(ctx, sessionToken, newExpiry); err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				return nil, ErrSessionNotFound
			}
			s.log.WithError(err).Error("could not extend session")
			return nil, ErrInternalError
		}
		session.Expires = newExpiry
	}

	accessToken, err := s.jwtManager.GenerateAccessJWT(session.UserID, sessionToken, s.opts.AccessTokenTTL)
	if err != nil {
		return nil, ErrInternalError
	}

	return &LoginResult{
		AccessToken:    accessToken,
		SessionToken:   sessionToken,
		SessionExpires: session.Expires,
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, sessionToken); err != nil {
		s.log.WithError(err).Error("could not delete session")
		return ErrInternalError
	}
	return nil
}

func (s *service) activeSession(ctx context.Context, sessionToken string) (*Session, error) {
	session, err := s.repo.GetSession(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.log.WithError(err).Error("could not load session")
		return nil, ErrInternalError
	}
	if !s.now().Before(session.Expires) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Authenticate validates an access token and the session it belongs to and
// returns the user id.
func (s *service) Authenticate(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return "", err
	}
	session, err := s.activeSession(ctx, claims.SessionID)
	if err != nil {
		return "", err
	}
	if session.UserID != claims.UserID {
		return "", ErrInvalidJWTToken
	}
	return claims.UserID, nil
}

func (s *service) RegisterTwoFactor(ctx context.Context, userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrUserNotFound
		}
		return "", ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		s.log.WithError(err).Error("Error during totp secret generation")
		return "", ErrInternalError
	}
	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret); err != nil {
		s.log.WithError(err).Error("could not save totp secret")
		return "", ErrInternalError
	}
	return otpURI, nil
}

func (s *service) ConfirmTwoFactor(ctx context.Context, userID, code string) error {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrUserNotFound
		}
		return ErrInternalError
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.EnableTwoFactor(ctx, userID); err != nil {
		s.log.WithError(err).Error("could not enable two-factor authentication")
		return ErrInternalError
	}
	return nil
}

func (s *service) DisableTwoFactor(ctx context.Context, userID, code string) error {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrUserNotFound
		}
		return ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}

	if err := s.checkCode(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.DisableTwoFactor(ctx, userID); err != nil {
		s.log.WithError(err).Error("could not disable two-factor authentication")
		return ErrInternalError
	}
	return nil
}

func (s *service) checkCode(ctx context.Context, userID, code string) error {
	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrTwoFactorNotRegistered) {
			return ErrTwoFactorNotRegistered
		}
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}
	return nil
}

func (s *service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, s.now())
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}
