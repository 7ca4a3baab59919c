package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	SessionToken string
	UserID       string
	Expires      time.Time
}

type Repository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionToken string) (*Session, error)
	ExtendSession(ctx context.Context, sessionToken string, expires time.Time) error
	DeleteSession(ctx context.Context, sessionToken string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	SaveTwoFactorSecret(ctx context.Context, userID, secret string) error
	GetTwoFactorSecret(ctx context.Context, userID string) (string, error)
	EnableTwoFactor(ctx context.Context, userID string) error
	DisableTwoFactor(ctx context.Context, userID string) error
}

type authRepository struct {
	db *sql.DB
}

func NewAuthRepository(db *sql.DB) Repository {
	return &authRepository{
		db: db,
	}
}

func (r *authRepository) CreateSession(ctx context.Context, session Session) error {
	query := `
		INSERT INTO cashlex_session (session_token, user_id, expires)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, session.SessionToken, session.UserID, session.Expires); err != nil {
		return fmt.Errorf("could not create session: %w", err)
	}
	return nil
}

func (r *authRepository) GetSession(ctx context.Context, sessionToken string) (*Session, error) {
	query := `
		SELECT session_token, user_id, expires
		FROM cashlex_session
		WHERE session_token = $1
	`
	var session Session
	err := r.db.QueryRowContext(ctx, query, sessionToken).Scan(&session.SessionToken, &session.UserID, &session.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("could not get session: %w", err)
	}
	return &session, nil
}

func (r *authRepository) ExtendSession(ctx context.Context, sessionToken string, expires time.Time) error {
	query := `UPDATE cashlex_session SET expires = $2 WHERE session_token = $1`
	result, err := r.db.ExecContext(ctx, query, sessionToken, expires)
	if err != nil {
		return fmt.Errorf("could not extend session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *authRepository) DeleteSession(ctx context.Context, sessionToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cashlex_session WHERE session_token = $1`, sessionToken); err != nil {
		return fmt.Errorf("could not delete session: %w", err)
	}
	return nil
}

func (r *authRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cashlex_session WHERE expires < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("could not delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (r *authRepository) SaveTwoFactorSecret(ctx context.Context, userID, secret string) error {
	query := `
		INSERT INTO cashlex_two_factor_secret (user_id, secret, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET secret = EXCLUDED.secret,
			created_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, secret); err != nil {
		return fmt.Errorf("could not save two-factor secret: %w", err)
	}
	return nil
}

func (r *authRepository) GetTwoFactorSecret(ctx context.Context, userID string) (string, error) {
	var secret string
	err := r.db.QueryRowContext(ctx, `SELECT secret FROM cashlex_two_factor_secret WHERE user_id = $1`, userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrTwoFactorNotRegistered
		}
		return "", fmt.Errorf("could not get two-factor secret: %w", err)
	}
	return secret, nil
}

func (r *authRepository) EnableTwoFactor(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE cashlex_user SET two_factor_enabled = TRUE WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("could not enable two-factor authentication: %w", err)
	}
	return nil
}

func (r *authRepository) DisableTwoFactor(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE cashlex_user SET two_factor_enabled = FALSE WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("could not disable two-factor authentication: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cashlex_two_factor_secret WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("could not delete two-factor secret: %w", err)
	}
	return tx.Commit()
}
