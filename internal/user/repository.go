package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const selectUserColumns = `
	SELECT id, COALESCE(username, ''), email, COALESCE(password_hash, ''), COALESCE(name, ''), two_factor_enabled, created_at
	FROM cashlex_user
`

func (r *userRepository) CreateUser(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
		INSERT INTO cashlex_user (id, username, email, password_hash, two_factor_enabled, created_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW())
		RETURNING created_at;
	`
	err := r.db.QueryRowContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return ErrUsernameAlreadyExists
			}
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUserWhere(ctx, "id = $1", id)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUserWhere(ctx, "username = $1", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUserWhere(ctx, "email = $1", email)
}

func (r *userRepository) getUserWhere(ctx context.Context, condition string, arg string) (*User, error) {
	var user User
	err := r.db.QueryRowContext(ctx, selectUserColumns+" WHERE "+condition, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name, &user.TwoFactorEnabled, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	return &user, nil
}
