package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wellspring/internal/identity"
	"wellspring/internal/sentinel"
)

// PostgresStore persists users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, name, email, avatar, role, google_id, auth_method, password_hash, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindOrCreateByEmail atomically finds a user by email or creates it if not found.
// The ON CONFLICT clause makes concurrent first sign-ins converge on one row.
func (s *PostgresStore) FindOrCreateByEmail(ctx context.Context, email string, user *identity.User) (*identity.User, bool, error) {
	if user == nil {
		return nil, false, fmt.Errorf("user is required")
	}

	now := time.Now().UTC()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, avatar, role, google_id, auth_method, password_hash, created_at, updated_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (email) DO UPDATE SET email = users.email
		RETURNING `+userColumns+`, (xmax = 0) AS inserted`,
		user.ID, user.Name, email, user.Avatar, string(user.Role),
		user.GoogleID, string(user.AuthMethod), user.PasswordHash, now)

	u := &identity.User{}
	var role, authMethod string
	var inserted bool
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &role, &u.GoogleID,
		&authMethod, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("find or create user: %w", err)
	}
	u.Role = identity.Role(role)
	u.AuthMethod = identity.AuthMethod(authMethod)
	return u, inserted, nil
}

func (s *PostgresStore) Update(ctx context.Context, user *identity.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, avatar = $3, role = $4, google_id = $5,
		    auth_method = $6, password_hash = $7, updated_at = $8
		WHERE id = $1`,
		user.ID, user.Name, user.Avatar, string(user.Role), user.GoogleID,
		string(user.AuthMethod), user.PasswordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*identity.User, error) {
	u := &identity.User{}
	var role, authMethod string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Avatar, &role, &u.GoogleID,
		&authMethod, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = identity.Role(role)
	u.AuthMethod = identity.AuthMethod(authMethod)
	u.Email = strings.ToLower(u.Email)
	return u, nil
}
