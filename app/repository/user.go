package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aitp-labs/aitp-server/app/entity"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateEmail is returned when an insert hits the unique index on
// users.email. The constraint is the authoritative duplicate signal; the
// pre-insert existence check in the service only narrows the window.
var ErrDuplicateEmail = errors.New("email already registered")

const mysqlDuplicateEntry = 1062

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
		FROM users WHERE email = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
		FROM users WHERE id = ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByValidResetToken matches a reset token that has not yet expired.
// Expired tokens are simply never found; no cleanup pass is needed.
func (r *UserRepository) FindByValidResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	query := `
		SELECT id, name, email, password_hash, reset_token, reset_token_expires_at, created_at, updated_at
		FROM users WHERE reset_token = ? AND reset_token_expires_at > ?
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, token, now))
}

// SetResetToken overwrites any previous reset token; at most one is active
// per user.
func (r *UserRepository) SetResetToken(ctx context.Context, userID, resetToken string, expiresAt time.Time) error {
	query := `
		UPDATE users SET reset_token = ?, reset_token_expires_at = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, resetToken, expiresAt, time.Now(), userID)
	return err
}

// UpdatePassword replaces the password hash and clears the reset token
// fields in a single statement, so no intermediate state is observable.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expires_at = NULL, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	return err
}

func (r *UserRepository) scanUser(row *sql.Row) (*entity.User, error) {
	user := &entity.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.ResetToken,
		&user.ResetTokenExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
