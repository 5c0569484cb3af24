package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/aitp-labs/aitp-server/app/entity"
	"github.com/aitp-labs/aitp-server/app/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

const (
	insertUserQuery       = `(?s)INSERT INTO users \(id, name, email, password_hash, created_at, updated_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?\)`
	findByEmailQuery      = `(?s)SELECT id, name, email, password_hash, reset_token, reset_token_expires_at, created_at, updated_at\s+FROM users WHERE email = \?`
	findByResetTokenQuery = `(?s)SELECT id, name, email, password_hash, reset_token, reset_token_expires_at, created_at, updated_at\s+FROM users WHERE reset_token = \? AND reset_token_expires_at > \?`
	setResetTokenQuery    = `(?s)UPDATE users SET reset_token = \?, reset_token_expires_at = \?, updated_at = \?\s+WHERE id = \?`
	updatePasswordQuery   = `(?s)UPDATE users SET password_hash = \?, reset_token = NULL, reset_token_expires_at = NULL, updated_at = \?\s+WHERE id = \?`
)

var userColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"reset_token",
	"reset_token_expires_at",
	"created_at",
	"updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestUserRepository_Create(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()
	user := &entity.User{
		ID:           "user-1",
		Name:         "Ana",
		Email:        "ana@x.com",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec(insertUserQuery).
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectExec(insertUserQuery).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@x.com' for key 'users.email'"})

	err := repo.Create(context.Background(), &entity.User{
		ID:        "user-1",
		Name:      "Ana",
		Email:     "ana@x.com",
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != repository.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findByEmailQuery).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "Ana", "ana@x.com", "hash", nil, nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil || user.ID != "user-1" {
		t.Fatalf("expected user-1, got %+v", user)
	}
}

func TestUserRepository_FindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectQuery(findByEmailQuery).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("expected nil error for missing user, got %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestUserRepository_FindByValidResetToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(findByResetTokenQuery).
		WithArgs("reset-token", now).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "Ana", "ana@x.com", "hash", "reset-token", now.Add(time.Hour), now, now))

	user, err := repo.FindByValidResetToken(context.Background(), "reset-token", now)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if user == nil || !user.ResetToken.Valid || user.ResetToken.String != "reset-token" {
		t.Fatalf("expected user with reset token, got %+v", user)
	}
}

func TestUserRepository_SetResetToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)
	expiry := time.Now().Add(time.Hour)

	mock.ExpectExec(setResetTokenQuery).
		WithArgs("token", expiry, sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetResetToken(context.Background(), "user-1", "token", expiry); err != nil {
		t.Fatalf("set reset token failed: %v", err)
	}
}

func TestUserRepository_UpdatePasswordClearsResetToken(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	repo := repository.NewUserRepository(db)

	mock.ExpectExec(updatePasswordQuery).
		WithArgs("new-hash", sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), "user-1", "new-hash"); err != nil {
		t.Fatalf("update password failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
