package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	ResetToken          sql.NullString
	ResetTokenExpiresAt sql.NullTime
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
