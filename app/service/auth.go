package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aitp-labs/aitp-server/app/entity"
	"github.com/aitp-labs/aitp-server/app/repository"
	"github.com/aitp-labs/aitp-server/app/token"
	"github.com/aitp-labs/aitp-server/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const bcryptCost = 10

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByValidResetToken(ctx context.Context, resetToken string, now time.Time) (*entity.User, error)
	SetResetToken(ctx context.Context, userID, resetToken string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type resetMailer interface {
	SendPasswordReset(to, resetURL string) error
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type AuthServiceOption func(*authService)

type authService struct {
	userRepo userRepository
	codec    *token.Codec
	mailer   resetMailer
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(userRepo userRepository, codec *token.Codec, mailer resetMailer, cfg *config.Config, opts ...AuthServiceOption) AuthService {
	svc := &authService{
		userRepo: userRepo,
		codec:    codec,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAuthClock(now func() time.Time) AuthServiceOption {
	return func(s *authService) {
		if now != nil {
			s.now = now
		}
	}
}

// NormalizeEmail trims whitespace and lowercases; the normalized form is
// what the unique index sees.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	normalized := NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The pre-check above races with concurrent registrations; the unique
	// index resolves it and the repository reports the violation.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !s.verifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}

	return user, signed, nil
}

// verifyPassword prefers bcrypt. Stored values that are not bcrypt hashes
// fall back to direct equality; pre-migration accounts stored plaintext and
// this keeps them able to log in. Flagged in DESIGN.md as a security smell.
func (s *authService) verifyPassword(password, storedHash string) bool {
	if _, err := bcrypt.Cost([]byte(storedHash)); err != nil {
		if password == storedHash {
			logrus.Warn("Password verified via legacy plaintext fallback")
			return true
		}
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	normalized := NormalizeEmail(email)
	user, err := s.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if user == nil {
		// Same outcome as the found case; the controller responds with the
		// generic message either way.
		return nil
	}

	resetToken, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(s.cfg.ResetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, resetToken, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", strings.TrimSuffix(s.cfg.BaseURL, "/"), resetToken)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		// Delivery failure must not change the client-visible outcome.
		logrus.WithError(err).WithField("email", user.Email).Error("Failed to send password reset email")
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.userRepo.FindByValidResetToken(ctx, resetToken, s.now())
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, string(hashed))
}

// generateResetToken returns 256 bits of randomness, hex-encoded.
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
