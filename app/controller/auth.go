package controller

import (
	"errors"
	"net/http"

	"github.com/aitp-labs/aitp-server/app/dto"
	"github.com/aitp-labs/aitp-server/app/service"
	"github.com/aitp-labs/aitp-server/app/session"
	"github.com/aitp-labs/aitp-server/app/token"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type AuthController struct {
	authService service.AuthService
	codec       *token.Codec
	session     *session.Manager
}

func NewAuthController(authService service.AuthService, codec *token.Codec, sessionManager *session.Manager) *AuthController {
	return &AuthController{
		authService: authService,
		codec:       codec,
		session:     sessionManager,
	}
}

func (c *AuthController) Register(ctx echo.Context) error {
	req := &dto.RegisterRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind register request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.WithField("email", req.Email).Debug("Register validation failed")
		return validationError(ctx, err)
	}

	logrus.WithField("email", req.Email).Info("Register request received")
	user, err := c.authService.Register(ctx.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			logrus.WithField("email", req.Email).Warn("Register failed: email already exists")
			return ctx.JSON(http.StatusConflict, dto.MessageResponse{Message: "An account with this email already exists."})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Register failed")
		return internalError(ctx)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return ctx.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "Account created.",
		User:    &dto.UserView{Name: user.Name, Email: user.Email},
	})
}

func (c *AuthController) Login(ctx echo.Context) error {
	req := &dto.LoginRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind login request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.Debug("Login validation failed")
		return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Email and password are required."})
	}

	logrus.WithField("email", req.Email).Info("Login request received")
	user, signed, err := c.authService.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logrus.WithField("email", req.Email).Warn("Login failed: invalid credentials")
			return ctx.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Invalid email or password."})
		}
		logrus.WithError(err).WithField("email", req.Email).Error("Login failed")
		return internalError(ctx)
	}

	c.session.Attach(ctx, signed)

	logrus.WithField("email", user.Email).Info("Login successful")
	return ctx.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful.",
		User:    &dto.UserView{Name: user.Name, Email: user.Email},
	})
}

// Logout clears the session cookie. The token itself stays valid until
// natural expiry; there is no server-side revocation.
func (c *AuthController) Logout(ctx echo.Context) error {
	c.session.Clear(ctx)
	logrus.Info("Logout successful")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out successfully."})
}

// Me reports the current identity, or user null with a 200 when there is no
// valid session. Callers render optional UI state from this.
func (c *AuthController) Me(ctx echo.Context) error {
	tokenString, ok := c.session.Token(ctx)
	if !ok {
		return ctx.JSON(http.StatusOK, dto.MeResponse{User: nil})
	}

	claims, err := c.codec.Verify(tokenString)
	if err != nil {
		return ctx.JSON(http.StatusOK, dto.MeResponse{User: nil})
	}

	return ctx.JSON(http.StatusOK, dto.MeResponse{User: &dto.UserView{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
	}})
}

func (c *AuthController) ForgotPassword(ctx echo.Context) error {
	req := &dto.ForgotPasswordRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind forgot password request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.Debug("Forgot password validation failed")
		return validationError(ctx, err)
	}

	logrus.WithField("email", req.Email).Info("Password reset requested")
	if err := c.authService.ForgotPassword(ctx.Request().Context(), req.Email); err != nil {
		logrus.WithError(err).Error("Forgot password failed")
		return internalError(ctx)
	}

	// identical body whether or not the account exists
	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: "If an account with that email exists, we've sent a password reset link.",
	})
}

func (c *AuthController) ResetPassword(ctx echo.Context) error {
	req := &dto.ResetPasswordRequest{}
	if err := ctx.Bind(req); err != nil {
		logrus.WithError(err).Debug("Failed to bind reset password request")
		return ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := req.Validate(); err != nil {
		logrus.Debug("Reset password validation failed")
		return validationError(ctx, err)
	}

	logrus.Info("Reset password request received")
	if err := c.authService.ResetPassword(ctx.Request().Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			logrus.Warn("Reset password failed: invalid or expired token")
			return ctx.JSON(http.StatusBadRequest, dto.MessageResponse{
				Message: "Invalid or expired reset token. Please request a new password reset.",
			})
		}
		logrus.WithError(err).Error("Reset password failed")
		return internalError(ctx)
	}

	logrus.Info("Password reset successful")
	return ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Password reset successfully. You can now log in with your new password.",
	})
}

func validationError(ctx echo.Context, err error) error {
	messages := dto.ValidationMessages(err)
	return ctx.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{
		Message: messages[0],
		Errors:  messages,
	})
}

func internalError(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: "Something went wrong. Please try again."})
}
