package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aitp-labs/aitp-server/app/dto"
	"github.com/aitp-labs/aitp-server/app/session"
	"github.com/aitp-labs/aitp-server/app/token"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Context keys set for handlers behind protected API routes.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserName  = "user_name"
)

const LoginPath = "/auth/login"

type tokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Routes partitions the path space. A path matching none of the sets passes
// through untouched.
type Routes struct {
	PublicPages    []string
	PublicAPIs     []string
	ProtectedPages []string
	ProtectedAPIs  []string
}

// DefaultRoutes is the application's route classification.
func DefaultRoutes() Routes {
	return Routes{
		PublicPages: []string{
			"/",
			"/auth/login",
			"/auth/register",
			"/auth/forgot-password",
			"/auth/reset-password",
		},
		PublicAPIs: []string{
			"/register",
			"/login",
			"/logout",
			"/auth/me",
			"/forgot-password",
			"/reset-password",
		},
		ProtectedPages: []string{
			"/profile",
			"/saved",
			"/generate",
			"/results",
		},
		ProtectedAPIs: []string{
			"/api/itineraries",
			"/api/generate-itinerary",
		},
	}
}

// Gatekeeper intercepts every request before routing and enforces the
// public/protected classification. Handlers behind protected API routes can
// rely on the identity context keys and never re-verify the token.
type Gatekeeper struct {
	codec   tokenVerifier
	session *session.Manager
	routes  Routes
}

func NewGatekeeper(codec tokenVerifier, sessionManager *session.Manager, routes Routes) *Gatekeeper {
	return &Gatekeeper{
		codec:   codec,
		session: sessionManager,
		routes:  routes,
	}
}

func (g *Gatekeeper) Guard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		if matchAny(path, g.routes.PublicPages) || matchAny(path, g.routes.PublicAPIs) {
			return next(c)
		}

		isProtectedPage := matchAny(path, g.routes.ProtectedPages)
		isProtectedAPI := matchAny(path, g.routes.ProtectedAPIs)
		if !isProtectedPage && !isProtectedAPI {
			return next(c)
		}

		tokenString, ok := g.session.Token(c)
		if !ok {
			logrus.WithField("path", path).Debug("Protected route without session cookie")
			if isProtectedAPI {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized. Please log in."})
			}
			return redirectToLogin(c, path)
		}

		claims, err := g.codec.Verify(tokenString)
		if err != nil {
			logrus.WithField("path", path).Debug("Protected route with invalid session token")
			// drop the stale cookie so the client stops replaying it
			g.session.Clear(c)
			if isProtectedAPI {
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired token. Please log in again."})
			}
			return redirectToLogin(c, path)
		}

		if isProtectedAPI {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserEmail, claims.Email)
			c.Set(ContextUserName, claims.Name)
		}

		return next(c)
	}
}

func redirectToLogin(c echo.Context, originalPath string) error {
	target := LoginPath + "?redirect=" + url.QueryEscape(originalPath)
	return c.Redirect(http.StatusFound, target)
}

func matchAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matchRoute(path, pattern) {
			return true
		}
	}
	return false
}

// matchRoute matches on whole path segments: the path equals the pattern,
// or extends it below a "/" boundary. "/generate-extra" does not match
// "/generate".
func matchRoute(path, pattern string) bool {
	if path == pattern {
		return true
	}
	if pattern == "/" {
		return false
	}
	return strings.HasPrefix(path, pattern) && len(path) > len(pattern) && path[len(pattern)] == '/'
}
