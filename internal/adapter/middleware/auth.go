package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RoleResolver looks up the stored role of an identity.
type RoleResolver interface {
	Role(ctx context.Context, userID string) (user.Role, error)
}

// Claims carried by identity-provider tokens.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token; used by tests and local tooling.
func SignToken(secret []byte, issuer, subject, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Auth verifies the bearer token and attaches a session.Session to the
// request context. The role always comes from the store, never the token.
func Auth(secret []byte, issuer string, roles RoleResolver) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			raw, ok := bearer(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFn); err != nil {
				msg := "invalid token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					msg = "token expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}
			if claims.Subject == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token has no subject"})
			}

			role, err := roles.Role(req.Context(), claims.Subject)
			if err != nil {
				slog.ErrorContext(req.Context(), "role lookup failed", "user_id", claims.Subject, "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "member store unavailable"})
			}

			s := session.Session{
				UserID: claims.Subject,
				Email:  claims.Email,
				Name:   claims.Name,
				Role:   role,
			}
			c.SetRequest(req.WithContext(session.WithContext(req.Context(), s)))
			return next(c)
		}
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := session.FromContext(c.Request().Context())
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not signed in"})
			}
			if !s.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": session.ErrAdminOnly.Error()})
			}
			return next(c)
		}
	}
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}
