package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/raterudder/rateexplorer/pkg/log"
)

type contextKey string

const adminEmailContextKey contextKey = "adminEmail"

// adminMiddleware only lets through requests carrying a valid bearer ID token
// for one of the admin emails.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.bypassAuth {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Ctx(ctx).WarnContext(ctx, "missing auth header")
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			log.Ctx(ctx).WarnContext(ctx, "invalid auth header")
			writeJSONError(w, "invalid auth header", http.StatusBadRequest)
			return
		}

		email, err := s.authenticateToken(ctx, token)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "admin token validation failed", slog.Any("error", err))
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !s.isAdmin(email) {
			log.Ctx(ctx).WarnContext(ctx, "non-admin access to admin endpoint", slog.String("email", email))
			writeJSONError(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx = log.WithAttrs(ctx, slog.String("adminEmail", email))
		ctx = context.WithValue(ctx, adminEmailContextKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authenticateToken verifies the ID token and returns its email claim.
func (s *Server) authenticateToken(ctx context.Context, token string) (string, error) {
	if s.oidcVerifier == nil {
		return "", errors.New("no oidc audience configured")
	}
	idToken, err := s.oidcVerifier(ctx, token)
	if err != nil {
		return "", err
	}
	var claims struct {
		Email         string `json:"email"`
		EmailVerified *bool  `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", errors.New("id token has no email")
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return "", errors.New("id token email is not verified")
	}
	return claims.Email, nil
}

func (s *Server) isAdmin(email string) bool {
	return email != "" && slices.Contains(s.adminEmails, email)
}
