package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sampleapp/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ContextWithUserID attaches an authenticated user ID to ctx.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

type Validator interface {
	Validate(ctx context.Context, userID, sessionID string) (string, error)
}

type AuthMiddleware struct {
	Routes     RouteTable
	Validator  Validator
	HeaderName string
	// OnOutcome, when set, observes every gate decision on protected routes.
	OnOutcome func(outcome string)
}

func NewAuthMiddleware(routes RouteTable, validator Validator, headerName string) *AuthMiddleware {
	if headerName == "" {
		headerName = "Cookie"
	}
	return &AuthMiddleware{
		Routes:     routes,
		Validator:  validator,
		HeaderName: headerName,
	}
}

// RequireAuth lets whitelisted requests through and validates the session
// header on everything else before calling next.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Routes.RequiresAuth(r) {
			next.ServeHTTP(w, r)
			return
		}

		creds := session.CredentialsFromHeader(r.Header.Get(a.HeaderName))

		userID, err := a.Validator.Validate(r.Context(), creds.UserID, creds.SessionID)
		if a.OnOutcome != nil {
			a.OnOutcome(session.OutcomeOf(err))
		}

		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		case errors.Is(err, session.ErrInvalidIdentifier):
			writeError(w, http.StatusBadRequest, "malformed session credentials")
		case errors.Is(err, session.ErrSessionExpired):
			writeError(w, http.StatusUnauthorized, "session expired, please login again")
		default:
			writeError(w, http.StatusForbidden, "not authenticated")
		}
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   true,
		"message": message,
	})
}
