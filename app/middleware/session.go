package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"inkwell/app/models"
	"inkwell/app/repositories"

	"github.com/gorilla/mux"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "session_id"

// Authenticator resolves a session id to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*models.User, error)
}

// Identity is who is making the request. The zero value is anonymous.
type Identity struct {
	User      *models.User
	SessionID string
}

func (i Identity) Authenticated() bool {
	return i.User != nil
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Sessions, or anonymous.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// CurrentUser returns the logged in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	return IdentityFrom(ctx).User
}

// Sessions resolves the session cookie and stores the Identity in the
// request context. Unknown or expired sessions make the request anonymous.
func Sessions(auth Authenticator, logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id Identity
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				user, err := auth.Authenticate(r.Context(), c.Value)
				switch {
				case err == nil:
					id = Identity{User: user, SessionID: c.Value}
				case errors.Is(err, repositories.ErrNotFound):
					ClearSessionCookie(w)
				default:
					logger.Error("Session lookup failed", slog.String("error", err.Error()))
				}
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// SetSessionCookie hands the session id to the browser.
func SetSessionCookie(w http.ResponseWriter, session *repositories.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
