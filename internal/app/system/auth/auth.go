// internal/app/system/auth/auth.go

// Package auth owns the signed cookie session: writing it at login,
// clearing it at logout, and loading the session user into the request
// context for everything downstream.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/httpjson"
	"go.uber.org/zap"
)

const (
	isAuthKey  = "is_authenticated"
	userIDKey  = "user_id"
	userName   = "user_name"
	userEmail  = "user_email"
)

// SessionUser is what we cache in the session and inject into r.Context().
// The role is NOT cached: roles are per-workspace here, so handlers resolve
// the caller's role against the target workspace on every request.
type SessionUser struct {
	ID    string
	Name  string
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the session user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionManager wraps the cookie store with the app's session policy.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds the cookie session store. The signing key must
// be at least 32 bytes; short keys are a deployment mistake worth failing
// startup over.
func NewSessionManager(key, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if len(key) < 32 {
		return nil, errors.New("session key must be at least 32 bytes")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SignIn writes the session cookie for the given user.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userName] = u.Name
	sess.Values[userEmail] = u.Email
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context if they are signed in.
// Requests with no (or an invalid) session pass through anonymously.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := m.store.Get(r, m.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:    getString(sess, userIDKey),
				Name:  getString(sess, userName),
				Email: getString(sess, userEmail),
			}
			r = r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous requests with a JSON 401. Mount it on
// every route group except registration, login, and health.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.WriteError(w, m.log, apperror.Unauthorized("You must be signed in to perform this action"))
	})
}

// WithTestUser returns a request whose context carries the given session
// user. Handler tests use this instead of building real cookies.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	v, _ := s.Values[key].(string)
	return v
}
