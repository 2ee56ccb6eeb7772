package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "gallery_session"
	userIDKey   = "user_id"
)

type ctxKey struct{}

// Sessions stores the logged-in user id in a signed cookie.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret []byte, secure bool) *Sessions {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(86400 * 30)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return &Sessions{store: store}
}

func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, err := s.store.Get(r, sessionName)
	if err != nil && session == nil {
		return err
	}
	delete(session.Values, userIDKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Middleware puts the session's user id, if any, into the request context.
// Requests without a valid session pass through untouched.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.store.Get(r, sessionName)
		if err == nil {
			if id, ok := session.Values[userIDKey].(uint); ok && id != 0 {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint)
	return id, ok
}
