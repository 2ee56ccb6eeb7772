package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/petermazzocco/go-photo-gallery/internal/store"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return c, false
	}
	c.Username = strings.TrimSpace(c.Username)
	return c, c.Username != "" && c.Password != ""
}

func (a *App) SignupHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := a.Users.Register(r.Context(), c.Username, c.Password)
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	case errors.Is(err, store.ErrStoreUnavailable):
		a.Log.ErrorContext(r.Context(), "signup: db connection failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Database connection failed")
		return
	case err != nil:
		a.Log.ErrorContext(r.Context(), "signup: create user failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	a.Log.InfoContext(r.Context(), "user created", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Account created successfully"})
}

func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := a.Users.Verify(r.Context(), c.Username, c.Password)
	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		a.Log.ErrorContext(r.Context(), "login: db connection failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Database connection failed")
		return
	case err != nil:
		a.Log.ErrorContext(r.Context(), "login: query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Query failed")
		return
	case user == nil:
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := a.Sessions.Login(w, r, user.ID); err != nil {
		a.Log.ErrorContext(r.Context(), "login: save session failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
	})
}

func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Logout(w, r); err != nil {
		a.Log.ErrorContext(r.Context(), "logout: clear session failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
