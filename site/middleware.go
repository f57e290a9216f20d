package site

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"quill/database"
)

type sessionContextKey string

const CurrentUserContextKey = sessionContextKey("current_user")
const SessionTokenCookieName = "quill_session_token"

func CurrentUser(r *http.Request) *database.User {
	user, _ := r.Context().Value(CurrentUserContextKey).(*database.User)
	return user
}

func generateAuthToken() (string, error) {
	const tokenLength = 32
	tokenBytes := make([]byte, tokenLength)
	_, err := rand.Read(tokenBytes)
	if err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)
	return token, nil
}

// TryPutUserInContextMiddleware resolves the session cookie to a user, if
// any, and stashes it in the request context for every handler.
func (s *Site) TryPutUserInContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionTokenCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := database.UserBySessionToken(s.db, cookie.Value)
		if err != nil || user == nil {
			// Clear the invalid cookie
			http.SetCookie(w, &http.Cookie{
				Name:   SessionTokenCookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnlyMiddleware guards the post create/edit/delete routes. Anonymous
// visitors and non-admin accounts both get a forbidden response.
func (s *Site) AdminOnlyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil || !user.IsAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
