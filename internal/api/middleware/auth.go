package middleware

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/solvehub/server/internal/store"
	"github.com/solvehub/server/internal/utils"
)

// CookieName is the session cookie holding the signed JWT.
const CookieName = "token"

type contextKey string

const sessionKey contextKey = "session"

// Claims is the JWT payload: the session identity plus an anti-forgery
// token minted at login.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	CSRF     string `json:"csrf"`
	jwt.RegisteredClaims
}

// Auth guards a handler behind the session cookie. A valid token puts the
// decoded store.Session on the request context; anything else is a 401 with
// a prompt to log in, never a hard failure.
func Auth(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil {
			unauthorized(w)
			return
		}

		var claims Claims
		token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			unauthorized(w)
			return
		}

		sess := store.Session{
			UserID:   claims.UserID,
			Username: claims.Username,
			Token:    claims.CSRF,
		}
		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFrom retrieves the session placed on the context by Auth.
func SessionFrom(ctx context.Context) (store.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(store.Session)
	return sess, ok
}

// WithSession is a test seam for exercising protected handlers without a
// signed cookie.
func WithSession(ctx context.Context, sess store.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func unauthorized(w http.ResponseWriter) {
	utils.Fail(w, http.StatusUnauthorized, "Please log in first")
}
