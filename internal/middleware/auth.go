package middleware

import (
	"KeyVault/internal/model"
	"context"
	"net/http"
	"time"
)

// CookieName — имя cookie с сессионным токеном.
const CookieName = "auth_token"

type ctxKey int

const userKey ctxKey = iota

// IdentityResolver проверяет токен и возвращает пользователя или nil.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) *model.User
}

// WithAuth кладёт в контекст пользователя из cookie. Анонимные запросы пропускаются дальше.
func WithAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			if u := resolver.Resolve(r.Context(), c.Value); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), userKey, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetLoginCookie записывает токен в HttpOnly cookie.
func SetLoginCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearLoginCookie удаляет cookie сессии.
func ClearLoginCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetUserFromContext возвращает пользователя текущего запроса или nil.
func GetUserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}
