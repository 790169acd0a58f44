// Package middlewarectx содержит HTTP middleware магазина: проверку bearer-токена,
// доступ только для администраторов, ограничение частоты запросов и метрики.
//
// JWTMiddleware кладёт в контекст запроса пользователя из базы и разобранные
// claims токена; обработчики достают их через UserFromContext и ClaimsFromContext.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User ключ для *models.User в контексте.
	User Key = "user"
	// Claims ключ для *jwt.Claims в контексте.
	Claims Key = "claims"
)

// Authenticator проверяет токен и возвращает владельца.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *jwt.Claims, error)
}

// JWTMiddleware пропускает запрос дальше только с действующим bearer-токеном.
func JWTMiddleware(authenticator Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Debug("missing or invalid authorization header")
				response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			user, claims, err := authenticator.Authenticate(r.Context(), tokenStr)
			if errors.Is(err, auth.ErrUnauthenticated) {
				log.Info("token rejected", sl.Err(err))
				response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}
			if err != nil {
				log.Error("failed to authenticate request", sl.Err(err))
				response.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			ctx = context.WithValue(ctx, Claims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext возвращает аутентифицированного пользователя.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(User).(*models.User)
	return u, ok && u != nil
}

// ClaimsFromContext возвращает claims токена текущего запроса.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	c, ok := ctx.Value(Claims).(*jwt.Claims)
	return c, ok && c != nil
}
