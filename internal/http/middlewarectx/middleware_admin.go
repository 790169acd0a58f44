package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/storefront/internal/http/response"
)

// AdminOnly пропускает только администраторов. Ставится после JWTMiddleware.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.WriteError(w, r, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			if !user.IsAdmin() {
				log.Info("admin access denied",
					slog.String("user_id", user.UUID),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				response.WriteError(w, r, http.StatusForbidden, "Access denied. Admin only.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
