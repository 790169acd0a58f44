// Package storefront собирает HTTP-приложение магазина: маршруты, middleware и
// жизненный цикл серверов.
package storefront

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/password"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/profileupdate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/ordercreate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/orderlist"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/orderread"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/orderstatus"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product/productcreate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product/productlist"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product/productread"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product/productremove"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/product/productupdate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user/usergenerate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user/userlist"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user/userpurge"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user/userread"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/user/userstats"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	authservice "github.com/magabrotheeeer/storefront/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/storefront/internal/services/catalog"
	orderservice "github.com/magabrotheeeer/storefront/internal/services/order"
	usersservice "github.com/magabrotheeeer/storefront/internal/services/users"

	_ "github.com/magabrotheeeer/storefront/docs"
)

// Services зависимости обработчиков.
type Services struct {
	Auth    *authservice.Service
	Catalog *catalogservice.Service
	Orders  *orderservice.Service
	Users   *usersservice.Service
	DB      health.Pinger
	Limiter *middlewarectx.IPRateLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.Metrics,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	authenticate := middlewarectx.JWTMiddleware(svc.Auth, logger)
	adminOnly := middlewarectx.AdminOnly(logger)

	r.Route("/api/v1", func(r chi.Router) {
		if svc.Limiter != nil {
			r.Use(middlewarectx.RateLimitMiddleware(logger, svc.Limiter))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/profile", profile.New(logger, svc.Auth).ServeHTTP)
				r.Put("/profile", profileupdate.New(logger, svc.Auth).ServeHTTP)
				r.Put("/change-password", password.New(logger, svc.Auth).ServeHTTP)
				r.Post("/logout", logout.New(logger, svc.Auth).ServeHTTP)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productlist.New(logger, svc.Catalog).ServeHTTP)
			r.Get("/{id}", productread.New(logger, svc.Catalog).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/", productcreate.New(logger, svc.Catalog).ServeHTTP)
				r.Put("/{id}", productupdate.New(logger, svc.Catalog).ServeHTTP)
				r.Delete("/{id}", productremove.New(logger, svc.Catalog).ServeHTTP)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", ordercreate.New(logger, svc.Orders).ServeHTTP)
			r.Get("/", orderlist.New(logger, svc.Orders).ServeHTTP)
			r.Get("/{id}", orderread.New(logger, svc.Orders).ServeHTTP)
			r.With(adminOnly).Put("/{id}/status", orderstatus.New(logger, svc.Orders).ServeHTTP)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Get("/", userlist.New(logger, svc.Users).ServeHTTP)
			r.Get("/stats", userstats.New(logger, svc.Users).ServeHTTP)
			r.Post("/generate-test-users", usergenerate.New(logger, svc.Users).ServeHTTP)
			r.Delete("/test-users", userpurge.New(logger, svc.Users).ServeHTTP)
			r.Get("/{id}", userread.New(logger, svc.Users).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, svc.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
