package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/colors"
	"github.com/angelmondragon/marketplace-backend/internal/files"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/reviews"
	"github.com/angelmondragon/marketplace-backend/internal/stores"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// Dependencies is everything the router mounts. Nil services yield 500s on
// their routes rather than a missing route.
type Dependencies struct {
	Config         *config.Config
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Pingers        map[string]controllers.Pinger
	Sessions       session.AccessSessionChecker
	RateLimiter    middleware.RateLimitStore

	Auth       auth.Service
	OAuth      *auth.OAuthFlow
	Users      users.Service
	Stores     stores.Service
	Categories categories.Service
	Colors     colors.Service
	Products   products.Service
	Reviews    reviews.Service
	Orders     orders.Service
	Files      *files.Storage
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.HTTP.CORSAllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	if deps.Files != nil {
		r.Handle(files.PublicPrefix+"/*", deps.Files.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimiter, logg)).Post("/register", controllers.AuthRegister(deps.Auth, cfg.HTTP, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimiter, logg)).Post("/login", controllers.AuthLogin(deps.Auth, cfg.HTTP, logg))
		r.Post("/login/access-token", controllers.AuthRefresh(deps.Auth, cfg.HTTP, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.HTTP, logg))
		r.Get("/{provider}", controllers.OAuthBegin(deps.OAuth, logg))
		r.Get("/{provider}/callback", controllers.OAuthCallback(deps.OAuth, cfg.HTTP, cfg.OAuth.ClientURL, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(deps.Products, logg))
			r.Get("/{id}", controllers.CatalogGet(deps.Products, logg))
			r.Get("/{id}/reviews", controllers.CatalogReviews(deps.Reviews, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/users/profile", controllers.UserProfile(deps.Users, logg))

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", controllers.StoreList(deps.Stores, logg))
				r.Post("/", controllers.StoreCreate(deps.Stores, logg))
				r.Route("/{storeId}", func(r chi.Router) {
					r.Get("/", controllers.StoreGet(deps.Stores, logg))
					r.Put("/", controllers.StoreUpdate(deps.Stores, logg))
					r.Delete("/", controllers.StoreDelete(deps.Stores, logg))

					r.Get("/categories", controllers.CategoryListByStore(deps.Categories, logg))
					r.Post("/categories", controllers.CategoryCreate(deps.Categories, logg))
					r.Get("/colors", controllers.ColorListByStore(deps.Colors, logg))
					r.Post("/colors", controllers.ColorCreate(deps.Colors, logg))
					r.Get("/products", controllers.ProductListByStore(deps.Products, logg))
					r.Post("/products", controllers.ProductCreate(deps.Products, logg))
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.CategoryList(deps.Categories, logg))
				r.Get("/{id}", controllers.CategoryGet(deps.Categories, logg))
				r.Put("/{id}", controllers.CategoryUpdate(deps.Categories, logg))
				r.Delete("/{id}", controllers.CategoryDelete(deps.Categories, logg))
			})

			r.Route("/colors", func(r chi.Router) {
				r.Get("/", controllers.ColorList(deps.Colors, logg))
				r.Get("/{id}", controllers.ColorGet(deps.Colors, logg))
				r.Put("/{id}", controllers.ColorUpdate(deps.Colors, logg))
				r.Delete("/{id}", controllers.ColorDelete(deps.Colors, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(deps.Products, logg))
				r.Get("/{id}", controllers.ProductGet(deps.Products, logg))
				r.Put("/{id}", controllers.ProductUpdate(deps.Products, logg))
				r.Delete("/{id}", controllers.ProductDelete(deps.Products, logg))
				r.Post("/{id}/reviews", controllers.ReviewCreate(deps.Reviews, logg))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", controllers.ReviewList(deps.Reviews, logg))
				r.Get("/{id}", controllers.ReviewGet(deps.Reviews, logg))
				r.Put("/{id}", controllers.ReviewUpdate(deps.Reviews, logg))
				r.Delete("/{id}", controllers.ReviewDelete(deps.Reviews, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Post("/", controllers.OrderCreate(deps.Orders, logg))
				r.Get("/{id}", controllers.OrderGet(deps.Orders, logg))
				r.Put("/{id}", controllers.OrderUpdate(deps.Orders, logg))
				r.Delete("/{id}", controllers.OrderDelete(deps.Orders, logg))
			})

			if deps.Files != nil {
				r.Post("/files", controllers.FilesUpload(deps.Files, cfg.Uploads.MaxBytes, logg))
			}
		})
	})

	return r
}
