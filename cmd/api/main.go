package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/routes"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/auth/oauth"
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
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/events"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/migrate"
	"github.com/angelmondragon/marketplace-backend/pkg/pubsub"
	"github.com/angelmondragon/marketplace-backend/pkg/redis"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	bootCtx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Warn(bootCtx, "no .env file loaded")
	}

	cfg, err := config.Load()
	requireResource(bootCtx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	requireResource(ctx, logg, "database", err)
	requireResource(ctx, logg, "migrations", migrate.AutoRun(ctx, cfg, logg, dbClient))

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	closers := []func() error{dbClient.Close, redisClient.Close}
	pingers := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	var publisher events.Publisher = events.NewLogPublisher(logg)
	if cfg.PubSub.Enabled {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		closers = append(closers, psClient.Close)
		pingers["pubsub"] = psClient

		publisher, err = events.NewPubSubPublisher(psClient.OrdersPublisher(), appMetrics)
		requireResource(ctx, logg, "pubsub publisher", err)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)

	usersService, err := users.NewService(userRepo)
	requireResource(ctx, logg, "users service", err)
	storesService, err := stores.NewService(stores.NewRepository(gormDB))
	requireResource(ctx, logg, "stores service", err)
	categoriesService, err := categories.NewService(categories.NewRepository(gormDB), storesService)
	requireResource(ctx, logg, "categories service", err)
	colorsService, err := colors.NewService(colors.NewRepository(gormDB), storesService)
	requireResource(ctx, logg, "colors service", err)
	productsService, err := products.NewService(products.ServiceParams{
		Repo:       products.NewRepository(gormDB),
		Stores:     storesService,
		Categories: categoriesService,
		Colors:     colorsService,
	})
	requireResource(ctx, logg, "products service", err)
	reviewsService, err := reviews.NewService(reviews.NewRepository(gormDB), productsService)
	requireResource(ctx, logg, "reviews service", err)
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(gormDB),
		Tx:        dbClient,
		Products:  productsService,
		Publisher: publisher,
		Logger:    logg,
	})
	requireResource(ctx, logg, "orders service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Hasher:         security.NewPasswordHasher(cfg.Password),
		JWTConfig:      cfg.JWT,
	})
	requireResource(ctx, logg, "auth service", err)

	google, err := oauth.NewGoogle(cfg.OAuth)
	requireResource(ctx, logg, "google oauth", err)
	oauthFlow, err := auth.NewOAuthFlow(auth.OAuthFlowParams{
		Providers: oauth.NewRegistry(google, oauth.NewYandex(cfg.OAuth)),
		States:    redisClient,
		Users:     usersService,
		Issuer:    authService,
		StateTTL:  cfg.OAuth.StateTTL,
		Logger:    logg,
	})
	requireResource(ctx, logg, "oauth flow", err)

	storage, err := files.NewStorage(cfg.Uploads.Root, appMetrics)
	requireResource(ctx, logg, "file storage", err)

	handler := routes.NewRouter(routes.Dependencies{
		Config:         cfg,
		Logger:         logg,
		Metrics:        appMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Pingers:        pingers,
		Sessions:       sessionManager,
		RateLimiter:    redisClient,
		Auth:           authService,
		OAuth:          oauthFlow,
		Users:          usersService,
		Stores:         storesService,
		Categories:     categoriesService,
		Colors:         colorsService,
		Products:       productsService,
		Reviews:        reviewsService,
		Orders:         ordersService,
		Files:          storage,
	})

	addr := ":" + cfg.App.Port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case runErr = <-serveErr:
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	runErr = multierr.Append(runErr, server.Shutdown(shutdownCtx))
	for i := len(closers) - 1; i >= 0; i-- {
		runErr = multierr.Append(runErr, closers[i]())
	}

	if runErr != nil {
		logg.Error(serverCtx, "api server stopped with errors", runErr)
		os.Exit(1)
	}
	logg.Info(serverCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
