package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bararan/swapandread/internal/catalog"
	"github.com/bararan/swapandread/internal/config"
	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/handler"
	"github.com/bararan/swapandread/internal/middleware"
	"github.com/bararan/swapandread/internal/repository"
	"github.com/bararan/swapandread/internal/service"
	"github.com/bararan/swapandread/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize external catalog client
	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Key:     cfg.Catalog.Key,
		Timeout: cfg.Catalog.Timeout,
	})

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo: userRepo,
		Tokens:   jwtService,
	})

	shelfService := service.NewShelfService(service.ShelfServiceConfig{
		Shelf: bookRepo,
	})

	exchangeService := service.NewExchangeService(service.ExchangeServiceConfig{
		Books:  bookRepo,
		Ledger: requestRepo,
		Outbox: messageRepo,
	})

	inboxService := service.NewInboxService(service.InboxServiceConfig{
		Store: messageRepo,
	})

	catalogService := service.NewCatalogService(service.CatalogServiceConfig{
		Searcher: catalogClient,
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100,
		Window: time.Minute,
		Burst:  20,
	})
	defer rateLimiter.Stop()

	// Initialize idempotency store
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     24 * time.Hour,
		Cleanup: time.Hour,
	})
	defer idempotencyStore.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	shelfHandler := handler.NewShelfHandler(shelfService)
	exchangeHandler := handler.NewExchangeHandler(exchangeService)
	inboxHandler := handler.NewInboxHandler(inboxService)
	searchHandler := handler.NewSearchHandler(catalogService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", handler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	authMiddleware := middleware.Auth(jwtService)

	// Profile endpoints
	mux.Handle("GET /v1/profile", authMiddleware(http.HandlerFunc(authHandler.GetProfile)))
	mux.Handle("PATCH /v1/profile", authMiddleware(http.HandlerFunc(authHandler.UpdateProfile)))

	// Book catalog and shelf endpoints
	mux.Handle("GET /v1/books", authMiddleware(http.HandlerFunc(shelfHandler.ListCatalog)))
	mux.Handle("GET /v1/profile/books", authMiddleware(http.HandlerFunc(shelfHandler.ListOwned)))
	mux.Handle("POST /v1/profile/books", authMiddleware(http.HandlerFunc(shelfHandler.AddBook)))
	mux.Handle("DELETE /v1/profile/books/{bookId}", authMiddleware(http.HandlerFunc(shelfHandler.RemoveBook)))

	// External catalog search
	mux.Handle("GET /v1/search", authMiddleware(http.HandlerFunc(searchHandler.Search)))

	// Swap request endpoints
	mux.Handle("POST /v1/books/{bookId}/request", authMiddleware(http.HandlerFunc(exchangeHandler.RequestBook)))
	mux.Handle("GET /v1/requests", authMiddleware(http.HandlerFunc(exchangeHandler.ListRequests)))
	mux.Handle("POST /v1/requests/{requestId}/cancel", authMiddleware(http.HandlerFunc(exchangeHandler.CancelRequest)))
	mux.Handle("POST /v1/requests/{requestId}/accept", authMiddleware(http.HandlerFunc(exchangeHandler.AcceptRequest)))
	mux.Handle("POST /v1/requests/{requestId}/reject", authMiddleware(http.HandlerFunc(exchangeHandler.RejectRequest)))

	// Message endpoints
	mux.Handle("GET /v1/messages", authMiddleware(http.HandlerFunc(inboxHandler.ListMessages)))
	mux.Handle("DELETE /v1/messages", authMiddleware(http.HandlerFunc(inboxHandler.DeleteMessages)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
