package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MuseFM/config"
	"MuseFM/core/auth"
	"MuseFM/db"
	"MuseFM/logger"
	"MuseFM/model"
	"MuseFM/repository"
	"MuseFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Music{}, &model.Favorite{}); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	// Redis only backs the auth rate limiter; the limiter fails open, so a
	// missing redis does not block startup.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, auth rate limiting disabled", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	// Object storage failures are surfaced at upload time, not at startup.
	if err := storage.InitMinio(cfg); err != nil {
		logger.Warn("Object storage unavailable, uploads will fail until it recovers", logger.ErrorField(err))
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	audioRepo := repository.NewMySQLAudioRepository(db.DB)
	musicRepo := repository.NewGormMusicRepository(db.GormDB)
	favoriteRepo := repository.NewGormFavoriteRepository(db.GormDB)
	uploader := storage.NewMinioUploader(cfg)
	tokens := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	apiHandler := NewAPIHandler(userRepo, audioRepo, musicRepo, favoriteRepo, uploader, tokens, cfg)

	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(corsMiddleware)

	// Auth endpoints share one fixed-window rate limit per client IP.
	authLimiter := &RateLimiter{Limit: cfg.AuthRateLimit, Window: cfg.AuthRateWindow}
	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.Use(authLimiter.Middleware)
	authRouter.HandleFunc("/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	authRouter.HandleFunc("/google", apiHandler.GoogleAuthHandler).Methods(http.MethodPost)
	authRouter.HandleFunc("/refresh", apiHandler.RefreshTokenHandler).Methods(http.MethodPost)

	// Audio endpoints. The category route is registered before {id} so
	// "category" is never treated as an id.
	router.HandleFunc("/api/audio/upload", apiHandler.UploadAudioHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/audio", apiHandler.GetAllAudioHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/audio/category/{category}", apiHandler.GetAudioByCategoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/audio/{id}", apiHandler.GetAudioByIDHandler).Methods(http.MethodGet)

	// Music catalog endpoints
	router.HandleFunc("/api/music", apiHandler.CreateMusicHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/music", apiHandler.GetAllMusicHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/music/trending", apiHandler.GetTrendingMusicHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/music/category/{category}", apiHandler.GetMusicByCategoryHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/music/{id}/like", apiHandler.LikeMusicHandler).Methods(http.MethodPatch)
	router.HandleFunc("/api/music/{id}", apiHandler.DeleteMusicHandler).Methods(http.MethodDelete)

	// Favorites endpoints
	router.HandleFunc("/api/favorites", apiHandler.GetFavoritesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/favorites", apiHandler.AddFavoriteHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/favorites/{audioId}", apiHandler.RemoveFavoriteHandler).Methods(http.MethodDelete)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("API is running..."))
	}).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
