package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stocklog/inventory-service/config"
	"github.com/stocklog/inventory-service/internal/auth"
	"github.com/stocklog/inventory-service/pkg/cache"
	"github.com/stocklog/inventory-service/pkg/db"
	"github.com/stocklog/inventory-service/pkg/logger"
	"github.com/stocklog/inventory-service/pkg/mailer"

	"github.com/stocklog/inventory-service/pkg/broker"

	itemH "github.com/stocklog/inventory-service/internal/item/handler"
	itemRepoPkg "github.com/stocklog/inventory-service/internal/item/repository"
	itemUCPkg "github.com/stocklog/inventory-service/internal/item/usecase"

	stockH "github.com/stocklog/inventory-service/internal/stock/handler"
	stockListenerPkg "github.com/stocklog/inventory-service/internal/stock/listener"
	stockRepoPkg "github.com/stocklog/inventory-service/internal/stock/repository"
	stockUCPkg "github.com/stocklog/inventory-service/internal/stock/usecase"

	userH "github.com/stocklog/inventory-service/internal/user/handler"
	userRepoPkg "github.com/stocklog/inventory-service/internal/user/repository"
	userUCPkg "github.com/stocklog/inventory-service/internal/user/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.Config{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	database, err := db.NewPostgres(&db.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer database.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Mailer
	var mail mailer.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.NewSMTPMailer(&mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		mail = &mailer.LogMailer{Logger: appLogger}
	}

	// 6. Initialize Repositories
	userRepo := userRepoPkg.NewPGRepository(database)
	itemRepo := itemRepoPkg.NewPGRepository(database)
	stockRepo := stockRepoPkg.NewPGRepository(database)

	// 7. Initialize UseCases
	tokenManager := auth.NewManager(cfg.JWT.SecretKey)
	userUC := userUCPkg.NewUserUseCase(userRepo, tokenManager, mail, appLogger, userUCPkg.Options{
		SessionTTL: time.Duration(cfg.JWT.SessionTTLHours) * time.Hour,
		ResetTTL:   time.Duration(cfg.JWT.ResetTTLMinutes) * time.Minute,
		ClientURL:  cfg.Client.URL,
	})
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, userRepo, appLogger)
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, userRepo, redisClient, appLogger)

	// 8. Initialize Sale-Event Listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic),
		)

		stockListener := stockListenerPkg.NewStockListener(kafkaConsumer, stockUC, appLogger)
		go stockListener.Start(ctx)
	}

	// 9. Initialize Handlers & Router
	userHandler := userH.NewUserHandler(userUC, appLogger)
	itemHandler := itemH.NewItemHandler(itemUC, appLogger)
	stockHandler := stockH.NewStockHandler(stockUC, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Post("/api/auth/forgot-password", userHandler.ForgotPassword)
	r.Post("/api/auth/reset-password/{token}", userHandler.ResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Get("/api/users/me", userHandler.Profile)
		r.Put("/api/users/me", userHandler.UpdateProfile)
		r.Delete("/api/users/me", userHandler.DeleteAccount)

		r.Post("/api/items", itemHandler.Create)
		r.Get("/api/items", itemHandler.List)
		r.Get("/api/items/summary", itemHandler.Summary)
		r.Get("/api/items/{id}", itemHandler.Get)
		r.Put("/api/items/{id}", itemHandler.Update)
		r.Delete("/api/items/{id}", itemHandler.Delete)

		r.Post("/api/items/{id}/increase", stockHandler.Increase)
		r.Post("/api/items/{id}/decrease", stockHandler.Decrease)
		r.Get("/api/items/{id}/logs", stockHandler.ListLogs)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// 10. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:              port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
