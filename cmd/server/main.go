package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskmanager/backend/api/handler"
	"github.com/taskmanager/backend/internal/config"
	pgInfra "github.com/taskmanager/backend/internal/infrastructure/postgres"
	"github.com/taskmanager/backend/internal/middleware"
	"github.com/taskmanager/backend/internal/router"
	"github.com/taskmanager/backend/internal/services/lifecycle"
	"github.com/taskmanager/backend/internal/store"
	"github.com/taskmanager/backend/internal/validate"
	"github.com/taskmanager/backend/pkg/httpcontext"
	"github.com/taskmanager/backend/pkg/logger"
	"github.com/taskmanager/backend/repository/supabase"
	authUC "github.com/taskmanager/backend/usecase/auth"
	profileUC "github.com/taskmanager/backend/usecase/profile"
	taskUC "github.com/taskmanager/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	storeClient, err := store.New(store.Config{
		URL:     cfg.Supabase.URL,
		Key:     cfg.Supabase.Key,
		Timeout: cfg.Supabase.Timeout,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("store client failed", zap.Error(err))
	}

	taskRepo := supabase.NewTaskRepository(storeClient, zapLogger, cfg.Query.SlowThreshold)
	userRepo := supabase.NewUserRepository(storeClient, zapLogger, cfg.Query.SlowThreshold)
	authRepo := supabase.NewAuthRepository(storeClient, zapLogger, cfg.Supabase.ResetRedirectURL)

	taskUseCase := taskUC.New(taskRepo, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	authUseCase := authUC.New(authRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		User:   apiHandler.NewUserHandler(profileUseCase, ctxAdapter, zapLogger),
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Authenticate(cfg.Supabase.JWTSecret, zapLogger)
	r := router.New(handlers, authMiddleware, validate.New())

	handler := middleware.Chain(r.Handler,
		middleware.RequestLog(zapLogger),
		middleware.Recover(zapLogger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.CacheHeaders(),
		middleware.Compress(cfg.HTTP.GzipMinSize),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
