// Package server wires the HTTP routes and runs the API until its context ends.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskly-be/internal/config"
	"taskly-be/internal/controllers"
	"taskly-be/internal/jwt"
	"taskly-be/internal/middleware"
	"taskly-be/internal/service"
	"taskly-be/internal/storage"
)

type Server struct {
	cfg    *config.Config
	log    *zap.Logger
	router *gin.Engine
}

// New builds the services and controllers on top of store and registers routes
func New(cfg *config.Config, log *zap.Logger, store *storage.Storage) (*Server, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.TokenTTL())

	authService, err := service.NewAuthService(store.Users, jwtService, cfg.BcryptCost, log)
	if err != nil {
		return nil, err
	}
	userService := service.NewUserService(store.Users, cfg.BcryptCost, log)
	taskService := service.NewTaskService(store.Tasks, log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.ClientURL))
	r.Use(middleware.ErrorHandler(log))
	r.NoRoute(middleware.NotFound)

	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService)
	taskController := controllers.NewTaskController(taskService)
	healthController := controllers.NewHealthController(time.Now())

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthController.Check)

		auth := api.Group("/auth")
		{
			auth.POST("/signup", authController.Signup)
			auth.POST("/login", authController.Login)
		}

		// Protected routes - require JWT authentication
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.GET("/me", userController.GetProfile)
			protected.PUT("/me", userController.UpdateProfile)

			protected.POST("/tasks", taskController.CreateTask)
			protected.GET("/tasks", taskController.ListTasks)
			protected.GET("/tasks/:id", taskController.GetTask)
			protected.PUT("/tasks/:id", taskController.UpdateTask)
			protected.DELETE("/tasks/:id", taskController.DeleteTask)
		}
	}

	return &Server{cfg: cfg, log: log, router: r}, nil
}

// Handler returns the HTTP handler with all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// up to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("api server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
