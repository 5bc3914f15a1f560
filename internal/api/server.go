package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorisk/app"
	"gorisk/internal"
	"gorisk/internal/config"

	"github.com/gin-gonic/gin"
)

// Server exposes the analysis service over JSON
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	config  *config.Config
	logger  *internal.Logger
}

// NewServer creates the API server and registers its routes
func NewServer(service *app.AnalysisService, cfg *config.Config, logger *internal.Logger) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:  gin.Default(),
		service: service,
		config:  cfg,
		logger:  logger.WithComponent("APIServer"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/api/v1/healthz", s.handleHealthz)
	s.router.POST("/api/v1/analyses", s.handleCreateAnalysis)
}

// Router exposes the underlying engine, mainly for httptest
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.router,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	s.logger.Info("Listening on :%s", s.config.Server.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		s.logger.Info("Server stopped")
		return nil
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}
