// Package server exposes the HTTP API over gin.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/centsible/centsible/internal/auth"
	"github.com/centsible/centsible/internal/config"
	"github.com/centsible/centsible/internal/ledger"
)

// Server wires the HTTP routes to the auth and ledger services.
type Server struct {
	engine  *gin.Engine
	auth    *auth.Service
	ledger  *ledger.Ledger
	limiter *rateLimiter
	httpSrv *http.Server
}

// New builds the router and all middleware.
func New(cfg *config.Config, authSvc *auth.Service, ldg *ledger.Ledger) *Server {
	if cfg.LogFormat != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		auth:    authSvc,
		ledger:  ldg,
		limiter: newRateLimiter(cfg.RateLimitPerMinute),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(), s.limiter.middleware())
	s.engine = engine
	s.registerRoutes()

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/me", s.requireAuth(), s.handleMe)
	authGroup.PATCH("/password", s.requireAuth(), s.handleChangePassword)

	categories := api.Group("/categories", s.requireAuth())
	categories.GET("", s.handleListCategories)
	categories.POST("", s.handleCreateCategory)
	categories.PATCH("/:id", s.handleUpdateCategory)
	categories.DELETE("/:id", s.handleDeleteCategory)

	transactions := api.Group("/transactions", s.requireAuth())
	transactions.GET("", s.handleListTransactions)
	transactions.POST("", s.handleCreateTransaction)
	transactions.GET("/:id", s.handleGetTransaction)
	transactions.PATCH("/:id", s.handleUpdateTransaction)
	transactions.DELETE("/:id", s.handleDeleteTransaction)

	reports := api.Group("/reports", s.requireAuth())
	reports.GET("/summary", s.handleSummaryReport)
	reports.GET("/balance", s.handleBalanceReport)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves requests until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.limiter.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
