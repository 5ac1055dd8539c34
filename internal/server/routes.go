package server

import (
	"github.com/nulzo/model-catalog/internal/server/middleware"
	v1 "github.com/nulzo/model-catalog/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
		s.router.Use(limiter.Middleware())
	}

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/v1")
	if len(s.config.Server.APIKeys) > 0 {
		api.Use(middleware.Auth(s.config.Server.APIKeys))
	}
	{
		h := v1.NewHandler(s.service)

		api.GET("/catalog", h.ListCatalog)
		api.GET("/catalog/:id", h.GetCatalogEntry)
		api.POST("/catalog/:id/budget", h.Budget)

		api.GET("/models", h.ListModels)
		api.POST("/models", h.ImportModels)
		api.GET("/models/:id", h.GetModel)
		api.DELETE("/models/:id", h.DeleteModel)
	}
}
