package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/gofleetadvisor/invoicestack/api/handlers"
	"github.com/gofleetadvisor/invoicestack/api/middleware"
	"github.com/gofleetadvisor/invoicestack/internal/logger"
	"github.com/gofleetadvisor/invoicestack/internal/repository"
	"github.com/gofleetadvisor/invoicestack/internal/tracing"
	"github.com/gofleetadvisor/invoicestack/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, log logger.Logger, s *services.Services, repos *repository.Repositories, apikey string) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	r.Use(gin.Recovery())
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer()))

	// Health check endpoint, no auth
	r.GET("/health", handlers.HealthCheck)

	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-INVOICESTACK-API-KEY",
		ValidAPIKey: apikey,
	})

	api := r.Group("/v1")
	api.Use(apiKeyMiddleware)
	api.Use(middleware.TracingMiddleware())
	{
		runs := api.Group("/runs")
		{
			runs.POST("", handlers.TriggerRun(log, s.PipelineService))
		}

		companies := api.Group("/companies")
		{
			companies.GET("", handlers.ListCompanies(log, repos.CompanyRepository))
			companies.POST("", handlers.UpsertCompany(log, repos.CompanyRepository))
		}
	}
}
