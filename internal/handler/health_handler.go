package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"studio-service/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "studio-service",
	})
}

// MetricsHandler exposes the Prometheus scrape endpoint
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
