package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthRoutes registers the health probe endpoint.
type HealthRoutes struct{}

// NewHealthRoutes constructs the health routes.
func NewHealthRoutes() *HealthRoutes {
	return &HealthRoutes{}
}

// RegisterRoutes registers the health endpoint.
func (h *HealthRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/api/health", handleHealth)
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
