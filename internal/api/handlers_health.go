// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version  string
	sessions *session.Manager
	catalog  *routes.Catalog
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, sessions *session.Manager, catalog *routes.Catalog) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		sessions: sessions,
		catalog:  catalog,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.sessions != nil {
		resp["sessions"] = h.sessions.Count()
	}
	if h.catalog != nil {
		resp["routes"] = h.catalog.Size()
	}
	return c.JSON(http.StatusOK, resp)
}
