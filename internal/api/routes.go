// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
	"github.com/playdrawer/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store             *storage.Observed
	SessionMgr        *session.Manager
	Catalog           *routes.Catalog
	Layout            *field.Layout
	Style             render.Style
	AllowPlayDeletion bool
	WSMaxMessageKB    int
	Version           string
}

// Handlers holds all handler instances
type Handlers struct {
	Health     HealthHandler
	Routes     RouteHandler
	Plays      PlayHandler
	Sessions   SessionHandler
	PlayEvents PlayEventsHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(deps.Version, deps.SessionMgr, deps.Catalog),
		Routes:     NewRouteHandler(deps.Catalog, deps.Style, deps.Layout.YardScale()),
		Plays:      NewPlayHandler(deps.Store, deps.Layout, deps.Catalog, deps.Style, deps.AllowPlayDeletion),
		Sessions:   NewSessionHandler(deps.SessionMgr, deps.Store, deps.Layout),
		PlayEvents: NewWebSocketHandler(deps.Store, deps.WSMaxMessageKB),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Route catalog
	routeGroup := e.Group("/api/routes")
	routeGroup.GET("", handlers.Routes.HandleListRoutes)
	routeGroup.GET("/resolve", handlers.Routes.HandleResolveRoute)
	routeGroup.POST("/render", handlers.Routes.HandleRenderRoute)
	routeGroup.POST("/render/msgpack", handlers.Routes.HandleRenderRouteMsgpack)

	// Saved plays
	playGroup := e.Group("/api/plays")
	playGroup.GET("", handlers.Plays.HandleListPlays)
	playGroup.GET("/:id", handlers.Plays.HandleGetPlay)
	playGroup.GET("/:id/svg", handlers.Plays.HandleGetPlaySVG)
	playGroup.GET("/:id/msgpack", handlers.Plays.HandleGetPlayMsgpack)
	playGroup.DELETE("/:id", handlers.Plays.HandleDeletePlay)

	// Editor sessions
	sessionGroup := e.Group("/api/sessions")
	sessionGroup.POST("", handlers.Sessions.HandleCreateSession)
	sessionGroup.GET("/:sessionId", handlers.Sessions.HandleGetSession)
	sessionGroup.DELETE("/:sessionId", handlers.Sessions.HandleDeleteSession)
	sessionGroup.POST("/:sessionId/spots/:index/select", handlers.Sessions.HandleSelectSpot)
	sessionGroup.PUT("/:sessionId/spots/:index", handlers.Sessions.HandleUpdateSpot)
	sessionGroup.POST("/:sessionId/spots/:index/reset", handlers.Sessions.HandleResetSpot)
	sessionGroup.PUT("/:sessionId/name", handlers.Sessions.HandleSetName)
	sessionGroup.PUT("/:sessionId/lines", handlers.Sessions.HandleSetLines)
	sessionGroup.POST("/:sessionId/reset", handlers.Sessions.HandleResetSession)
	sessionGroup.POST("/:sessionId/save", handlers.Sessions.HandleSaveSession)
	sessionGroup.POST("/:sessionId/load", handlers.Sessions.HandleLoadPlay)
	sessionGroup.GET("/:sessionId/drawing", handlers.Sessions.HandleGetDrawing)
	sessionGroup.POST("/:sessionId/keepalive", handlers.Sessions.HandleSessionKeepAlive)
}

// RegisterWebSocketRoutes registers WebSocket routes
func RegisterWebSocketRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/api/ws/plays", handlers.PlayEvents.HandleWebSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
