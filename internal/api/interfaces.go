// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// RouteHandler serves the route catalog and renders routes
type RouteHandler interface {
	HandleListRoutes(c echo.Context) error
	HandleResolveRoute(c echo.Context) error
	HandleRenderRoute(c echo.Context) error
	HandleRenderRouteMsgpack(c echo.Context) error
}

// PlayHandler handles saved play operations
type PlayHandler interface {
	HandleListPlays(c echo.Context) error
	HandleGetPlay(c echo.Context) error
	HandleGetPlaySVG(c echo.Context) error
	HandleGetPlayMsgpack(c echo.Context) error
	HandleDeletePlay(c echo.Context) error
}

// SessionHandler handles editor session operations
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleSelectSpot(c echo.Context) error
	HandleUpdateSpot(c echo.Context) error
	HandleResetSpot(c echo.Context) error
	HandleSetName(c echo.Context) error
	HandleSetLines(c echo.Context) error
	HandleResetSession(c echo.Context) error
	HandleSaveSession(c echo.Context) error
	HandleLoadPlay(c echo.Context) error
	HandleGetDrawing(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
}

// PlayEventsHandler streams play changes over WebSocket
type PlayEventsHandler interface {
	HandleWebSocket(c echo.Context) error
}
