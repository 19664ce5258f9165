// handlers_routes.go - Route catalog and rendering handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/vmihailenco/msgpack/v5"
)

// RouteHandlerImpl implements the RouteHandler interface
type RouteHandlerImpl struct {
	catalog *routes.Catalog
	style   render.Style
	scale   float64
}

// NewRouteHandler creates a route handler. style and scale are used when a
// render request leaves them out.
func NewRouteHandler(catalog *routes.Catalog, style render.Style, scale float64) RouteHandler {
	return &RouteHandlerImpl{
		catalog: catalog,
		style:   style,
		scale:   scale,
	}
}

type routeResponse struct {
	Key   routes.Key   `json:"key"`
	Route routes.Route `json:"route"`
}

type renderRouteRequest struct {
	Key   routes.Key    `json:"key" msgpack:"key"`
	Scale float64       `json:"scale" msgpack:"scale"`
	Start render.Point  `json:"start" msgpack:"start"`
	Style *render.Style `json:"style,omitempty" msgpack:"style,omitempty"`
}

func (r *renderRouteRequest) validate() error {
	if r.Key == "" {
		return NewValidationError("key")
	}
	if r.Scale < 0 {
		return NewValidationError("scale")
	}
	return nil
}

type renderRouteResponse struct {
	Key        routes.Key         `json:"key" msgpack:"key"`
	Primitives []render.Primitive `json:"primitives" msgpack:"primitives"`
	Path       string             `json:"path" msgpack:"path"`
}

// HandleListRoutes returns the catalog, both as categories and as selection
// list groups
func (h *RouteHandlerImpl) HandleListRoutes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": h.catalog.Categories(),
		"options":    h.catalog.Options(),
		"count":      h.catalog.Size(),
	})
}

// HandleResolveRoute returns the route a key names
func (h *RouteHandlerImpl) HandleResolveRoute(c echo.Context) error {
	key := routes.Key(c.QueryParam("key"))
	if key == "" {
		return NewValidationError("key")
	}
	if _, _, err := routes.ParseKey(key); err != nil {
		return NewMalformedKeyError(string(key), err)
	}

	route, err := h.catalog.Resolve(key)
	if err != nil {
		return fromDomainError("failed to resolve route", err)
	}

	return c.JSON(http.StatusOK, routeResponse{Key: key, Route: route})
}

// HandleRenderRoute renders one route to primitives and SVG path data
func (h *RouteHandlerImpl) HandleRenderRoute(c echo.Context) error {
	resp, err := h.render(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleRenderRouteMsgpack renders one route and returns it as MessagePack
func (h *RouteHandlerImpl) HandleRenderRouteMsgpack(c echo.Context) error {
	resp, err := h.render(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(resp)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

func (h *RouteHandlerImpl) render(c echo.Context) (*renderRouteResponse, error) {
	var req renderRouteRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	route, err := h.catalog.Resolve(req.Key)
	if err != nil {
		return nil, fromDomainError("failed to resolve route", err)
	}

	scale := req.Scale
	if scale == 0 {
		scale = h.scale
	}
	style := h.style
	if req.Style != nil {
		if req.Style.Width > 0 {
			style.Width = req.Style.Width
		}
		if req.Style.Color != "" {
			style.Color = req.Style.Color
		}
	}

	prims := render.Render(route, scale, req.Start, &style)
	return &renderRouteResponse{
		Key:        req.Key,
		Primitives: prims,
		Path:       render.PathData(prims),
	}, nil
}
