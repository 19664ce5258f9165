// handlers_routes_test.go - Tests for route catalog handlers
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestRouteHandler() RouteHandler {
	return NewRouteHandler(routes.Default(), render.DefaultStyle(), 1)
}

func TestRouteHandler_HandleListRoutes(t *testing.T) {
	handler := newTestRouteHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleListRoutes(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Categories []routes.Category    `json:"categories"`
		Options    []routes.OptionGroup `json:"options"`
		Count      int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Categories, 3)
	assert.Equal(t, "l_plays", body.Categories[0].ID)
	assert.Equal(t, "r_plays", body.Categories[2].ID)
	assert.Equal(t, 7, body.Count)
	require.Len(t, body.Options, 3)
	assert.Equal(t, routes.Key("c_plays#go"), body.Options[1].Options[0].Value)
}

func TestRouteHandler_HandleResolveRoute(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantStatus int
		wantErr    bool
		errCode    string
	}{
		{name: "left route", key: "l_plays#wheel", wantStatus: http.StatusOK},
		{name: "mirrored route", key: "r_plays#five_o", wantStatus: http.StatusOK},
		{name: "missing key", key: "", wantErr: true, errCode: "VALIDATION_ERROR"},
		{name: "no separator", key: "five_o", wantErr: true, errCode: "MALFORMED_KEY"},
		{name: "empty route id", key: "l_plays#", wantErr: true, errCode: "MALFORMED_KEY"},
		{name: "unknown category", key: "x_plays#go", wantErr: true, errCode: "NOT_FOUND"},
		{name: "unknown route", key: "c_plays#post", wantErr: true, errCode: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestRouteHandler()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/routes/resolve", nil)
			q := req.URL.Query()
			q.Set("key", tt.key)
			req.URL.RawQuery = q.Encode()
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleResolveRoute(c)

			if tt.wantErr {
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				assert.Equal(t, tt.errCode, apiErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"key":"`+tt.key+`"`)
		})
	}
}

func TestRouteHandler_HandleResolveRoute_Mirrored(t *testing.T) {
	handler := newTestRouteHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/routes/resolve?key=r_plays%23five_o", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler.HandleResolveRoute(c))

	var body routeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Route.Moves, 2)
	require.NotNil(t, body.Route.Moves[1].X)
	assert.Equal(t, 5.0, *body.Route.Moves[1].X)
}

func TestRouteHandler_HandleRenderRoute(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		errCode string
	}{
		{name: "default style", body: `{"key":"c_plays#go","scale":1}`},
		{name: "custom style", body: `{"key":"c_plays#go","scale":1,"style":{"width":2,"color":"#ff0000"}}`},
		{name: "missing key", body: `{"scale":1}`, wantErr: true, errCode: "VALIDATION_ERROR"},
		{name: "negative scale", body: `{"key":"c_plays#go","scale":-1}`, wantErr: true, errCode: "VALIDATION_ERROR"},
		{name: "unknown route", body: `{"key":"c_plays#post"}`, wantErr: true, errCode: "NOT_FOUND"},
		{name: "malformed key", body: `{"key":"go"}`, wantErr: true, errCode: "MALFORMED_KEY"},
		{name: "invalid json", body: `{`, wantErr: true, errCode: "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestRouteHandler()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/routes/render", bytes.NewBufferString(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleRenderRoute(c)

			if tt.wantErr {
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				assert.Equal(t, tt.errCode, apiErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)

			var resp renderRouteResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Primitives, 7)
			assert.Equal(t, render.Point{X: 0, Y: -15}, resp.Primitives[1].To)
			assert.Equal(t, "M0 0 L0 -15", resp.Path[:len("M0 0 L0 -15")])
		})
	}
}

func TestRouteHandler_RenderUsesStyleAndDefaultScale(t *testing.T) {
	handler := NewRouteHandler(routes.Default(), render.Style{Width: 3, Color: "#111111"}, 10)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/routes/render",
		bytes.NewBufferString(`{"key":"c_plays#go","start":{"x":100,"y":200},"style":{"color":"#222222"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler.HandleRenderRoute(c))

	var resp renderRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, render.Point{X: 100, Y: 200}, resp.Primitives[0].To)
	assert.Equal(t, render.Point{X: 100, Y: 50}, resp.Primitives[1].To)

	last := resp.Primitives[len(resp.Primitives)-1]
	require.NotNil(t, last.Style)
	assert.Equal(t, render.Style{Width: 3, Color: "#222222"}, *last.Style)
}

func TestRouteHandler_HandleRenderRouteMsgpack(t *testing.T) {
	handler := newTestRouteHandler()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/routes/render/msgpack",
		bytes.NewBufferString(`{"key":"l_plays#wheel","scale":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleRenderRouteMsgpack(c))
	assert.Equal(t, "application/msgpack", rec.Header().Get(echo.HeaderContentType))

	var resp renderRouteResponse
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, routes.Key("l_plays#wheel"), resp.Key)
	// moveTo, three curves, two arrow strokes of two primitives each, stroke
	require.Len(t, resp.Primitives, 9)
	assert.Equal(t, render.OpQuadTo, resp.Primitives[1].Op)
	assert.NotNil(t, resp.Primitives[1].Control)
}
