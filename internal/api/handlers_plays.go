// handlers_plays.go - Saved play handlers
package api

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/render"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
	"github.com/playdrawer/backend/internal/storage"
	"github.com/vmihailenco/msgpack/v5"
)

// PlayHandlerImpl implements the PlayHandler interface
type PlayHandlerImpl struct {
	store         storage.Store
	layout        *field.Layout
	catalog       *routes.Catalog
	style         render.Style
	allowDeletion bool
}

// NewPlayHandler creates a new play handler. layout is the field plays are
// drawn on when exported.
func NewPlayHandler(store storage.Store, layout *field.Layout, catalog *routes.Catalog, style render.Style, allowDeletion bool) PlayHandler {
	return &PlayHandlerImpl{
		store:         store,
		layout:        layout,
		catalog:       catalog,
		style:         style,
		allowDeletion: allowDeletion,
	}
}

// HandleListPlays returns the saved plays, most recently modified first
func (h *PlayHandlerImpl) HandleListPlays(c echo.Context) error {
	plays, err := h.store.List()
	if err != nil {
		return NewInternalError("failed to list plays", err)
	}

	infos := make([]models.PlayInfo, 0, len(plays))
	for _, p := range plays {
		infos = append(infos, p.Info())
	}
	return c.JSON(http.StatusOK, infos)
}

// HandleGetPlay returns one saved play
func (h *PlayHandlerImpl) HandleGetPlay(c echo.Context) error {
	play, err := h.getPlay(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, play)
}

// HandleGetPlayMsgpack returns one saved play as MessagePack
func (h *PlayHandlerImpl) HandleGetPlayMsgpack(c echo.Context) error {
	play, err := h.getPlay(c)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(play)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleGetPlaySVG draws a saved play on the field as an SVG document
func (h *PlayHandlerImpl) HandleGetPlaySVG(c echo.Context) error {
	play, err := h.getPlay(c)
	if err != nil {
		return err
	}

	doc := PlayDocument(h.layout, h.catalog, h.style, play)
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return NewInternalError("failed to draw play", err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// HandleDeletePlay removes a saved play
func (h *PlayHandlerImpl) HandleDeletePlay(c echo.Context) error {
	if !h.allowDeletion {
		return NewForbiddenError("play deletion is disabled")
	}

	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return fromDomainError("failed to delete play", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PlayHandlerImpl) getPlay(c echo.Context) (*models.Play, error) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}

	play, err := h.store.Get(id)
	if err != nil {
		return nil, fromDomainError("failed to load play", err)
	}
	return play, nil
}

// PlayDocument lays out play on layout: a labelled mark per positioned spot,
// the line of scrimmage when displayed and every route that still resolves.
func PlayDocument(layout *field.Layout, catalog *routes.Catalog, style render.Style, play *models.Play) *render.Document {
	doc := &render.Document{
		Width:  layout.FieldWidth,
		Height: layout.FieldHeight,
	}

	for _, idx := range play.SpotIndexes() {
		cfg := play.Spots[idx]
		if cfg.Position == "" {
			continue
		}
		cell, err := layout.Spot(idx)
		if err != nil {
			continue
		}
		doc.Marks = append(doc.Marks, render.Mark{Box: cell.Box, Label: cfg.Position})
	}

	if play.Lines != nil && play.Lines.Display {
		y := layout.LineY(play.Lines.Position)
		doc.LineY = &y
	}

	for _, d := range session.DrawSpots(layout, catalog, style, play.Spots) {
		doc.Routes = append(doc.Routes, d.Primitives)
	}
	return doc
}
