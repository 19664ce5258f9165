// handlers_session.go - Editor session handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/field"
	"github.com/playdrawer/backend/internal/routes"
	"github.com/playdrawer/backend/internal/session"
	"github.com/playdrawer/backend/internal/storage"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessions *session.Manager
	store    storage.Store
	layout   *field.Layout
}

// NewSessionHandler creates a session handler. layout is the grid of sessions
// created without explicit dimensions.
func NewSessionHandler(sessions *session.Manager, store storage.Store, layout *field.Layout) SessionHandler {
	return &SessionHandlerImpl{
		sessions: sessions,
		store:    store,
		layout:   layout,
	}
}

type createSessionRequest struct {
	FieldWidth  float64 `json:"fieldWidth"`
	FieldHeight float64 `json:"fieldHeight"`
	SpotsPerRow int     `json:"spotsPerRow"`
}

type updateSpotRequest struct {
	Position *string     `json:"position"`
	Route    *routes.Key `json:"route"`
}

func (r *updateSpotRequest) validate() error {
	if r.Position == nil && r.Route == nil {
		return NewValidationError("position")
	}
	return nil
}

type setNameRequest struct {
	Name string `json:"playName"`
}

type setLinesRequest struct {
	Display  *bool    `json:"display"`
	Position *float64 `json:"position"`
}

func (r *setLinesRequest) validate() error {
	if r.Display == nil && r.Position == nil {
		return NewValidationError("display")
	}
	if r.Position != nil && (*r.Position < 0 || *r.Position > 100) {
		return NewValidationError("position")
	}
	return nil
}

type loadPlayRequest struct {
	PlayID string `json:"playId"`
}

func (r *loadPlayRequest) validate() error {
	if r.PlayID == "" {
		return NewValidationError("playId")
	}
	return nil
}

// HandleCreateSession starts a blank editor session
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	layout := h.layout
	if req.FieldWidth != 0 || req.FieldHeight != 0 || req.SpotsPerRow != 0 {
		w, hgt, n := h.layout.FieldWidth, h.layout.FieldHeight, h.layout.SpotsPerRow
		if req.FieldWidth != 0 {
			w = req.FieldWidth
		}
		if req.FieldHeight != 0 {
			hgt = req.FieldHeight
		}
		if req.SpotsPerRow != 0 {
			n = req.SpotsPerRow
		}
		custom, err := field.NewLayout(w, hgt, n, h.layout.YardsWide)
		if err != nil {
			return NewBadRequestError("invalid field dimensions", err)
		}
		layout = custom
	}

	return c.JSON(http.StatusCreated, h.sessions.Create(layout))
}

// HandleGetSession returns the state of a session
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	st, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, st)
}

// HandleDeleteSession ends a session
func (h *SessionHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.Delete(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSelectSpot toggles the selection of a spot
func (h *SessionHandlerImpl) HandleSelectSpot(c echo.Context) error {
	index, err := spotIndex(c)
	if err != nil {
		return err
	}
	return h.apply(c, func(e *session.Editor) error {
		return e.Select(index)
	})
}

// HandleUpdateSpot sets the position and/or route of a spot
func (h *SessionHandlerImpl) HandleUpdateSpot(c echo.Context) error {
	index, err := spotIndex(c)
	if err != nil {
		return err
	}

	var req updateSpotRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	return h.apply(c, func(e *session.Editor) error {
		// Route first so an unknown key leaves the spot untouched.
		if req.Route != nil {
			if err := e.SetRoute(index, *req.Route); err != nil {
				return err
			}
		}
		if req.Position != nil {
			return e.SetPosition(index, *req.Position)
		}
		return nil
	})
}

// HandleResetSpot clears a spot
func (h *SessionHandlerImpl) HandleResetSpot(c echo.Context) error {
	index, err := spotIndex(c)
	if err != nil {
		return err
	}
	return h.apply(c, func(e *session.Editor) error {
		return e.ResetSpot(index)
	})
}

// HandleSetName sets the play name
func (h *SessionHandlerImpl) HandleSetName(c echo.Context) error {
	var req setNameRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	return h.apply(c, func(e *session.Editor) error {
		e.SetName(req.Name)
		return nil
	})
}

// HandleSetLines sets the line of scrimmage overlay
func (h *SessionHandlerImpl) HandleSetLines(c echo.Context) error {
	var req setLinesRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}
	return h.apply(c, func(e *session.Editor) error {
		lines := e.Lines()
		if req.Display != nil {
			lines.Display = *req.Display
		}
		if req.Position != nil {
			lines.Position = *req.Position
		}
		e.SetLines(lines)
		return nil
	})
}

// HandleResetSession clears the editor for a new play
func (h *SessionHandlerImpl) HandleResetSession(c echo.Context) error {
	return h.apply(c, func(e *session.Editor) error {
		e.Reload("", nil)
		return nil
	})
}

// HandleSaveSession saves the session as a play
func (h *SessionHandlerImpl) HandleSaveSession(c echo.Context) error {
	play, err := h.sessions.Save(c.Param("sessionId"), h.store)
	if err != nil {
		return fromDomainError("failed to save play", err)
	}
	return c.JSON(http.StatusOK, play)
}

// HandleLoadPlay replaces the session contents with a saved play
func (h *SessionHandlerImpl) HandleLoadPlay(c echo.Context) error {
	var req loadPlayRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	st, err := h.sessions.Load(c.Param("sessionId"), h.store, req.PlayID)
	if err != nil {
		return fromDomainError("failed to load play", err)
	}
	return c.JSON(http.StatusOK, st)
}

// HandleGetDrawing renders the routes of every spot in the session
func (h *SessionHandlerImpl) HandleGetDrawing(c echo.Context) error {
	drawings, err := h.sessions.Drawings(c.Param("sessionId"))
	if err != nil {
		return fromDomainError("failed to draw session", err)
	}
	if drawings == nil {
		drawings = []session.Drawing{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"drawings": drawings,
	})
}

// HandleSessionKeepAlive keeps the session from being cleaned up
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.Touch(id) {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"sessionId": id,
	})
}

func (h *SessionHandlerImpl) apply(c echo.Context, fn func(*session.Editor) error) error {
	st, err := h.sessions.With(c.Param("sessionId"), fn)
	if err != nil {
		return fromDomainError("failed to update session", err)
	}
	return c.JSON(http.StatusOK, st)
}

func spotIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, NewBadRequestError("invalid spot index", err)
	}
	return index, nil
}
