// Package storage persists plays. Plays are keyed by identifier and stored as
// whole documents, the way the browser editor kept them in local storage.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/playdrawer/backend/internal/models"
)

var (
	// ErrPlayNotFound is returned for unknown play identifiers.
	ErrPlayNotFound = errors.New("storage: play not found")

	// ErrInvalidID is returned for identifiers that cannot be stored safely.
	ErrInvalidID = errors.New("storage: invalid play id")
)

// Store defines the interface for play storage.
type Store interface {
	Get(id string) (*models.Play, error)
	List() ([]*models.Play, error)
	// Save creates or updates a play and reports whether it was created.
	Save(play *models.Play, now time.Time) (*models.Play, bool, error)
	Delete(id string) error
	Close() error
}

// merge applies a save of in on top of prev (nil for a new play). New plays
// get CreatedAt; existing ones keep it and get UpdatedAt.
func merge(prev, in *models.Play, now time.Time) *models.Play {
	ts := now.UnixMilli()

	var out *models.Play
	if prev == nil {
		out = in.Clone()
		out.CreatedAt = ts
		out.UpdatedAt = nil
	} else {
		out = prev.Clone()
		out.Name = in.Name
		out.Spots = in.Clone().Spots
		if in.Lines != nil {
			l := *in.Lines
			out.Lines = &l
		} else {
			out.Lines = nil
		}
		out.UpdatedAt = &ts
	}

	if out.Spots == nil {
		out.Spots = make(map[int]models.SpotConfig)
	}
	return out
}

// prepareID assigns a fresh id to plays without one and rejects ids that
// could escape a directory.
func prepareID(p *models.Play) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
		return nil
	}
	return validateID(p.ID)
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
