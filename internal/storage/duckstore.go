package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/marcboeker/go-duckdb"
	"github.com/playdrawer/backend/internal/logging"
	"github.com/playdrawer/backend/internal/models"
)

// DuckStore implements Store on an embedded DuckDB database. Spots and the
// line overlay are kept as a JSON document next to the indexed columns.
type DuckStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
	log    *log.Logger
}

type playBody struct {
	Spots map[int]models.SpotConfig `json:"spots"`
	Lines *models.LinesData         `json:"linesData,omitempty"`
}

// NewDuckStore opens (or creates) the database at dbPath. An empty path
// opens an in-memory database.
func NewDuckStore(dbPath string, threads int, memoryLimit string) (*DuckStore, error) {
	logger := logging.New("duck-store")

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA enable_progress_bar=false",
		}
		if threads > 0 {
			pragmas = append(pragmas, fmt.Sprintf("PRAGMA threads=%d", threads))
		}
		if memoryLimit != "" {
			pragmas = append(pragmas, fmt.Sprintf("PRAGMA memory_limit='%s'", memoryLimit))
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				logger.Warnf("pragma %q failed: %v", pragma, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS plays (
			id         VARCHAR PRIMARY KEY,
			name       VARCHAR NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT,
			body       VARCHAR NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create plays table: %w", err)
	}

	logger.Infof("play database ready at %q", dbPath)
	return &DuckStore{db: db, dbPath: dbPath, log: logger}, nil
}

// Get retrieves a play by ID.
func (s *DuckStore) Get(id string) (*models.Play, error) {
	row := s.db.QueryRow(`SELECT id, name, created_at, updated_at, body FROM plays WHERE id = ?`, id)
	play, err := scanPlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayNotFound, id)
	}
	return play, err
}

// List returns every play, most recently modified first.
func (s *DuckStore) List() ([]*models.Play, error) {
	rows, err := s.db.Query(`
		SELECT id, name, created_at, updated_at, body
		FROM plays
		ORDER BY COALESCE(updated_at, created_at) DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing plays: %w", err)
	}
	defer rows.Close()

	var plays []*models.Play
	for rows.Next() {
		play, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		plays = append(plays, play)
	}
	return plays, rows.Err()
}

// Save writes a play, creating it when its ID is empty or unknown.
func (s *DuckStore) Save(play *models.Play, now time.Time) (*models.Play, bool, error) {
	in := play.Clone()
	if err := prepareID(in); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.Get(in.ID)
	if err != nil && !errors.Is(err, ErrPlayNotFound) {
		return nil, false, err
	}
	out := merge(prev, in, now)

	body, err := json.Marshal(playBody{Spots: out.Spots, Lines: out.Lines})
	if err != nil {
		return nil, false, fmt.Errorf("encoding play: %w", err)
	}

	var updated sql.NullInt64
	if out.UpdatedAt != nil {
		updated = sql.NullInt64{Int64: *out.UpdatedAt, Valid: true}
	}

	_, err = s.db.Exec(`INSERT OR REPLACE INTO plays (id, name, created_at, updated_at, body) VALUES (?, ?, ?, ?, ?)`,
		out.ID, out.Name, out.CreatedAt, updated, string(body))
	if err != nil {
		return nil, false, fmt.Errorf("saving play: %w", err)
	}

	return out, prev == nil, nil
}

// Delete removes a play from storage.
func (s *DuckStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM plays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting play: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlay(row scanner) (*models.Play, error) {
	var (
		play    models.Play
		updated sql.NullInt64
		body    string
	)
	if err := row.Scan(&play.ID, &play.Name, &play.CreatedAt, &updated, &body); err != nil {
		return nil, err
	}
	if updated.Valid {
		u := updated.Int64
		play.UpdatedAt = &u
	}

	var b playBody
	if err := json.Unmarshal([]byte(body), &b); err != nil {
		return nil, fmt.Errorf("decoding play %s: %w", play.ID, err)
	}
	play.Spots = b.Spots
	if play.Spots == nil {
		play.Spots = make(map[int]models.SpotConfig)
	}
	play.Lines = b.Lines

	return &play, nil
}
