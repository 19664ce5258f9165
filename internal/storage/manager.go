package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/playdrawer/backend/internal/logging"
	"github.com/playdrawer/backend/internal/models"
)

const playExt = ".json"

// LocalStore implements Store with one JSON document per play on the local
// filesystem. All plays are loaded into memory when the store opens.
type LocalStore struct {
	mu      sync.RWMutex
	playDir string
	plays   map[string]*models.Play
	log     *log.Logger
}

// NewLocalStore creates a LocalStore and loads the plays already in playDir.
func NewLocalStore(playDir string) (*LocalStore, error) {
	if err := os.MkdirAll(playDir, 0755); err != nil {
		return nil, fmt.Errorf("creating play directory: %w", err)
	}

	s := &LocalStore{
		playDir: playDir,
		plays:   make(map[string]*models.Play),
		log:     logging.New("play-store"),
	}

	if err := s.populatePlays(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *LocalStore) populatePlays() error {
	entries, err := os.ReadDir(s.playDir)
	if err != nil {
		return fmt.Errorf("reading play directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), playExt) {
			continue
		}

		path := filepath.Join(s.playDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading play %s: %w", entry.Name(), err)
		}

		var play models.Play
		if err := json.Unmarshal(data, &play); err != nil {
			// A corrupt document should not keep every other play from loading.
			s.log.Warnf("skipping unreadable play %s: %v", entry.Name(), err)
			continue
		}
		play.ID = strings.TrimSuffix(entry.Name(), playExt)
		if play.Spots == nil {
			play.Spots = make(map[int]models.SpotConfig)
		}
		s.plays[play.ID] = &play
	}

	s.log.Infof("loaded %d plays from %s", len(s.plays), s.playDir)
	return nil
}

// Get retrieves a play by ID.
func (s *LocalStore) Get(id string) (*models.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	play, ok := s.plays[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayNotFound, id)
	}

	return play.Clone(), nil
}

// List returns every play, most recently modified first.
func (s *LocalStore) List() ([]*models.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.Play, 0, len(s.plays))
	for _, play := range s.plays {
		list = append(list, play.Clone())
	}

	models.SortByLastModified(list)
	return list, nil
}

// Save writes a play, creating it when its ID is empty or unknown.
func (s *LocalStore) Save(play *models.Play, now time.Time) (*models.Play, bool, error) {
	in := play.Clone()
	if err := prepareID(in); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.plays[in.ID]
	out := merge(prev, in, now)

	if err := s.write(out); err != nil {
		return nil, false, err
	}
	s.plays[out.ID] = out

	return out.Clone(), prev == nil, nil
}

// write replaces the play document atomically.
func (s *LocalStore) write(play *models.Play) error {
	data, err := json.MarshalIndent(play, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding play: %w", err)
	}

	f, err := os.CreateTemp(s.playDir, ".play-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing play: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing play file: %w", err)
	}

	if err := os.Rename(tmp, s.path(play.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing play file: %w", err)
	}

	return nil
}

// Delete removes a play from storage.
func (s *LocalStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plays[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayNotFound, id)
	}

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting play: %w", err)
	}

	delete(s.plays, id)
	return nil
}

// Close is a no-op; every change is already on disk.
func (s *LocalStore) Close() error {
	return nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.playDir, id+playExt)
}
