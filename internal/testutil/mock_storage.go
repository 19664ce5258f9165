// mock_storage.go - Mock play store for testing
package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/storage"
)

// MockStorage implements storage.Store in memory. The Err fields make the
// matching operation fail.
type MockStorage struct {
	plays  map[string]*models.Play
	nextID int
	mu     sync.RWMutex

	SaveErr   error
	GetErr    error
	ListErr   error
	DeleteErr error
}

var _ storage.Store = (*MockStorage)(nil)

// NewMockStorage creates an empty mock store
func NewMockStorage() *MockStorage {
	return &MockStorage{
		plays: make(map[string]*models.Play),
	}
}

func (m *MockStorage) Get(id string) (*models.Play, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	play, ok := m.plays[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrPlayNotFound, id)
	}
	return play.Clone(), nil
}

func (m *MockStorage) List() ([]*models.Play, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	plays := make([]*models.Play, 0, len(m.plays))
	for _, p := range m.plays {
		plays = append(plays, p.Clone())
	}
	models.SortByLastModified(plays)
	return plays, nil
}

func (m *MockStorage) Save(play *models.Play, now time.Time) (*models.Play, bool, error) {
	if m.SaveErr != nil {
		return nil, false, m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := play.Clone()
	if out.ID == "" {
		m.nextID++
		out.ID = fmt.Sprintf("play-%d", m.nextID)
	}

	prev, exists := m.plays[out.ID]
	if exists {
		out.CreatedAt = prev.CreatedAt
		ts := now.UnixMilli()
		out.UpdatedAt = &ts
	} else {
		out.CreatedAt = now.UnixMilli()
		out.UpdatedAt = nil
	}

	m.plays[out.ID] = out
	return out.Clone(), !exists, nil
}

func (m *MockStorage) Delete(id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.plays[id]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrPlayNotFound, id)
	}
	delete(m.plays, id)
	return nil
}

func (m *MockStorage) Close() error {
	return nil
}

// Count returns the number of stored plays.
func (m *MockStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plays)
}
