// manager_test.go - Tests for storage layer
package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playdrawer/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func samplePlay(name string) *models.Play {
	return &models.Play{
		Name: name,
		Spots: map[int]models.SpotConfig{
			5:  {Position: "QB", Route: ""},
			12: {Position: "WR", Route: "l_plays#five_o"},
		},
		Lines: &models.LinesData{Display: true, Position: 22},
	}
}

// storeContract exercises the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	created := time.UnixMilli(1_700_000_000_000)
	updated := created.Add(time.Minute)

	t.Run("save new play", func(t *testing.T) {
		saved, isNew, err := store.Save(samplePlay("Slant Left"), created)
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, created.UnixMilli(), saved.CreatedAt)
		assert.Nil(t, saved.UpdatedAt)

		got, err := store.Get(saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, got)
	})

	t.Run("update keeps createdAt", func(t *testing.T) {
		first, _, err := store.Save(samplePlay("Draft"), created)
		require.NoError(t, err)

		edit := samplePlay("Final")
		edit.ID = first.ID
		edit.Spots = map[int]models.SpotConfig{0: {Position: "C"}}
		edit.Lines = nil

		second, isNew, err := store.Save(edit, updated)
		require.NoError(t, err)
		assert.False(t, isNew)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		require.NotNil(t, second.UpdatedAt)
		assert.Equal(t, updated.UnixMilli(), *second.UpdatedAt)
		assert.Equal(t, "Final", second.Name)
		assert.Equal(t, map[int]models.SpotConfig{0: {Position: "C"}}, second.Spots)
		assert.Nil(t, second.Lines)
	})

	t.Run("save with caller id", func(t *testing.T) {
		p := samplePlay("Named")
		p.ID = "named-play"
		saved, isNew, err := store.Save(p, created)
		require.NoError(t, err)
		assert.True(t, isNew)
		assert.Equal(t, "named-play", saved.ID)
	})

	t.Run("list newest first", func(t *testing.T) {
		plays, err := store.List()
		require.NoError(t, err)
		require.Len(t, plays, 3)
		assert.Equal(t, "Final", plays[0].Name)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		plays, err := store.List()
		require.NoError(t, err)
		got, err := store.Get(plays[0].ID)
		require.NoError(t, err)
		got.Spots[99] = models.SpotConfig{Position: "X"}

		again, err := store.Get(plays[0].ID)
		require.NoError(t, err)
		assert.NotContains(t, again.Spots, 99)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("named-play"))
		_, err := store.Get("named-play")
		assert.ErrorIs(t, err, ErrPlayNotFound)
		assert.ErrorIs(t, store.Delete("named-play"), ErrPlayNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := store.Get("missing")
		assert.ErrorIs(t, err, ErrPlayNotFound)
	})

	t.Run("unsafe ids", func(t *testing.T) {
		for _, id := range []string{"../escape", `a\b`, ".."} {
			p := samplePlay("bad")
			p.ID = id
			_, _, err := store.Save(p, time.Now())
			assert.ErrorIs(t, err, ErrInvalidID, id)
			assert.ErrorIs(t, store.Delete(id), ErrInvalidID, id)
		}
	})
}

func TestLocalStore_Contract(t *testing.T) {
	storeContract(t, createTestStore(t))
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates play directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "plays")
		_, err := NewLocalStore(dir)
		require.NoError(t, err)
		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("reloads saved plays", func(t *testing.T) {
		dir := t.TempDir()
		first, err := NewLocalStore(dir)
		require.NoError(t, err)
		saved, _, err := first.Save(samplePlay("Persisted"), time.Now())
		require.NoError(t, err)

		second, err := NewLocalStore(dir)
		require.NoError(t, err)
		got, err := second.Get(saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, got)
	})

	t.Run("skips corrupt documents", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

		store, err := NewLocalStore(dir)
		require.NoError(t, err)
		plays, err := store.List()
		require.NoError(t, err)
		assert.Empty(t, plays)
	})
}

func TestObserved_PublishesChanges(t *testing.T) {
	obs := NewObserved(createTestStore(t))
	events, cancel := obs.Subscribe()
	defer cancel()

	saved, _, err := obs.Save(samplePlay("Observed"), time.Now())
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, EventPlaySaved, ev.Type)
	assert.Equal(t, saved.ID, ev.PlayID)
	assert.True(t, ev.Created)
	assert.Equal(t, "Observed", ev.Play.Name)

	require.NoError(t, obs.Delete(saved.ID))
	ev = <-events
	assert.Equal(t, Event{Type: EventPlayRemoved, PlayID: saved.ID}, ev)

	// Failed operations publish nothing.
	assert.Error(t, obs.Delete(saved.ID))
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}

	cancel()
	_, open := <-events
	assert.False(t, open)
}
