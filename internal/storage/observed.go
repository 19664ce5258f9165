package storage

import (
	"sync"
	"time"

	"github.com/playdrawer/backend/internal/models"
)

// Event types published by Observed.
const (
	EventPlaySaved   = "play:saved"
	EventPlayRemoved = "play:removed"
)

// Event describes a change to the stored plays.
type Event struct {
	Type    string       `json:"type"`
	PlayID  string       `json:"playId"`
	Created bool         `json:"created,omitempty"`
	Play    *models.Play `json:"play,omitempty"`
}

// subscriberBuffer bounds how far a slow subscriber may lag before events
// are dropped for it.
const subscriberBuffer = 16

// Observed wraps a Store and publishes an Event after every successful
// change.
type Observed struct {
	Store

	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewObserved wraps store.
func NewObserved(store Store) *Observed {
	return &Observed{
		Store: store,
		subs:  make(map[int]chan Event),
	}
}

// Subscribe returns a channel of events and a function that unsubscribes and
// closes it.
func (o *Observed) Subscribe() (<-chan Event, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan Event, subscriberBuffer)
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			delete(o.subs, id)
			close(ch)
		})
	}
}

// Save saves through the wrapped store and publishes EventPlaySaved.
func (o *Observed) Save(play *models.Play, now time.Time) (*models.Play, bool, error) {
	saved, created, err := o.Store.Save(play, now)
	if err != nil {
		return nil, false, err
	}
	o.publish(Event{Type: EventPlaySaved, PlayID: saved.ID, Created: created, Play: saved.Clone()})
	return saved, created, nil
}

// Delete deletes through the wrapped store and publishes EventPlayRemoved.
func (o *Observed) Delete(id string) error {
	if err := o.Store.Delete(id); err != nil {
		return err
	}
	o.publish(Event{Type: EventPlayRemoved, PlayID: id})
	return nil
}

func (o *Observed) publish(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
