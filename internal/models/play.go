// Package models contains domain types for the Play Drawer.
package models

import "sort"

// SpotConfig is what a play stores for one positioned spot. Route is a route
// key persisted verbatim.
type SpotConfig struct {
	Position string `json:"position" msgpack:"position"`
	Route    string `json:"route" msgpack:"route"`
}

// LinesData is the line of scrimmage overlay. Position is in percent of the
// field height, measured from the bottom edge.
type LinesData struct {
	Display  bool    `json:"display" msgpack:"display"`
	Position float64 `json:"position" msgpack:"position"`
}

// Play is a saved diagram. Timestamps are Unix milliseconds.
type Play struct {
	ID        string             `json:"id" msgpack:"id"`
	Name      string             `json:"playName" msgpack:"playName"`
	CreatedAt int64              `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt *int64             `json:"updatedAt,omitempty" msgpack:"updatedAt,omitempty"`
	Spots     map[int]SpotConfig `json:"spots" msgpack:"spots"`
	Lines     *LinesData         `json:"linesData,omitempty" msgpack:"linesData,omitempty"`
}

// PlayInfo is the list view of a play.
type PlayInfo struct {
	ID        string `json:"id"`
	Name      string `json:"playName"`
	SpotCount int    `json:"spotCount"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt *int64 `json:"updatedAt,omitempty"`
}

// Info summarises the play.
func (p *Play) Info() PlayInfo {
	return PlayInfo{
		ID:        p.ID,
		Name:      p.Name,
		SpotCount: len(p.Spots),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// LastModified is UpdatedAt when set, CreatedAt otherwise.
func (p *Play) LastModified() int64 {
	if p.UpdatedAt != nil {
		return *p.UpdatedAt
	}
	return p.CreatedAt
}

// Clone returns a deep copy.
func (p *Play) Clone() *Play {
	out := *p
	if p.UpdatedAt != nil {
		u := *p.UpdatedAt
		out.UpdatedAt = &u
	}
	if p.Lines != nil {
		l := *p.Lines
		out.Lines = &l
	}
	out.Spots = make(map[int]SpotConfig, len(p.Spots))
	for k, v := range p.Spots {
		out.Spots[k] = v
	}
	return &out
}

// SpotIndexes returns the configured spot indexes in ascending order.
func (p *Play) SpotIndexes() []int {
	idx := make([]int, 0, len(p.Spots))
	for i := range p.Spots {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// SortByLastModified orders plays newest first.
func SortByLastModified(plays []*Play) {
	sort.Slice(plays, func(i, j int) bool {
		return plays[i].LastModified() > plays[j].LastModified()
	})
}
