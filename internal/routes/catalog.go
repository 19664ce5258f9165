package routes

import (
	"fmt"
	"sync"
)

// Category identifiers, in presentation order.
const (
	LeftCategory   = "l_plays"
	CenterCategory = "c_plays"
	RightCategory  = "r_plays"
)

var categoryNames = map[string]string{
	LeftCategory:   "Routes from the left",
	CenterCategory: "Unidirection routes",
	RightCategory:  "Routes from the right",
}

// Catalog is the fixed set of routes grouped by category. It is built once and
// never mutated, so concurrent reads need no locking.
type Catalog struct {
	categories []Category
}

// Option is one entry of a route selection list.
type Option struct {
	Label string `json:"label"`
	Value Key    `json:"value"`
}

// OptionGroup is the selection-list group of one category.
type OptionGroup struct {
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// NewCatalog builds the left, center and right categories. The right category
// is the left set mirrored on the horizontal axis.
func NewCatalog(left, center []Route) (*Catalog, error) {
	right := make([]Route, len(left))
	for i, r := range left {
		right[i] = Mirror(r, true, false)
	}

	c := &Catalog{
		categories: []Category{
			{ID: LeftCategory, Name: categoryNames[LeftCategory], Routes: cloneRoutes(left)},
			{ID: CenterCategory, Name: categoryNames[CenterCategory], Routes: cloneRoutes(center)},
			{ID: RightCategory, Name: categoryNames[RightCategory], Routes: right},
		},
	}

	for _, cat := range c.categories {
		seen := make(map[string]struct{}, len(cat.Routes))
		for _, r := range cat.Routes {
			if err := r.validate(); err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.ID, err)
			}
			if _, dup := seen[r.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate route %q in category %s", ErrInvalidRoute, r.ID, cat.ID)
			}
			seen[r.ID] = struct{}{}
		}
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(builtinLeft(), builtinCenter())
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the catalog of built-in presets.
func Default() *Catalog {
	return defaultCatalog()
}

// Categories returns a copy of the categories in presentation order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{ID: cat.ID, Name: cat.Name, Routes: cloneRoutes(cat.Routes)}
	}
	return out
}

// Resolve looks up the route selected by key.
func (c *Catalog) Resolve(key Key) (Route, error) {
	categoryID, routeID, err := ParseKey(key)
	if err != nil {
		return Route{}, err
	}

	for _, cat := range c.categories {
		if cat.ID != categoryID {
			continue
		}
		for _, r := range cat.Routes {
			if r.ID == routeID {
				return r.Clone(), nil
			}
		}
		return Route{}, fmt.Errorf("%w: route %q in category %q", ErrNotFound, routeID, categoryID)
	}

	return Route{}, fmt.Errorf("%w: category %q", ErrNotFound, categoryID)
}

// Options lists every route as selection-list groups, one per category.
func (c *Catalog) Options() []OptionGroup {
	groups := make([]OptionGroup, 0, len(c.categories))
	for _, cat := range c.categories {
		g := OptionGroup{Label: cat.Name, Options: make([]Option, 0, len(cat.Routes))}
		for _, r := range cat.Routes {
			g.Options = append(g.Options, Option{Label: r.Name, Value: BuildKey(cat.ID, r.ID)})
		}
		groups = append(groups, g)
	}
	return groups
}

// Size returns the number of routes across all categories.
func (c *Catalog) Size() int {
	n := 0
	for _, cat := range c.categories {
		n += len(cat.Routes)
	}
	return n
}

// Extend returns the built-in left and center sets with extra routes appended.
// Extra routes replace built-ins with the same identifier.
func Extend(extraLeft, extraCenter []Route) (left, center []Route) {
	return merge(builtinLeft(), extraLeft), merge(builtinCenter(), extraCenter)
}

func merge(base, extra []Route) []Route {
	out := append([]Route(nil), base...)
	for _, r := range extra {
		replaced := false
		for i := range out {
			if out[i].ID == r.ID {
				out[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, r)
		}
	}
	return out
}

func cloneRoutes(in []Route) []Route {
	out := make([]Route, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
