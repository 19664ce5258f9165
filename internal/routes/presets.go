package routes

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

func builtinLeft() []Route {
	return []Route{
		{
			ID:    "five_o",
			Name:  "Five out",
			Moves: []Move{Forward(5), Lateral(-5)},
		},
		{
			ID:    "five_i",
			Name:  "Five In",
			Moves: []Move{Forward(5), Lateral(5)},
		},
		{
			ID:   "wheel",
			Name: "Wheel Route",
			Moves: []Move{
				Curve(1, 2, 1, 0),
				Curve(16, 2, 0, -2),
				Curve(1, 10, -1, -2),
			},
		},
	}
}

func builtinCenter() []Route {
	return []Route{
		{
			ID:    "go",
			Name:  "Go",
			Moves: []Move{Forward(15)},
		},
	}
}

// PresetFile is the YAML layout of an extra preset file. Left routes are
// mirrored into the right category like the built-ins.
type PresetFile struct {
	Left   []Route `yaml:"left"`
	Center []Route `yaml:"center"`
}

// LoadPresets decodes extra route definitions from YAML.
func LoadPresets(r io.Reader) (left, center []Route, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRoute, err)
	}

	for _, set := range [][]Route{file.Left, file.Center} {
		for _, route := range set {
			if err := route.validate(); err != nil {
				return nil, nil, err
			}
		}
	}

	return file.Left, file.Center, nil
}

// LoadCatalog builds a catalog from the built-ins plus the preset file at
// path. An empty path or a missing file yields the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening preset file: %w", err)
	}
	defer f.Close()

	extraLeft, extraCenter, err := LoadPresets(f)
	if err != nil {
		return nil, fmt.Errorf("parsing preset file %s: %w", path, err)
	}

	left, center := Extend(extraLeft, extraCenter)
	return NewCatalog(left, center)
}
