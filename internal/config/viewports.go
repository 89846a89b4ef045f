package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProfile is returned for a viewport name outside the catalog.
var ErrUnknownProfile = errors.New("unknown viewport profile")

// Viewport is a named window size simulating a device class.
type Viewport struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func (v Viewport) String() string {
	return fmt.Sprintf("%s (%dx%d)", v.Name, v.Width, v.Height)
}

// Narrow reports whether the viewport belongs to a handheld device class.
func (v Viewport) Narrow() bool {
	return v.Name == Tablet || v.Name == Mobile
}

// Profile names
const (
	Desktop = "desktop"
	Laptop  = "laptop"
	Tablet  = "tablet"
	Mobile  = "mobile"
)

var catalog = []Viewport{
	{Name: Desktop, Width: 2560, Height: 1600}, // Mac M1 Air
	{Name: Laptop, Width: 1920, Height: 1080},
	{Name: Tablet, Width: 768, Height: 1024}, // iPad
	{Name: Mobile, Width: 375, Height: 812},  // iPhone X
}

// Catalog returns a copy of every viewport profile in run order.
func Catalog() []Viewport {
	out := make([]Viewport, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a profile by name, case-insensitively.
func Lookup(name string) (Viewport, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range catalog {
		if v.Name == name {
			return v, nil
		}
	}
	return Viewport{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// Select returns the named profiles in catalog order. No names selects the
// whole catalog; duplicates collapse.
func Select(names ...string) ([]Viewport, error) {
	if len(names) == 0 {
		return Catalog(), nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		v, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		want[v.Name] = true
	}
	if len(want) == 0 {
		return Catalog(), nil
	}
	var out []Viewport
	for _, v := range catalog {
		if want[v.Name] {
			out = append(out, v)
		}
	}
	return out, nil
}
