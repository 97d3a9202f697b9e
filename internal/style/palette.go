package style

import (
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxPresetColors bounds the palette offered by color pickers.
const MaxPresetColors = 24

// Palette is the list of preset colors, normalised to lower-case #rrggbb.
type Palette struct {
	colors []string
}

func NewPalette(colors ...string) (*Palette, error) {
	p := &Palette{}
	if err := p.Set(colors); err != nil {
		return nil, err
	}
	return p, nil
}

func normalize(c string) (string, error) {
	col, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, c)
	}
	return col.Hex(), nil
}

// Set replaces the palette. Nothing changes when any color is invalid.
func (p *Palette) Set(colors []string) error {
	if len(colors) > MaxPresetColors {
		return fmt.Errorf("%w: %d > %d", ErrTooManyColors, len(colors), MaxPresetColors)
	}
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		n, err := normalize(c)
		if err != nil {
			return err
		}
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	p.colors = out
	return nil
}

// Add appends c unless it is already present.
func (p *Palette) Add(c string) error {
	n, err := normalize(c)
	if err != nil {
		return err
	}
	if slices.Contains(p.colors, n) {
		return nil
	}
	if len(p.colors) >= MaxPresetColors {
		return ErrTooManyColors
	}
	p.colors = append(p.colors, n)
	return nil
}

// Delete removes c if present.
func (p *Palette) Delete(c string) error {
	n, err := normalize(c)
	if err != nil {
		return err
	}
	p.colors = slices.DeleteFunc(p.colors, func(s string) bool { return s == n })
	return nil
}

func (p *Palette) Colors() []string { return slices.Clone(p.colors) }
