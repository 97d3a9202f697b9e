package style

import (
	"errors"
	"fmt"
	"maps"

	"geodraw/internal/geom"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrInvalidColor  = errors.New("style: invalid color")
	ErrInvalidStyle  = errors.New("style: invalid value")
	ErrTooManyColors = errors.New("style: too many preset colors")
)

// Known style keys. Anything else is carried through untouched.
const (
	FillColor                 = "fillColor"
	FillOpacity               = "fillOpacity"
	LineColor                 = "lineColor"
	LineOpacity               = "lineOpacity"
	LineWidth                 = "lineWidth"
	PointRadiusInactive       = "pointRadiusInactive"
	PointRadiusActive         = "pointRadiusActive"
	PointRadiusStrokeInactive = "pointRadiusStrokeInactive"
	PointRadiusStrokeActive   = "pointRadiusStrokeActive"
	TextSize                  = "textSize"
	TextColor                 = "textColor"
	TextRotation              = "textRotation"
	TextZoomRef               = "textZoomRef"
	UseLocationIcon           = "useLocationIcon"
)

// Style maps property names to values.
type Style map[string]any

// Default is the style new features start from.
func Default() Style {
	return Style{
		FillColor:                 "#2196f3",
		FillOpacity:               0.5,
		LineColor:                 "#2196f3",
		LineOpacity:               1.0,
		LineWidth:                 2.0,
		PointRadiusInactive:       5.0,
		PointRadiusActive:         7.0,
		PointRadiusStrokeInactive: 2.0,
		PointRadiusStrokeActive:   3.0,
		TextSize:                  14.0,
		TextColor:                 "#000000",
		TextRotation:              0.0,
		UseLocationIcon:           false,
	}
}

// Resolve shallow-merges overrides onto defaults into a new map.
func Resolve(defaults, overrides Style) Style {
	out := make(Style, len(defaults)+len(overrides))
	maps.Copy(out, defaults)
	maps.Copy(out, overrides)
	return out
}

// Clone returns a copy of s, nil for nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// String returns the value at key when it is a string.
func (s Style) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Float returns the numeric value at key, or def when absent or not a number.
func (s Style) Float(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// Color parses the hex color at key.
func (s Style) Color(key string) (colorful.Color, bool) {
	c, err := colorful.Hex(s.String(key))
	return c, err == nil
}

// Validate checks the known keys that carry colors or opacities.
func (s Style) Validate() error {
	for _, k := range []string{FillColor, LineColor, TextColor} {
		v, ok := s[k]
		if !ok {
			continue
		}
		str, isStr := v.(string)
		if !isStr {
			return fmt.Errorf("%w: %s=%v", ErrInvalidColor, k, v)
		}
		if _, err := colorful.Hex(str); err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidColor, k, str)
		}
	}
	for _, k := range []string{FillOpacity, LineOpacity} {
		if _, ok := s[k]; !ok {
			continue
		}
		if o := s.Float(k, -1); o < 0 || o > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidStyle, k, s[k])
		}
	}
	return nil
}

// Resolver holds the active default style and per-kind overrides.
type Resolver struct {
	defaults Style
	kinds    map[geom.Kind]Style
}

func NewResolver() *Resolver {
	return &Resolver{defaults: Default(), kinds: map[geom.Kind]Style{}}
}

// Resolve merges defaults, then the kind's overrides, then overrides.
func (r *Resolver) Resolve(k geom.Kind, overrides Style) Style {
	return Resolve(Resolve(r.defaults, r.kinds[k]), overrides)
}

func (r *Resolver) Defaults() Style { return r.defaults.Clone() }

// Update merges s into the defaults used for features drawn from now on.
func (r *Resolver) Update(s Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.defaults = Resolve(r.defaults, s)
	return nil
}

func (r *Resolver) SetKindDefaults(k geom.Kind, s Style) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.kinds[k] = s.Clone()
	return nil
}
