package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrPathNotFound             = errors.New("geom: path not found")
	ErrCannotRemoveBelowMinimum = errors.New("geom: cannot remove below minimum vertex count")
	ErrNotEditable              = errors.New("geom: shape does not support this edit")
)

// Segment selects one level of a nested coordinate structure, either by
// numeric index or by a named key (e.g. "center").
type Segment struct {
	Index int
	Key   string
}

// Idx returns a numeric segment.
func Idx(i int) Segment { return Segment{Index: i} }

// Key returns a named segment.
func Key(k string) Segment { return Segment{Key: k} }

func (s Segment) IsKey() bool { return s.Key != "" }

func (s Segment) String() string {
	if s.IsKey() {
		return s.Key
	}
	return strconv.Itoa(s.Index)
}

// Path addresses a single coordinate inside a shape, outermost segment first.
// For a polygon, Path{Idx(ring), Idx(vertex)}.
type Path []Segment

// P builds a numeric path.
func P(indices ...int) Path {
	p := make(Path, len(indices))
	for i, v := range indices {
		p[i] = Idx(v)
	}
	return p
}

// ParsePath parses the dotted textual form, "0.3" or "center".
// The empty string is the empty path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrPathNotFound, s)
		}
		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 {
				return nil, fmt.Errorf("%w: negative index in %q", ErrPathNotFound, s)
			}
			p = append(p, Idx(n))
			continue
		}
		p = append(p, Key(part))
	}
	return p, nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Equal reports whether both paths select the same segments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// indices resolves p into exactly depth numeric indices, each bounded by the
// matching entry of limits (exclusive). It is the single place where empty
// paths, named keys in numeric positions and out-of-range values are rejected.
func (p Path) indices(limits ...int) ([]int, error) {
	if len(p) != len(limits) {
		return nil, fmt.Errorf("%w: %q has depth %d, want %d", ErrPathNotFound, p.String(), len(p), len(limits))
	}
	out := make([]int, len(p))
	for i, s := range p {
		if s.IsKey() {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrPathNotFound, s.Key)
		}
		if s.Index < 0 || s.Index >= limits[i] {
			return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrPathNotFound, s.Index, limits[i])
		}
		out[i] = s.Index
	}
	return out, nil
}

// single resolves a path addressing a shape with exactly one coordinate:
// the empty path, [0], or the given key.
func (p Path) single(key string) error {
	switch {
	case len(p) == 0:
		return nil
	case len(p) == 1 && p[0].IsKey() && p[0].Key == key:
		return nil
	case len(p) == 1 && !p[0].IsKey() && p[0].Index == 0:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrPathNotFound, p.String())
}
