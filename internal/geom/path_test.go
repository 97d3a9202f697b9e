package geom

import (
	"errors"
	"testing"
)

func TestParsePathRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want Path
	}{
		{"", Path{}},
		{"3", P(3)},
		{"0.12", P(0, 12)},
		{"center", Path{Key("center")}},
		{"1.a", Path{Idx(1), Key("a")}},
	}
	for _, c := range cases {
		got, err := ParsePath(c.in)
		if err != nil {
			t.Fatalf("ParsePath(%q) failed: %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("ParsePath(%q): expected %v, got %v", c.in, c.want, got)
		}
		if got.String() != c.in {
			t.Errorf("String failed: expected %q, got %q", c.in, got.String())
		}
	}
}

func TestParsePathRejects(t *testing.T) {
	for _, in := range []string{"1..2", "-1", "0.-3", "."} {
		if _, err := ParsePath(in); !errors.Is(err, ErrPathNotFound) {
			t.Errorf("ParsePath(%q): expected ErrPathNotFound, got %v", in, err)
		}
	}
}

func TestPathIndices(t *testing.T) {
	if _, err := (Path{}).indices(3); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("empty path: expected ErrPathNotFound, got %v", err)
	}
	if _, err := P(3).indices(3); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("out of range: expected ErrPathNotFound, got %v", err)
	}
	if _, err := (Path{Key("x")}).indices(3); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("key: expected ErrPathNotFound, got %v", err)
	}
	ix, err := P(1, 2).indices(2, 5)
	if err != nil || ix[0] != 1 || ix[1] != 2 {
		t.Errorf("indices failed: got %v, %v", ix, err)
	}
}
