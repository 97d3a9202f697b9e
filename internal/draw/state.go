package draw

import (
	"fmt"
	"strings"
)

// State of the draw state machine. Deleting is only ever reported inside
// the FeaturesDeleted event; the machine never rests in it.
type State int

const (
	Idle State = iota
	Drawing
	Selecting
	Deleting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Selecting:
		return "selecting"
	case Deleting:
		return "deleting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Mode decides what a pointer click does.
type Mode int

const (
	ModeDraw Mode = iota
	ModeSelect
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeSelect:
		return "select"
	case ModeDelete:
		return "delete"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw":
		return ModeDraw, nil
	case "select":
		return ModeSelect, nil
	case "delete":
		return ModeDelete, nil
	}
	return 0, fmt.Errorf("draw: unknown mode %q", s)
}
