package semantics

import "fmt"

// Direction selects which semantics table interprets a graph.
type Direction uint8

const (
	// Forward propagates states from the entry towards the exits.
	Forward Direction = iota
	// Backward propagates states from the exits towards the entry.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// IsForward checks whether d is the forward direction.
func (d Direction) IsForward() bool {
	return d == Forward
}

// ParseDirection maps "forward" and "backward" to their directions.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
