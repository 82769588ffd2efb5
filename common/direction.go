package common

import "fmt"

// Direction is one of the four cardinal grid directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all four directions in a stable order.
var Directions = [4]Direction{Up, Down, Left, Right}

// X returns the horizontal step of the direction in tiles.
func (d Direction) X() int {
	switch d {
	case Left:
		return -1
	case Right:
		return 1
	}
	return 0
}

// Y returns the vertical step of the direction in tiles.
func (d Direction) Y() int {
	switch d {
	case Up:
		return -1
	case Down:
		return 1
	}
	return 0
}

// Flipped returns the opposite direction.
func (d Direction) Flipped() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return "right"
}

// ParseDirection reads a direction name. "top" and "bottom" are accepted
// as aliases for map-edge keys.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "top":
		return Up, nil
	case "down", "bottom":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Up, fmt.Errorf("unknown direction %q", s)
}
