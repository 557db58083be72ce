// Package script parses rotour move scripts: one cardinal grid move per line
// plus an optional total time budget.
package script

import (
	"math"

	"github.com/golang/geo/r2"
)

// Direction is one of the four grid directions a move can take.
type Direction int

// The known directions.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Angle returns the heading, in radians, the robot has when travelling in
// this direction. Right is 0 and angles grow counter-clockwise.
func (d Direction) Angle() float64 {
	switch d {
	case Up:
		return math.Pi / 2
	case Down:
		return -math.Pi / 2
	case Left:
		return math.Pi
	default:
		return 0
	}
}

// Unit returns the grid unit vector for the direction.
func (d Direction) Unit() r2.Point {
	switch d {
	case Up:
		return r2.Point{X: 0, Y: 1}
	case Down:
		return r2.Point{X: 0, Y: -1}
	case Left:
		return r2.Point{X: -1, Y: 0}
	default:
		return r2.Point{X: 1, Y: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Instruction is a single parsed move. Magnitude is in centimeters.
type Instruction struct {
	Direction Direction
	Magnitude float64
	// Line is the 1-based source line the instruction came from.
	Line int
}

// Script is a fully parsed move script.
type Script struct {
	Instructions []Instruction
	// Time is the total time budget in seconds; only meaningful if HasTime.
	Time    float64
	HasTime bool
}

// End returns the position, in centimeters from the start, the robot reaches
// after every instruction has run.
func (s *Script) End() r2.Point {
	var p r2.Point
	for _, ins := range s.Instructions {
		p = p.Add(ins.Direction.Unit().Mul(ins.Magnitude))
	}
	return p
}
