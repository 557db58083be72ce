// Package planner compiles a parsed script into the turn+drive commands the
// robot executes.
//
// Heading is threaded through the plan as an explicit accumulator: Step is a
// pure function of the current heading and one instruction, and a plan is
// the left fold of Step over the script.
package planner

import (
	"math"

	"github.com/rotour/rotour/script"
	"github.com/rotour/rotour/utils"
)

const (
	// angles closer than this are treated as equal.
	angleEpsilon = 1e-6
	// how close d/π must be to ±1/2 to count as a quarter turn tie.
	tieEpsilon = 1e-9
)

// Command is one leg of the plan: turn in place, then drive.
type Command struct {
	// Turn is the heading change in radians before the leg, |Turn| <= π.
	Turn float64
	// Ticks is the signed encoder distance; negative drives in reverse.
	Ticks int32
	// Offset is the track-width lateral offset fraction for the leg.
	Offset float64
}

// Reversed reports whether the leg is driven backwards.
func (c Command) Reversed() bool {
	return c.Ticks < 0
}

// Step folds one instruction into the heading and returns the new heading
// and the command that gets there. A turn of more than 90 degrees is never
// emitted; the leg is driven in reverse behind the complementary turn
// instead.
func Step(heading float64, ins script.Instruction, ticksPerCm float64) (float64, Command) {
	turn := foldTurn(utils.NormalizeRadians(ins.Direction.Angle() - heading))
	heading = utils.NormalizeRadians(heading + turn)
	return heading, Command{Turn: turn, Ticks: legTicks(heading, ins, ticksPerCm)}
}

// foldTurn reduces a turn modulo π to the nearest equivalent. Exact quarter
// turns are kept as is so they are driven forwards.
func foldTurn(d float64) float64 {
	half := d / math.Pi
	if math.Abs(math.Abs(half)-0.5) >= tieEpsilon {
		d -= math.Round(half) * math.Pi
	}
	if utils.Float64AlmostEqual(d, 0, angleEpsilon) {
		return 0
	}
	return d
}

// antiParallel reports whether heading points opposite to target.
func antiParallel(heading, target float64) bool {
	return utils.Float64AlmostEqual(utils.AngleDiffRad(heading, target), math.Pi, angleEpsilon)
}

// legTicks converts the instruction's magnitude into signed encoder ticks for
// a robot facing heading.
func legTicks(heading float64, ins script.Instruction, ticksPerCm float64) int32 {
	dist := ins.Magnitude
	if antiParallel(heading, ins.Direction.Angle()) {
		dist = -dist
	}
	return int32(math.Round(dist * ticksPerCm))
}
