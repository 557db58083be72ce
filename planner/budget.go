package planner

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rotour/rotour/config"
	"github.com/rotour/rotour/utils"
)

// trackWidthFraction is the lateral offset each side of a turn transition
// takes while the dowel swings through it.
const trackWidthFraction = 0.5

// budgetEpsilon absorbs the rounding of decimal acceleration times summed in
// float64; a budget this close to the overhead is an exact fit.
const budgetEpsilon = 1e-9

// Budget is the feed-forward summary the firmware uses instead of replanning.
type Budget struct {
	// Velocity is the sum of absolute tick distances.
	Velocity float64
	// TrackWidthOffset is the sum of absolute offsets plus absolute turns.
	TrackWidthOffset float64
	// Time is the script's total time budget.
	Time float64
	// Overhead is the acceleration time every leg and turn needs.
	Overhead float64
	// Remaining is Time less Overhead.
	Remaining float64
}

// applyTrackWidth returns a copy of commands with the lateral offset of
// every turn transition subtracted from the legs on both sides of it.
func applyTrackWidth(commands []Command) []Command {
	out := append([]Command(nil), commands...)
	for i := 1; i < len(out); i++ {
		if out[i].Turn == 0 {
			continue
		}
		out[i-1].Offset -= trackWidthFraction
		out[i].Offset -= trackWidthFraction
	}
	return out
}

// budget sums the plan's feed-forward quantities and checks that the
// acceleration overhead fits in total. A remaining time of exactly zero is
// feasible.
func budget(commands []Command, total float64, cfg *config.Config) (Budget, error) {
	ticks := make([]float64, len(commands))
	offsets := make([]float64, len(commands))
	var turns, overhead float64
	for i, cmd := range commands {
		ticks[i] = float64(cmd.Ticks)
		offsets[i] = cmd.Offset
		overhead += 2 * cfg.StraightAccelTime
		if cmd.Turn != 0 {
			turns += math.Abs(cmd.Turn)
			overhead += 2 * cfg.TurnAccelTime
		}
	}

	b := Budget{
		Velocity:         floats.Norm(ticks, 1),
		TrackWidthOffset: floats.Norm(offsets, 1) + turns,
		Time:             total,
		Overhead:         overhead,
		Remaining:        total - overhead,
	}
	if utils.Float64AlmostEqual(b.Remaining, 0, budgetEpsilon) {
		b.Remaining = 0
	}
	if b.Remaining < 0 {
		return b, &TimeBudgetError{Time: total, Overhead: overhead}
	}
	return b, nil
}
