package planner

import (
	"github.com/rotour/rotour/script"
	"github.com/rotour/rotour/utils"
)

// Correction describes what the end-heading pass did.
type Correction struct {
	// Applied is set when a turn was patched and the plan replayed from it.
	Applied bool
	// Index is the patched command when Applied.
	Index int
	// Drift is the heading error, in radians, found after the forward pass.
	Drift float64
	// Residual is the heading error left after correction.
	Residual float64
}

// correctEndHeading makes the plan finish facing the last instruction's
// direction. A forward pass can finish off by π after an odd number of
// reverse legs; the error is folded into the nearest preceding turn and
// every later instruction is replayed from the corrected heading.
//
// Only one backtrack is made. If the replay itself ends off target the
// residual is reported rather than corrected again.
func correctEndHeading(
	fwd trace,
	start float64,
	instructions []script.Instruction,
	ticksPerCm float64,
) (trace, Correction, error) {
	target := instructions[len(instructions)-1].Direction.Angle()
	drift := utils.NormalizeRadians(target - fwd.final(start))
	if utils.Float64AlmostEqual(drift, 0, angleEpsilon) {
		return fwd, Correction{}, nil
	}

	k := -1
	for i := len(fwd.commands) - 1; i >= 0; i-- {
		if fwd.commands[i].Turn != 0 {
			k = i
			break
		}
	}
	if k < 0 {
		return fwd, Correction{Drift: drift, Residual: drift}, ErrUncorrectableHeading
	}

	out := trace{
		commands: append(make([]Command, 0, len(instructions)), fwd.commands[:k]...),
		headings: append(make([]float64, 0, len(instructions)), fwd.headings[:k]...),
	}
	turn := utils.NormalizeRadians(fwd.commands[k].Turn + drift)
	heading := utils.NormalizeRadians(fwd.headingBefore(k, start) + turn)
	out.append(Command{Turn: turn, Ticks: legTicks(heading, instructions[k], ticksPerCm)}, heading)

	rest := emit(heading, instructions[k+1:], ticksPerCm)
	out.commands = append(out.commands, rest.commands...)
	out.headings = append(out.headings, rest.headings...)

	return out, Correction{
		Applied:  true,
		Index:    k,
		Drift:    drift,
		Residual: utils.NormalizeRadians(target - out.final(start)),
	}, nil
}
