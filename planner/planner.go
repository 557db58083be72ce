package planner

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/rotour/rotour/config"
	"github.com/rotour/rotour/protocol"
	"github.com/rotour/rotour/script"
	"github.com/rotour/rotour/utils"
)

// Self-test feed-forward values: large enough that the firmware never
// limits the test motion by time or velocity.
const (
	selfTestVelocity = 100000
	selfTestTime     = 1000
)

// Options tune how Plan treats recoverable problems.
type Options struct {
	// StrictHeading fails the plan when it cannot end facing the last
	// instruction's direction instead of logging the drift.
	StrictHeading bool
}

// PlanningResult is the compiled plan: the commands and the config record
// that must precede them.
type PlanningResult struct {
	Commands     []Command
	Config       protocol.ConfigCommand
	Budget       Budget
	Correction   Correction
	FinalHeading float64
	// End is where the path finishes, in centimeters from the start.
	End r2.Point
}

// Records returns the commands as wire records.
func (r *PlanningResult) Records() []protocol.Command {
	records := make([]protocol.Command, 0, len(r.Commands))
	for _, cmd := range r.Commands {
		records = append(records, protocol.Command{
			Type:             protocol.CommandTypeMove,
			Turn:             float32(cmd.Turn),
			Ticks:            cmd.Ticks,
			TrackWidthOffset: float32(cmd.Offset),
		})
	}
	return records
}

// PlanFile parses the script at path and plans it.
func PlanFile(path string, cfg *config.Config, opts Options, logger golog.Logger) (*PlanningResult, error) {
	s, err := script.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Plan(s, cfg, opts, logger)
}

// Plan compiles s into commands for a robot configured by cfg. It either
// returns a complete, time-feasible plan or an error; never a partial plan.
// Plan is deterministic and does not modify s or cfg.
func Plan(s *script.Script, cfg *config.Config, opts Options, logger golog.Logger) (*PlanningResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if len(s.Instructions) == 0 {
		return nil, script.ErrNoInstructions
	}
	if !s.HasTime {
		return nil, ErrMissingTime
	}
	for _, ins := range s.Instructions {
		if math.Abs(math.Round(ins.Magnitude*cfg.TicksPerCm)) > math.MaxInt32 {
			return nil, errors.Wrapf(ErrDistanceOverflow, "line %d: %s %v", ins.Line, ins.Direction, ins.Magnitude)
		}
	}

	start := s.Instructions[0].Direction.Angle()
	fwd := emit(start, s.Instructions, cfg.TicksPerCm)
	corrected, correction, err := correctEndHeading(fwd, start, s.Instructions, cfg.TicksPerCm)
	if err != nil {
		if opts.StrictHeading {
			return nil, err
		}
		logger.Warnw("plan ends facing away from the last direction",
			"drift_deg", utils.RadToDeg(correction.Drift), "error", err)
	} else if correction.Applied {
		logger.Debugw("corrected end heading",
			"command", correction.Index, "drift_deg", utils.RadToDeg(correction.Drift))
		if !utils.Float64AlmostEqual(correction.Residual, 0, angleEpsilon) {
			if opts.StrictHeading {
				return nil, errors.Wrapf(ErrUncorrectableHeading,
					"%.2f degrees left after correction", utils.RadToDeg(correction.Residual))
			}
			logger.Warnw("end heading still off after correction",
				"residual_deg", utils.RadToDeg(correction.Residual))
		}
	}

	commands := applyTrackWidth(corrected.commands)
	b, err := budget(commands, s.Time, cfg)
	if err != nil {
		return nil, err
	}

	result := &PlanningResult{
		Commands:     commands,
		Config:       NewConfigCommand(cfg, b),
		Budget:       b,
		Correction:   correction,
		FinalHeading: corrected.final(start),
		End:          s.End(),
	}
	logger.Debugw("planned script",
		"commands", len(commands),
		"velocity", b.Velocity,
		"remaining_time", b.Remaining,
		"end_x", result.End.X,
		"end_y", result.End.Y)
	return result, nil
}

// NewConfigCommand combines cfg's tunables with a plan's budget.
func NewConfigCommand(cfg *config.Config, b Budget) protocol.ConfigCommand {
	return protocol.ConfigCommand{
		KpTurn:                   float32(cfg.KpTurn),
		KpHold:                   float32(cfg.KpHold),
		KpStraight:               float32(cfg.KpStraight),
		KpVelocity:               float32(cfg.KpVelocity),
		DowelOff:                 float32(cfg.DowelOff),
		TurnAccelTime:            float32(cfg.TurnAccelTime),
		StraightAccelTime:        float32(cfg.StraightAccelTime),
		Velocity:                 float32(b.Velocity),
		VelocityTrackWidthOffset: float32(b.TrackWidthOffset),
		Friction:                 float32(cfg.Friction),
		Time:                     float32(b.Time),
		RemainingTime:            float32(b.Remaining),
	}
}

// SelfTestConfig returns the config record sent ahead of a self-test.
func SelfTestConfig(cfg *config.Config) protocol.ConfigCommand {
	return NewConfigCommand(cfg, Budget{
		Velocity:  selfTestVelocity,
		Time:      selfTestTime,
		Remaining: selfTestTime,
	})
}
