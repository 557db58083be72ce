package planner

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/rotour/rotour/config"
	"github.com/rotour/rotour/protocol"
	"github.com/rotour/rotour/script"
	"github.com/rotour/rotour/utils"
)

func mustParse(t *testing.T, text string) *script.Script {
	t.Helper()
	s, err := script.Parse(strings.NewReader(text))
	test.That(t, err, test.ShouldBeNil)
	return s
}

func TestPlanRightUp(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := config.Default()
	res, err := Plan(mustParse(t, "right 10\nup 10\ntime 10\n"), cfg, Options{}, logger)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res.Commands, test.ShouldHaveLength, 2)
	test.That(t, res.Commands[0], test.ShouldResemble, Command{Ticks: 1000, Offset: -0.5})
	test.That(t, res.Commands[1].Turn, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, res.Commands[1].Ticks, test.ShouldEqual, int32(1000))
	test.That(t, res.Commands[1].Offset, test.ShouldEqual, -0.5)
	test.That(t, res.Correction.Applied, test.ShouldBeFalse)
	test.That(t, res.FinalHeading, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, res.End, test.ShouldResemble, r2.Point{X: 10, Y: 10})

	test.That(t, res.Budget.Velocity, test.ShouldEqual, 2000.)
	test.That(t, res.Budget.TrackWidthOffset, test.ShouldAlmostEqual, 1+math.Pi/2)
	test.That(t, res.Budget.Overhead, test.ShouldAlmostEqual, 2.2)
	test.That(t, res.Budget.Remaining, test.ShouldAlmostEqual, 7.8)

	test.That(t, res.Config.KpTurn, test.ShouldEqual, float32(cfg.KpTurn))
	test.That(t, res.Config.DowelOff, test.ShouldEqual, float32(cfg.DowelOff))
	test.That(t, res.Config.Velocity, test.ShouldEqual, float32(2000))
	test.That(t, res.Config.Time, test.ShouldEqual, float32(10))
	test.That(t, res.Config.RemainingTime, test.ShouldEqual, float32(res.Budget.Remaining))

	records := res.Records()
	test.That(t, records, test.ShouldHaveLength, 2)
	test.That(t, records[0], test.ShouldResemble, protocol.Command{
		Type:             protocol.CommandTypeMove,
		Ticks:            1000,
		TrackWidthOffset: -0.5,
	})
	test.That(t, records[1].Turn, test.ShouldEqual, float32(math.Pi/2))
}

func TestPlanRightLeft(t *testing.T) {
	s := mustParse(t, "right 10\nleft 10\ntime 10\n")

	t.Run("lenient keeps the plan", func(t *testing.T) {
		logger, logs := golog.NewObservedTestLogger(t)
		res, err := Plan(s, config.Default(), Options{}, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Commands, test.ShouldResemble, []Command{{Ticks: 1000}, {Ticks: -1000}})
		test.That(t, res.Correction.Applied, test.ShouldBeFalse)
		test.That(t, res.Correction.Drift, test.ShouldAlmostEqual, math.Pi)
		test.That(t, res.FinalHeading, test.ShouldEqual, 0.)
		test.That(t, res.End, test.ShouldResemble, r2.Point{})
		test.That(t, logs.FilterMessageSnippet("facing away").Len(), test.ShouldEqual, 1)
		test.That(t, res.String(), test.ShouldContainSubstring, "warning: final heading off by 180.0 deg")
	})

	t.Run("strict fails", func(t *testing.T) {
		logger := golog.NewTestLogger(t)
		res, err := Plan(s, config.Default(), Options{StrictHeading: true}, logger)
		test.That(t, res, test.ShouldBeNil)
		test.That(t, errors.Is(err, ErrUncorrectableHeading), test.ShouldBeTrue)
	})
}

func TestPlanCorrection(t *testing.T) {
	logger := golog.NewTestLogger(t)
	res, err := Plan(mustParse(t, "up 5\nright 5\nleft 5\ntime 10\n"), config.Default(), Options{StrictHeading: true}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Correction.Applied, test.ShouldBeTrue)
	test.That(t, res.Correction.Index, test.ShouldEqual, 1)
	test.That(t, res.FinalHeading, test.ShouldAlmostEqual, math.Pi)
	test.That(t, res.Commands[1].Ticks, test.ShouldEqual, int32(-500))
	test.That(t, res.Commands[2].Ticks, test.ShouldEqual, int32(500))
	test.That(t, res.String(), test.ShouldContainSubstring, "end heading corrected at command 1")
}

func TestPlanAllRight(t *testing.T) {
	logger := golog.NewTestLogger(t)
	res, err := Plan(mustParse(t, "right 1\nright 2.5\nright 0\nright 7\ntime 100\n"), config.Default(), Options{}, logger)
	test.That(t, err, test.ShouldBeNil)
	for _, cmd := range res.Commands {
		test.That(t, cmd.Turn, test.ShouldEqual, 0.)
		test.That(t, cmd.Offset, test.ShouldEqual, 0.)
		test.That(t, cmd.Reversed(), test.ShouldBeFalse)
	}
	test.That(t, res.Budget.Velocity, test.ShouldEqual, 1050.)
	test.That(t, res.Budget.TrackWidthOffset, test.ShouldEqual, 0.)
}

func TestPlanQuarterTurns(t *testing.T) {
	logger := golog.NewTestLogger(t)
	res, err := Plan(
		mustParse(t, "right 1\nup 1\nleft 1\ndown 1\nright 1\ntime 100\n"),
		config.Default(), Options{StrictHeading: true}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Commands[0].Turn, test.ShouldEqual, 0.)
	for _, cmd := range res.Commands[1:] {
		test.That(t, cmd.Turn, test.ShouldAlmostEqual, math.Pi/2)
		test.That(t, cmd.Ticks, test.ShouldEqual, int32(100))
	}

	res, err = Plan(
		mustParse(t, "right 1\ndown 1\nleft 1\nup 1\nright 1\ntime 100\n"),
		config.Default(), Options{StrictHeading: true}, logger)
	test.That(t, err, test.ShouldBeNil)
	for _, cmd := range res.Commands[1:] {
		test.That(t, cmd.Turn, test.ShouldAlmostEqual, -math.Pi/2)
	}
}

func randomScript(rng *rand.Rand, n int) *script.Script {
	s := &script.Script{Time: 1e6, HasTime: true}
	for i := 0; i < n; i++ {
		s.Instructions = append(s.Instructions, script.Instruction{
			Direction: script.Direction(rng.Intn(4)),
			Magnitude: math.Round(rng.Float64()*1000) / 10,
			Line:      i + 1,
		})
	}
	return s
}

func sameAxis(instructions []script.Instruction) bool {
	vertical := func(d script.Direction) bool { return d == script.Up || d == script.Down }
	for _, ins := range instructions[1:] {
		if vertical(ins.Direction) != vertical(instructions[0].Direction) {
			return false
		}
	}
	return true
}

func TestPlanEndsOnLastHeading(t *testing.T) {
	logger := golog.NewTestLogger(t)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		s := randomScript(rng, 1+rng.Intn(12))
		res, err := Plan(s, config.Default(), Options{StrictHeading: true}, logger)
		if sameAxis(s.Instructions) {
			// without a quarter turn there is nothing to patch; the plan
			// either already ends on target or cannot
			if err != nil {
				test.That(t, errors.Is(err, ErrUncorrectableHeading), test.ShouldBeTrue)
				continue
			}
		} else {
			test.That(t, err, test.ShouldBeNil)
		}
		last := s.Instructions[len(s.Instructions)-1].Direction.Angle()
		test.That(t, utils.AngleDiffRad(res.FinalHeading, last), test.ShouldBeLessThan, 1e-6)
		for _, cmd := range res.Commands {
			test.That(t, math.Abs(cmd.Turn), test.ShouldBeLessThanOrEqualTo, math.Pi)
		}
		test.That(t, res.Commands, test.ShouldHaveLength, len(s.Instructions))
	}
}

func TestPlanDeterministic(t *testing.T) {
	logger := golog.NewTestLogger(t)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		s := randomScript(rng, 8)
		first, err1 := Plan(s, config.Default(), Options{}, logger)
		second, err2 := Plan(s, config.Default(), Options{}, logger)
		test.That(t, err1, test.ShouldBeNil)
		test.That(t, err2, test.ShouldBeNil)
		test.That(t, cmp.Diff(first.Commands, second.Commands), test.ShouldBeEmpty)
		test.That(t, cmp.Diff(first.Records(), second.Records()), test.ShouldBeEmpty)
		test.That(t, cmp.Diff(first.Config, second.Config), test.ShouldBeEmpty)
	}
}

func TestPlanBudgetBoundary(t *testing.T) {
	logger := golog.NewTestLogger(t)
	cfg := config.Default()
	cfg.StraightAccelTime = 0.25
	cfg.TurnAccelTime = 0.5

	res, err := Plan(mustParse(t, "right 10\nup 10\ntime 2\n"), cfg, Options{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Budget.Remaining, test.ShouldEqual, 0.)

	_, err = Plan(mustParse(t, "right 10\nup 10\ntime 1.9999\n"), cfg, Options{}, logger)
	var budgetErr *TimeBudgetError
	test.That(t, errors.As(err, &budgetErr), test.ShouldBeTrue)
}

// boundaryScript alternates right and up for the first turns+1 legs and then
// repeats the last direction, with time set to the decimal overhead of the
// default tunables.
func boundaryScript(legs, turns int) string {
	var sb strings.Builder
	dirs := []string{"right", "up"}
	for i := 0; i < legs; i++ {
		dir := dirs[i%2]
		if i > turns {
			dir = dirs[turns%2]
		}
		fmt.Fprintf(&sb, "%s 10\n", dir)
	}
	// 0.7s per leg and 0.8s per turn, in tenths
	tenths := 7*legs + 8*turns
	fmt.Fprintf(&sb, "time %d.%d\n", tenths/10, tenths%10)
	return sb.String()
}

func TestPlanBudgetBoundaryDefaults(t *testing.T) {
	logger := golog.NewTestLogger(t)
	for legs := 1; legs <= 12; legs++ {
		for turns := 0; turns < legs; turns++ {
			text := boundaryScript(legs, turns)
			res, err := Plan(mustParse(t, text), config.Default(), Options{StrictHeading: true}, logger)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, res.Budget.Remaining, test.ShouldEqual, 0.)
			test.That(t, res.Config.RemainingTime, test.ShouldEqual, float32(0))

			s := mustParse(t, text)
			s.Time -= 0.001
			_, err = Plan(s, config.Default(), Options{StrictHeading: true}, logger)
			var budgetErr *TimeBudgetError
			test.That(t, errors.As(err, &budgetErr), test.ShouldBeTrue)
		}
	}
}

func TestPlanErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := Plan(mustParse(t, "right 10\nup 10\n"), config.Default(), Options{}, logger)
	test.That(t, errors.Is(err, ErrMissingTime), test.ShouldBeTrue)

	_, err = Plan(&script.Script{Time: 1, HasTime: true}, config.Default(), Options{}, logger)
	test.That(t, errors.Is(err, script.ErrNoInstructions), test.ShouldBeTrue)

	bad := config.Default()
	bad.TicksPerCm = 0
	_, err = Plan(mustParse(t, "right 10\ntime 10\n"), bad, Options{}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "ticks_per_cm")

	_, err = Plan(mustParse(t, "right 100000000\ntime 10\n"), config.Default(), Options{}, logger)
	test.That(t, errors.Is(err, ErrDistanceOverflow), test.ShouldBeTrue)
}

func TestPlanFile(t *testing.T) {
	logger := golog.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "square.txt")
	test.That(t, os.WriteFile(path, []byte("# square\nup 5\nright 5\ndown 5\nleft 5\ntime 20\n"), 0o600), test.ShouldBeNil)

	res, err := PlanFile(path, config.Default(), Options{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Commands, test.ShouldHaveLength, 4)
	test.That(t, res.End.Norm(), test.ShouldAlmostEqual, 0)

	_, err = PlanFile(filepath.Join(t.TempDir(), "missing.txt"), config.Default(), Options{}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	diag := filepath.Join(t.TempDir(), "diag.txt")
	test.That(t, os.WriteFile(diag, []byte("diagonal 5\ntime 5\n"), 0o600), test.ShouldBeNil)
	_, err = PlanFile(diag, config.Default(), Options{}, logger)
	test.That(t, errors.Is(err, script.ErrUnknownKeyword), test.ShouldBeTrue)
}

func TestPlanString(t *testing.T) {
	logger := golog.NewTestLogger(t)
	res, err := Plan(mustParse(t, "right 10\nup 10\ndown 3\ntime 10\n"), config.Default(), Options{}, logger)
	test.That(t, err, test.ShouldBeNil)
	out := res.String()
	test.That(t, out, test.ShouldContainSubstring, "TURN (DEG)")
	test.That(t, out, test.ShouldContainSubstring, "reverse")
	test.That(t, out, test.ShouldContainSubstring, "90.0")
	test.That(t, out, test.ShouldContainSubstring, "remaining:")
}

func TestSelfTestConfig(t *testing.T) {
	cfg := config.Default()
	cmd := SelfTestConfig(cfg)
	test.That(t, cmd.KpStraight, test.ShouldEqual, float32(cfg.KpStraight))
	test.That(t, cmd.Velocity, test.ShouldEqual, float32(selfTestVelocity))
	test.That(t, cmd.Time, test.ShouldEqual, float32(selfTestTime))
	test.That(t, cmd.RemainingTime, test.ShouldEqual, float32(selfTestTime))
	test.That(t, cmd.VelocityTrackWidthOffset, test.ShouldEqual, float32(0))
}
