package planner

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rotour/rotour/utils"
)

// String prints out a table of each command followed by the plan summary.
func (r *PlanningResult) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Turn (deg)", "Ticks", "Drive", "Offset"})
	for i, cmd := range r.Commands {
		drive := "forward"
		if cmd.Reversed() {
			drive = "reverse"
		}
		t.AppendRow(table.Row{
			i,
			fmt.Sprintf("%.1f", utils.RadToDeg(cmd.Turn)),
			cmd.Ticks,
			drive,
			fmt.Sprintf("%.2f", cmd.Offset),
		})
	}

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "velocity: %.0f ticks, track width offset: %.3f\n", r.Budget.Velocity, r.Budget.TrackWidthOffset)
	fmt.Fprintf(&sb, "time: %.3fs, overhead: %.3fs, remaining: %.3fs\n", r.Budget.Time, r.Budget.Overhead, r.Budget.Remaining)
	fmt.Fprintf(&sb, "final heading: %.1f deg, end: (%.1f, %.1f) cm\n", utils.RadToDeg(r.FinalHeading), r.End.X, r.End.Y)
	if r.Correction.Applied {
		fmt.Fprintf(&sb, "end heading corrected at command %d\n", r.Correction.Index)
	} else if r.Correction.Drift != 0 {
		fmt.Fprintf(&sb, "warning: final heading off by %.1f deg\n", utils.RadToDeg(r.Correction.Drift))
	}
	return sb.String()
}
