package planner

import "github.com/rotour/rotour/script"

// trace is the output of a forward pass: one command per instruction and the
// heading after each of them.
type trace struct {
	commands []Command
	headings []float64
}

func (t *trace) append(cmd Command, heading float64) {
	t.commands = append(t.commands, cmd)
	t.headings = append(t.headings, heading)
}

// final returns the heading after the last command, or start for an empty trace.
func (t *trace) final(start float64) float64 {
	if len(t.headings) == 0 {
		return start
	}
	return t.headings[len(t.headings)-1]
}

// headingBefore returns the heading the robot has before command i runs.
func (t *trace) headingBefore(i int, start float64) float64 {
	if i == 0 {
		return start
	}
	return t.headings[i-1]
}

// emit runs Step over instructions starting from heading.
func emit(heading float64, instructions []script.Instruction, ticksPerCm float64) trace {
	out := trace{
		commands: make([]Command, 0, len(instructions)),
		headings: make([]float64, 0, len(instructions)),
	}
	for _, ins := range instructions {
		var cmd Command
		heading, cmd = Step(heading, ins, ticksPerCm)
		out.append(cmd, heading)
	}
	return out
}
