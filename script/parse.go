package script

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/rotour/rotour/utils"
)

const (
	commentPrefix = "#"
	timeKeyword   = "time"
)

var directionKeywords = map[string]Direction{
	"up":    Up,
	"down":  Down,
	"left":  Left,
	"right": Right,
}

// ParseFile opens and parses the script at path.
func ParseFile(path string) (*Script, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open script")
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads a script from r. The whole script is rejected on the first bad
// line; no partial result is ever returned.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		fields := strings.Fields(text)
		if len(fields) < 2 || strings.HasPrefix(fields[0], commentPrefix) {
			continue
		}

		keyword := strings.ToLower(fields[0])
		dir, isMove := directionKeywords[keyword]
		if !isMove && keyword != timeKeyword {
			return nil, &ParseError{Line: lineNum, Text: text, Err: ErrUnknownKeyword}
		}

		value, err := parseMagnitude(fields[1])
		if err != nil {
			return nil, &ParseError{Line: lineNum, Text: text, Err: err}
		}

		if !isMove {
			s.Time = value
			s.HasTime = true
			continue
		}
		s.Instructions = append(s.Instructions, Instruction{
			Direction: dir,
			Magnitude: value,
			Line:      lineNum,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading script")
	}
	if len(s.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	return &s, nil
}

func parseMagnitude(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidMagnitude, "%q is not a number", field)
	}
	if !utils.IsFinite(v) || v < 0 {
		return 0, errors.Wrapf(ErrInvalidMagnitude, "%q must be a finite non-negative number", field)
	}
	return v, nil
}
