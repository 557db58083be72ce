// Package protocol contains the fixed-layout records exchanged with the
// robot and the transmitter that plays them over a serial port.
//
// Records carry no framing, length prefix or checksum: both ends agree on
// the exact little-endian, unpadded layout below.
package protocol

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// CommandType tags a Command record.
type CommandType uint8

// The command types understood by the firmware.
const (
	CommandTypeSelfTest CommandType = iota
	CommandTypeClear
	CommandTypeMove
	CommandTypeTurn
	CommandTypeEnd
	CommandTypeConfig
	// CommandTypeTransmit starts a command list; Ticks holds the number of
	// commands that follow.
	CommandTypeTransmit
)

func (t CommandType) String() string {
	switch t {
	case CommandTypeSelfTest:
		return "self-test"
	case CommandTypeClear:
		return "clear"
	case CommandTypeMove:
		return "move"
	case CommandTypeTurn:
		return "turn"
	case CommandTypeEnd:
		return "end"
	case CommandTypeConfig:
		return "config"
	case CommandTypeTransmit:
		return "transmit"
	default:
		return "unknown"
	}
}

// Record sizes in bytes.
const (
	CommandSize       = 1 + 4 + 4 + 4
	ConfigCommandSize = 12 * 4
)

// Command is one combined turn+drive directive.
type Command struct {
	Type CommandType
	// Turn is applied before driving, in radians.
	Turn float32
	// Ticks is the signed encoder distance; negative drives in reverse.
	Ticks int32
	// TrackWidthOffset is the lateral offset fraction applied during the leg.
	TrackWidthOffset float32
}

// NewTransmitCommand returns the header announcing count commands.
func NewTransmitCommand(count int) Command {
	return Command{Type: CommandTypeTransmit, Ticks: int32(count)}
}

// NewSelfTestCommand returns the zero-distance command that starts the self-test.
func NewSelfTestCommand() Command {
	return Command{Type: CommandTypeSelfTest}
}

// MarshalBinary encodes c in its wire layout.
func (c Command) MarshalBinary() ([]byte, error) {
	buf := make([]byte, CommandSize)
	buf[0] = byte(c.Type)
	binary.LittleEndian.PutUint32(buf[1:5], math.Float32bits(c.Turn))
	binary.LittleEndian.PutUint32(buf[5:9], uint32(c.Ticks))
	binary.LittleEndian.PutUint32(buf[9:13], math.Float32bits(c.TrackWidthOffset))
	return buf, nil
}

// UnmarshalBinary decodes a wire record into c.
func (c *Command) UnmarshalBinary(data []byte) error {
	if len(data) != CommandSize {
		return errors.Errorf("command record must be %d bytes, got %d", CommandSize, len(data))
	}
	c.Type = CommandType(data[0])
	c.Turn = math.Float32frombits(binary.LittleEndian.Uint32(data[1:5]))
	c.Ticks = int32(binary.LittleEndian.Uint32(data[5:9]))
	c.TrackWidthOffset = math.Float32frombits(binary.LittleEndian.Uint32(data[9:13]))
	return nil
}

// ConfigCommand carries the tunable gains plus the plan's feed-forward
// summary. It is sent once, before any Command.
type ConfigCommand struct {
	KpTurn     float32
	KpHold     float32
	KpStraight float32
	KpVelocity float32
	DowelOff   float32

	TurnAccelTime     float32
	StraightAccelTime float32

	// Velocity is the total absolute tick distance of the plan.
	Velocity float32
	// VelocityTrackWidthOffset is the total absolute lateral offset plus turn magnitude.
	VelocityTrackWidthOffset float32
	Friction                 float32
	// Time is the user's total time budget in seconds.
	Time float32
	// RemainingTime is Time less the acceleration overhead of every leg.
	RemainingTime float32
}

func (c *ConfigCommand) fields() []*float32 {
	return []*float32{
		&c.KpTurn,
		&c.KpHold,
		&c.KpStraight,
		&c.KpVelocity,
		&c.DowelOff,
		&c.TurnAccelTime,
		&c.StraightAccelTime,
		&c.Velocity,
		&c.VelocityTrackWidthOffset,
		&c.Friction,
		&c.Time,
		&c.RemainingTime,
	}
}

// MarshalBinary encodes c in its wire layout.
func (c ConfigCommand) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, ConfigCommandSize)
	for _, f := range c.fields() {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(*f))
	}
	return buf, nil
}

// UnmarshalBinary decodes a wire record into c.
func (c *ConfigCommand) UnmarshalBinary(data []byte) error {
	if len(data) != ConfigCommandSize {
		return errors.Errorf("config record must be %d bytes, got %d", ConfigCommandSize, len(data))
	}
	for i, f := range c.fields() {
		*f = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return nil
}
