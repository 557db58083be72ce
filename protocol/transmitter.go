package protocol

import (
	"context"
	"encoding"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/rotour/rotour/serial"
)

// A Transmitter plays records over a serial port, waiting for a one byte
// acknowledgment so that at most one record is ever outstanding. The
// transmitter owns the port for the duration of a send but never closes it.
type Transmitter struct {
	port   serial.Port
	logger golog.Logger
	clock  clock.Clock
}

// NewTransmitter returns a transmitter writing to port.
func NewTransmitter(port serial.Port, logger golog.Logger) *Transmitter {
	return &Transmitter{port: port, logger: logger, clock: clock.New()}
}

// Send transmits the config record and then every command in order. Any
// failure aborts the whole transmission; nothing is retried.
func (t *Transmitter) Send(ctx context.Context, cfg ConfigCommand, commands []Command) error {
	ctx, span := trace.StartSpan(ctx, "protocol::Transmitter::Send")
	defer span.End()

	logger := t.logger.With("transmission", uuid.New().String())
	logger.Debugw("starting transmission", "commands", len(commands))
	start := t.clock.Now()
	if err := t.SendConfig(ctx, cfg); err != nil {
		return err
	}
	if err := t.SendCommands(ctx, commands); err != nil {
		return err
	}
	logger.Infow("transmission complete", "commands", len(commands), "elapsed", t.clock.Since(start))
	return nil
}

// SendConfig clears pending input, writes the config record and waits for
// its acknowledgment.
func (t *Transmitter) SendConfig(ctx context.Context, cfg ConfigCommand) error {
	if err := ctx.Err(); err != nil {
		return &TransmitError{Phase: PhaseConfig, Index: -1, Err: err}
	}
	if err := t.port.ResetInputBuffer(); err != nil {
		return &TransmitError{Phase: PhaseConfig, Index: -1, Err: errors.Wrap(err, "clear input")}
	}
	if err := t.write(cfg); err != nil {
		return &TransmitError{Phase: PhaseConfig, Index: -1, Err: err}
	}
	if err := t.readAck(); err != nil {
		return &TransmitError{Phase: PhaseConfig, Index: -1, Err: err}
	}
	t.logger.Debug("config acknowledged")
	return nil
}

// SendCommands announces the number of commands and then sends each one
// after the device acknowledges the previous record.
func (t *Transmitter) SendCommands(ctx context.Context, commands []Command) error {
	if err := ctx.Err(); err != nil {
		return &TransmitError{Phase: PhaseHeader, Index: -1, Err: err}
	}
	if err := t.write(NewTransmitCommand(len(commands))); err != nil {
		return &TransmitError{Phase: PhaseHeader, Index: -1, Err: err}
	}
	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return &TransmitError{Phase: PhaseCommand, Index: i, Err: err}
		}
		if err := t.readAck(); err != nil {
			return &TransmitError{Phase: PhaseCommand, Index: i, Err: err}
		}
		if err := t.write(cmd); err != nil {
			return &TransmitError{Phase: PhaseCommand, Index: i, Err: err}
		}
		t.logger.Debugw("sent command", "index", i, "turn", cmd.Turn, "ticks", cmd.Ticks)
	}
	return nil
}

// SelfTest sends cfg followed by a single zero-distance self-test command.
func (t *Transmitter) SelfTest(ctx context.Context, cfg ConfigCommand) error {
	ctx, span := trace.StartSpan(ctx, "protocol::Transmitter::SelfTest")
	defer span.End()

	if err := t.SendConfig(ctx, cfg); err != nil {
		return err
	}
	if err := t.write(NewSelfTestCommand()); err != nil {
		return &TransmitError{Phase: PhaseSelfTest, Index: -1, Err: err}
	}
	return nil
}

func (t *Transmitter) write(record encoding.BinaryMarshaler) error {
	data, err := record.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := t.port.Write(data); err != nil {
		return errors.Wrap(err, "write")
	}
	if err := t.port.Drain(); err != nil {
		return errors.Wrap(err, "flush")
	}
	return nil
}

// readAck blocks for exactly one byte. The port's read timeout bounds the
// wait; a timed out read returns no data.
func (t *Transmitter) readAck() error {
	var ack [1]byte
	n, err := t.port.Read(ack[:])
	switch {
	case n == 1:
		return nil
	case err != nil:
		return errors.Wrap(err, "read acknowledgment")
	default:
		return ErrAckTimeout
	}
}
