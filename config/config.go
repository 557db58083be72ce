// Package config loads and stores the tunable robot parameters used when
// compiling and transmitting a plan.
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/rotour/rotour/utils"
)

const (
	dirName  = "rotour"
	fileName = "config.toml"
)

// Config holds the robot's tunable parameters. It is read-only for the
// duration of a plan.
type Config struct {
	// Encoder ticks per centimeter of travel.
	TicksPerCm float64 `toml:"ticks_per_cm"`

	KpTurn     float64 `toml:"kp_turn"`
	KpHold     float64 `toml:"kp_hold"`
	KpStraight float64 `toml:"kp_straight"`
	KpVelocity float64 `toml:"kp_velocity"`
	// Weight of the IMU heading against the encoder heading.
	ImuWeight float64 `toml:"imu_weight"`

	// Seconds spent ramping up (and again down) around each turn and each straight leg.
	TurnAccelTime     float64 `toml:"turn_accel_time"`
	StraightAccelTime float64 `toml:"straight_accel_time"`

	Friction float64 `toml:"friction"`
	// Distance in centimeters from the wheel axle to the dowel.
	DowelOff float64 `toml:"dowel_off"`

	// Reverse swaps the motor directions; ReverseEnc and ReverseEnc2 flip
	// the first and second encoder counts.
	Reverse     bool `toml:"reverse"`
	ReverseEnc  bool `toml:"reverse_enc"`
	ReverseEnc2 bool `toml:"reverse_enc2"`
}

// legacyKeys are accepted on read for files written by earlier versions.
type legacyKeys struct {
	KpMove *float64 `toml:"kp_move"`
}

// Default returns the parameters a fresh install starts with.
func Default() *Config {
	return &Config{
		TicksPerCm:        100,
		KpTurn:            3.0,
		KpHold:            0.01,
		KpStraight:        3.0,
		KpVelocity:        0.000003,
		ImuWeight:         1.0,
		TurnAccelTime:     0.4,
		StraightAccelTime: 0.35,
		Friction:          0.1,
		DowelOff:          6.562,
	}
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	for _, tun := range c.Tunables() {
		if !utils.IsFinite(*tun.Value) {
			return errors.Errorf("%s must be a finite number", tun.Name)
		}
	}
	if c.TicksPerCm <= 0 {
		return errors.Errorf("ticks_per_cm must be positive, got %v", c.TicksPerCm)
	}
	if c.TurnAccelTime < 0 {
		return errors.Errorf("turn_accel_time must not be negative, got %v", c.TurnAccelTime)
	}
	if c.StraightAccelTime < 0 {
		return errors.Errorf("straight_accel_time must not be negative, got %v", c.StraightAccelTime)
	}
	return nil
}

// Tunable names a single config value so front ends can expose it.
type Tunable struct {
	Name  string
	Usage string
	Value *float64
}

// Tunables returns every tunable of c, in file order. Writing through Value
// modifies c.
func (c *Config) Tunables() []Tunable {
	return []Tunable{
		{"ticks_per_cm", "encoder ticks per centimeter", &c.TicksPerCm},
		{"kp_turn", "proportional gain while turning", &c.KpTurn},
		{"kp_hold", "proportional gain holding heading", &c.KpHold},
		{"kp_straight", "proportional gain driving straight", &c.KpStraight},
		{"kp_velocity", "proportional gain on velocity", &c.KpVelocity},
		{"imu_weight", "weight of the IMU heading against the encoders", &c.ImuWeight},
		{"turn_accel_time", "seconds to ramp into and out of a turn", &c.TurnAccelTime},
		{"straight_accel_time", "seconds to ramp into and out of a straight leg", &c.StraightAccelTime},
		{"friction", "friction coefficient", &c.Friction},
		{"dowel_off", "dowel offset from the axle in centimeters", &c.DowelOff},
	}
}

// Switch names a single boolean config value so front ends can expose it.
type Switch struct {
	Name  string
	Usage string
	Value *bool
}

// Switches returns every boolean setting of c, in file order. Writing
// through Value modifies c.
func (c *Config) Switches() []Switch {
	return []Switch{
		{"reverse", "reverse both motors", &c.Reverse},
		{"reverse_enc", "reverse the first encoder", &c.ReverseEnc},
		{"reverse_enc2", "reverse the second encoder", &c.ReverseEnc2},
	}
}

// Path returns the default location of the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get config directory")
	}
	return filepath.Join(dir, dirName, fileName), nil
}

// Read loads the config at path. A missing file is created with the
// defaults first.
func Read(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, "cannot stat config %q", path)
	}

	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", path)
	}
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	var legacy legacyKeys
	if _, err := toml.Decode(string(data), &legacy); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	if legacy.KpMove != nil && !md.IsDefined("kp_turn") {
		cfg.KpTurn = *legacy.KpMove
	}
	for _, key := range md.Undecoded() {
		if key.String() == "kp_move" {
			continue
		}
		return nil, errors.Errorf("unknown config key %q in %q", key.String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %q", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "cannot encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "cannot create config directory")
	}
	//nolint:gosec
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write config %q", path)
	}
	return nil
}
