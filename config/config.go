// Package config holds the settings of the laserdraw command:
// serial link, device range, pacing and document handling.
//
// Settings are read from an optional TOML file, then overridden
// by LASERDRAW_* environment variables, then by command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/benoitkugler/laserdraw/svgdevice"
	"github.com/benoitkugler/laserdraw/svgflat"
	"github.com/benoitkugler/laserdraw/svgicon"
	"github.com/benoitkugler/laserdraw/svgscale"
	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of the environment variables.
const EnvPrefix = "LASERDRAW_"

// Config is the complete configuration of a drawing session.
type Config struct {
	Port       string            `toml:"port"        env:"PORT"`
	Baud       int               `toml:"baud"        env:"BAUD"`
	Board      string            `toml:"board"       env:"BOARD"`
	Range      float64           `toml:"range"       env:"RANGE"`
	Settle     Duration          `toml:"settle"      env:"SETTLE"`
	Pause      Duration          `toml:"pause"       env:"PAUSE"`
	VectorDir  string            `toml:"vector_dir"  env:"VECTOR_DIR"`
	LineEnding LineEnding        `toml:"line_ending" env:"LINE_ENDING"`
	MaxTries   uint              `toml:"max_tries"   env:"MAX_TRIES"`
	Curve      svgflat.Mode      `toml:"curve"       env:"CURVE"`
	ErrorMode  svgicon.ErrorMode `toml:"error_mode"  env:"ERROR_MODE"`
	Verbose    bool              `toml:"verbose"     env:"VERBOSE"`
}

// Default returns the settings of the reference rig.
func Default() Config {
	return Config{
		Port:       "COM5",
		Baud:       9600,
		Board:      "uno",
		Range:      svgscale.DefaultRange,
		Settle:     Duration(svgdevice.DefaultTiming.Settle),
		Pause:      Duration(svgdevice.DefaultTiming.Pause),
		VectorDir:  "vector",
		LineEnding: LF,
		MaxTries:   3,
		Curve:      svgflat.ModeQuadratic,
		ErrorMode:  svgicon.WarnErrorMode,
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the default settings, overridden by the
// TOML file at `path` (if not empty) and by the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the values which would otherwise fail late,
// once the device is connected.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Baud <= 0 {
		errs = append(errs, fmt.Errorf("invalid baud rate %d", c.Baud))
	}
	if c.Range <= 0 {
		errs = append(errs, fmt.Errorf("invalid device range %g", c.Range))
	}
	if c.Settle < 0 || c.Pause < 0 {
		errs = append(errs, errors.New("delays must be positive"))
	}
	return errors.Join(errs...)
}

// Timing returns the pacing of the driver.
func (c Config) Timing() svgdevice.Timing {
	return svgdevice.Timing{Settle: time.Duration(c.Settle), Pause: time.Duration(c.Pause)}
}

// Serial returns the serial link settings.
func (c Config) Serial() svgdevice.SerialConfig {
	return svgdevice.SerialConfig{Port: c.Port, Baud: c.Baud, Board: c.Board}
}

// Session returns the transport settings.
func (c Config) Session(logger *slog.Logger) svgdevice.SessionOptions {
	return svgdevice.SessionOptions{LineEnding: c.LineEnding.Terminator(), MaxTries: c.MaxTries, Logger: logger}
}

// Duration is a time.Duration written as "25ms" in files and variables.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d Duration) String() string { return time.Duration(d).String() }

// LineEnding terminates each directive sent to the controller.
type LineEnding uint8

const (
	LF LineEnding = iota
	CRLF
	CR
)

var lineEndings = [...]struct{ name, value string }{
	LF:   {"lf", "\n"},
	CRLF: {"crlf", "\r\n"},
	CR:   {"cr", "\r"},
}

// Terminator returns the characters appended to each line.
func (l LineEnding) Terminator() string {
	if int(l) < len(lineEndings) {
		return lineEndings[l].value
	}
	return "\n"
}

func (l *LineEnding) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, le := range lineEndings {
		if le.name == name {
			*l = LineEnding(i)
			return nil
		}
	}
	return fmt.Errorf("invalid line ending %q (expected lf, crlf or cr)", text)
}

func (l LineEnding) MarshalText() ([]byte, error) {
	if int(l) < len(lineEndings) {
		return []byte(lineEndings[l].name), nil
	}
	return nil, fmt.Errorf("invalid line ending %d", l)
}
