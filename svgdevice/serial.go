package svgdevice

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"
)

// SerialConfig describes the serial link to the controller.
// The link always uses 8 data bits, no parity and one stop bit.
type SerialConfig struct {
	Port  string
	Baud  int
	Board string // board alias, see BoardName
}

// BoardName expands the "uno" and "mega" aliases.
// Other names are returned unchanged.
func BoardName(board string) string {
	switch strings.ToLower(board) {
	case "mega":
		return "Arduino/Genuino Mega or Mega 2560"
	case "uno":
		return "Arduino/Genuino Uno"
	default:
		return board
	}
}

// SerialDialer returns a Dialer opening the configured port.
func SerialDialer(cfg SerialConfig) Dialer {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return func(context.Context) (io.WriteCloser, error) {
		port, err := serial.Open(cfg.Port, mode)
		if err != nil {
			return nil, fmt.Errorf("open %s (%s): %w", cfg.Port, BoardName(cfg.Board), err)
		}
		return port, nil
	}
}

// OpenSerial returns a connected Session on the serial port.
// The caller owns the session and must close it.
func OpenSerial(ctx context.Context, cfg SerialConfig, opts SessionOptions) (*Session, error) {
	s := NewSession(SerialDialer(cfg), opts)
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	s.opts.Logger.Info("serial link open", "port", cfg.Port, "baud", cfg.Baud, "board", BoardName(cfg.Board))
	return s, nil
}

// Ports lists the serial ports of the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
