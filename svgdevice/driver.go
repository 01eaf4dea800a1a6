package svgdevice

import (
	"context"
	"log/slog"
	"time"

	"github.com/benoitkugler/laserdraw/svgcmd"
	"github.com/benoitkugler/laserdraw/svgflat"
)

// Timing holds the pacing delays of the playback.
// The controller has no acknowledgment: these delays
// are its only flow control.
type Timing struct {
	Settle time.Duration // before and after the position of a line
	Pause  time.Duration // after every command
}

// DefaultTiming is suitable for the reference controller.
var DefaultTiming = Timing{Settle: 25 * time.Millisecond, Pause: 10 * time.Millisecond}

// Options configures a Driver. The zero value plays without delays.
type Options struct {
	Timing Timing
	Curve  svgflat.Mode
	Logger *slog.Logger
}

// Report sums up a playback.
type Report struct {
	Commands   int // commands fully played
	Directives int // directives sent, failed ones included
	Failures   int // directives the sink rejected
}

// Add accumulates `other` into `r`.
func (r *Report) Add(other Report) {
	r.Commands += other.Commands
	r.Directives += other.Directives
	r.Failures += other.Failures
}

// Driver plays command sequences on a Sink.
// It is not safe for concurrent use.
type Driver struct {
	sink   Sink
	opts   Options
	logger *slog.Logger

	laserOn bool
	current svgcmd.Point // last position, in source units
}

// NewDriver returns a driver writing to `sink`, which stays owned by the caller.
func NewDriver(sink Sink, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{sink: sink, opts: opts, logger: logger}
}

// send writes one directive. Failures are logged and counted,
// but do not stop the playback.
func (d *Driver) send(ctx context.Context, r *Report, index int, dir Directive) {
	r.Directives++
	err := d.sink.Send(ctx, dir.String())
	if l, ok := dir.(Laser); ok {
		// an unconfirmed "off" leaves the laser on record as on
		d.laserOn = bool(l) || (err != nil && d.laserOn)
	}
	if err != nil {
		r.Failures++
		d.logger.Error("sending directive", "command", index, "directive", dir.String(), "err", err)
	}
}

// sleep waits for `delay`, or until the context is done
func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// abort switches the laser off, if needed, ignoring the
// cancellation of `ctx`, and returns `err`
func (d *Driver) abort(ctx context.Context, r *Report, index int, err error) error {
	if d.laserOn {
		d.send(context.WithoutCancel(ctx), r, index, Laser(false))
	}
	d.logger.Warn("playback aborted", "command", index, "err", err)
	return err
}

// Play sends the directives for `seq`, in order:
//   - a Move sends its position
//   - a Line switches the laser on, sends its end point and
//     switches the laser off, waiting Settle around the position
//   - a Curve switches the laser on, sends every flattened point
//     and switches the laser off
//
// Every command is followed by a Pause.
//
// Sink failures are not fatal: they are logged and counted in the report.
// Play returns early with the context error if `ctx` is done, after
// making sure the laser is off.
func (d *Driver) Play(ctx context.Context, seq svgcmd.Sequence) (Report, error) {
	var r Report
	for _, c := range seq {
		switch c.(type) {
		case svgcmd.Move, svgcmd.Line, svgcmd.Curve:
		default:
			return r, &svgcmd.UnknownCommandError{Command: c}
		}
	}

	for i, c := range seq {
		if err := ctx.Err(); err != nil {
			return r, d.abort(ctx, &r, i, err)
		}
		var err error
		switch c := c.(type) {
		case svgcmd.Move:
			d.send(ctx, &r, i, Position{int(c.X), int(c.Y)})
			d.current = svgcmd.Point(c)
		case svgcmd.Line:
			err = d.playLine(ctx, &r, i, c)
		case svgcmd.Curve:
			err = d.playCurve(ctx, &r, i, c)
		}
		if err == nil {
			err = sleep(ctx, d.opts.Timing.Pause)
		}
		if err != nil {
			return r, d.abort(ctx, &r, i, err)
		}
		r.Commands++
	}
	return r, nil
}

func (d *Driver) playLine(ctx context.Context, r *Report, index int, c svgcmd.Line) error {
	d.send(ctx, r, index, Laser(true))
	if err := sleep(ctx, d.opts.Timing.Settle); err != nil {
		return err
	}
	d.send(ctx, r, index, Position{int(c.X), int(c.Y)})
	d.current = svgcmd.Point(c)
	if err := sleep(ctx, d.opts.Timing.Settle); err != nil {
		return err
	}
	d.send(ctx, r, index, Laser(false))
	return nil
}

func (d *Driver) playCurve(ctx context.Context, r *Report, index int, c svgcmd.Curve) error {
	d.send(ctx, r, index, Laser(true))
	for p := range svgflat.Flatten(d.opts.Curve, d.current, c) {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.send(ctx, r, index, Position(p))
	}
	d.current = c.P2
	d.send(ctx, r, index, Laser(false))
	return nil
}

// SwitchMode sends a mode directive. Unlike Play, it reports
// the transport failure.
func (d *Driver) SwitchMode(ctx context.Context, mode Mode) error {
	return d.sink.Send(ctx, mode.String())
}

// Delegate asks the controller to follow the host.
func (d *Driver) Delegate(ctx context.Context) error { return d.SwitchMode(ctx, ModeDelegate) }

// Roam lets the controller animate on its own.
func (d *Driver) Roam(ctx context.Context) error { return d.SwitchMode(ctx, ModeRoam) }
