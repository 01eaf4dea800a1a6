package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/laserdraw/config"
	"github.com/benoitkugler/laserdraw/drawjob"
	"github.com/benoitkugler/laserdraw/svgdevice"
	"github.com/benoitkugler/laserdraw/svgflat"
	"github.com/benoitkugler/laserdraw/svgraster"
)

type options struct {
	cfg     config.Config
	command string
	args    []string
}

// parseArgs loads the configuration and applies the flags
// explicitly set on top of it.
func parseArgs(fs *flag.FlagSet, args []string) (options, error) {
	var (
		configPath = fs.String("config", os.Getenv(config.EnvPrefix+"CONFIG"), "TOML configuration file")
		port       = fs.String("port", "", "serial port of the controller")
		baud       = fs.Int("baud", 0, "baud rate")
		board      = fs.String("board", "", "board name (uno, mega, ...)")
		devRange   = fs.Float64("range", 0, "addressable range of the device")
		curve      = fs.String("curve", "", "curve interpretation: quadratic or cubic")
		dir        = fs.String("dir", "", "directory of the SVG files")
		verbose    = fs.Bool("verbose", false, "enable debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "baud":
			cfg.Baud = *baud
		case "board":
			cfg.Board = *board
		case "range":
			cfg.Range = *devRange
		case "curve":
			cfg.Curve, err = svgflat.ParseMode(*curve)
		case "dir":
			cfg.VectorDir = *dir
		case "verbose":
			cfg.Verbose = *verbose
		}
	})
	if err != nil {
		return options{}, err
	}
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return options{}, errors.New("missing command: draw, preview, roam, list or ports")
	}
	return options{cfg: cfg, command: rest[0], args: rest[1:]}, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the command.
func run(ctx context.Context, opts options, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger := newLogger(errOut, opts.cfg.Verbose)
	switch opts.command {
	case "list":
		return list(opts.cfg, out)
	case "ports":
		return ports(out)
	case "preview":
		return preview(opts.cfg, opts.args, logger)
	case "draw":
		return draw(ctx, opts.cfg, opts.args, logger)
	case "roam":
		return roam(ctx, opts.cfg, logger)
	default:
		return fmt.Errorf("unknown command %q", opts.command)
	}
}

func list(cfg config.Config, out io.Writer) error {
	files, err := drawjob.List(cfg.VectorDir)
	if err != nil {
		return err
	}
	for _, file := range files {
		fmt.Fprintln(out, file)
	}
	return nil
}

func ports(out io.Writer) error {
	names, err := svgdevice.Ports()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(out, "no serial port found")
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

// resolve accepts a path, or a name in the vector directory,
// with or without extension
func resolve(cfg config.Config, name string) (string, error) {
	candidates := []string{name, filepath.Join(cfg.VectorDir, name)}
	if !strings.EqualFold(filepath.Ext(name), ".svg") {
		candidates = append(candidates, filepath.Join(cfg.VectorDir, name+".svg"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no SVG file %q (looked in %s)", name, cfg.VectorDir)
}

func preview(cfg config.Config, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	outline := fs.Bool("outline", false, "render the source document instead of the laser trace")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: preview [-outline] <file.svg> [out.png]")
	}
	path, err := resolve(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	output := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".png"
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	var img image.Image
	if *outline {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		img, err = svgraster.RasterSVGIconToImage(f, cfg.ErrorMode)
		if err != nil {
			return err
		}
	} else {
		plan, err := drawjob.PrepareFile(path, cfg.Range, cfg.ErrorMode)
		if err != nil {
			return err
		}
		size := int(cfg.Range) + 1
		img = svgraster.Render(plan.Sequences, size, size, cfg.Curve)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := svgraster.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	logger.Info("preview written", "file", output)
	return f.Close()
}

func openDriver(ctx context.Context, cfg config.Config, logger *slog.Logger) (*svgdevice.Driver, io.Closer, error) {
	session, err := svgdevice.OpenSerial(ctx, cfg.Serial(), cfg.Session(logger))
	if err != nil {
		return nil, nil, err
	}
	driver := svgdevice.NewDriver(session, svgdevice.Options{Timing: cfg.Timing(), Curve: cfg.Curve, Logger: logger})
	return driver, session, nil
}

func draw(ctx context.Context, cfg config.Config, args []string, logger *slog.Logger) error {
	if len(args) != 1 {
		return errors.New("usage: draw <file.svg | name>")
	}
	path, err := resolve(cfg, args[0])
	if err != nil {
		return err
	}
	// a bad document is reported before touching the device
	plan, err := drawjob.PrepareFile(path, cfg.Range, cfg.ErrorMode)
	if err != nil {
		return err
	}
	logger.Debug("document prepared", "file", path, "paths", len(plan.Sequences), "factor", plan.Factor)

	driver, session, err := openDriver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	report, err := drawjob.Run(ctx, driver, plan, logger)
	logger.Info("drawing done", "file", path, "commands", report.Commands,
		"directives", report.Directives, "failures", report.Failures)
	return err
}

func roam(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	driver, session, err := openDriver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	return driver.Roam(ctx)
}
