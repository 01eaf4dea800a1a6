// Command laserdraw draws SVG line art with a laser rig
// driven over a serial link.
//
// Usage:
//
//	laserdraw [flags] draw <file.svg | name>
//	laserdraw [flags] preview [-outline] <file.svg> [out.png]
//	laserdraw [flags] roam
//	laserdraw [flags] list
//	laserdraw ports
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benoitkugler/laserdraw/config"
)

func main() {
	opts, err := parseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
