package appshell

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// RunFunc is the signature of app.RunContext.
type RunFunc func(ctx context.Context, argv []string, stdout, stderr io.Writer) int

// Main runs fn with the process arguments under a context cancelled by
// SIGINT/SIGTERM and exits with its code.
func Main(fn RunFunc) {
	os.Exit(Run(context.Background(), fn, os.Args[1:], os.Stdout, os.Stderr))
}

// Run is Main without the process plumbing. A cancelled context turns a
// zero exit code into 130.
func Run(parent context.Context, fn RunFunc, argv []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := fn(ctx, argv, stdout, stderr)
	if ctx.Err() != nil && code == 0 {
		code = 130
	}
	return code
}
