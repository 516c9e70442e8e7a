// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"msapair-core/a3m"
	"msapair-core/kalign"
	"msapair-core/order"
	"msapair-core/pair"
	"msapair-core/sample"

	"msapair/internal/cli"
	"msapair/internal/clibase"
	"msapair/internal/cmdutil"
	"msapair/internal/jsonutil"
	"msapair/internal/pipeline"
	"msapair/internal/version"
	"msapair/internal/writers"
)

const name = "msapair"

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2 // bad flags or unusable input files
	ExitRuntime  = 3 // aligner / IO failure
	ExitCanceled = 130
)

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunContext runs one invocation against argv. ctx cancels a running kalign.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	return RunWithAligner(parent, argv, stdout, stderr, nil)
}

// RunWithAligner is RunContext with the realignment collaborator replaced;
// nil builds a kalign.Kalign from the flags.
func RunWithAligner(parent context.Context, argv []string, stdout, stderr io.Writer, aligner kalign.Aligner) int {
	outw := bufio.NewWriter(stdout)
	printed := func(code int) int {
		if e := outw.Flush(); writers.IsBrokenPipe(e) {
			return ExitOK
		} else if e != nil {
			_, _ = fmt.Fprintln(stderr, e)
			return ExitRuntime
		}
		return code
	}

	fs := cli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = cli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return printed(ExitOK)
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			cli.PrintExamples(outw, name)
			return printed(ExitOK)
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return printed(ExitOK)
		}
		cmdutil.Errorf(stderr, "%v", err)
		fs.SetOutput(outw)
		fs.Usage()
		return printed(ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return printed(ExitOK)
	}

	cfg, err := Config(opts, aligner)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return ExitUsage
	}
	// -o - streams through outw; logs stay on stderr
	cfg.Stdout = outw
	cfg.Log = stderr

	res, err := pipeline.Run(parent, cfg)
	if err != nil {
		if writers.IsBrokenPipe(err) {
			return ExitOK
		}
		if errors.Is(err, context.Canceled) {
			return ExitCanceled
		}
		cmdutil.Errorf(stderr, "%v", err)
		return exitCode(err)
	}
	if opts.Report != "" {
		if err := writeReport(opts.Report, outw, res.Summary(cfg)); err != nil {
			if writers.IsBrokenPipe(err) {
				return ExitOK
			}
			cmdutil.Errorf(stderr, "%v", err)
			return ExitRuntime
		}
	}
	return printed(ExitOK)
}

func writeReport(path string, stdout io.Writer, s pipeline.Summary) error {
	out, err := writers.Open(path, stdout)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer out.Abort()
	if err := jsonutil.EncodePretty(out, s); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	if err := out.Commit(); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// Config turns parsed options into a pipeline configuration.
func Config(o cli.Options, aligner kalign.Aligner) (pipeline.Config, error) {
	mode, err := sample.ParseMode(o.Mode)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg := pipeline.DefaultConfig()
	cfg.Dir = o.Dir
	cfg.Query1, cfg.Query2, cfg.Complex = o.Query1, o.Query2, o.Complex
	cfg.Output, cfg.RealignOutput = o.Output, o.RealignOutput
	cfg.MaxPaired, cfg.MaxUnpaired = o.MaxPaired, o.MaxUnpaired
	cfg.Mode = mode
	cfg.Seed = o.Seed
	cfg.PairSeed1, cfg.PairSeed2 = o.PairSeeds()
	cfg.Realign = o.Realign
	cfg.Quiet = o.Quiet

	if cfg.Realign > 0 {
		if aligner == nil {
			k := kalign.New(o.Kalign)
			k.GapOpen, k.GapExtension, k.TerminalGap = o.GapOpen, o.GapExtension, o.TerminalGap
			k.TempDir = o.TempDir
			aligner = k
		}
		cfg.Aligner = aligner
	}
	return cfg, nil
}

// exitCode maps input problems to ExitUsage and everything else to
// ExitRuntime.
func exitCode(err error) int {
	var (
		pe *a3m.ParseError
		nf *order.NotFoundError
		se *sample.SizeError
		lm *pair.LengthMismatchError
		ve *kalign.ValidationError
	)
	switch {
	case errors.As(err, &pe), errors.As(err, &nf), errors.As(err, &se),
		errors.As(err, &lm), errors.As(err, &ve):
		return ExitUsage
	}
	return ExitRuntime
}
