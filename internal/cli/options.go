// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"msapair-core/kalign"
	"msapair-core/sample"

	"msapair/internal/clibase"
	"msapair/internal/cliutil"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Dir     string
	Query1  string
	Query2  string
	Complex string

	// Output
	Output        string
	RealignOutput string
	Report        string

	// Sampling / pairing
	MaxPaired   int
	MaxUnpaired int
	Mode        string
	Seed        int64
	PairSeed1   int64 // -1 = same as Seed
	PairSeed2   int64 // -1 = same as Seed

	// Realignment
	Realign      int
	Kalign       string
	GapOpen      float64
	GapExtension float64
	TerminalGap  float64
	TempDir      string

	// Misc
	Quiet   bool
	Version bool
}

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] DIR\n", name)
		_, _ = fmt.Fprintln(out, "\nDIR holds the chain alignments (0.a3m, 1.a3m) and the complex alignment (2.a3m).")

		_, _ = fmt.Fprintln(out, "\nInput:")
		_, _ = fmt.Fprintln(out, "  -d, --dir string            Alignment directory (alternative to DIR)")
		_, _ = fmt.Fprintf(out, "      --query1 string         First chain alignment [%s]\n", def("query1"))
		_, _ = fmt.Fprintf(out, "      --query2 string         Second chain alignment [%s]\n", def("query2"))
		_, _ = fmt.Fprintf(out, "      --complex string        Complex alignment [%s]\n", def("complex"))

		_, _ = fmt.Fprintln(out, "\nOutput:")
		_, _ = fmt.Fprintln(out, "  -o, --output string         Combined A3M, '-' for STDOUT [DIR/paired.a3m]")
		_, _ = fmt.Fprintln(out, "      --realign-output string Realigned rows [DIR/kalign.a3m]")
		_, _ = fmt.Fprintln(out, "      --report string         JSON run report, '-' for STDOUT [off]")

		_, _ = fmt.Fprintln(out, "\nSampling:")
		_, _ = fmt.Fprintf(out, "      --max-paired int        Max paired rows [%s]\n", def("max-paired"))
		_, _ = fmt.Fprintf(out, "      --max-unpaired int      Max rows sampled per chain [%s]\n", def("max-unpaired"))
		_, _ = fmt.Fprintf(out, "      --mode string           Sampling: top | weighted [%s]\n", def("mode"))
		_, _ = fmt.Fprintf(out, "      --seed int              Sampling seed [%s]\n", def("seed"))
		_, _ = fmt.Fprintf(out, "      --pair-seed1 int        Shuffle seed, chain 1 (-1 = --seed) [%s]\n", def("pair-seed1"))
		_, _ = fmt.Fprintf(out, "      --pair-seed2 int        Shuffle seed, chain 2 (-1 = --seed) [%s]\n", def("pair-seed2"))

		_, _ = fmt.Fprintln(out, "\nRealignment:")
		_, _ = fmt.Fprintf(out, "      --realign int           Leading combined rows to realign (0 = off) [%s]\n", def("realign"))
		_, _ = fmt.Fprintf(out, "      --kalign string         kalign binary [%s]\n", def("kalign"))
		_, _ = fmt.Fprintf(out, "      --gap-open float        Gap open penalty [%s]\n", def("gap-open"))
		_, _ = fmt.Fprintf(out, "      --gap-extension float   Gap extension penalty [%s]\n", def("gap-extension"))
		_, _ = fmt.Fprintf(out, "      --terminal-gap float    Terminal gap penalty [%s]\n", def("terminal-gap"))
		_, _ = fmt.Fprintln(out, "      --tmpdir string         Parent of kalign scratch directories [system temp]")
	})
	return fs
}

// PrintExamples prints a tiny, focused quickstart.
func PrintExamples(out io.Writer, name string) {
	clibase.PrintExamples(out, name, func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Pair the top 250 hits of each chain and realign the first rows:")
		_, _ = fmt.Fprintf(w, "  %s --max-unpaired 250 results/complex_1\n", name)
		_, _ = fmt.Fprintln(w, "\nWeighted sampling, independent shuffles, no kalign, A3M on STDOUT:")
		_, _ = fmt.Fprintf(w, "  %s --mode weighted --seed 7 --pair-seed2 8 --realign 0 -o - results/complex_1\n", name)
	})
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help, showExamples bool

	// Input
	fs.StringVar(&o.Dir, "dir", "", "alignment directory")
	fs.StringVar(&o.Dir, "d", "", "alias of --dir")
	fs.StringVar(&o.Query1, "query1", "0.a3m", "first chain alignment")
	fs.StringVar(&o.Query2, "query2", "1.a3m", "second chain alignment")
	fs.StringVar(&o.Complex, "complex", "2.a3m", "complex alignment")

	// Output
	fs.StringVar(&o.Output, "output", "", "combined A3M ('-' = stdout)")
	fs.StringVar(&o.Output, "o", "", "alias of --output")
	fs.StringVar(&o.RealignOutput, "realign-output", "", "realigned rows output")
	fs.StringVar(&o.Report, "report", "", "JSON run report ('-' = stdout)")

	// Sampling / pairing
	fs.IntVar(&o.MaxPaired, "max-paired", 500, "max paired rows [500]")
	fs.IntVar(&o.MaxUnpaired, "max-unpaired", 500, "max rows sampled per chain [500]")
	fs.StringVar(&o.Mode, "mode", "top", "sampling: top | weighted [top]")
	fs.Int64Var(&o.Seed, "seed", 0, "sampling seed [0]")
	fs.Int64Var(&o.PairSeed1, "pair-seed1", -1, "shuffle seed for chain 1 (-1 = --seed) [-1]")
	fs.Int64Var(&o.PairSeed2, "pair-seed2", -1, "shuffle seed for chain 2 (-1 = --seed) [-1]")

	// Realignment
	fs.IntVar(&o.Realign, "realign", 3, "leading combined rows to realign (0 = off) [3]")
	fs.StringVar(&o.Kalign, "kalign", "kalign", "kalign binary [kalign]")
	fs.Float64Var(&o.GapOpen, "gap-open", kalign.DefaultGapOpen, "gap open penalty")
	fs.Float64Var(&o.GapExtension, "gap-extension", kalign.DefaultGapExtension, "gap extension penalty")
	fs.Float64Var(&o.TerminalGap, "terminal-gap", kalign.DefaultTerminalGap, "terminal gap penalty")
	fs.StringVar(&o.TempDir, "tmpdir", "", "parent of kalign scratch directories")

	// Misc
	fs.BoolVar(&o.Quiet, "quiet", false, "suppress progress and warnings [false]")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&o.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&help, "help", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}

	dir, err := cliutil.InputDir(o.Dir, posArgs)
	if err != nil {
		return o, err
	}
	o.Dir = dir
	return o, Validate(o)
}

// Validate applies CLI invariants.
func Validate(o Options) error {
	if o.MaxPaired < 0 {
		return errors.New("--max-paired must be ≥ 0")
	}
	if o.MaxUnpaired < 0 {
		return errors.New("--max-unpaired must be ≥ 0")
	}
	if _, err := sample.ParseMode(o.Mode); err != nil {
		return fmt.Errorf("invalid --mode %q", o.Mode)
	}
	if o.PairSeed1 < -1 || o.PairSeed2 < -1 {
		return errors.New("--pair-seed1/--pair-seed2 must be ≥ -1")
	}
	if o.Realign < 0 {
		return errors.New("--realign must be ≥ 0")
	}
	if o.Realign > 0 && o.Kalign == "" {
		return errors.New("--kalign must name a binary when --realign > 0")
	}
	if o.GapOpen < 0 || o.GapExtension < 0 || o.TerminalGap < 0 {
		return errors.New("gap penalties must be ≥ 0")
	}
	if o.Report == "-" && o.Output == "-" {
		return errors.New("--report and --output cannot both be '-'")
	}
	if o.Query1 == "" || o.Query2 == "" || o.Complex == "" {
		return errors.New("--query1, --query2 and --complex must not be empty")
	}
	return nil
}

// PairSeeds resolves the -1 defaults against Seed.
func (o Options) PairSeeds() (int64, int64) {
	s1, s2 := o.PairSeed1, o.PairSeed2
	if s1 == -1 {
		s1 = o.Seed
	}
	if s2 == -1 {
		s2 = o.Seed
	}
	return s1, s2
}
