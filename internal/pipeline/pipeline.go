package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"msapair-core/a3m"
	"msapair-core/kalign"
	"msapair-core/order"
	"msapair-core/pair"
	"msapair-core/sample"

	"msapair/internal/cmdutil"
	"msapair/internal/writers"
)

// Default file names inside Config.Dir.
const (
	DefaultQuery1        = "0.a3m"
	DefaultQuery2        = "1.a3m"
	DefaultComplex       = "2.a3m"
	DefaultOutput        = "paired.a3m"
	DefaultRealignOutput = "kalign.a3m"
)

// Config controls one run.
type Config struct {
	// Inputs. Relative names are resolved against Dir.
	Dir     string
	Query1  string
	Query2  string
	Complex string

	// Outputs. "" means the default name inside Dir; Output "-" writes the
	// combined MSA to Stdout.
	Output        string
	RealignOutput string
	Stdout        io.Writer

	MaxPaired   int // cap on paired rows
	MaxUnpaired int // cap on rows sampled from each chain alignment
	Mode        sample.Mode
	Seed        int64 // sampling seed
	PairSeed1   int64 // shuffle seed for the first chain
	PairSeed2   int64 // shuffle seed for the second chain

	Realign int // leading combined rows sent to Aligner; 0 disables
	Aligner kalign.Aligner

	Log   io.Writer
	Quiet bool
}

// DefaultConfig: 500/500 rows, top sampling, seed 0 everywhere and the first
// three combined rows realigned.
func DefaultConfig() Config {
	return Config{
		Query1:      DefaultQuery1,
		Query2:      DefaultQuery2,
		Complex:     DefaultComplex,
		MaxPaired:   500,
		MaxUnpaired: 500,
		Mode:        sample.Top,
		Realign:     3,
	}
}

// Result is what Run produced. Combined row 0 is the complex query.
type Result struct {
	Order         []int
	Combined      *a3m.Alignment
	Realigned     string
	Aligned       int // sequences sent to the aligner
	Output        string
	RealignOutput string
}

func (c *Config) validate() error {
	switch {
	case c.MaxPaired < 0:
		return errors.New("max paired rows must be ≥ 0")
	case c.MaxUnpaired < 0:
		return errors.New("max unpaired rows must be ≥ 0")
	case c.Realign < 0:
		return errors.New("realign rows must be ≥ 0")
	case c.Realign > 0 && c.Aligner == nil:
		return errors.New("realignment requested without an aligner")
	case c.Output == "-" && c.Stdout == nil:
		return errors.New("output \"-\" requires a stdout writer")
	}
	return nil
}

func (c *Config) path(name, def string) string {
	if name == "" {
		name = def
	}
	if name == "-" || filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// Run executes the whole pipeline. Outputs are written only once every step
// has succeeded; any error aborts the run without leaving output files.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logf := func(format string, a ...any) { cmdutil.Infof(cfg.Log, cfg.Quiet, format, a...) }

	msa1, err := a3m.ReadFile(cfg.path(cfg.Query1, DefaultQuery1))
	if err != nil {
		return nil, err
	}
	msa2, err := a3m.ReadFile(cfg.path(cfg.Query2, DefaultQuery2))
	if err != nil {
		return nil, err
	}
	msaC, err := a3m.ReadFile(cfg.path(cfg.Complex, DefaultComplex))
	if err != nil {
		return nil, err
	}
	q1, q2, ref := msa1.Query(), msa2.Query(), msaC.Query()

	// Informational: pairing below always puts chain 1 first.
	ord, err := order.Sequences(ref.Seq, q1.Seq, q2.Seq)
	if err != nil {
		return nil, err
	}
	logf("sequence order: %v", ord)

	logf("alignments: paired: %s, unpaired #1: %s, unpaired #2: %s",
		humanize.Comma(int64(msaC.Len())), humanize.Comma(int64(msa1.Len())), humanize.Comma(int64(msa2.Len())))
	logf("queries: complex %q, #1 %q, #2 %q", ref.ID(), q1.ID(), q2.ID())
	expected := ref.Columns()
	logf("lengths: paired: %s, unpaired #1: %s, unpaired #2: %s (sum: %s)",
		humanize.Comma(int64(expected)), humanize.Comma(int64(q1.Columns())), humanize.Comma(int64(q2.Columns())),
		humanize.Comma(int64(q1.Columns()+q2.Columns())))

	s1, err := sample.Rows(msa1.Rows, min(cfg.MaxUnpaired, msa1.Len()), cfg.Mode, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("sample #1: %w", err)
	}
	s2, err := sample.Rows(msa2.Rows, min(cfg.MaxUnpaired, msa2.Len()), cfg.Mode, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("sample #2: %w", err)
	}
	if len(s1) != len(s2) {
		cmdutil.Warnf(cfg.Log, cfg.Quiet, "sample sizes differ (%d vs %d); extra rows are dropped", len(s1), len(s2))
	}

	r1, r2 := pair.Shuffle(s1, s2, cfg.PairSeed1, cfg.PairSeed2)
	r1, r2 = r1[:min(len(r1), cfg.MaxPaired)], r2[:min(len(r2), cfg.MaxPaired)]
	paired, err := pair.Assemble(r1, r2, expected)
	if err != nil {
		return nil, err
	}

	combined := &a3m.Alignment{Rows: make([]a3m.Row, 0, len(paired)+1)}
	combined.Rows = append(combined.Rows, ref)
	combined.Rows = append(combined.Rows, paired...)
	logf("combined MSA: %s rows (%s paired, mode %s)",
		humanize.Comma(int64(combined.Len())), humanize.Comma(int64(len(paired))), cfg.Mode)

	res := &Result{
		Order:    ord,
		Combined: combined,
		Output:   cfg.path(cfg.Output, DefaultOutput),
	}

	if cfg.Realign > 0 {
		n := min(cfg.Realign, combined.Len())
		seqs := make([]string, n)
		for i := range seqs {
			seqs[i] = combined.Rows[i].Seq
		}
		logf("aligning %d sequences", n)
		text, err := cfg.Aligner.Align(ctx, seqs)
		if err != nil {
			return nil, fmt.Errorf("realign: %w", err)
		}
		if rows, perr := kalign.ParseAligned(text); perr != nil {
			cmdutil.Warnf(cfg.Log, cfg.Quiet, "realigned output is not FASTA: %v", perr)
		} else if len(rows) > 0 {
			logf("realigned: %d rows, %s columns", len(rows), humanize.Comma(int64(len(rows[0].Seq))))
		}
		res.Realigned = text
		res.Aligned = n
		res.RealignOutput = cfg.path(cfg.RealignOutput, DefaultRealignOutput)
	}

	if err := write(cfg, res); err != nil {
		return nil, err
	}
	return res, nil
}

func write(cfg Config, res *Result) error {
	out, err := writers.Open(res.Output, cfg.Stdout)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Abort()
	if err := a3m.Write(out, res.Combined); err != nil {
		return fmt.Errorf("write %s: %w", res.Output, err)
	}

	var re *writers.Output
	if res.RealignOutput != "" {
		re, err = writers.Open(res.RealignOutput, cfg.Stdout)
		if err != nil {
			return fmt.Errorf("open realign output: %w", err)
		}
		defer re.Abort()
		if _, err := re.WriteString(res.Realigned); err != nil {
			return fmt.Errorf("write %s: %w", res.RealignOutput, err)
		}
	}

	if err := out.Commit(); err != nil {
		return fmt.Errorf("write %s: %w", res.Output, err)
	}
	if re != nil {
		if err := re.Commit(); err != nil {
			if res.Output != "-" {
				_ = os.Remove(res.Output)
			}
			return fmt.Errorf("write %s: %w", res.RealignOutput, err)
		}
	}
	cmdutil.Infof(cfg.Log, cfg.Quiet, "wrote %s", res.Output)
	if re != nil {
		cmdutil.Infof(cfg.Log, cfg.Quiet, "wrote %s", res.RealignOutput)
	}
	return nil
}
