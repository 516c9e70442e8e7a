// Package kalign wraps the kalign multiple sequence aligner.
//
// The binary is an opaque collaborator: sequences go in through a temporary
// FASTA file and the aligned text is read back from the output file. Callers
// depend on the Aligner interface so tests can substitute a fake.
package kalign

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MinResidues is the shortest sequence kalign accepts.
const MinResidues = 6

// Default penalties.
const (
	DefaultGapOpen      = 11
	DefaultGapExtension = 0.85
	DefaultTerminalGap  = 0.45
)

// Aligner aligns raw sequences and returns the alignment as A3M/FASTA text.
type Aligner interface {
	Align(ctx context.Context, seqs []string) (string, error)
}

// Func adapts a plain function to Aligner.
type Func func(ctx context.Context, seqs []string) (string, error)

func (f Func) Align(ctx context.Context, seqs []string) (string, error) { return f(ctx, seqs) }

// ValidationError rejects input before kalign is started.
type ValidationError struct {
	Index int
	Seq   string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return "kalign: " + e.Msg
	}
	return fmt.Sprintf("kalign: sequence %d: %s", e.Index+1, e.Msg)
}

// ExecutionError reports a failed kalign run or an unusable output file.
type ExecutionError struct {
	Cmd    string
	Stderr string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("kalign: %s: %v", e.Cmd, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Kalign runs the kalign binary.
type Kalign struct {
	Binary       string // path or name looked up in $PATH
	GapOpen      float64
	GapExtension float64
	TerminalGap  float64
	TempDir      string // parent of the per-call scratch directory; "" = os.TempDir()
}

// New returns a Kalign with the default penalties.
func New(binary string) *Kalign {
	return &Kalign{
		Binary:       binary,
		GapOpen:      DefaultGapOpen,
		GapExtension: DefaultGapExtension,
		TerminalGap:  DefaultTerminalGap,
	}
}

// Validate checks seqs against kalign's input requirements.
func Validate(seqs []string) error {
	if len(seqs) == 0 {
		return &ValidationError{Index: -1, Msg: "no sequences to align"}
	}
	for i, s := range seqs {
		if len(s) < MinResidues {
			return &ValidationError{
				Index: i,
				Seq:   s,
				Msg:   fmt.Sprintf("%q has %d residues, kalign requires at least %d", s, len(s), MinResidues),
			}
		}
	}
	return nil
}

// Args returns the command line (without the binary) for the given files.
func (k *Kalign) Args(input, output string) []string {
	return []string{
		"-q",
		"-i", input,
		"-o", output,
		"-format", "fasta",
		"-gapopen", formatFloat(k.GapOpen),
		"-gapextension", formatFloat(k.GapExtension),
		"-tgpe", formatFloat(k.TerminalGap),
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// Align writes seqs to a scratch directory, runs kalign and returns the
// aligned text. The scratch directory is removed on every path. No timeout
// is applied; cancel ctx to stop a hung process.
func (k *Kalign) Align(ctx context.Context, seqs []string) (string, error) {
	if err := Validate(seqs); err != nil {
		return "", err
	}

	parent := k.TempDir
	if parent == "" {
		parent = os.TempDir()
	}
	dir := filepath.Join(parent, "kalign-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("kalign: scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	input := filepath.Join(dir, "input.fasta")
	output := filepath.Join(dir, "output.a3m")
	if err := os.WriteFile(input, []byte(toFasta(seqs)), 0o644); err != nil {
		return "", fmt.Errorf("kalign: write input: %w", err)
	}

	cmd := exec.CommandContext(ctx, k.Binary, k.Args(input, output)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	line := k.Binary + " " + strings.Join(cmd.Args[1:], " ")
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &ExecutionError{Cmd: line, Stderr: stderr.String(), Err: err}
	}

	out, err := os.ReadFile(output)
	if err != nil {
		return "", &ExecutionError{Cmd: line, Stderr: stderr.String(), Err: fmt.Errorf("read output: %w", err)}
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", &ExecutionError{Cmd: line, Stderr: stderr.String(), Err: fmt.Errorf("empty output %s", output)}
	}
	return string(out), nil
}

// toFasta names the inputs "sequence 1", "sequence 2", ...
func toFasta(seqs []string) string {
	var b strings.Builder
	for i, s := range seqs {
		fmt.Fprintf(&b, ">sequence %d\n%s\n", i+1, s)
	}
	return b.String()
}
