package a3m

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError reports malformed or unreadable alignment input.
type ParseError struct {
	Path string // "" when reading from a plain io.Reader
	Line int    // 1-based; 0 when not tied to a line
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("a3m: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadFile parses the alignment stored at path. "-" reads stdin and gzip
// input is decompressed transparently.
func ReadFile(path string) (*Alignment, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, &ParseError{Path: path, Msg: "open", Err: err}
	}
	defer rc.Close()

	aln, err := Read(rc)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return aln, nil
}

// Read parses an alignment in strict alternating header/sequence form: every
// '>' header line is followed by exactly one sequence line. Blank lines are
// ignored and a single leading '#' line is kept as the alignment comment.
// Residues are not validated.
func Read(r io.Reader) (*Alignment, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // long complex queries fit on a single line
	sc.Buffer(make([]byte, 64*1024), maxLine)

	aln := &Alignment{}
	var (
		ln         int
		seen       bool // any non-blank line so far
		pending    bool // header read, sequence line outstanding
		header     string
		headerLine int
	)
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		first := !seen
		seen = true

		switch {
		case first && line[0] == '#':
			aln.Comment = line[1:]
		case line[0] == '>':
			if pending {
				return nil, &ParseError{Line: headerLine, Msg: fmt.Sprintf("header %q has no sequence line", header)}
			}
			header, headerLine, pending = line[1:], ln, true
		default:
			if !pending {
				return nil, &ParseError{Line: ln, Msg: "sequence line without a preceding header"}
			}
			aln.Rows = append(aln.Rows, Row{Header: header, Seq: strings.TrimSpace(line)})
			pending = false
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Line: ln, Msg: "read", Err: err}
	}
	if pending {
		return nil, &ParseError{Line: headerLine, Msg: fmt.Sprintf("header %q has no sequence line", header)}
	}
	if len(aln.Rows) == 0 {
		return nil, &ParseError{Msg: "no alignment rows"}
	}
	return aln, nil
}
