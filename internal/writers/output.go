package writers

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Output is a destination that only becomes visible on Commit. File
// destinations are written to a temporary sibling and renamed into place;
// "-" streams to the provided stdout writer.
type Output struct {
	*bufio.Writer
	path string
	tmp  *os.File
	done bool
}

// Open prepares the destination for path.
func Open(path string, stdout io.Writer) (*Output, error) {
	if path == "-" {
		if stdout == nil {
			return nil, errors.New("no stdout writer for output \"-\"")
		}
		return &Output{Writer: bufio.NewWriterSize(stdout, 64<<10), path: path}, nil
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &Output{Writer: bufio.NewWriterSize(tmp, 64<<10), path: path, tmp: tmp}, nil
}

// Path returns the final destination.
func (o *Output) Path() string { return o.path }

// Commit flushes buffered data and moves the file into place.
func (o *Output) Commit() error {
	if o.done {
		return nil
	}
	o.done = true
	if err := o.Flush(); err != nil {
		o.discard()
		return err
	}
	if o.tmp == nil {
		return nil
	}
	if err := o.tmp.Close(); err != nil {
		_ = os.Remove(o.tmp.Name())
		return err
	}
	if err := os.Rename(o.tmp.Name(), o.path); err != nil {
		_ = os.Remove(o.tmp.Name())
		return err
	}
	return nil
}

// Abort drops everything written so far. It is a no-op after Commit, so it
// can be deferred unconditionally.
func (o *Output) Abort() {
	if o.done {
		return
	}
	o.done = true
	o.discard()
}

func (o *Output) discard() {
	if o.tmp != nil {
		_ = o.tmp.Close()
		_ = os.Remove(o.tmp.Name())
	}
}
