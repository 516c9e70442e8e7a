package cliutil

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitFlagsAndPositionals(t *testing.T) {
	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	var b bool
	var n int
	fs.BoolVar(&b, "quiet", false, "")
	fs.IntVar(&n, "seed", 0, "")
	flagArgs, posArgs := SplitFlagsAndPositionals(fs, []string{"dir1", "--quiet", "--seed", "3", "--max=4", "--", "-odd"})
	if want := []string{"--quiet", "--seed", "3", "--max=4"}; !reflect.DeepEqual(flagArgs, want) {
		t.Fatalf("flags = %v", flagArgs)
	}
	if want := []string{"dir1", "-odd"}; !reflect.DeepEqual(posArgs, want) {
		t.Fatalf("positionals = %v", posArgs)
	}
}

func TestInputDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "0.a3m")
	_ = os.WriteFile(file, []byte(">a\nA\n"), 0o644)

	if got, err := InputDir("", []string{dir}); err != nil || got != dir {
		t.Fatalf("positional: %q %v", got, err)
	}
	if got, err := InputDir(dir, nil); err != nil || got != dir {
		t.Fatalf("flag: %q %v", got, err)
	}
	if got, err := InputDir(dir, []string{dir}); err != nil || got != dir {
		t.Fatalf("same dir twice: %q %v", got, err)
	}

	bad := map[string]struct {
		flag string
		pos  []string
	}{
		"missing":     {"", nil},
		"two":         {"", []string{dir, dir}},
		"conflict":    {dir, []string{filepath.Join(dir, "other")}},
		"not a dir":   {file, nil},
		"nonexistent": {filepath.Join(dir, "nope"), nil},
	}
	for name, tc := range bad {
		if _, err := InputDir(tc.flag, tc.pos); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
