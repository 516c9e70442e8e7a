package cliutil

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

// BoolFlags returns names of flags that don't require a value.
func BoolFlags(fs *flag.FlagSet) map[string]bool {
	m := map[string]bool{}
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			m[f.Name] = true
		}
	})
	return m
}

// SplitFlagsAndPositionals separates flag-like args from positionals so flags
// may follow the input directory. '--' ends flag parsing; '-' is positional.
// Use before fs.Parse(flagArgs).
func SplitFlagsAndPositionals(fs *flag.FlagSet, argv []string) (flagArgs, posArgs []string) {
	boolFlags := BoolFlags(fs)
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--":
			return flagArgs, append(posArgs, argv[i+1:]...)
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			posArgs = append(posArgs, arg)
		case strings.Contains(arg, "="):
			flagArgs = append(flagArgs, arg)
		default:
			flagArgs = append(flagArgs, arg)
			if !boolFlags[strings.TrimLeft(arg, "-")] && i+1 < len(argv) {
				flagArgs = append(flagArgs, argv[i+1])
				i++
			}
		}
	}
	return flagArgs, posArgs
}

// InputDir picks the alignment directory from --dir or a single positional
// argument and checks that it is a directory.
func InputDir(flagDir string, posArgs []string) (string, error) {
	dir := flagDir
	switch {
	case len(posArgs) > 1:
		return "", fmt.Errorf("expected one input directory, got %d: %s", len(posArgs), strings.Join(posArgs, " "))
	case len(posArgs) == 1 && dir != "" && dir != posArgs[0]:
		return "", fmt.Errorf("--dir %q conflicts with positional %q", dir, posArgs[0])
	case len(posArgs) == 1:
		dir = posArgs[0]
	}
	if dir == "" {
		return "", errors.New("an input directory is required (positional DIR or --dir)")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !st.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}
