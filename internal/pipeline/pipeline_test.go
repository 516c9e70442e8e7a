package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"msapair-core/a3m"
	"msapair-core/kalign"
	"msapair-core/order"
	"msapair-core/pair"
	"msapair-core/sample"
)

const (
	query1 = "MKVLATGHIK"
	query2 = "PQRSTVWYAC"
)

// writeA3M writes a query row plus hits derived from it.
func writeA3M(t *testing.T, dir, name, prefix, query string, hits int) {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "#%d\t1\n>%s_query\n%s\n", len(query), prefix, query)
	for i := 1; i <= hits; i++ {
		// knock out i leading residues so every hit is distinguishable
		seq := strings.Repeat("-", i) + query[i:]
		fmt.Fprintf(&b, ">%s_hit%d\t%d\t0.%d\n%s\n", prefix, i, 100-i, 9-i, seq)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}

func fixture(t *testing.T, complexQuery string) string {
	t.Helper()
	dir := t.TempDir()
	writeA3M(t, dir, DefaultQuery1, "A", query1, 5)
	writeA3M(t, dir, DefaultQuery2, "B", query2, 5)
	writeA3M(t, dir, DefaultComplex, "AB", complexQuery, 5)
	return dir
}

func baseConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.MaxUnpaired = 4
	cfg.Realign = 0
	return cfg
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunTopEndToEnd(t *testing.T) {
	dir := fixture(t, query1+query2)
	var log bytes.Buffer
	cfg := baseConfig(dir)
	cfg.Log = &log

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Combined.Len() != 5 {
		t.Fatalf("combined rows = %d, want 5", res.Combined.Len())
	}
	if q := res.Combined.Query(); q.Seq != query1+query2 || q.Header != "AB_query" {
		t.Fatalf("row 0 = %+v", q)
	}
	for _, r := range res.Combined.Hits() {
		if len(r.Seq) != len(query1)+len(query2) {
			t.Fatalf("paired row %s has length %d", r.Header, len(r.Seq))
		}
		parts := strings.SplitN(r.Header, "_", 4)
		if len(parts) != 4 || parts[0] != "A" || parts[2] != "B" {
			t.Fatalf("unexpected paired header %q", r.Header)
		}
	}
	if !reflect.DeepEqual(res.Order, []int{0, 1}) {
		t.Fatalf("order = %v", res.Order)
	}

	if res.Output != filepath.Join(dir, DefaultOutput) {
		t.Fatalf("output path = %s", res.Output)
	}
	back, err := a3m.ReadFile(res.Output)
	if err != nil {
		t.Fatalf("re-read output: %v", err)
	}
	if !reflect.DeepEqual(back.Rows, res.Combined.Rows) {
		t.Fatalf("written MSA differs from result")
	}
	if !strings.Contains(log.String(), "INFO: combined MSA: 5 rows (4 paired, mode top)") {
		t.Fatalf("log missing summary:\n%s", log.String())
	}
}

func TestRunSameSeedPairsByRank(t *testing.T) {
	dir := fixture(t, query1+query2)
	res, err := Run(context.Background(), baseConfig(dir))
	if err != nil {
		t.Fatal(err)
	}
	// equal sample sizes and one seed for both shuffles: rank i meets rank i
	for _, r := range res.Combined.Hits() {
		parts := strings.Split(r.Header, "_")
		if parts[1] != parts[3] {
			t.Fatalf("rows paired across ranks: %q", r.Header)
		}
	}
}

func TestRunReversedComplexLogsOrder(t *testing.T) {
	dir := fixture(t, query2+query1)
	var log bytes.Buffer
	cfg := baseConfig(dir)
	cfg.Log = &log

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Order, []int{1, 0}) {
		t.Fatalf("order = %v", res.Order)
	}
	if !strings.Contains(log.String(), "sequence order: [1 0]") {
		t.Fatalf("order not logged:\n%s", log.String())
	}
	// pairing is not reordered
	if !strings.HasPrefix(res.Combined.Rows[1].Header, "A_") {
		t.Fatalf("chain 1 no longer first: %q", res.Combined.Rows[1].Header)
	}
}

func TestRunWeightedReproducible(t *testing.T) {
	dir := fixture(t, query1+query2)
	cfg := baseConfig(dir)
	cfg.Mode = sample.Weighted
	cfg.Seed = 5
	cfg.Output = "-"

	run := func() string {
		var out bytes.Buffer
		c := cfg
		c.Stdout = &out
		if _, err := Run(context.Background(), c); err != nil {
			t.Fatal(err)
		}
		return out.String()
	}
	a, b := run(), run()
	if a != b {
		t.Fatalf("weighted runs differ:\n%s\n%s", a, b)
	}
	if strings.Count(a, ">") != 5 {
		t.Fatalf("unexpected output:\n%s", a)
	}
	if got := listDir(t, dir); len(got) != 3 {
		t.Fatalf("stdout run wrote files: %v", got)
	}
}

func TestRunMaxPaired(t *testing.T) {
	dir := fixture(t, query1+query2)
	cfg := baseConfig(dir)
	cfg.MaxPaired = 2
	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.Combined.Len() != 3 {
		t.Fatalf("rows = %d, want 3", res.Combined.Len())
	}
}

func TestRunRealign(t *testing.T) {
	dir := fixture(t, query1+query2)
	var got []string
	cfg := baseConfig(dir)
	cfg.Realign = 3
	cfg.Aligner = kalign.Func(func(_ context.Context, seqs []string) (string, error) {
		got = append([]string(nil), seqs...)
		var b strings.Builder
		for i, s := range seqs {
			fmt.Fprintf(&b, ">sequence %d\n%s\n", i+1, s)
		}
		return b.String(), nil
	})

	res, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != query1+query2 {
		t.Fatalf("aligner input = %v", got)
	}
	if res.RealignOutput != filepath.Join(dir, DefaultRealignOutput) {
		t.Fatalf("realign output = %s", res.RealignOutput)
	}
	text, err := os.ReadFile(res.RealignOutput)
	if err != nil || string(text) != res.Realigned {
		t.Fatalf("realigned file %q, %v", text, err)
	}
}

func TestRunFailuresLeaveNoOutput(t *testing.T) {
	cases := []struct {
		name    string
		complex string
		mutate  func(*Config)
		check   func(error) bool
	}{
		{
			name:    "length mismatch",
			complex: query1 + query2 + "G",
			check: func(err error) bool {
				var lm *pair.LengthMismatchError
				return errors.As(err, &lm) && lm.Expected == 21 && lm.Got == 20
			},
		},
		{
			name:    "query not in complex",
			complex: query1 + "WWWWWWWWWW",
			check: func(err error) bool {
				var nf *order.NotFoundError
				return errors.As(err, &nf) && nf.Index == 1
			},
		},
		{
			name:    "aligner failure",
			complex: query1 + query2,
			mutate: func(c *Config) {
				c.Realign = 3
				c.Aligner = kalign.Func(func(context.Context, []string) (string, error) {
					return "", &kalign.ExecutionError{Cmd: "kalign", Err: errors.New("exit status 1")}
				})
			},
			check: func(err error) bool {
				var ee *kalign.ExecutionError
				return errors.As(err, &ee) && strings.HasPrefix(err.Error(), "realign: ")
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := fixture(t, tc.complex)
			cfg := baseConfig(dir)
			if tc.mutate != nil {
				tc.mutate(&cfg)
			}
			_, err := Run(context.Background(), cfg)
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := listDir(t, dir); len(got) != 3 {
				t.Fatalf("files after failure: %v", got)
			}
		})
	}
}

func TestRunParseError(t *testing.T) {
	dir := fixture(t, query1+query2)
	bad := filepath.Join(dir, DefaultQuery2)
	if err := os.WriteFile(bad, []byte(">B_query\n>B_hit1\nPQRSTVWYAC\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Run(context.Background(), baseConfig(dir))
	var pe *a3m.ParseError
	if !errors.As(err, &pe) || pe.Path != bad {
		t.Fatalf("want *a3m.ParseError for %s, got %v", bad, err)
	}
}

func TestRunValidatesConfig(t *testing.T) {
	dir := fixture(t, query1+query2)
	cases := map[string]func(*Config){
		"realign without aligner": func(c *Config) { c.Realign = 2 },
		"negative unpaired":       func(c *Config) { c.MaxUnpaired = -1 },
		"negative paired":         func(c *Config) { c.MaxPaired = -1 },
		"stdout without writer":   func(c *Config) { c.Output = "-" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig(dir)
			mutate(&cfg)
			if _, err := Run(context.Background(), cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
