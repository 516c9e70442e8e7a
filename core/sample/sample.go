// Package sample draws bounded subsets of alignment rows.
package sample

import (
	"fmt"
	"math/rand"
	"strings"

	"msapair-core/a3m"
)

// Mode selects how rows are drawn.
type Mode int

const (
	// Top keeps the first rows in source ranking.
	Top Mode = iota
	// Weighted draws without replacement, favouring higher-ranked rows
	// (weight 1/(rank+1)).
	Weighted
)

func (m Mode) String() string {
	switch m {
	case Top:
		return "top"
	case Weighted:
		return "weighted"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "top" or "weighted" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return Top, nil
	case "weighted":
		return Weighted, nil
	}
	return Top, fmt.Errorf("invalid sampling mode %q (want top | weighted)", s)
}

// SizeError reports a weighted draw larger than the candidate set.
type SizeError struct {
	Want, Have int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("sample: cannot draw %d rows from %d without replacement", e.Want, e.Have)
}

// Rows returns at most n rows. Top ignores seed and never asks for more rows
// than exist; Weighted returns exactly n rows in draw order and fails with
// *SizeError when n exceeds len(rows). The input slice is not modified.
func Rows(rows []a3m.Row, n int, mode Mode, seed int64) ([]a3m.Row, error) {
	if n < 0 {
		return nil, fmt.Errorf("sample: negative size %d", n)
	}
	switch mode {
	case Top:
		if n > len(rows) {
			n = len(rows)
		}
		return append([]a3m.Row(nil), rows[:n]...), nil
	case Weighted:
		if n > len(rows) {
			return nil, &SizeError{Want: n, Have: len(rows)}
		}
		return weighted(rows, n, rand.New(rand.NewSource(seed))), nil
	}
	return nil, fmt.Errorf("sample: unknown mode %v", mode)
}

func weighted(rows []a3m.Row, n int, rng *rand.Rand) []a3m.Row {
	// ranks still in the pool, with their weights
	pool := make([]int, len(rows))
	w := make([]float64, len(rows))
	total := 0.0
	for i := range rows {
		pool[i] = i
		w[i] = 1 / float64(i+1)
		total += w[i]
	}

	out := make([]a3m.Row, 0, n)
	for len(out) < n {
		r := rng.Float64() * total
		k := len(pool) - 1 // float drift falls through to the last candidate
		for j, rank := range pool {
			if r < w[rank] {
				k = j
				break
			}
			r -= w[rank]
		}
		rank := pool[k]
		out = append(out, rows[rank])
		total -= w[rank]
		pool = append(pool[:k], pool[k+1:]...)
	}
	return out
}
