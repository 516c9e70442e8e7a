// Package pair joins rows sampled from two single-chain alignments into rows
// of a synthetic complex alignment.
//
// Rows are paired by position after independent shuffles. No attempt is made
// to match rows by source organism.
package pair

import (
	"fmt"
	"math/rand"

	"msapair-core/a3m"
)

// Shuffle returns shuffled copies of a and b. Each copy is permuted by its
// own generator; passing the same seed for both couples the two permutations,
// so equal-length inputs end up paired rank to rank.
func Shuffle(a, b []a3m.Row, seedA, seedB int64) ([]a3m.Row, []a3m.Row) {
	return shuffled(a, seedA), shuffled(b, seedB)
}

func shuffled(rows []a3m.Row, seed int64) []a3m.Row {
	out := append([]a3m.Row(nil), rows...)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// LengthMismatchError reports a paired row whose column count differs from
// the complex query. It indicates inconsistent inputs and is not recoverable.
type LengthMismatchError struct {
	Index    int
	Header   string
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("pair: row %d (%s) has %d columns, expected %d", e.Index, e.Header, e.Got, e.Expected)
}

// Assemble concatenates seqs1[i] and seqs2[i] for every index both slices
// share; rows beyond the shorter slice are dropped. The header joins the two
// primary identifiers with '_'. Each joined row must span expected columns.
func Assemble(seqs1, seqs2 []a3m.Row, expected int) ([]a3m.Row, error) {
	n := min(len(seqs1), len(seqs2))
	out := make([]a3m.Row, 0, n)
	for i := 0; i < n; i++ {
		r1, r2 := seqs1[i], seqs2[i]
		row := a3m.Row{
			Header: r1.ID() + "_" + r2.ID(),
			Seq:    r1.Seq + r2.Seq,
		}
		if got := r1.Columns() + r2.Columns(); got != expected {
			return nil, &LengthMismatchError{Index: i, Header: row.Header, Expected: expected, Got: got}
		}
		out = append(out, row)
	}
	return out, nil
}
