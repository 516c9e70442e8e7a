// Package order locates single-chain query sequences inside the query of a
// complex alignment.
package order

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports a query that does not occur in the reference.
type NotFoundError struct {
	Index int
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("order: query %d (%d residues) not found in reference", e.Index, len(e.Query))
}

// Offsets returns the position of the first occurrence of each query in ref.
func Offsets(ref string, queries ...string) ([]int, error) {
	offs := make([]int, len(queries))
	for i, q := range queries {
		off := strings.Index(ref, q)
		if off < 0 {
			return nil, &NotFoundError{Index: i, Query: q}
		}
		offs[i] = off
	}
	return offs, nil
}

// Sequences returns the permutation that sorts queries by their offset in
// ref. Queries at equal offsets keep their argument order.
func Sequences(ref string, queries ...string) ([]int, error) {
	offs, err := Offsets(ref, queries...)
	if err != nil {
		return nil, err
	}
	idx := make([]int, len(queries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return offs[idx[a]] < offs[idx[b]] })
	return idx, nil
}
