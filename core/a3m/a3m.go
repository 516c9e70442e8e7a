package a3m

import "strings"

// Row is one entry of an alignment: the header text following the '>' marker
// and the aligned sequence exactly as read.
type Row struct {
	Header string
	Seq    string
}

// ID returns the primary identifier of the row: the header text before the
// first tab, without a leading '>'.
func (r Row) ID() string {
	h := strings.TrimPrefix(r.Header, ">")
	if i := strings.IndexByte(h, '\t'); i >= 0 {
		h = h[:i]
	}
	return h
}

// Columns counts the match-state symbols of the row. Lowercase letters are
// insertions relative to the query and do not occupy an alignment column.
func (r Row) Columns() int {
	n := 0
	for i := 0; i < len(r.Seq); i++ {
		if c := r.Seq[i]; c < 'a' || c > 'z' {
			n++
		}
	}
	return n
}

// Alignment is an ordered set of rows parsed from one source. Rows[0] is the
// query; the remaining rows are hits in the order the search tool ranked them.
type Alignment struct {
	// Comment is the text of an optional leading '#' line (without the '#'),
	// as written by ColabFold to record query lengths and cardinalities.
	Comment string
	Rows    []Row
}

// Len returns the number of rows, query included.
func (a *Alignment) Len() int { return len(a.Rows) }

// Query returns the first row. It panics on an empty alignment; Read never
// returns one.
func (a *Alignment) Query() Row { return a.Rows[0] }

// Hits returns the rows following the query.
func (a *Alignment) Hits() []Row {
	if len(a.Rows) == 0 {
		return nil
	}
	return a.Rows[1:]
}
