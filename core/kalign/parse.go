package kalign

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"msapair-core/a3m"
)

// ParseAligned reads kalign output, which may wrap sequences over several
// lines, into alignment rows.
func ParseAligned(text string) ([]a3m.Row, error) {
	r := fasta.NewReader(strings.NewReader(text), linear.NewSeq("", nil, alphabet.Protein))
	var rows []a3m.Row
	for {
		s, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("kalign: parse output: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("kalign: parse output: unexpected sequence type %T", s)
		}
		header := ls.Name()
		if d := ls.Description(); d != "" {
			header += " " + d
		}
		res := make([]byte, len(ls.Seq))
		for i, l := range ls.Seq {
			res[i] = byte(l)
		}
		rows = append(rows, a3m.Row{Header: header, Seq: string(res)})
	}
	return rows, nil
}
