package a3m

import (
	"bufio"
	"io"
)

// Write serializes aln in the same alternating form Read accepts.
func Write(w io.Writer, aln *Alignment) error {
	bw := bufio.NewWriter(w)
	if aln.Comment != "" {
		if _, err := bw.WriteString("#" + aln.Comment + "\n"); err != nil {
			return err
		}
	}
	for _, r := range aln.Rows {
		if _, err := bw.WriteString(">" + r.Header + "\n" + r.Seq + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
