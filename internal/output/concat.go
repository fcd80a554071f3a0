package output

import (
	"bufio"
	"io"
)

// ConcatWriter writes the sequences of all records as one continuous
// sequence terminated by a single newline.
type ConcatWriter struct {
	w     *bufio.Writer
	bases int
}

// NewConcatWriter creates a new concatenating writer.
func NewConcatWriter(w io.Writer) *ConcatWriter {
	return &ConcatWriter{w: bufio.NewWriter(w)}
}

// Write appends seq to the output.
func (cw *ConcatWriter) Write(seq []byte) error {
	n, err := cw.w.Write(seq)
	cw.bases += n
	return err
}

// Bases returns the number of bases written.
func (cw *ConcatWriter) Bases() int {
	return cw.bases
}

// Finish writes the terminating newline and flushes.
func (cw *ConcatWriter) Finish() error {
	if err := cw.w.WriteByte('\n'); err != nil {
		return err
	}
	return cw.w.Flush()
}
