package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/shenwei356/bio/seqio/fastx"
)

// LengthWriter writes "name\tlength" lines, the chromosome length table
// expected by tools such as kallisto.
type LengthWriter struct {
	w *bufio.Writer
}

// NewLengthWriter creates a new length table writer.
func NewLengthWriter(w io.Writer) *LengthWriter {
	return &LengthWriter{w: bufio.NewWriter(w)}
}

// Write writes the first header token and the sequence length of rec.
func (lw *LengthWriter) Write(rec *fastx.Record) error {
	lw.w.Write(rec.ID)
	lw.w.WriteByte('\t')
	lw.w.WriteString(strconv.Itoa(len(rec.Seq.Seq)))
	return lw.w.WriteByte('\n')
}

// Flush flushes any buffered data to the underlying writer.
func (lw *LengthWriter) Flush() error {
	return lw.w.Flush()
}
