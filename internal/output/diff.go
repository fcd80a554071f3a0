package output

import (
	"bufio"
	"io"
)

// DiffWriter prints sequence pairs that differ, in the style of diff(1).
type DiffWriter struct {
	w           *bufio.Writer
	compared    int
	differences int
}

// NewDiffWriter creates a new diff writer.
func NewDiffWriter(w io.Writer) *DiffWriter {
	return &DiffWriter{w: bufio.NewWriter(w)}
}

// Compare writes "- a" and "+ b" lines when a and b differ.
func (dw *DiffWriter) Compare(a, b []byte) error {
	dw.compared++
	if string(a) == string(b) {
		return nil
	}
	dw.differences++
	dw.w.WriteString("- ")
	dw.w.Write(a)
	dw.w.WriteString("\n+ ")
	dw.w.Write(b)
	return dw.w.WriteByte('\n')
}

// Compared returns the number of pairs seen.
func (dw *DiffWriter) Compared() int {
	return dw.compared
}

// Differences returns the number of differing pairs.
func (dw *DiffWriter) Differences() int {
	return dw.differences
}

// Flush flushes any buffered data to the underlying writer.
func (dw *DiffWriter) Flush() error {
	return dw.w.Flush()
}
