package vcf

import (
	"bufio"
	"io"
)

// Writer writes VCF header lines and variant lines verbatim.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new VCF writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the given header lines.
func (vw *Writer) WriteHeader(lines []string) error {
	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes a single variant line exactly as it was read.
func (vw *Writer) Write(v *Variant) error {
	_, err := vw.w.WriteString(v.Raw + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (vw *Writer) Flush() error {
	return vw.w.Flush()
}
