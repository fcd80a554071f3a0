package seqio

import (
	"fmt"

	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// Writer serializes records unwrapped, one sequence line per record.
// Output is compressed when the path ends in a known compression suffix.
type Writer struct {
	w     *xopen.Writer
	count int
}

// Create opens path for writing. Use "-" for stdout.
func Create(path string) (*Writer, error) {
	w, err := xopen.Wopen(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return &Writer{w: w}, nil
}

// Write serializes one record. The record is formatted in full before it is
// handed to the buffered writer, so an interrupted run never leaves a partial
// record in the buffer.
func (w *Writer) Write(rec *fastx.Record) error {
	if _, err := w.w.Write(rec.Format(0)); err != nil {
		return fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the output.
func (w *Writer) Close() error {
	return w.w.Close()
}
