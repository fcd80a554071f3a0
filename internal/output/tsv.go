// Package output provides record and report formatters.
package output

import (
	"bufio"
	"bytes"
	"io"

	"github.com/shenwei356/bio/seqio/fastx"
)

var (
	tab   = []byte{'\t'}
	space = []byte{' '}
)

// TSVWriter writes one tab-separated line per record, joining wrapped
// sequence lines. Tabs in descriptions are replaced with spaces so they are
// not mistaken for separators.
type TSVWriter struct {
	w     *bufio.Writer
	count int
}

// NewTSVWriter creates a new TSV writer.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w)}
}

// Write writes a single record. FASTA records become ">desc\tseq" and
// FASTQ records "@desc\tseq\t+\tqual".
func (tw *TSVWriter) Write(rec *fastx.Record, fastq bool) error {
	marker := byte('>')
	if fastq {
		marker = '@'
	}
	tw.w.WriteByte(marker)
	tw.w.Write(bytes.ReplaceAll(rec.Name, tab, space))
	tw.w.WriteByte('\t')
	tw.w.Write(rec.Seq.Seq)
	if fastq {
		tw.w.WriteString("\t+\t")
		tw.w.Write(rec.Seq.Qual)
	}
	err := tw.w.WriteByte('\n')
	if err == nil {
		tw.count++
	}
	return err
}

// Count returns the number of records written.
func (tw *TSVWriter) Count() int {
	return tw.count
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TSVWriter) Flush() error {
	return tw.w.Flush()
}
