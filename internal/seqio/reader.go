// Package seqio adapts FASTA/FASTQ reading and writing to record streams.
package seqio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// Reader streams FASTA or FASTQ records from a file or stdin.
// Compressed inputs (gzip, xz, zstd, bzip2) are decompressed transparently.
type Reader struct {
	r     *fastx.Reader
	path  string
	clone bool
	count int
}

// Open opens path for reading. Use "-" for stdin. Named pipes and devices
// are streamed like stdin. An empty input yields a reader that returns
// io.EOF immediately.
func Open(path string) (*Reader, error) {
	if path != "-" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("open sequence file: %w", err)
		}
		// Only regular files report a meaningful size; a FIFO is always 0.
		if info.Mode().IsRegular() && info.Size() == 0 {
			return &Reader{path: path}, nil
		}
	}

	r, err := fastx.NewReader(seq.Unlimit, path, fastx.DefaultIDRegexp)
	if err != nil {
		if errors.Is(err, xopen.ErrNoContent) {
			return &Reader{path: path}, nil
		}
		return nil, fmt.Errorf("open sequence file %s: %w", path, err)
	}
	return &Reader{r: r, path: path}, nil
}

// SetClone makes Next return independent copies of each record. The
// underlying parser reuses its record between calls, so callers that keep
// records beyond the next call (such as parallel hashing) need this.
func (r *Reader) SetClone(clone bool) {
	r.clone = clone
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (*fastx.Record, error) {
	if r.r == nil {
		return nil, io.EOF
	}
	rec, err := r.r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &ReadError{Path: r.path, Record: r.count + 1, Err: err}
	}
	r.count++
	if r.clone {
		return rec.Clone(), nil
	}
	return rec, nil
}

// IsFastq reports whether the input is FASTQ. Only meaningful after the
// first successful call to Next.
func (r *Reader) IsFastq() bool {
	return r.r != nil && r.r.IsFastq
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Count returns the number of records read so far.
func (r *Reader) Count() int {
	return r.count
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.r == nil {
		return nil
	}
	r.r.Close()
	return nil
}

// ReadError is a parse failure with file and record context.
type ReadError struct {
	Path   string
	Record int
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: record %d: %v", e.Path, e.Record, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
