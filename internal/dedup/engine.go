package dedup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// progressInterval is the number of records between debug progress messages.
const progressInterval = 1 << 22

// Source yields records in input order and returns io.EOF after the last one.
type Source[R any] interface {
	Next() (R, error)
}

// Sink serializes kept records.
type Sink[R any] interface {
	Write(rec R) error
}

// KeyFunc returns the payload of a record, the bytes compared for equality.
type KeyFunc[R any] func(rec R) []byte

// Process streams every record of src through f and writes first
// occurrences to sink, in input order.
//
// A source error aborts the run with ErrMalformedInput. Records already
// written stay written and the returned Stats cover them. Cancelling ctx
// stops the run before the next record is read and returns ctx.Err().
func Process[R any](ctx context.Context, f *Filter, src Source[R], sink Sink[R], key KeyFunc[R]) (Stats, error) {
	if err := f.start(); err != nil {
		return f.stats, err
	}

	for {
		if err := ctx.Err(); err != nil {
			f.fail(err)
			return f.stats, err
		}

		f.state = StateReading
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			f.finish()
			return f.stats, nil
		}
		if err != nil {
			err = fmt.Errorf("%w after %d records: %w", ErrMalformedInput, f.stats.Read, err)
			f.fail(err)
			return f.stats, err
		}

		first, err := f.classify(f.fingerprint(key(rec)))
		if err != nil {
			f.fail(err)
			return f.stats, err
		}
		if !first {
			f.dropped()
		} else {
			if err := sink.Write(rec); err != nil {
				err = fmt.Errorf("write record %d: %w", f.stats.Read+1, err)
				f.fail(err)
				return f.stats, err
			}
			f.kept()
		}

		if f.stats.Read%progressInterval == 0 {
			f.logger.Debug("dedup progress",
				zap.Uint64("read", f.stats.Read),
				zap.Uint64("removed", f.stats.Removed))
		}
	}
}
