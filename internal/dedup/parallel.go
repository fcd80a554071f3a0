package dedup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"
)

// workItem holds a record waiting to be hashed.
type workItem[R any] struct {
	Seq int
	Rec R
}

// workResult holds a hashed record.
type workResult[R any] struct {
	Seq      int
	Rec      R
	FP       uint64
	HashTime time.Duration
}

// ProcessParallel is Process with fingerprints computed by a pool of
// workers. Index lookups, inserts and writes still happen one record at a
// time in input order, so output and Stats are identical to Process.
//
// Records returned by src must remain valid after the following call to
// Next, since several are in flight at once.
// If workers is 0, runtime.GOMAXPROCS(0) is used.
func ProcessParallel[R any](ctx context.Context, f *Filter, src Source[R], sink Sink[R], key KeyFunc[R], workers int) (Stats, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if err := f.start(); err != nil {
		return f.stats, err
	}

	items := make(chan workItem[R], 2*workers)
	done := make(chan struct{})
	var readErr error

	go func() {
		defer close(items)
		for seq := 0; ; seq++ {
			if err := ctx.Err(); err != nil {
				readErr = err
				return
			}
			rec, err := src.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				readErr = fmt.Errorf("%w after %d records: %w", ErrMalformedInput, seq, err)
				return
			}
			select {
			case items <- workItem[R]{Seq: seq, Rec: rec}:
			case <-done:
				return
			}
		}
	}()

	results := hashAll(items, f.hasher, key, workers, f.profile)

	err := orderedCollect(results, done, func(r workResult[R]) error {
		f.stats.HashTime += r.HashTime
		first, err := f.classify(r.FP)
		if err != nil {
			return err
		}
		if !first {
			f.dropped()
			return nil
		}
		if err := sink.Write(r.Rec); err != nil {
			return fmt.Errorf("write record %d: %w", f.stats.Read+1, err)
		}
		f.kept()
		return nil
	})
	if err != nil {
		f.fail(err)
		return f.stats, err
	}

	if readErr != nil {
		f.fail(readErr)
		return f.stats, readErr
	}

	f.finish()
	return f.stats, nil
}

// hashAll fingerprints work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
func hashAll[R any](items <-chan workItem[R], h Hasher, key KeyFunc[R], workers int, timed bool) <-chan workResult[R] {
	results := make(chan workResult[R], 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := workResult[R]{Seq: item.Seq, Rec: item.Rec}
				if timed {
					start := time.Now()
					r.FP = h.Sum64(key(item.Rec))
					r.HashTime = time.Since(start)
				} else {
					r.FP = h.Sum64(key(item.Rec))
				}
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// orderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed. On error, done is closed so
// the producer stops, and the remaining results are drained.
func orderedCollect[R any](results <-chan workResult[R], done chan struct{}, fn func(workResult[R]) error) error {
	pending := make(map[int]workResult[R])
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				close(done)
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
