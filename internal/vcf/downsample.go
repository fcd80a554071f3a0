package vcf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

// Downsample copies at most n variants of p to w, chosen uniformly at
// random and kept in input order. Variants are spooled to a temporary file
// so the input is read only once, which lets it come from a pipe.
// It returns the number of variants written and the number read.
func Downsample(p VariantParser, w *Writer, n int, rng *rand.Rand) (kept, total int, err error) {
	tmp, err := os.CreateTemp("", "fastx-tools-downsample-*.vcf")
	if err != nil {
		return 0, 0, fmt.Errorf("create spool file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	spool := bufio.NewWriter(tmp)
	for {
		v, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, total, err
		}
		spool.WriteString(v.Raw)
		if err := spool.WriteByte('\n'); err != nil {
			return 0, total, fmt.Errorf("write spool file: %w", err)
		}
		total++
	}
	if err := spool.Flush(); err != nil {
		return 0, total, fmt.Errorf("write spool file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return 0, total, fmt.Errorf("rewind spool file: %w", err)
	}

	// Selection sampling: each remaining site is taken with probability
	// wanted/left, which yields exactly min(n, total) sites.
	r := bufio.NewReader(tmp)
	wanted := n
	for left := total; left > 0 && wanted > 0; left-- {
		line, err := r.ReadString('\n')
		if err != nil {
			return kept, total, fmt.Errorf("read spool file: %w", err)
		}
		if rng.IntN(left) >= wanted {
			continue
		}
		if err := w.Write(&Variant{Raw: strings.TrimSuffix(line, "\n")}); err != nil {
			return kept, total, fmt.Errorf("write variant: %w", err)
		}
		kept++
		wanted--
	}
	return kept, total, nil
}
