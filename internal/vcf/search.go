package vcf

import (
	"errors"
	"fmt"
	"io"
)

// Search copies every variant of p located at chrom:pos to w, in input
// order. It returns the number of variants written.
func Search(p VariantParser, w *Writer, chrom string, pos int64) (int, error) {
	matched := 0
	for {
		v, err := p.Next()
		if errors.Is(err, io.EOF) {
			return matched, nil
		}
		if err != nil {
			return matched, err
		}
		if v.Pos != pos || v.Chrom != chrom {
			continue
		}
		if err := w.Write(v); err != nil {
			return matched, fmt.Errorf("write variant at line %d: %w", v.Line, err)
		}
		matched++
	}
}
