package seqio

import (
	"fmt"

	"github.com/shenwei356/bio/seqio/fastx"

	"github.com/inodb/fastx-tools/internal/dedup"
)

// Record parts that can serve as the dedup payload.
const (
	KeySeq  = "seq"
	KeyName = "name"
	KeyID   = "id"
)

// KeyFunc returns the payload extractor for name. An empty name selects the
// sequence.
func KeyFunc(name string) (dedup.KeyFunc[*fastx.Record], error) {
	switch name {
	case "", KeySeq:
		return func(r *fastx.Record) []byte { return r.Seq.Seq }, nil
	case KeyName:
		return func(r *fastx.Record) []byte { return r.Name }, nil
	case KeyID:
		return func(r *fastx.Record) []byte { return r.ID }, nil
	default:
		return nil, fmt.Errorf("unknown FASTA/FASTQ key %q (supported: %s, %s, %s)", name, KeySeq, KeyName, KeyID)
	}
}
