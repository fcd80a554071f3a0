package output

import (
	"fmt"
	"io"

	"github.com/inodb/fastx-tools/internal/orf"
)

// WriteFrame reports the first open reading frame of the record named id.
func WriteFrame(w io.Writer, id string, f orf.Frame) error {
	if !f.HasStart {
		_, err := fmt.Fprintf(w, "%s\tNo start codon found.\n", id)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\tStart codon AUG at %d (+%d)\n", id, f.Start, f.StartOffset); err != nil {
		return err
	}
	if !f.HasStop {
		_, err := fmt.Fprintf(w, "%s\tNo stop codon found.\n", id)
		return err
	}
	_, err := fmt.Fprintf(w, "%s\tStop codon %s at %d (+%d)\n", id, f.StopCodon, f.Stop, f.StopOffset)
	return err
}
