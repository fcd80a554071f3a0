// Package vcf provides VCF file parsing functionality.
package vcf

// VariantParser is the interface for parsers that read variants.
type VariantParser interface {
	// Next reads the next variant.
	// Returns nil, io.EOF when there are no more variants.
	Next() (*Variant, error)

	// Header returns the header lines read so far, "#CHROM" line included.
	Header() []string

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

var _ VariantParser = (*Parser)(nil)
