package vcf

import "strconv"

// Variant represents a single data line from a VCF file.
type Variant struct {
	Chrom string // Chromosome name (e.g., "12", "chr12")
	Pos   int64  // 1-based genomic position
	ID    string // Variant identifier (e.g., rs ID)
	Ref   string // Reference allele
	Alt   string // Alternate allele(s), comma separated
	Line  int    // Line number in the input
	Raw   string // The data line as read, without the line terminator
}

// Site returns "CHROM\tPOS\tREF\tALT", the identity of the site.
func (v *Variant) Site() string {
	return v.Chrom + "\t" + strconv.FormatInt(v.Pos, 10) + "\t" + v.Ref + "\t" + v.Alt
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}
