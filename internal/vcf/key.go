package vcf

import (
	"fmt"

	"github.com/inodb/fastx-tools/internal/dedup"
)

// Variant parts that can serve as the dedup payload.
const (
	KeySite     = "site"
	KeySiteNorm = "site-nochr"
	KeyLine     = "line"
)

// KeyFunc returns the payload extractor for name. An empty name selects the
// site.
func KeyFunc(name string) (dedup.KeyFunc[*Variant], error) {
	switch name {
	case "", KeySite:
		return func(v *Variant) []byte { return []byte(v.Site()) }, nil
	case KeySiteNorm:
		return func(v *Variant) []byte {
			return []byte(v.NormalizeChrom() + v.Site()[len(v.Chrom):])
		}, nil
	case KeyLine:
		return func(v *Variant) []byte { return []byte(v.Raw) }, nil
	default:
		return nil, fmt.Errorf("unknown VCF key %q (supported: %s, %s, %s)", name, KeySite, KeySiteNorm, KeyLine)
	}
}
