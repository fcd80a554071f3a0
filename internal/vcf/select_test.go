package vcf

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vcfHeader = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func manySites(n int) string {
	var sb strings.Builder
	sb.WriteString(vcfHeader)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "1\t%d\tv%d\tA\tG\t.\tPASS\t.\n", i*10, i)
	}
	return sb.String()
}

func dataLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		if l != "" && !strings.HasPrefix(l, "#") {
			lines = append(lines, l)
		}
	}
	return lines
}

func TestSearch(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)

	var out bytes.Buffer
	w := NewWriter(&out)
	n, err := Search(p, w, "12", 25245351)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{
		"12\t25245351\trs121913529\tC\tA\t50\tPASS\tDP=100",
		"12\t25245351\t.\tC\tA\t30\tPASS\tDP=12",
	}, dataLines(out.String()))
}

func TestSearch_ExactChromosome(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)

	var out bytes.Buffer
	w := NewWriter(&out)
	n, err := Search(p, w, "7", 140753336)
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	// "chr7" is a different contig name.
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"7\t140753336\t.\tA\tT\t.\tPASS\t."}, dataLines(out.String()))
}

func TestSearch_ParseError(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(vcfHeader + "1\tx\t.\tA\tG\t.\t.\t.\n"))
	require.NoError(t, err)

	_, err = Search(p, NewWriter(&bytes.Buffer{}), "1", 10)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestDownsample(t *testing.T) {
	input := manySites(100)
	all := dataLines(input)

	for _, n := range []int{0, 1, 10, 99} {
		t.Run(fmt.Sprintf("n_%d", n), func(t *testing.T) {
			p, err := NewParserFromReader(strings.NewReader(input))
			require.NoError(t, err)

			var out bytes.Buffer
			w := NewWriter(&out)
			kept, total, err := Downsample(p, w, n, rand.New(rand.NewPCG(1, 2)))
			require.NoError(t, err)
			require.NoError(t, w.Flush())

			assert.Equal(t, 100, total)
			assert.Equal(t, n, kept)

			// Selected lines keep their input order.
			got := dataLines(out.String())
			require.Len(t, got, n)
			next := 0
			for _, line := range got {
				for next < len(all) && all[next] != line {
					next++
				}
				require.Less(t, next, len(all), "line %q out of order or unknown", line)
				next++
			}
		})
	}
}

func TestDownsample_MoreThanAvailable(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(manySites(5)))
	require.NoError(t, err)

	var out bytes.Buffer
	w := NewWriter(&out)
	kept, total, err := Downsample(p, w, 50, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, 5, kept)
	assert.Equal(t, 5, total)
	assert.Equal(t, dataLines(manySites(5)), dataLines(out.String()))
}

func TestDownsample_Seeded(t *testing.T) {
	sample := func() string {
		p, err := NewParserFromReader(strings.NewReader(manySites(50)))
		require.NoError(t, err)
		var out bytes.Buffer
		w := NewWriter(&out)
		_, _, err = Downsample(p, w, 7, rand.New(rand.NewPCG(42, 42)))
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		return out.String()
	}
	assert.Equal(t, sample(), sample())
}
