package vcf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/shenwei356/xopen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVCF = `##fileformat=VCFv4.2
##contig=<ID=12>
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
12	25245351	rs121913529	C	A	50	PASS	DP=100
12	25245351	.	C	A	30	PASS	DP=12
chr7	140753336	.	A	T	.	PASS	.

7	140753336	.	A	T	.	PASS	.
`

func readVariants(t *testing.T, p VariantParser) []*Variant {
	t.Helper()
	var vs []*Variant
	for {
		v, err := p.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		vs = append(vs, v)
	}
	return vs
}

func TestParser_FromReader(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)

	assert.Len(t, p.Header(), 3)
	assert.Equal(t, "##fileformat=VCFv4.2", p.Header()[0])

	vs := readVariants(t, p)
	require.Len(t, vs, 4)

	v := vs[0]
	assert.Equal(t, "12", v.Chrom)
	assert.Equal(t, int64(25245351), v.Pos)
	assert.Equal(t, "rs121913529", v.ID)
	assert.Equal(t, "C", v.Ref)
	assert.Equal(t, "A", v.Alt)
	assert.Equal(t, 4, v.Line)
	assert.Equal(t, "12\t25245351\trs121913529\tC\tA\t50\tPASS\tDP=100", v.Raw)

	// The blank line is skipped but still counted.
	assert.Equal(t, 8, vs[3].Line)
}

func TestParser_EmptyInput(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, p.Header())

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParser_MissingHeader(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("1\t100\t.\tA\tT\t.\t.\t.\n"))
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
	assert.Contains(t, pe.Error(), "expected #CHROM header line")
}

func TestParser_MalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		msg  string
	}{
		{"too few columns", "1\t100\t.\tA\tT", "expected at least 8 columns"},
		{"bad position", "1\tabc\t.\tA\tT\t.\t.\t.", "invalid position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" + tt.line + "\n"
			p, err := NewParserFromReader(strings.NewReader(input))
			require.NoError(t, err)

			_, err = p.Next()
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 2, pe.Line)
			assert.Contains(t, pe.Message, tt.msg)
		})
	}
}

func TestParser_GzipFile(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "sample.vcf.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, readVariants(t, p), 4)
}

func TestParser_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleVCF), 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, readVariants(t, p), 4)
	assert.Equal(t, 8, p.LineNumber())
}

func TestWriter_Verbatim(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)

	var out bytes.Buffer
	w := NewWriter(&out)
	require.NoError(t, w.WriteHeader(p.Header()))
	for _, v := range readVariants(t, p) {
		require.NoError(t, w.Write(v))
	}
	require.NoError(t, w.Flush())

	want := strings.Replace(sampleVCF, "\n\n", "\n", 1)
	assert.Equal(t, want, out.String())
}

func TestKeyFunc(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)
	vs := readVariants(t, p)

	site, err := KeyFunc(KeySite)
	require.NoError(t, err)
	assert.Equal(t, "12\t25245351\tC\tA", string(site(vs[0])))
	assert.Equal(t, string(site(vs[0])), string(site(vs[1])))
	assert.NotEqual(t, string(site(vs[2])), string(site(vs[3])))

	norm, err := KeyFunc(KeySiteNorm)
	require.NoError(t, err)
	assert.Equal(t, "7\t140753336\tA\tT", string(norm(vs[2])))
	assert.Equal(t, string(norm(vs[2])), string(norm(vs[3])))

	line, err := KeyFunc(KeyLine)
	require.NoError(t, err)
	assert.NotEqual(t, string(line(vs[0])), string(line(vs[1])))

	_, err = KeyFunc("info")
	assert.Error(t, err)
}

func TestParser_XZFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.vcf.xz")
	w, err := xopen.Wopen(path)
	require.NoError(t, err)
	_, err = w.WriteString(sampleVCF)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, p.Header(), 3)
	assert.Len(t, readVariants(t, p), 4)
}

func TestParser_GzipReader(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	p, err := NewParserFromReader(&buf)
	require.NoError(t, err)
	defer p.Close()

	assert.Len(t, readVariants(t, p), 4)
}

func TestParser_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
