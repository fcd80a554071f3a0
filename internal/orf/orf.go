// Package orf locates the first open reading frame of a nucleotide
// sequence. DNA and RNA are accepted in either case; T and U are equivalent.
package orf

// Frame describes the first start codon of a sequence and the first
// in-frame stop codon after it. Positions are 1-based. Offsets count the
// bases skipped before the codon: from the sequence start for the start
// codon, and from the end of the start codon for the stop codon.
type Frame struct {
	HasStart    bool
	Start       int
	StartOffset int

	HasStop    bool
	Stop       int
	StopOffset int
	StopCodon  string
}

// normalize maps a base to upper-case RNA.
func normalize(b byte) byte {
	switch b {
	case 'a', 'A':
		return 'A'
	case 'c', 'C':
		return 'C'
	case 'g', 'G':
		return 'G'
	case 't', 'T', 'u', 'U':
		return 'U'
	default:
		return b
	}
}

func codonAt(seq []byte, i int) string {
	return string([]byte{normalize(seq[i]), normalize(seq[i+1]), normalize(seq[i+2])})
}

func isStop(codon string) bool {
	return codon == "UAA" || codon == "UAG" || codon == "UGA"
}

// First finds the first AUG and the first in-frame stop codon following it.
func First(seq []byte) Frame {
	var f Frame
	start := -1
	for i := 0; i+3 <= len(seq); i++ {
		if codonAt(seq, i) == "AUG" {
			start = i
			break
		}
	}
	if start < 0 {
		return f
	}
	f.HasStart = true
	f.Start = start + 1
	f.StartOffset = start

	body := start + 3
	for i := body; i+3 <= len(seq); i += 3 {
		if c := codonAt(seq, i); isStop(c) {
			f.HasStop = true
			f.Stop = i + 1
			f.StopOffset = i - body
			f.StopCodon = c
			break
		}
	}
	return f
}
