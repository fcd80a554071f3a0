// Package fxstats accumulates length and base composition statistics over
// sequence records.
package fxstats

import "math"

// Accumulator collects statistics in a single pass.
type Accumulator struct {
	records uint64
	bases   uint64
	minLen  uint64
	maxLen  uint64
	sumSq   float64
	counts  [26]uint64
}

// Add records one sequence.
func (a *Accumulator) Add(seq []byte) {
	n := uint64(len(seq))
	if a.records == 0 || n < a.minLen {
		a.minLen = n
	}
	if n > a.maxLen {
		a.maxLen = n
	}
	a.records++
	a.bases += n
	a.sumSq += float64(n) * float64(n)

	for _, c := range seq {
		switch {
		case c >= 'a' && c <= 'z':
			a.counts[c-'a']++
		case c >= 'A' && c <= 'Z':
			a.counts[c-'A']++
		}
	}
}

// BaseCount is the count of one base (or base class) and its share of all bases.
type BaseCount struct {
	Base    string
	Count   uint64
	Percent float64
}

// Summary is the final report of an Accumulator.
type Summary struct {
	Sequences   uint64
	Bases       uint64
	MeanLen     float64
	StdDev      float64
	MinLen      uint64
	MaxLen      uint64
	Composition []BaseCount
}

// Summary computes the report. Mean, deviation and percentages are zero
// for an empty input.
func (a *Accumulator) Summary() Summary {
	s := Summary{
		Sequences: a.records,
		Bases:     a.bases,
		MinLen:    a.minLen,
		MaxLen:    a.maxLen,
	}
	if a.records > 0 {
		s.MeanLen = float64(a.bases) / float64(a.records)
		// Single-pass variance; clamp rounding noise below zero.
		variance := a.sumSq/float64(a.records) - s.MeanLen*s.MeanLen
		s.StdDev = math.Sqrt(math.Max(variance, 0))
	}

	count := func(letters string) uint64 {
		var n uint64
		for _, l := range letters {
			n += a.counts[l-'A']
		}
		return n
	}
	for _, b := range []string{"A", "C", "G", "T", "N", "GC"} {
		bc := BaseCount{Base: b, Count: count(b)}
		if a.bases > 0 {
			bc.Percent = float64(bc.Count) * 100 / float64(a.bases)
		}
		s.Composition = append(s.Composition, bc)
	}
	return s
}
