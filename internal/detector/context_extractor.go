// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"unicode/utf8"
)

const (
	// DefaultContextChars is the number of runes kept on each side of a match
	DefaultContextChars = 60
	// MaxContextChars caps the total length of a context window in runes
	MaxContextChars = 200
)

// ContextExtractor cuts a rune-bounded window of text around a span
type ContextExtractor struct {
	// Number of runes before and after the match to keep
	ContextChars int

	// Upper bound on the whole window
	ContextMax int
}

// NewContextExtractor creates a new context extractor with default settings
func NewContextExtractor() *ContextExtractor {
	return &ContextExtractor{
		ContextChars: DefaultContextChars,
		ContextMax:   MaxContextChars,
	}
}

// WithContextChars sets the number of context runes, capped at MaxContextChars
func (ce *ContextExtractor) WithContextChars(chars int) *ContextExtractor {
	if chars > MaxContextChars {
		chars = MaxContextChars
	}
	if chars < 0 {
		chars = 0
	}
	ce.ContextChars = chars
	return ce
}

// Extract returns the window around span. Offsets outside text are clamped.
func (ce *ContextExtractor) Extract(text string, span Span) string {
	start := clamp(span.Start, 0, len(text))
	end := clamp(span.End, start, len(text))

	left := start
	for i := 0; i < ce.ContextChars && left > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:left])
		left -= size
	}

	right := end
	for i := 0; i < ce.ContextChars && right < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[right:])
		right += size
	}

	window := text[left:right]
	if ce.ContextMax <= 0 {
		return window
	}

	n := 0
	for i := range window {
		if n == ce.ContextMax {
			return window[:i]
		}
		n++
	}
	return window
}

// Fill sets Context on every candidate from the text their spans index into
func (ce *ContextExtractor) Fill(text string, cands []Candidate) {
	for i := range cands {
		cands[i].Context = ce.Extract(text, cands[i].Span)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
