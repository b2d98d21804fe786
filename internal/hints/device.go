// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	"fmt"
	"regexp"
	"unicode"

	overlapac "github.com/coregx/ahocorasick"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

// LineCanonical is the device type assigned to leased lines and ISP circuits
const LineCanonical = "Line"

const (
	lineContextRunes  = 30
	deviceAnchorRunes = 25
	lineSuffixPattern = `\s*(?:회선|전용회선|대외회선|망연계|line|라인)`
)

var (
	lineContextPattern  = regexp.MustCompile(`(?i)(회선|전용회선|대외회선|망연계|mpls|vpn|인터넷구간|대외|회선사|isp|line|라인|브로드밴드|데이콤|텔레콤|통신)`)
	deviceAnchorPattern = regexp.MustCompile(`(?i)(gslb|firewall|fw|router|rt|switch|sw|방화벽|라우터|스위치|회선|line|라인)`)
)

// AnchoredSubtypes need a device word nearby; on their own they are too
// generic to count as a device subtype
var AnchoredSubtypes = []string{"internal", "external"}

// DeviceTypeScanner reports network device types and ISP lines
type DeviceTypeScanner struct {
	literals  *literalSet
	bounded   []literalForm
	ispTokens []string
	ispLines  []*regexp.Regexp
}

// NewDeviceTypeScanner builds the scanner. Surfaces listed in boundedTokens
// only match on word boundaries; ispTokens are carrier names that become a
// Line when a circuit word follows or sits nearby.
func NewDeviceTypeScanner(table *patterns.AliasTable, boundedTokens, ispTokens []string) *DeviceTypeScanner {
	exclude := make(map[string]bool, len(boundedTokens))
	for _, tok := range boundedTokens {
		exclude[patterns.ASCIILower(tok)] = true
	}

	s := &DeviceTypeScanner{
		literals: newLiteralSet(tableForms(table, exclude), true),
	}
	if table != nil {
		for _, e := range table.Entries() {
			for _, surface := range e.Forms() {
				if exclude[patterns.ASCIILower(surface)] {
					s.bounded = append(s.bounded, literalForm{surface: surface, value: e.Canonical})
				}
			}
		}
	}
	for _, tok := range ispTokens {
		s.ispTokens = append(s.ispTokens, tok)
		s.ispLines = append(s.ispLines, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(tok)+lineSuffixPattern))
	}
	return s
}

func (s *DeviceTypeScanner) Category() detector.Category {
	return detector.DeviceTypeHint
}

func (s *DeviceTypeScanner) Scan(text string) []detector.Candidate {
	out := s.literals.find(text, detector.DeviceTypeHint)

	for _, f := range s.bounded {
		for _, hit := range patterns.FindBoundedLiteral(text, f.surface, true) {
			out = append(out, detector.NewCandidate(text, detector.DeviceTypeHint, detector.Span{Start: hit[0], End: hit[1]}, f.value))
		}
	}

	for i, tok := range s.ispTokens {
		for _, loc := range s.ispLines[i].FindAllStringIndex(text, -1) {
			out = append(out, detector.NewCandidate(text, detector.DeviceTypeHint, detector.Span{Start: loc[0], End: loc[1]}, LineCanonical))
		}
		for _, hit := range patterns.FindBoundedLiteral(text, tok, true) {
			left, right := patterns.RuneWindow(text, hit[0], hit[1], lineContextRunes)
			if !lineContextPattern.MatchString(text[left:right]) {
				continue
			}
			out = append(out, detector.NewCandidate(text, detector.DeviceTypeHint, detector.Span{Start: hit[0], End: hit[1]}, LineCanonical))
		}
	}
	return out
}

// DeviceSubtypeScanner reports device subtypes (L3, IRT, internal, ...).
// Hits come from an overlapping search, so nested variants are not hidden
// behind a longer one.
type DeviceSubtypeScanner struct {
	ac       *overlapac.Automaton
	values   []string
	anchored map[string]bool
}

// NewDeviceSubtypeScanner builds the scanner; canonicals in anchored need a
// device anchor word within reach
func NewDeviceSubtypeScanner(table *patterns.AliasTable, anchored []string) (*DeviceSubtypeScanner, error) {
	s := &DeviceSubtypeScanner{anchored: make(map[string]bool, len(anchored))}
	for _, a := range anchored {
		s.anchored[a] = true
	}

	seen := make(map[string]bool)
	var surfaces []string
	for _, f := range tableForms(table, nil) {
		low := patterns.ASCIILower(f.surface)
		if seen[low] {
			continue
		}
		seen[low] = true
		surfaces = append(surfaces, low)
		s.values = append(s.values, f.value)
	}
	if len(surfaces) == 0 {
		return s, nil
	}

	automaton, err := overlapac.NewBuilder().
		AddStrings(surfaces).
		SetMatchKind(overlapac.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("device subtype automaton: %w", err)
	}
	s.ac = automaton
	return s, nil
}

func (s *DeviceSubtypeScanner) Category() detector.Category {
	return detector.DeviceSubtypeHint
}

func (s *DeviceSubtypeScanner) Scan(text string) []detector.Candidate {
	if s.ac == nil || text == "" {
		return nil
	}
	haystack := []byte(patterns.ASCIILower(text))

	var out []detector.Candidate
	for _, m := range s.ac.FindAllOverlapping(haystack) {
		span := detector.Span{Start: m.Start, End: m.End}
		if !span.Valid(len(text)) || !isStandalone(text, span.Start, span.End) {
			continue
		}
		value := s.values[m.PatternID]
		if s.anchored[value] {
			left, right := patterns.RuneWindow(text, span.Start, span.End, deviceAnchorRunes)
			if !deviceAnchorPattern.MatchString(text[left:right]) {
				continue
			}
		}
		out = append(out, detector.NewCandidate(text, detector.DeviceSubtypeHint, span, value))
	}
	return out
}

// isStandalone reports whether neither neighbor of [start, end) is a letter or digit
func isStandalone(text string, start, end int) bool {
	if r, ok := patterns.RuneBefore(text, start); ok && !isBoundaryRune(r) {
		return false
	}
	if r, ok := patterns.RuneAt(text, end); ok && !isBoundaryRune(r) {
		return false
	}
	return true
}

func isBoundaryRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
