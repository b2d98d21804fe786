// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

// literalForm is one surface form and the value it normalizes to
type literalForm struct {
	surface string
	value   string
}

// literalSet finds many fixed strings in one pass. Among overlapping
// forms the leftmost, then longest, wins.
type literalSet struct {
	ac     ahocorasick.AhoCorasick
	values []string
	fold   bool
}

func newLiteralSet(forms []literalForm, fold bool) *literalSet {
	seen := make(map[string]bool, len(forms))
	var surfaces, values []string
	for _, f := range forms {
		s := f.surface
		if fold {
			s = patterns.ASCIILower(s)
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		surfaces = append(surfaces, s)
		values = append(values, f.value)
	}
	if len(surfaces) == 0 {
		return nil
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: fold,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &literalSet{
		ac:     builder.Build(surfaces),
		values: values,
		fold:   fold,
	}
}

// find returns candidates of category for every literal hit in text
func (l *literalSet) find(text string, category detector.Category) []detector.Candidate {
	if l == nil || text == "" {
		return nil
	}
	haystack := text
	if l.fold {
		haystack = patterns.ASCIILower(text)
	}

	var out []detector.Candidate
	for _, m := range l.ac.FindAll(haystack) {
		span := detector.Span{Start: m.Start(), End: m.End()}
		if !span.Valid(len(text)) {
			continue
		}
		out = append(out, detector.NewCandidate(text, category, span, l.values[m.Pattern()]))
	}
	return out
}

// tableForms flattens an alias table into literal forms keyed to canonicals,
// skipping the surfaces listed in exclude
func tableForms(table *patterns.AliasTable, exclude map[string]bool) []literalForm {
	if table == nil {
		return nil
	}
	var forms []literalForm
	for _, e := range table.Entries() {
		for _, surface := range e.Forms() {
			if exclude[patterns.ASCIILower(surface)] {
				continue
			}
			forms = append(forms, literalForm{surface: surface, value: e.Canonical})
		}
	}
	return forms
}

// LiteralScanner reports fixed surface forms from an alias table, e.g.
// DBMS roles ("standby" → GoldCopy, "백업" → backup)
type LiteralScanner struct {
	category detector.Category
	set      *literalSet
}

// NewLiteralScanner builds a case-insensitive literal scanner over table
func NewLiteralScanner(category detector.Category, table *patterns.AliasTable) *LiteralScanner {
	return &LiteralScanner{
		category: category,
		set:      newLiteralSet(tableForms(table, nil), true),
	}
}

func (s *LiteralScanner) Category() detector.Category {
	return s.category
}

func (s *LiteralScanner) Scan(text string) []detector.Candidate {
	return s.set.find(text, s.category)
}
