// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

// AliasScanner runs compiled flexible matchers for one alias table
type AliasScanner struct {
	category detector.Category
	matchers []*patterns.CompiledMatcher
}

// NewAliasScanner compiles table for category
func NewAliasScanner(category detector.Category, table *patterns.AliasTable, opts patterns.Options) *AliasScanner {
	return &AliasScanner{
		category: category,
		matchers: patterns.Compile(table, opts),
	}
}

func (s *AliasScanner) Category() detector.Category {
	return s.category
}

func (s *AliasScanner) Scan(text string) []detector.Candidate {
	var out []detector.Candidate
	for _, m := range s.matchers {
		for _, hit := range m.Find(text) {
			out = append(out, detector.NewCandidate(text, s.category, detector.Span{Start: hit[0], End: hit[1]}, m.Canonical))
		}
	}
	return out
}

// TokenScanner reports organization or facility tokens. The configured
// token is the normalized value.
type TokenScanner struct {
	category detector.Category
	matchers []*patterns.TokenMatcher
}

func NewTokenScanner(category detector.Category, tokens []string) *TokenScanner {
	s := &TokenScanner{category: category}
	for _, tok := range tokens {
		if m := patterns.CompileToken(tok); m.Token != "" {
			s.matchers = append(s.matchers, m)
		}
	}
	return s
}

func (s *TokenScanner) Category() detector.Category {
	return s.category
}

func (s *TokenScanner) Scan(text string) []detector.Candidate {
	var out []detector.Candidate
	for _, m := range s.matchers {
		for _, hit := range m.Find(text) {
			out = append(out, detector.NewCandidate(text, s.category, detector.Span{Start: hit[0], End: hit[1]}, m.Token))
		}
	}
	return out
}

// EnumScanner reports members of a fixed, case-sensitive word list. Words
// chosen by the bounded predicate must stand on word boundaries; the rest
// match anywhere.
type EnumScanner struct {
	category  detector.Category
	bounded   []string
	literals  *literalSet
	normalize func(string) string
}

// EnumOption customizes an EnumScanner
type EnumOption func(*enumConfig)

type enumConfig struct {
	bounded   func(string) bool
	normalize func(string) string
}

// BoundedWhen selects which words need word boundaries
func BoundedWhen(pred func(word string) bool) EnumOption {
	return func(c *enumConfig) { c.bounded = pred }
}

// NormalizeWith maps a matched word to its normalized value
func NormalizeWith(fn func(word string) string) EnumOption {
	return func(c *enumConfig) { c.normalize = fn }
}

// AllBounded requires word boundaries for every word
func AllBounded(string) bool { return true }

// NeverBounded lets every word match anywhere
func NeverBounded(string) bool { return false }

var acronymPattern = regexp.MustCompile(`^[A-Z]{2,4}$`)

// IsAcronym reports whether word is a 2-4 letter upper-case code
func IsAcronym(word string) bool {
	return acronymPattern.MatchString(word)
}

// Capitalize upper-cases the first rune and lower-cases the rest
func Capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

func NewEnumScanner(category detector.Category, words []string, opts ...EnumOption) *EnumScanner {
	cfg := enumConfig{bounded: AllBounded}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &EnumScanner{category: category, normalize: cfg.normalize}
	var forms []literalForm
	for _, w := range words {
		if cfg.bounded(w) {
			s.bounded = append(s.bounded, w)
			continue
		}
		forms = append(forms, literalForm{surface: w, value: w})
	}
	s.literals = newLiteralSet(forms, false)
	return s
}

func (s *EnumScanner) Category() detector.Category {
	return s.category
}

func (s *EnumScanner) Scan(text string) []detector.Candidate {
	var out []detector.Candidate
	for _, w := range s.bounded {
		for _, hit := range patterns.FindBoundedLiteral(text, w, false) {
			out = append(out, detector.NewCandidate(text, s.category, detector.Span{Start: hit[0], End: hit[1]}, w))
		}
	}
	out = append(out, s.literals.find(text, s.category)...)

	if s.normalize != nil {
		for i := range out {
			out[i].Normalized = s.normalize(out[i].Normalized)
		}
	}
	return out
}

var namePattern = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_-]{3,}\b`)

// NameScanner reports identifier-like tokens such as host or system names
type NameScanner struct{}

func (NameScanner) Category() detector.Category {
	return detector.NameCandidate
}

func (NameScanner) Scan(text string) []detector.Candidate {
	var out []detector.Candidate
	for _, loc := range namePattern.FindAllStringIndex(text, -1) {
		if !patterns.OnWordBoundary(text, loc[0], loc[1]) {
			continue
		}
		out = append(out, detector.NewCandidate(text, detector.NameCandidate, detector.Span{Start: loc[0], End: loc[1]}, ""))
	}
	return out
}
