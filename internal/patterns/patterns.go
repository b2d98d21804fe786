// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns turns canonical terms and their aliases into tolerant
// matchers. A key such as "apigw" matches "API GW", "api-gw" or "Api/Gw":
// separators between characters are optional and case is ignored.
package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinKeyLen is the shortest normalized key compiled without a whitelist entry
const MinKeyLen = 3

const separatorClass = `[\s/_\-]*`

var (
	ErrEmptyCanonical = errors.New("empty canonical")
	ErrDuplicateAlias = errors.New("alias claimed by two canonicals")

	bracketPattern   = regexp.MustCompile(`[()\[\]{}]`)
	separatorPattern = regexp.MustCompile(`[\s/_\-]+`)
)

// NormKey lowercases s and strips brackets and separators
func NormKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = bracketPattern.ReplaceAllString(s, "")
	return separatorPattern.ReplaceAllString(s, "")
}

// FlexPattern builds a case-insensitive pattern for key that tolerates
// separators between any two characters
func FlexPattern(key string) string {
	var b strings.Builder
	b.WriteString("(?i)")
	first := true
	for _, r := range key {
		if !first {
			b.WriteString(separatorClass)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
		first = false
	}
	return b.String()
}

// Entry is one canonical value and the surface forms that refer to it
type Entry struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Aliases   []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// AliasTable is an ordered, validated canonical → aliases mapping
type AliasTable struct {
	name    string
	entries []Entry
}

// NewAliasTable validates entries and returns an immutable table. The
// canonical is always an implicit alias of itself.
func NewAliasTable(name string, entries []Entry) (*AliasTable, error) {
	owner := make(map[string]string)
	copied := make([]Entry, 0, len(entries))

	for _, e := range entries {
		canonical := strings.TrimSpace(e.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("%s table: %w", name, ErrEmptyCanonical)
		}

		aliases := make([]string, 0, len(e.Aliases))
		for _, form := range append([]string{canonical}, e.Aliases...) {
			key := NormKey(form)
			if key == "" {
				continue
			}
			if prev, ok := owner[key]; ok && prev != canonical {
				return nil, fmt.Errorf("%s table: %q used by %q and %q: %w", name, form, prev, canonical, ErrDuplicateAlias)
			}
			owner[key] = canonical
			if form != canonical {
				aliases = append(aliases, form)
			}
		}
		copied = append(copied, Entry{Canonical: canonical, Aliases: aliases})
	}

	return &AliasTable{name: name, entries: copied}, nil
}

// MustAliasTable is NewAliasTable for package-level defaults
func MustAliasTable(name string, entries []Entry) *AliasTable {
	t, err := NewAliasTable(name, entries)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *AliasTable) Name() string {
	return t.name
}

func (t *AliasTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table contents in declaration order
func (t *AliasTable) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Canonical: e.Canonical, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}

// Canonicals lists canonical values in declaration order
func (t *AliasTable) Canonicals() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Canonical
	}
	return out
}

// Forms returns the canonical followed by its aliases
func (e Entry) Forms() []string {
	return append([]string{e.Canonical}, e.Aliases...)
}

// CompiledMatcher finds one normalized key of one canonical value
type CompiledMatcher struct {
	Canonical string
	Key       string
	Bounded   bool

	re *regexp.Regexp
}

// Pattern returns the source of the underlying regular expression
func (m *CompiledMatcher) Pattern() string {
	return m.re.String()
}

// Find returns the non-overlapping hits of the matcher as byte ranges
func (m *CompiledMatcher) Find(text string) [][2]int {
	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	hits := make([][2]int, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		if m.Bounded && !OnWordBoundary(text, loc[0], loc[1]) {
			continue
		}
		hits = append(hits, [2]int{loc[0], loc[1]})
	}
	return hits
}

// Options tunes Compile
type Options struct {
	// MinKeyLen overrides the package default when positive
	MinKeyLen int

	// ShortKeys are normalized keys below MinKeyLen that still compile,
	// restricted to word boundaries
	ShortKeys []string

	// BoundedKeys are normalized keys of any length whose hits must sit on
	// word boundaries
	BoundedKeys []string
}

// Compile expands every canonical of the table into matchers, longest key first
func Compile(table *AliasTable, opts Options) []*CompiledMatcher {
	if table == nil {
		return nil
	}
	minLen := opts.MinKeyLen
	if minLen <= 0 {
		minLen = MinKeyLen
	}
	short := make(map[string]bool, len(opts.ShortKeys))
	for _, k := range opts.ShortKeys {
		short[NormKey(k)] = true
	}
	boundedKeys := make(map[string]bool, len(opts.BoundedKeys))
	for _, k := range opts.BoundedKeys {
		boundedKeys[NormKey(k)] = true
	}

	type signature struct{ canonical, pattern string }
	seen := make(map[signature]bool)
	var out []*CompiledMatcher

	for _, e := range table.entries {
		keys := uniqueKeys(e.Forms())
		sort.SliceStable(keys, func(i, j int) bool {
			return utf8.RuneCountInString(keys[i]) > utf8.RuneCountInString(keys[j])
		})

		for _, key := range keys {
			bounded := boundedKeys[key]
			if utf8.RuneCountInString(key) < minLen {
				if !short[key] {
					continue
				}
				bounded = true
			}

			pattern := FlexPattern(key)
			sig := signature{e.Canonical, pattern}
			if seen[sig] {
				continue
			}
			seen[sig] = true

			out = append(out, &CompiledMatcher{
				Canonical: e.Canonical,
				Key:       key,
				Bounded:   bounded,
				re:        regexp.MustCompile(pattern),
			})
		}
	}
	return out
}

func uniqueKeys(forms []string) []string {
	seen := make(map[string]bool, len(forms))
	keys := make([]string, 0, len(forms))
	for _, f := range forms {
		k := NormKey(f)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// TokenMatcher finds a fixed token delimited by script-aware boundaries.
// Pure Hangul tokens may be followed by Hangul particles (은행은, 은행의);
// every other token must stand apart from Latin, digits, _ and Hangul.
type TokenMatcher struct {
	Token  string
	hangul bool
	re     *regexp.Regexp
}

// CompileToken builds a case-insensitive matcher for token
func CompileToken(token string) *TokenMatcher {
	token = strings.TrimSpace(token)
	return &TokenMatcher{
		Token:  token,
		hangul: IsHangulToken(token),
		re:     regexp.MustCompile("(?i)" + regexp.QuoteMeta(token)),
	}
}

// Find returns the token hits whose neighbors satisfy the boundary rule
func (m *TokenMatcher) Find(text string) [][2]int {
	if m.Token == "" {
		return nil
	}
	var hits [][2]int
	pos := 0
	for pos < len(text) {
		loc := m.re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if m.accepts(text, start, end) {
			hits = append(hits, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + size
	}
	return hits
}

func (m *TokenMatcher) accepts(text string, start, end int) bool {
	if r, ok := RuneBefore(text, start); ok && (IsASCIIWordRune(r) || IsHangulSyllable(r)) {
		return false
	}
	if r, ok := RuneAt(text, end); ok {
		if IsASCIIWordRune(r) {
			return false
		}
		if !m.hangul && IsHangulSyllable(r) {
			return false
		}
	}
	return true
}
