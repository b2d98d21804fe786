// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fuzzy resolves organization and facility mentions against a
// fixed vocabulary and decides whether a match can be used as is, needs
// confirmation, or needs the user to say it again.
package fuzzy

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"hintscan/internal/observability"
	"hintscan/internal/patterns"
)

const (
	DefaultAskThreshold  = 0.60
	DefaultAutoThreshold = 0.85

	// FallbackConfidence is assigned to substring hits when no scorer is set
	FallbackConfidence = 0.8
	// SuffixPatternConfidence is assigned to unknown "<name>센터" style names
	SuffixPatternConfidence = 0.7
	// AcronymPatternConfidence is assigned to unknown upper-case codes
	AcronymPatternConfidence = 0.8

	// MultipleUncertainMarker is the confirmation message used when more
	// than one match is uncertain
	MultipleUncertainMarker = "multiple_uncertain"

	DefaultOrganizationLabel    = "법인"
	DefaultFacilityLabel        = "센터"
	DefaultConfirmationTemplate = "'%s: %s'(으)로 이해했습니다.\n맞으면 '확인' 또는 '네'를 입력하고, 아니면 다시 입력해 주세요."
)

var (
	// DefaultOrganizations is the built-in corporation vocabulary
	DefaultOrganizations = []string{"은행", "중앙회", "농협", "신협", "카드", "증권", "보험", "캐피탈", "저축은행"}
	// DefaultFacilities is the built-in data-center and site vocabulary
	DefaultFacilities = []string{"의왕", "안성", "AWS", "IDC", "본점", "지점"}

	ErrInvalidThreshold = errors.New("invalid threshold")

	facilitySuffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([가-힣A-Za-z0-9]+)센터`),
		regexp.MustCompile(`([가-힣A-Za-z0-9]+)지점`),
		regexp.MustCompile(`([가-힣A-Za-z0-9]+)본점`),
	}
	suffixWords    = map[string]bool{"센터": true, "지점": true, "본점": true}
	acronymPattern = regexp.MustCompile(`[A-Z]{2,}`)
)

// MatchType tells how a match was obtained
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchFuzzy   MatchType = "fuzzy"
	MatchPattern MatchType = "pattern"
	MatchNone    MatchType = "none"
)

// MatchResult is one resolved mention
type MatchResult struct {
	Matched    string    `json:"matched" yaml:"matched"`
	Original   string    `json:"original" yaml:"original"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	MatchType  MatchType `json:"match_type" yaml:"match_type"`
}

// Options configures a Resolver
type Options struct {
	// Organizations and Facilities are the candidate vocabularies. A nil
	// slice selects the defaults; an empty one disables the category.
	Organizations []string
	Facilities    []string

	// Nil selects the default thresholds. Zero is a valid threshold.
	AskThreshold  *float64
	AutoThreshold *float64

	// Scorer defaults to DefaultScorer. DisableScorer switches to plain
	// substring matching.
	Scorer        Scorer
	DisableScorer bool

	OrganizationLabel    string
	FacilityLabel        string
	ConfirmationTemplate string

	Observer *observability.StandardObserver
}

// Resolver is immutable after construction and safe for concurrent use
type Resolver struct {
	orgs       []string
	facilities []string
	ask        float64
	auto       float64
	scorer     Scorer
	orgLabel   string
	facLabel   string
	template   string
	observer   *observability.StandardObserver
}

// NewResolver validates opts and builds a Resolver
func NewResolver(opts Options) (*Resolver, error) {
	ask, auto := DefaultAskThreshold, DefaultAutoThreshold
	if opts.AskThreshold != nil {
		ask = *opts.AskThreshold
	}
	if opts.AutoThreshold != nil {
		auto = *opts.AutoThreshold
	}
	if err := ValidateThresholds(ask, auto); err != nil {
		return nil, err
	}

	orgs, facs := opts.Organizations, opts.Facilities
	if orgs == nil {
		orgs = DefaultOrganizations
	}
	if facs == nil {
		facs = DefaultFacilities
	}

	r := &Resolver{
		orgs:       normalizeVocabulary(orgs),
		facilities: normalizeVocabulary(facs),
		ask:        ask,
		auto:       auto,
		scorer:     opts.Scorer,
		orgLabel:   firstNonEmpty(opts.OrganizationLabel, DefaultOrganizationLabel),
		facLabel:   firstNonEmpty(opts.FacilityLabel, DefaultFacilityLabel),
		template:   firstNonEmpty(opts.ConfirmationTemplate, DefaultConfirmationTemplate),
		observer:   opts.Observer,
	}
	if r.scorer == nil && !opts.DisableScorer {
		r.scorer = DefaultScorer
	}
	if opts.DisableScorer {
		r.scorer = nil
	}
	return r, nil
}

// ValidateThresholds checks 0 <= ask <= auto <= 1
func ValidateThresholds(ask, auto float64) error {
	if math.IsNaN(ask) || ask < 0 || ask > 1 {
		return fmt.Errorf("ask threshold %v outside [0,1]: %w", ask, ErrInvalidThreshold)
	}
	if math.IsNaN(auto) || auto < 0 || auto > 1 {
		return fmt.Errorf("auto threshold %v outside [0,1]: %w", auto, ErrInvalidThreshold)
	}
	if ask > auto {
		return fmt.Errorf("ask threshold %v above auto threshold %v: %w", ask, auto, ErrInvalidThreshold)
	}
	return nil
}

// GetComponentName implements observability.Observable
func (r *Resolver) GetComponentName() string {
	return "fuzzy"
}

// Thresholds returns the ask and auto thresholds in use
func (r *Resolver) Thresholds() (ask, auto float64) {
	return r.ask, r.auto
}

// MatchText resolves text against vocab. Exact equality or containment of
// a vocabulary entry wins outright; otherwise the best scoring entry is
// accepted at or above threshold. Nil means no match.
func (r *Resolver) MatchText(text string, vocab []string, threshold float64) *MatchResult {
	return r.matchText(text, normalizeVocabulary(vocab), threshold)
}

func (r *Resolver) matchText(text string, vocab []string, threshold float64) *MatchResult {
	clean := strings.TrimSpace(norm.NFC.String(text))
	if clean == "" || len(vocab) == 0 {
		return nil
	}

	for _, entry := range vocab {
		if clean == entry || strings.Contains(clean, entry) {
			return &MatchResult{Matched: entry, Original: text, Confidence: 1.0, MatchType: MatchExact}
		}
	}

	if r.scorer == nil {
		lower := strings.ToLower(clean)
		for _, entry := range vocab {
			if strings.Contains(lower, strings.ToLower(entry)) {
				return &MatchResult{Matched: entry, Original: text, Confidence: FallbackConfidence, MatchType: MatchFuzzy}
			}
		}
		return nil
	}

	best, bestScore := "", -1.0
	for _, entry := range vocab {
		if s := r.scorer(clean, entry); s > bestScore {
			best, bestScore = entry, s
		}
	}
	confidence := math.Min(math.Max(bestScore, 0), 100) / 100
	if confidence < threshold {
		return nil
	}
	return &MatchResult{Matched: best, Original: text, Confidence: confidence, MatchType: MatchFuzzy}
}

// ExtractOrganizations finds organization mentions. Vocabulary entries
// contained in the text are exact matches; when there are none, each
// whitespace token is scored so typos still resolve.
func (r *Resolver) ExtractOrganizations(text string) []MatchResult {
	clean := norm.NFC.String(text)
	var out []MatchResult

	for _, entry := range r.orgs {
		if strings.Contains(clean, entry) {
			out = append(out, MatchResult{Matched: entry, Original: entry, Confidence: 1.0, MatchType: MatchExact})
		}
	}
	if len(out) == 0 {
		for _, tok := range strings.Fields(clean) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			if m := r.matchText(tok, r.orgs, r.ask); m != nil {
				out = append(out, *m)
			}
		}
	}
	return dedupeMatched(out)
}

// ExtractFacilities finds facility mentions: known names, "<name>센터",
// "<name>지점" or "<name>본점" forms, and upper-case site codes
func (r *Resolver) ExtractFacilities(text string) []MatchResult {
	clean := norm.NFC.String(text)
	var out []MatchResult

	for _, entry := range r.facilities {
		if strings.Contains(clean, entry) {
			out = append(out, MatchResult{Matched: entry, Original: entry, Confidence: 1.0, MatchType: MatchExact})
		}
	}

	for _, re := range facilitySuffixPatterns {
		for _, m := range re.FindAllStringSubmatch(clean, -1) {
			name := m[1]
			if suffixWords[name] || utf8.RuneCountInString(name) < 2 {
				continue
			}
			if res := r.matchText(name, r.facilities, r.ask); res != nil {
				out = append(out, *res)
				continue
			}
			out = append(out, MatchResult{Matched: name, Original: m[0], Confidence: SuffixPatternConfidence, MatchType: MatchPattern})
		}
	}

	for _, loc := range acronymPattern.FindAllStringIndex(clean, -1) {
		if !patterns.OnWordBoundary(clean, loc[0], loc[1]) {
			continue
		}
		code := clean[loc[0]:loc[1]]
		if res := r.matchText(code, r.facilities, r.ask); res != nil {
			out = append(out, *res)
			continue
		}
		out = append(out, MatchResult{Matched: code, Original: code, Confidence: AcronymPatternConfidence, MatchType: MatchPattern})
	}

	return dedupeMatched(out)
}

// BestMatches returns the matched names whose confidence reaches minConfidence
func BestMatches(results []MatchResult, minConfidence float64) []string {
	var out []string
	for _, r := range results {
		if r.Confidence >= minConfidence {
			out = append(out, r.Matched)
		}
	}
	return out
}

func dedupeMatched(results []MatchResult) []MatchResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		if seen[r.Matched] {
			continue
		}
		seen[r.Matched] = true
		out = append(out, r)
	}
	return out
}

func normalizeVocabulary(vocab []string) []string {
	seen := make(map[string]bool, len(vocab))
	out := make([]string, 0, len(vocab))
	for _, v := range vocab {
		v = strings.TrimSpace(norm.NFC.String(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
