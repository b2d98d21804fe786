// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Category identifies what kind of mention a candidate is
type Category int

const (
	OrganizationHint Category = iota
	FacilityHint
	EngineHint
	RoleHint
	ZoneHint
	InterfaceHint
	DeviceTypeHint
	DeviceSubtypeHint
	NameCandidate
	QuotedNameCandidate
	ServerClassHint
	ServerTypeHint
	StateHint
	WorkloadHint
)

var categoryNames = [...]string{
	OrganizationHint:    "OrganizationHint",
	FacilityHint:        "FacilityHint",
	EngineHint:          "EngineHint",
	RoleHint:            "RoleHint",
	ZoneHint:            "ZoneHint",
	InterfaceHint:       "InterfaceHint",
	DeviceTypeHint:      "DeviceTypeHint",
	DeviceSubtypeHint:   "DeviceSubtypeHint",
	NameCandidate:       "NameCandidate",
	QuotedNameCandidate: "QuotedNameCandidate",
	ServerClassHint:     "ServerClassHint",
	ServerTypeHint:      "ServerTypeHint",
	StateHint:           "StateHint",
	WorkloadHint:        "WorkloadHint",
}

var categoryDescriptions = [...]string{
	OrganizationHint:    "Corporation / organization mention (은행, 중앙회)",
	FacilityHint:        "Data-center or site mention (의왕, 안성, AWS)",
	EngineHint:          "Database engine (postgres, oracle, mysql, mssql, tibero)",
	RoleHint:            "DBMS role (GoldCopy, backup, batch)",
	ZoneHint:            "Network zone label (internal, dmz, external, ...)",
	InterfaceHint:       "Integration interface (MFT, EAI, IGW, API_GW, ...)",
	DeviceTypeHint:      "Network device type (GSLB, Firewall, Router, Switch, Line)",
	DeviceSubtypeHint:   "Network device subtype (internal, external, L3, L4, IRT, ISW)",
	NameCandidate:       "Identifier-like token that may name a host or system",
	QuotedNameCandidate: "Double-quoted span that may name a system",
	ServerClassHint:     "Server class (AP, WEB, WAS, DB, ETL)",
	ServerTypeHint:      "Server type (IaaS, PaaS, BareMetal)",
	StateHint:           "Redundancy state (Active, Standby)",
	WorkloadHint:        "Business workload label",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Description returns a one-line human description of the category
func (c Category) Description() string {
	if c < 0 || int(c) >= len(categoryDescriptions) {
		return ""
	}
	return categoryDescriptions[c]
}

// ParseCategory maps a category name back to its value, ignoring case
func ParseCategory(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), true
		}
	}
	return 0, false
}

// AllCategories returns every category in declaration order
func AllCategories() []Category {
	all := make([]Category, len(categoryNames))
	for i := range categoryNames {
		all[i] = Category(i)
	}
	return all
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown category %q", name)
	}
	*c = parsed
	return nil
}

// MarshalYAML emits the category name
func (c Category) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Span is a half-open byte range [Start, End) into the scanned text
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether the two spans share at least one byte
func (s Span) Overlaps(o Span) bool {
	return !(s.End <= o.Start || o.End <= s.Start)
}

// Contains reports whether o lies entirely within s
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Shift moves the span by offset bytes
func (s Span) Shift(offset int) Span {
	return Span{Start: s.Start + offset, End: s.End + offset}
}

// Valid reports whether the span is non-empty and fits a text of textLen bytes
func (s Span) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= textLen
}

// Candidate is a typed, positioned mention found in free text
type Candidate struct {
	Text       string   `json:"text" yaml:"text"`
	Category   Category `json:"category" yaml:"category"`
	Span       Span     `json:"span" yaml:"span"`
	Context    string   `json:"context,omitempty" yaml:"context,omitempty"`
	Normalized string   `json:"normalized,omitempty" yaml:"normalized,omitempty"`
}

// NewCandidate builds a candidate whose Text is the spanned substring of text
func NewCandidate(text string, category Category, span Span, normalized string) Candidate {
	return Candidate{
		Text:       text[span.Start:span.End],
		Category:   category,
		Span:       span,
		Normalized: normalized,
	}
}

// HasNormalized reports whether the candidate carries a canonical value
func (c Candidate) HasNormalized() bool {
	return c.Normalized != ""
}

// Value returns the normalized value, or the raw text for free-form candidates
func (c Candidate) Value() string {
	if c.HasNormalized() {
		return c.Normalized
	}
	return c.Text
}

// Scanner finds candidates of a single category in text
type Scanner interface {
	Category() Category
	Scan(text string) []Candidate
}

// SortCandidates orders candidates by start, end, then category
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.Category < b.Category
	})
}
