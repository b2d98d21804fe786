// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	"fmt"
	"strings"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

const (
	// GenericGateway is the interface code that yields to SpecificGateway
	GenericGateway = "IGW"
	// SpecificGateway wins over GenericGateway for the same words
	SpecificGateway = "API_GW"
)

// Set runs a group of scanners over the same text
type Set struct {
	scanners []detector.Scanner
}

func NewSet(scanners ...detector.Scanner) *Set {
	return &Set{scanners: scanners}
}

// Scanners returns the scanners in run order
func (s *Set) Scanners() []detector.Scanner {
	return s.scanners
}

// Categories lists the categories the set can produce
func (s *Set) Categories() []detector.Category {
	out := make([]detector.Category, 0, len(s.scanners))
	for _, sc := range s.scanners {
		out = append(out, sc.Category())
	}
	return out
}

// Scan concatenates the output of every scanner
func (s *Set) Scan(text string) []detector.Candidate {
	if text == "" {
		return nil
	}
	var out []detector.Candidate
	for _, sc := range s.scanners {
		out = append(out, sc.Scan(text)...)
	}
	return out
}

// DropShadowedGateways removes generic gateway hits that lie inside a
// specific gateway hit
func DropShadowedGateways(cands []detector.Candidate) []detector.Candidate {
	var specific []detector.Span
	for _, c := range cands {
		if c.Category == detector.InterfaceHint && c.Normalized == SpecificGateway {
			specific = append(specific, c.Span)
		}
	}
	if len(specific) == 0 {
		return cands
	}

	out := make([]detector.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Category == detector.InterfaceHint && c.Normalized == GenericGateway && shadowed(c.Span, specific) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func shadowed(span detector.Span, by []detector.Span) bool {
	for _, s := range by {
		if s.Contains(span) {
			return true
		}
	}
	return false
}

// ParseCategories turns user-supplied category names into an enabled map.
// An empty list or "all" enables everything. Unknown names are returned so
// the caller can report them.
func ParseCategories(names []string) (map[detector.Category]bool, []string) {
	enabled := make(map[detector.Category]bool)
	var unknown []string

	if len(names) == 0 || (len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), "all")) {
		for _, c := range detector.AllCategories() {
			enabled[c] = true
		}
		return enabled, nil
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "all") {
			for _, c := range detector.AllCategories() {
				enabled[c] = true
			}
			continue
		}
		c, ok := detector.ParseCategory(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		enabled[c] = true
	}
	return enabled, unknown
}

// BuildScannerSet creates the scanners for every enabled category. A nil
// enabled map enables all categories; a nil vocab uses the defaults.
// QuotedNameCandidate has no scanner here: quoted blocks are handled by
// the extraction engine.
func BuildScannerSet(enabled map[detector.Category]bool, vocab *Vocabulary) (*Set, error) {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	on := func(c detector.Category) bool {
		return enabled == nil || enabled[c]
	}
	spec := vocab.Spec
	aliasOpts := patterns.Options{ShortKeys: spec.ShortKeys, BoundedKeys: spec.BoundedKeys}

	var scanners []detector.Scanner
	if on(detector.NameCandidate) {
		scanners = append(scanners, NameScanner{})
	}
	if on(detector.OrganizationHint) {
		scanners = append(scanners, NewTokenScanner(detector.OrganizationHint, spec.OrganizationHints))
	}
	if on(detector.FacilityHint) {
		scanners = append(scanners, NewTokenScanner(detector.FacilityHint, spec.FacilityHints))
	}
	if on(detector.EngineHint) {
		scanners = append(scanners, NewAliasScanner(detector.EngineHint, vocab.Engines, aliasOpts))
	}
	if on(detector.RoleHint) {
		scanners = append(scanners, NewLiteralScanner(detector.RoleHint, vocab.Roles))
	}
	if on(detector.ZoneHint) {
		scanners = append(scanners, NewAliasScanner(detector.ZoneHint, vocab.Zones, aliasOpts))
	}
	if on(detector.InterfaceHint) {
		scanners = append(scanners, NewAliasScanner(detector.InterfaceHint, vocab.Interfaces, aliasOpts))
	}
	if on(detector.DeviceTypeHint) {
		scanners = append(scanners, NewDeviceTypeScanner(vocab.DeviceTypes, spec.BoundedDevices, spec.ISPTokens))
	}
	if on(detector.DeviceSubtypeHint) {
		sub, err := NewDeviceSubtypeScanner(vocab.DeviceSubtypes, AnchoredSubtypes)
		if err != nil {
			return nil, fmt.Errorf("building scanners: %w", err)
		}
		scanners = append(scanners, sub)
	}
	if on(detector.ServerClassHint) {
		scanners = append(scanners, NewEnumScanner(detector.ServerClassHint, spec.ServerClasses))
	}
	if on(detector.ServerTypeHint) {
		scanners = append(scanners, NewEnumScanner(detector.ServerTypeHint, spec.ServerTypes, BoundedWhen(NeverBounded)))
	}
	if on(detector.StateHint) {
		scanners = append(scanners, NewEnumScanner(detector.StateHint, spec.States, NormalizeWith(Capitalize)))
	}
	if on(detector.WorkloadHint) {
		scanners = append(scanners, NewEnumScanner(detector.WorkloadHint, spec.Workloads, BoundedWhen(IsAcronym)))
	}

	return NewSet(scanners...), nil
}
