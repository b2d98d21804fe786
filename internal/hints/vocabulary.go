// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	"fmt"
	"strings"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

// VocabularySpec is the raw, user-editable vocabulary. Alias tables are
// sequences so their declaration order survives YAML round trips.
type VocabularySpec struct {
	OrganizationHints []string         `yaml:"organization_hints"`
	FacilityHints     []string         `yaml:"facility_hints"`
	Zones             []patterns.Entry `yaml:"zones"`
	Engines           []patterns.Entry `yaml:"engines"`
	Interfaces        []patterns.Entry `yaml:"interfaces"`
	Roles             []patterns.Entry `yaml:"roles"`
	DeviceTypes       []patterns.Entry `yaml:"device_types"`
	DeviceSubtypes    []patterns.Entry `yaml:"device_subtypes"`
	ShortKeys         []string         `yaml:"short_keys"`
	BoundedKeys       []string         `yaml:"bounded_keys"`
	BoundedDevices    []string         `yaml:"bounded_device_tokens"`
	ISPTokens         []string         `yaml:"isp_tokens"`
	ServerClasses     []string         `yaml:"server_classes"`
	ServerTypes       []string         `yaml:"server_types"`
	States            []string         `yaml:"states"`
	Workloads         []string         `yaml:"workloads"`
}

// DefaultVocabularySpec returns the built-in infrastructure vocabulary
func DefaultVocabularySpec() VocabularySpec {
	return VocabularySpec{
		OrganizationHints: []string{"은행", "중앙회"},
		FacilityHints:     []string{"의왕", "안성", "AWS"},
		Zones: []patterns.Entry{
			{Canonical: "internal", Aliases: []string{"내부망", "업무망"}},
			{Canonical: "dmz"},
			{Canonical: "internal_sdn", Aliases: []string{"내부sdn", "내부 sdn", "sdn망", "내부SDN망"}},
			{Canonical: "external", Aliases: []string{"대외망", "외부망", "인터넷망", "대외", "DMZ망"}},
			{Canonical: "user", Aliases: []string{"사용자망", "유저망"}},
			{Canonical: "branch", Aliases: []string{"영업점망", "지점망"}},
		},
		Engines: []patterns.Entry{
			{Canonical: "postgres", Aliases: []string{"pg"}},
			{Canonical: "oracle", Aliases: []string{"orcl"}},
			{Canonical: "mysql"},
			{Canonical: "mssql", Aliases: []string{"sqlserver"}},
			{Canonical: "tibero"},
		},
		Interfaces: []patterns.Entry{
			{Canonical: "MFT"},
			{Canonical: "FOS"},
			{Canonical: "EAI"},
			{Canonical: "IGW", Aliases: []string{"internal gw", "internal gateway"}},
			{Canonical: "NGW"},
			{Canonical: "API_GW", Aliases: []string{"api gateway", "api g/w"}},
			{Canonical: "MCA"},
		},
		Roles: []patterns.Entry{
			{Canonical: "GoldCopy", Aliases: []string{"gold copy", "standby", "replica"}},
			{Canonical: "backup", Aliases: []string{"백업"}},
			{Canonical: "batch", Aliases: []string{"배치"}},
		},
		DeviceTypes: []patterns.Entry{
			{Canonical: "GSLB"},
			{Canonical: "Firewall", Aliases: []string{"fw", "방화벽"}},
			{Canonical: "Router", Aliases: []string{"rt", "라우터"}},
			{Canonical: "Switch", Aliases: []string{"sw", "스위치"}},
			{Canonical: LineCanonical, Aliases: []string{"라인", "회선", "전용회선", "망연계", "대외회선", "SK 브로드밴드", "LG 데이콤"}},
		},
		DeviceSubtypes: []patterns.Entry{
			{Canonical: "internal", Aliases: []string{"내부", "사내"}},
			{Canonical: "external", Aliases: []string{"외부"}},
			{Canonical: "L3", Aliases: []string{"layer3", "레이어3"}},
			{Canonical: "L4", Aliases: []string{"layer4", "레이어4"}},
			{Canonical: "IRT", Aliases: []string{"irt router", "irt-router"}},
			{Canonical: "ISW", Aliases: []string{"isw router", "isw-router"}},
		},
		ShortKeys:      []string{"pg"},
		BoundedKeys:    []string{"igw"},
		BoundedDevices: []string{"rt", "sw"},
		ISPTokens:      []string{"sk", "kt", "lg"},
		ServerClasses:  []string{"AP", "WEB", "WAS", "DB", "ETL"},
		ServerTypes:    []string{"IaaS", "PaaS", "베어메탈", "BareMetal"},
		States:         []string{"Active", "Standby", "ACTIVE", "STANDBY"},
		Workloads:      []string{"발급공통", "CA", "인증", "계정계", "카드"},
	}
}

// Vocabulary is a validated VocabularySpec ready for scanner construction
type Vocabulary struct {
	Spec VocabularySpec

	Zones          *patterns.AliasTable
	Engines        *patterns.AliasTable
	Interfaces     *patterns.AliasTable
	Roles          *patterns.AliasTable
	DeviceTypes    *patterns.AliasTable
	DeviceSubtypes *patterns.AliasTable
}

// Compile validates every alias table of the spec
func (v VocabularySpec) Compile() (*Vocabulary, error) {
	vocab := &Vocabulary{Spec: v.clean()}

	tables := []struct {
		name    string
		entries []patterns.Entry
		dst     **patterns.AliasTable
	}{
		{"zones", vocab.Spec.Zones, &vocab.Zones},
		{"engines", vocab.Spec.Engines, &vocab.Engines},
		{"interfaces", vocab.Spec.Interfaces, &vocab.Interfaces},
		{"roles", vocab.Spec.Roles, &vocab.Roles},
		{"device_types", vocab.Spec.DeviceTypes, &vocab.DeviceTypes},
		{"device_subtypes", vocab.Spec.DeviceSubtypes, &vocab.DeviceSubtypes},
	}
	for _, tbl := range tables {
		t, err := patterns.NewAliasTable(tbl.name, tbl.entries)
		if err != nil {
			return nil, fmt.Errorf("vocabulary: %w", err)
		}
		*tbl.dst = t
	}
	return vocab, nil
}

// DefaultVocabulary compiles DefaultVocabularySpec
func DefaultVocabulary() *Vocabulary {
	v, err := DefaultVocabularySpec().Compile()
	if err != nil {
		panic(err)
	}
	return v
}

// Values lists the canonical values the spec produces for category c.
// Free-form categories have none.
func (v VocabularySpec) Values(c detector.Category) []string {
	canonicals := func(entries []patterns.Entry) []string {
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Canonical)
		}
		return out
	}
	switch c {
	case detector.OrganizationHint:
		return cleanWords(v.OrganizationHints)
	case detector.FacilityHint:
		return cleanWords(v.FacilityHints)
	case detector.EngineHint:
		return canonicals(v.Engines)
	case detector.RoleHint:
		return canonicals(v.Roles)
	case detector.ZoneHint:
		return canonicals(v.Zones)
	case detector.InterfaceHint:
		return canonicals(v.Interfaces)
	case detector.DeviceTypeHint:
		return canonicals(v.DeviceTypes)
	case detector.DeviceSubtypeHint:
		return canonicals(v.DeviceSubtypes)
	case detector.ServerClassHint:
		return cleanWords(v.ServerClasses)
	case detector.ServerTypeHint:
		return cleanWords(v.ServerTypes)
	case detector.StateHint:
		return cleanWords(v.States)
	case detector.WorkloadHint:
		return cleanWords(v.Workloads)
	default:
		return nil
	}
}

// clean trims word lists and drops blanks
func (v VocabularySpec) clean() VocabularySpec {
	v.OrganizationHints = cleanWords(v.OrganizationHints)
	v.FacilityHints = cleanWords(v.FacilityHints)
	v.ShortKeys = cleanWords(v.ShortKeys)
	v.BoundedKeys = cleanWords(v.BoundedKeys)
	v.BoundedDevices = cleanWords(v.BoundedDevices)
	v.ISPTokens = cleanWords(v.ISPTokens)
	v.ServerClasses = cleanWords(v.ServerClasses)
	v.ServerTypes = cleanWords(v.ServerTypes)
	v.States = cleanWords(v.States)
	v.Workloads = cleanWords(v.Workloads)
	return v
}

func cleanWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
