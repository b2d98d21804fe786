// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package hints

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hintscan/internal/detector"
	"hintscan/internal/patterns"
)

type found struct {
	text       string
	normalized string
}

func collect(cands []detector.Candidate) []found {
	out := make([]found, 0, len(cands))
	for _, c := range cands {
		out = append(out, found{c.Text, c.Normalized})
	}
	return out
}

func assertSpansValid(t *testing.T, text string, cands []detector.Candidate) {
	t.Helper()
	for _, c := range cands {
		require.True(t, c.Span.Valid(len(text)), "span %v out of range", c.Span)
		assert.Equal(t, text[c.Span.Start:c.Span.End], c.Text)
	}
}

func TestTokenScanner(t *testing.T) {
	text := "은행 의왕센터 구성도"

	org := NewTokenScanner(detector.OrganizationHint, []string{"은행", "중앙회"})
	fac := NewTokenScanner(detector.FacilityHint, []string{"의왕", "안성", "AWS"})

	orgs := org.Scan(text)
	facs := fac.Scan(text)
	assertSpansValid(t, text, orgs)
	assertSpansValid(t, text, facs)

	assert.Equal(t, []found{{"은행", "은행"}}, collect(orgs))
	assert.Equal(t, []found{{"의왕", "의왕"}}, collect(facs))
	assert.Equal(t, detector.OrganizationHint, org.Category())

	assert.Empty(t, org.Scan("우리은행"))
	assert.Empty(t, NewTokenScanner(detector.OrganizationHint, []string{" "}).Scan("은행"))
}

func TestZoneAliasScanner(t *testing.T) {
	vocab := DefaultVocabulary()
	s := NewAliasScanner(detector.ZoneHint, vocab.Zones, patterns.Options{})
	text := "내부망과 DMZ망 구간"

	cands := s.Scan(text)
	assertSpansValid(t, text, cands)
	assert.ElementsMatch(t, []found{
		{"내부망", "internal"},
		{"DMZ", "dmz"},
		{"DMZ망", "external"},
	}, collect(cands))
}

func TestEngineAliasScanner(t *testing.T) {
	vocab := DefaultVocabulary()
	s := NewAliasScanner(detector.EngineHint, vocab.Engines, patterns.Options{ShortKeys: vocab.Spec.ShortKeys})

	tests := []struct {
		text string
		want []found
	}{
		{"PG 이중화", []found{{"PG", "postgres"}}},
		{"p g", []found{{"p g", "postgres"}}},
		{"p-g", []found{{"p-g", "postgres"}}},
		{"spg", nil},
		{"Oracle RAC, ORCL", []found{{"Oracle", "oracle"}, {"ORCL", "oracle"}}},
		{"sql server", []found{{"sql server", "mssql"}}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := s.Scan(tt.text)
			assertSpansValid(t, tt.text, got)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.ElementsMatch(t, tt.want, collect(got))
		})
	}
}

func TestGatewayShadowing(t *testing.T) {
	vocab := DefaultVocabulary()
	s := NewAliasScanner(detector.InterfaceHint, vocab.Interfaces, patterns.Options{})
	text := "API GW 연동"

	raw := s.Scan(text)
	assert.ElementsMatch(t, []found{{"API GW", SpecificGateway}, {"I GW", GenericGateway}}, collect(raw))

	filtered := DropShadowedGateways(raw)
	assert.Equal(t, []found{{"API GW", SpecificGateway}}, collect(filtered))

	other := s.Scan("internal gateway 경유")
	assert.Equal(t, []found{{"internal gateway", GenericGateway}}, collect(DropShadowedGateways(other)))
}

func TestBareGatewayNeedsWordBoundary(t *testing.T) {
	set, err := BuildScannerSet(map[detector.Category]bool{detector.InterfaceHint: true}, nil)
	require.NoError(t, err)

	for _, text := range []string{"BIGWAVE 배치", "digwall", "igw연동"} {
		assert.Empty(t, set.Scan(text), text)
	}

	text := "igw 연동, IGW/NGW"
	cands := set.Scan(text)
	assertSpansValid(t, text, cands)
	assert.ElementsMatch(t, []found{
		{"igw", GenericGateway},
		{"IGW", GenericGateway},
		{"NGW", "NGW"},
	}, collect(cands))
}

func TestRoleScanner(t *testing.T) {
	s := NewLiteralScanner(detector.RoleHint, DefaultVocabulary().Roles)
	text := "Standby DB와 백업 서버, gold copy"

	cands := s.Scan(text)
	assertSpansValid(t, text, cands)
	assert.ElementsMatch(t, []found{
		{"Standby", "GoldCopy"},
		{"백업", "backup"},
		{"gold copy", "GoldCopy"},
	}, collect(cands))
	assert.Empty(t, s.Scan(""))
}

func TestEnumScanners(t *testing.T) {
	spec := DefaultVocabularySpec()

	t.Run("server class needs boundaries", func(t *testing.T) {
		s := NewEnumScanner(detector.ServerClassHint, spec.ServerClasses)
		assert.Equal(t, []found{{"AP", "AP"}}, collect(s.Scan("AP 서버 WAS01 DB서버")))
	})

	t.Run("state is capitalized", func(t *testing.T) {
		s := NewEnumScanner(detector.StateHint, spec.States, NormalizeWith(Capitalize))
		text := "ACTIVE/STANDBY 구성"
		got := s.Scan(text)
		assertSpansValid(t, text, got)
		assert.ElementsMatch(t, []found{{"ACTIVE", "Active"}, {"STANDBY", "Standby"}}, collect(got))
	})

	t.Run("server type matches anywhere", func(t *testing.T) {
		s := NewEnumScanner(detector.ServerTypeHint, spec.ServerTypes, BoundedWhen(NeverBounded))
		got := s.Scan("베어메탈서버와 IaaS")
		assert.ElementsMatch(t, []found{{"베어메탈", "베어메탈"}, {"IaaS", "IaaS"}}, collect(got))
	})

	t.Run("workload acronyms only bounded", func(t *testing.T) {
		s := NewEnumScanner(detector.WorkloadHint, spec.Workloads, BoundedWhen(IsAcronym))
		assert.Equal(t, []found{{"인증", "인증"}}, collect(s.Scan("CA인증")))
		assert.ElementsMatch(t, []found{{"카드", "카드"}, {"CA", "CA"}, {"발급공통", "발급공통"}}, collect(s.Scan("카드 CA 발급공통")))
	})
}

func TestCapitalizeAndAcronym(t *testing.T) {
	assert.Equal(t, "Standby", Capitalize("STANDBY"))
	assert.Equal(t, "", Capitalize(""))
	assert.True(t, IsAcronym("CA"))
	assert.True(t, IsAcronym("ABCD"))
	assert.False(t, IsAcronym("ABCDE"))
	assert.False(t, IsAcronym("인증"))
}

func TestDeviceTypeScanner(t *testing.T) {
	spec := DefaultVocabularySpec()
	s := NewDeviceTypeScanner(DefaultVocabulary().DeviceTypes, spec.BoundedDevices, spec.ISPTokens)

	t.Run("literals and bounded tokens", func(t *testing.T) {
		text := "내부 방화벽과 L3 스위치, RT01 그리고 rt 장비"
		got := s.Scan(text)
		assertSpansValid(t, text, got)
		assert.ElementsMatch(t, []found{{"방화벽", "Firewall"}, {"스위치", "Switch"}, {"rt", "Router"}}, collect(got))
	})

	t.Run("concatenated isp line", func(t *testing.T) {
		text := "SK회선 장애"
		got := s.Scan(text)
		assertSpansValid(t, text, got)
		assert.ElementsMatch(t, []found{{"SK회선", LineCanonical}, {"회선", LineCanonical}}, collect(got))
	})

	t.Run("standalone isp near line context", func(t *testing.T) {
		text := "KT 전용 구간, 회선 점검"
		got := s.Scan(text)
		assertSpansValid(t, text, got)
		assert.ElementsMatch(t, []found{{"KT", LineCanonical}, {"회선", LineCanonical}}, collect(got))
	})

	t.Run("isp without context", func(t *testing.T) {
		assert.Empty(t, s.Scan("LG 에어컨 교체"))
	})
}

func TestDeviceSubtypeScanner(t *testing.T) {
	s, err := NewDeviceSubtypeScanner(DefaultVocabulary().DeviceSubtypes, AnchoredSubtypes)
	require.NoError(t, err)

	text := "내부 라우터 L3 장비"
	got := s.Scan(text)
	assertSpansValid(t, text, got)
	assert.ElementsMatch(t, []found{{"내부", "internal"}, {"L3", "L3"}}, collect(got))

	assert.Empty(t, s.Scan("사내망 접속"), "subtype glued to other letters")
	assert.Empty(t, s.Scan("internal 서비스"), "generic subtype without a device anchor")

	irt := s.Scan("IRT-Router 교체")
	require.NotEmpty(t, irt)
	for _, c := range irt {
		assert.Equal(t, "IRT", c.Normalized)
	}

	empty, err := NewDeviceSubtypeScanner(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Scan("L3"))
}

func TestNameScanner(t *testing.T) {
	text := "host nbmcidloap01, db-primary_01 and 서버abcd"
	got := NameScanner{}.Scan(text)
	assertSpansValid(t, text, got)

	var names []string
	for _, c := range got {
		names = append(names, c.Text)
		assert.False(t, c.HasNormalized())
	}
	assert.Equal(t, []string{"host", "nbmcidloap01", "db-primary_01"}, names)
}

func TestParseCategories(t *testing.T) {
	all, unknown := ParseCategories(nil)
	assert.Len(t, all, len(detector.AllCategories()))
	assert.Empty(t, unknown)

	all, _ = ParseCategories([]string{" ALL "})
	assert.Len(t, all, len(detector.AllCategories()))

	some, unknown := ParseCategories([]string{"zonehint", " EngineHint ", "Bogus", ""})
	assert.Equal(t, map[detector.Category]bool{detector.ZoneHint: true, detector.EngineHint: true}, some)
	assert.Equal(t, []string{"Bogus"}, unknown)
}

func TestBuildScannerSet(t *testing.T) {
	set, err := BuildScannerSet(nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, set.Categories(), detector.QuotedNameCandidate)
	assert.Len(t, set.Scanners(), len(detector.AllCategories())-1)

	set, err = BuildScannerSet(map[detector.Category]bool{detector.ZoneHint: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []detector.Category{detector.ZoneHint}, set.Categories())

	cands := set.Scan("DMZ 구간의 pg")
	assert.Equal(t, []found{{"DMZ", "dmz"}}, collect(cands))
	assert.Nil(t, set.Scan(""))
}

func TestVocabularyCompile(t *testing.T) {
	spec := DefaultVocabularySpec()
	spec.Workloads = []string{" 카드 ", ""}
	vocab, err := spec.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"카드"}, vocab.Spec.Workloads)

	spec.Zones = append(spec.Zones, patterns.Entry{Canonical: "other", Aliases: []string{"내부망"}})
	_, err = spec.Compile()
	assert.True(t, errors.Is(err, patterns.ErrDuplicateAlias))
}

func TestVocabularyValues(t *testing.T) {
	spec := DefaultVocabularySpec()
	assert.Equal(t, []string{"postgres", "oracle", "mysql", "mssql", "tibero"}, spec.Values(detector.EngineHint))
	assert.Equal(t, []string{"은행", "중앙회"}, spec.Values(detector.OrganizationHint))
	assert.Contains(t, spec.Values(detector.ZoneHint), "internal_sdn")
	assert.Contains(t, spec.Values(detector.InterfaceHint), "API_GW")
	assert.Nil(t, spec.Values(detector.NameCandidate))
	assert.Nil(t, spec.Values(detector.QuotedNameCandidate))
}
