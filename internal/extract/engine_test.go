// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hintscan/internal/detector"
	"hintscan/internal/hints"
	"hintscan/internal/observability"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Options{})
	require.NoError(t, err)
	return e
}

func ofCategory(cands []detector.Candidate, cat detector.Category) []detector.Candidate {
	var out []detector.Candidate
	for _, c := range cands {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}

func requireSpansValid(t *testing.T, text string, cands []detector.Candidate) {
	t.Helper()
	for _, c := range cands {
		require.True(t, c.Span.Valid(len(text)), "%s span %v invalid for %d bytes", c.Category, c.Span, len(text))
		require.Equal(t, text[c.Span.Start:c.Span.End], c.Text)
	}
}

func TestExtractSpanCorrectness(t *testing.T) {
	e := newTestEngine(t)
	texts := []string{
		"은행 의왕센터 구성도",
		"내부망 L4 스위치 뒤 API GW, PG standby",
		`운영 "nbmcidloap01 DMZ망" 서버 ACTIVE/STANDBY`,
		"SK 회선과 KT 전용회선, IRT-Router 및 내부 방화벽",
		"IaaS 베어메탈 WAS DB ETL 카드 발급공통",
		"",
		"   ",
	}
	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			cands := e.Extract(text)
			require.NotNil(t, cands)
			requireSpansValid(t, text, cands)
			for _, c := range cands {
				assert.NotEmpty(t, c.Context)
				assert.Contains(t, c.Context, c.Text)
			}
		})
	}
}

func TestExtractOrdering(t *testing.T) {
	cands := newTestEngine(t).Extract("DMZ 구간 pg 그리고 MFT")
	for i := 1; i < len(cands); i++ {
		prev, cur := cands[i-1].Span, cands[i].Span
		assert.True(t, prev.Start < cur.Start || (prev.Start == cur.Start && prev.End <= cur.End))
	}
}

func TestExtractGatewayLongestWins(t *testing.T) {
	cands := newTestEngine(t).Extract("API GW 연동 구간")
	ifaces := ofCategory(cands, detector.InterfaceHint)

	require.Len(t, ifaces, 1)
	assert.Equal(t, "API_GW", ifaces[0].Normalized)
	assert.Equal(t, "API GW", ifaces[0].Text)
}

func TestExtractEngineAliases(t *testing.T) {
	e := newTestEngine(t)
	for _, text := range []string{"PG", "p g", "p-g"} {
		engines := ofCategory(e.Extract(text), detector.EngineHint)
		require.Len(t, engines, 1, text)
		assert.Equal(t, "postgres", engines[0].Normalized)
	}
	assert.Empty(t, ofCategory(e.Extract("spg"), detector.EngineHint))
}

func TestExtractZonePruning(t *testing.T) {
	zones := ofCategory(newTestEngine(t).Extract("내부SDN망 구간"), detector.ZoneHint)

	require.Len(t, zones, 1)
	assert.Equal(t, "internal_sdn", zones[0].Normalized)
	assert.Equal(t, "내부SDN망", zones[0].Text)
}

func TestExtractLinePruning(t *testing.T) {
	devices := ofCategory(newTestEngine(t).Extract("SK회선 장애"), detector.DeviceTypeHint)

	require.Len(t, devices, 1)
	assert.Equal(t, "SK회선", devices[0].Text)
	assert.Equal(t, hints.LineCanonical, devices[0].Normalized)
}

func TestExtractQuotedBlocks(t *testing.T) {
	e := newTestEngine(t)
	text := `서버명 "nbmcidloap01 pg" 확인, 구간 " DMZ망 " 그리고 "a"`
	cands := e.Extract(text)
	requireSpansValid(t, text, cands)

	quoted := ofCategory(cands, detector.QuotedNameCandidate)
	require.Len(t, quoted, 2)
	assert.Equal(t, "nbmcidloap01 pg", quoted[0].Text)
	assert.Equal(t, "DMZ망", quoted[1].Text)
	assert.False(t, quoted[0].HasNormalized())

	assert.Len(t, ofCategory(cands, detector.NameCandidate), 1)
	assert.Len(t, ofCategory(cands, detector.EngineHint), 1)
}

type recordingScanner struct {
	seen *[]string
}

func (recordingScanner) Category() detector.Category { return detector.NameCandidate }

// Scan reports "part" only when text holds no quotes, i.e. inside a block
func (r recordingScanner) Scan(text string) []detector.Candidate {
	*r.seen = append(*r.seen, text)
	if strings.Contains(text, `"`) {
		return nil
	}
	i := strings.Index(text, "part")
	if i < 0 {
		return nil
	}
	return []detector.Candidate{detector.NewCandidate(text, detector.NameCandidate, detector.Span{Start: i, End: i + 4}, "")}
}

func TestRecursionBound(t *testing.T) {
	var seen []string
	e, err := NewEngine(Options{Scanners: []detector.Scanner{recordingScanner{seen: &seen}}})
	require.NoError(t, err)
	text := `outer "inner part" tail`

	cands := e.ExtractDepth(text, 0)
	assert.Equal(t, []string{text}, seen)
	assert.Empty(t, ofCategory(cands, detector.NameCandidate))
	assert.Len(t, ofCategory(cands, detector.QuotedNameCandidate), 1)

	seen = nil
	cands = e.Extract(text)
	assert.Equal(t, []string{text, "inner part"}, seen)
	names := ofCategory(cands, detector.NameCandidate)
	require.Len(t, names, 1)
	assert.Equal(t, "part", text[names[0].Span.Start:names[0].Span.End])
	assert.Len(t, ofCategory(cands, detector.QuotedNameCandidate), 1)

	seen = nil
	e.ExtractDepth(text, 100)
	assert.Equal(t, []string{text, "inner part"}, seen)
}

func TestNewEngineOptions(t *testing.T) {
	e, err := NewEngine(Options{MaxDepth: intPtr(9), ContextChars: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, MaxRecursionDepth, e.MaxDepth())
	assert.Equal(t, "extract", e.GetComponentName())

	_, err = NewEngine(Options{ContextChars: intPtr(detector.MaxContextChars + 1)})
	assert.True(t, errors.Is(err, ErrInvalidOptions))
	_, err = NewEngine(Options{MaxDepth: intPtr(-1)})
	assert.True(t, errors.Is(err, ErrInvalidOptions))

	e, err = NewEngine(Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, e.MaxDepth())
}

func intPtr(v int) *int {
	return &v
}

func TestExplicitZeroDepthAndContext(t *testing.T) {
	var seen []string
	e, err := NewEngine(Options{
		MaxDepth:     intPtr(0),
		ContextChars: intPtr(0),
		Scanners:     []detector.Scanner{recordingScanner{seen: &seen}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, e.MaxDepth())

	text := `outer "inner part" tail`
	cands := e.Extract(text)
	assert.Equal(t, []string{text}, seen)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.Equal(t, c.Text, c.Context)
	}
}

func TestEngineCategoryFilter(t *testing.T) {
	e, err := NewEngine(Options{Categories: map[detector.Category]bool{detector.EngineHint: true}})
	require.NoError(t, err)
	assert.Equal(t, []detector.Category{detector.EngineHint}, e.Categories())

	cands := e.Extract(`"oracle db" 와 DMZ`)
	require.Len(t, cands, 1)
	assert.Equal(t, detector.EngineHint, cands[0].Category)
	assert.Equal(t, "oracle", cands[0].Normalized)
}

func TestEngineLogsThroughObserver(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEngine(Options{Observer: observability.NewStandardObserver(observability.ObservabilityDebug, &buf)})
	require.NoError(t, err)

	e.Extract("pg")
	assert.Contains(t, buf.String(), `"component":"extract"`)
	assert.Contains(t, buf.String(), `"match_count":1`)
}

func TestExtractSection(t *testing.T) {
	e := newTestEngine(t)
	text := "[개요]\nDMZ 구간\n[DB]\npg standby\n[기타]\nMFT"

	span, ok := SectionRange(text, "[DB]")
	require.True(t, ok)
	assert.Equal(t, "[DB]\npg standby", text[span.Start:span.End])

	cands := e.ExtractSection(text, "[DB]")
	requireSpansValid(t, text, cands)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.True(t, span.Contains(c.Span))
	}
	assert.Len(t, ofCategory(cands, detector.EngineHint), 1)
	assert.Empty(t, ofCategory(cands, detector.ZoneHint))

	last, ok := SectionRange(text, "[기타]")
	require.True(t, ok)
	assert.Equal(t, len(text), last.End)

	_, ok = SectionRange(text, "[없음]")
	assert.False(t, ok)
	assert.Nil(t, e.ExtractSection(text, "[없음]"))
	_, ok = SectionRange(text, "")
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	c := NewCache()
	builds := 0
	build := func() (*Engine, error) {
		builds++
		return NewEngine(Options{})
	}

	a, err := c.Get("v1", build)
	require.NoError(t, err)
	b, err := c.Get("v1", build)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get("bad", func() (*Engine, error) { return nil, ErrInvalidOptions })
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, 1, c.Len())
}

func FuzzExtractSpans(f *testing.F) {
	for _, seed := range []string{
		"은행 의왕센터 구성도",
		`"내부망 "pg" 망연계"`,
		"API G/W internal gateway",
		"sk line kt 회선 lg",
		"\xff\xfe pg \"\xc3\"",
	} {
		f.Add(seed)
	}
	e, err := NewEngine(Options{})
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, text string) {
		for _, c := range e.Extract(text) {
			if !c.Span.Valid(len(text)) {
				t.Fatalf("%s span %v invalid for %q", c.Category, c.Span, text)
			}
			if text[c.Span.Start:c.Span.End] != c.Text {
				t.Fatalf("%s text %q does not match span %v", c.Category, c.Text, c.Span)
			}
		}
	})
}
