// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hintscan/internal/core"
	"hintscan/internal/detector"
	"hintscan/internal/formatters"
	"hintscan/internal/fuzzy"
	"hintscan/internal/parallel"
	"hintscan/internal/source"
)

func sampleResults(t *testing.T) []core.DocumentResult {
	t.Helper()
	text := "은행 DMZ\noracle 서버"
	doc, err := source.ReadFrom("memo.txt", strings.NewReader(text))
	require.NoError(t, err)

	zone := detector.NewCandidate(text, detector.ZoneHint, detector.Span{Start: 7, End: 10}, "dmz")
	zone.Context = "은행 DMZ"
	return []core.DocumentResult{{
		Document: doc,
		Candidates: []detector.Candidate{
			zone,
			detector.NewCandidate(text, detector.EngineHint, detector.Span{Start: 11, End: 17}, "oracle"),
		},
		Entities: &fuzzy.EntityMatchResult{
			Organizations: []fuzzy.MatchResult{{Matched: "은행", Original: "은행", Confidence: 1, MatchType: fuzzy.MatchExact}},
			Decision:      fuzzy.DecisionProceed,
		},
	}}
}

func TestLineColumn(t *testing.T) {
	text := "은행 DMZ\noracle 서버"
	cases := []struct {
		offset    int
		line, col  int
	}{
		{0, 1, 1},
		{7, 1, 4},
		{11, 2, 1},
		{18, 2, 8},
		{-1, 1, 1},
		{999, 2, 10},
	}
	for _, tc := range cases {
		line, col := LineColumn(text, tc.offset)
		assert.Equal(t, tc.line, line, "offset %d", tc.offset)
		assert.Equal(t, tc.col, col, "offset %d", tc.offset)
	}
}

func TestConvertToJSONFormat(t *testing.T) {
	results := sampleResults(t)
	stats := &parallel.ProcessingStats{TotalDocuments: 1, TotalCandidates: 2, TotalDuration: 1500 * time.Millisecond, WorkerCount: 2}

	resp := ConvertToJSONFormat(results, stats, formatters.FormatterOptions{})
	require.Len(t, resp.Documents, 1)
	assert.Nil(t, resp.Summary)

	d := resp.Documents[0]
	assert.Equal(t, "memo.txt", d.Name)
	assert.Equal(t, "stdin", d.Format)
	require.Len(t, d.Candidates, 2)
	assert.Equal(t, JSONCandidate{Text: "DMZ", Category: "ZoneHint", Normalized: "dmz", Start: 7, End: 10, Line: 1, Column: 4}, d.Candidates[0])
	assert.Equal(t, 2, d.Candidates[1].Line)
	assert.Same(t, results[0].Entities, d.Entities)

	resp = ConvertToJSONFormat(results, stats, formatters.FormatterOptions{Verbose: true})
	require.NotNil(t, resp.Summary)
	assert.Equal(t, int64(1500), resp.Summary.DurationMS)
	assert.Equal(t, 2, resp.Summary.WorkerCount)
	assert.Equal(t, "은행 DMZ", resp.Documents[0].Candidates[0].Context)
}

func TestConvertToJSONFormatErrorDocument(t *testing.T) {
	resp := ConvertToJSONFormat([]core.DocumentResult{{Error: "boom"}}, nil, formatters.FormatterOptions{Verbose: true})
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "boom", resp.Documents[0].Error)
	assert.NotNil(t, resp.Documents[0].Candidates)
	assert.Nil(t, resp.Summary)
	assert.Nil(t, NewSummary(nil))
}

func TestCountCandidates(t *testing.T) {
	assert.Equal(t, 2, CountCandidates(sampleResults(t)))
	assert.Zero(t, CountCandidates(nil))
}
