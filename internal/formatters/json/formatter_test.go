// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hintscan/internal/core"
	"hintscan/internal/detector"
	"hintscan/internal/formatters"
	"hintscan/internal/formatters/shared"
	"hintscan/internal/fuzzy"
	"hintscan/internal/source"
)

func TestFormat(t *testing.T) {
	text := "은행 DMZ"
	doc, err := source.ReadFrom("memo.txt", strings.NewReader(text))
	require.NoError(t, err)
	results := []core.DocumentResult{{
		Document:   doc,
		Candidates: []detector.Candidate{detector.NewCandidate(text, detector.ZoneHint, detector.Span{Start: 7, End: 10}, "dmz")},
		Entities:   &fuzzy.EntityMatchResult{Decision: fuzzy.DecisionReenter},
	}}

	out, err := NewFormatter().Format(results, nil, formatters.FormatterOptions{})
	require.NoError(t, err)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "ZoneHint", resp.Documents[0].Candidates[0].Category)
	assert.Contains(t, out, `"decision": "reenter"`)
}

func TestRegistered(t *testing.T) {
	f, ok := formatters.Get("json")
	require.True(t, ok)
	assert.Equal(t, ".json", f.FileExtension())
	assert.Equal(t, "application/json", formatters.GetFormatInfo("json").MimeType)
}
