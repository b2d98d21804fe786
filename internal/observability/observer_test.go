// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimingDebugWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityDebug, &buf)

	finish := o.StartTiming("extract", "extract", "stdin")
	finish(true, map[string]interface{}{"match_count": 3, "content_length": 42})

	var data StandardObservabilityData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "extract", data.Component)
	assert.Equal(t, "stdin", data.Source)
	assert.Equal(t, 3, data.MatchCount)
	assert.Equal(t, 42, data.ContentLength)
	assert.True(t, data.Success)
	assert.True(t, strings.HasPrefix(data.RequestID, "req-"))
}

func TestMetricsLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityMetrics, &buf)
	o.StartTiming("fuzzy", "match_entities", "")(true, nil)
	assert.Zero(t, buf.Len())
}

func TestNilObserverIsNoop(t *testing.T) {
	var o *StandardObserver
	assert.Equal(t, ObservabilityOff, o.Level())
	assert.Nil(t, o.Debug())
	o.StartTiming("a", "b", "c")(true, nil)
	o.LogOperation(StandardObservabilityData{Component: "a"})

	var d *DebugObserver
	d.StartStep("a", "b", "c")(true, "")
	d.LogDetail("a", "b")
	d.LogMetric("a", "b", 1)
}

func TestDebugWithoutWriterDowngrades(t *testing.T) {
	o := NewStandardObserver(ObservabilityDebug, nil)
	assert.Equal(t, ObservabilityMetrics, o.Level())
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)
	require.Same(t, d, d.StandardObserver.Debug())

	done := d.StartStep("engine", "scan", "doc.txt")
	d.LogDetail("engine", "13 scanners")
	d.LogMetric("engine", "candidates", 7)
	done(true, "ok")

	out := buf.String()
	assert.Contains(t, out, "🔄 engine: scan (doc.txt)")
	assert.Contains(t, out, "  ")
	assert.Contains(t, out, "→ engine: 13 scanners")
	assert.Contains(t, out, "📊 engine: candidates = 7")
	assert.Contains(t, out, "✅ engine: scan completed")

	d.StartStep("engine", "load", "x")(false, "boom")
	assert.Contains(t, buf.String(), "❌ engine: load failed")
}

func TestFromLevel(t *testing.T) {
	assert.Equal(t, ObservabilityDebug, FromLevel(true, true))
	assert.Equal(t, ObservabilityMetrics, FromLevel(true, false))
	assert.Equal(t, ObservabilityOff, FromLevel(false, false))
	assert.Equal(t, "debug", ObservabilityDebug.String())
	assert.Equal(t, "off", ObservabilityOff.String())
}
