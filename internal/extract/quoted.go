// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"hintscan/internal/detector"
)

const minQuotedRunes = 2

var quotedPattern = regexp.MustCompile(`"([^"\n]{1,120})"`)

// quoted emits a candidate for every double-quoted block and, below
// maxDepth, the candidates found inside it in outer coordinates
func (e *Engine) quoted(text string, depth, maxDepth int) []detector.Candidate {
	var out []detector.Candidate
	for _, loc := range quotedPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := trimmedRange(text, loc[2], loc[3])
		if utf8.RuneCountInString(text[start:end]) < minQuotedRunes {
			continue
		}
		inner := detector.Span{Start: start, End: end}

		if e.quotes {
			out = append(out, detector.NewCandidate(text, detector.QuotedNameCandidate, inner, ""))
		}
		if depth >= maxDepth {
			continue
		}
		for _, c := range e.extract(text[start:end], depth+1, maxDepth) {
			if c.Category == detector.QuotedNameCandidate {
				continue
			}
			c.Span = c.Span.Shift(start)
			out = append(out, c)
		}
	}
	return out
}

// trimmedRange narrows [start, end) past surrounding whitespace
func trimmedRange(text string, start, end int) (int, int) {
	s := text[start:end]
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	trail := len(s) - len(strings.TrimRightFunc(s, unicode.IsSpace))
	if lead == len(s) {
		return start, start
	}
	return start + lead, end - trail
}
