// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"regexp"
	"strings"

	"hintscan/internal/detector"
)

var nextSectionPattern = regexp.MustCompile(`\n\[[^\]]+\]`)

// SectionRange locates header in text and returns the range from the
// header to the next "\n[...]" line, or to the end of text
func SectionRange(text, header string) (detector.Span, bool) {
	if header == "" {
		return detector.Span{}, false
	}
	start := strings.Index(text, header)
	if start < 0 {
		return detector.Span{}, false
	}
	bodyStart := start + len(header)
	end := len(text)
	if loc := nextSectionPattern.FindStringIndex(text[bodyStart:]); loc != nil {
		end = bodyStart + loc[0]
	}
	return detector.Span{Start: start, End: end}, true
}
