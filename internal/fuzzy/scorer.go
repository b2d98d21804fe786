// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer rates the similarity of two strings on a 0-100 scale
type Scorer func(a, b string) float64

// DefaultScorer is the weighted ratio used when no scorer is configured
var DefaultScorer Scorer = WeightedRatio

// Ratio is the normalized rune edit similarity of a and b
func Ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// PartialRatio is the best Ratio of the shorter string against every
// equally long window of the longer one
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares a and b after sorting their whitespace tokens
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// WeightedRatio blends Ratio, PartialRatio and TokenSortRatio. Partial
// matches count for less the more the lengths differ.
func WeightedRatio(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}

	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	base := Ratio(a, b)
	tokens := TokenSortRatio(a, b) * 0.95
	if lenRatio < 1.5 {
		return max(base, tokens)
	}

	scale := 0.9
	if lenRatio >= 8 {
		scale = 0.6
	}
	return max(base, PartialRatio(a, b)*scale, tokens*scale)
}
