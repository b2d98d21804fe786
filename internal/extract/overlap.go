// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"sort"

	"hintscan/internal/detector"
)

type bucketKey struct {
	category   detector.Category
	normalized string
}

// PruneOverlaps keeps, per (category, normalized) group, the longest
// non-overlapping spans. Only candidates whose category is listed take
// part; when normalizedAllow is non-nil their normalized value must be in
// it too. Everything else passes through untouched.
func PruneOverlaps(cands []detector.Candidate, categories []detector.Category, normalizedAllow []string) []detector.Candidate {
	selected := make(map[detector.Category]bool, len(categories))
	for _, c := range categories {
		selected[c] = true
	}
	var allow map[string]bool
	if normalizedAllow != nil {
		allow = make(map[string]bool, len(normalizedAllow))
		for _, n := range normalizedAllow {
			allow[n] = true
		}
	}

	var others []detector.Candidate
	buckets := make(map[bucketKey][]detector.Candidate)
	var order []bucketKey

	for _, c := range cands {
		if !selected[c.Category] || (allow != nil && !allow[c.Normalized]) {
			others = append(others, c)
			continue
		}
		key := bucketKey{c.Category, c.Normalized}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], c)
	}

	out := others
	for _, key := range order {
		out = append(out, longestFirst(buckets[key])...)
	}
	return out
}

func longestFirst(group []detector.Candidate) []detector.Candidate {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i].Span, group[j].Span
		if a.Len() != b.Len() {
			return a.Len() > b.Len()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	var kept []detector.Candidate
	for _, c := range group {
		clash := false
		for _, k := range kept {
			if c.Span.Overlaps(k.Span) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, c)
		}
	}
	return kept
}

type dedupeKey struct {
	category detector.Category
	span     detector.Span
	value    string
}

// Dedupe collapses candidates sharing category, span and value. The last
// duplicate wins; output keeps the position of the first.
func Dedupe(cands []detector.Candidate) []detector.Candidate {
	index := make(map[dedupeKey]int, len(cands))
	out := make([]detector.Candidate, 0, len(cands))
	for _, c := range cands {
		key := dedupeKey{c.Category, c.Span, c.Value()}
		if i, ok := index[key]; ok {
			out[i] = c
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}
	return out
}
