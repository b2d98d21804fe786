// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsWordRune reports whether r counts as a word character for boundary checks
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsHangulSyllable reports whether r is a precomposed Hangul syllable (가-힣)
func IsHangulSyllable(r rune) bool {
	return r >= '가' && r <= '힣'
}

// IsASCIIWordRune reports whether r is [0-9A-Za-z_]
func IsASCIIWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsHangulToken reports whether every rune of s is a Hangul syllable
func IsHangulToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsHangulSyllable(r) {
			return false
		}
	}
	return true
}

// RuneBefore returns the rune ending at byte offset pos, or false at the start of text
func RuneBefore(text string, pos int) (rune, bool) {
	if pos <= 0 || pos > len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return r, true
}

// RuneAt returns the rune starting at byte offset pos, or false at the end of text
func RuneAt(text string, pos int) (rune, bool) {
	if pos < 0 || pos >= len(text) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r, true
}

// OnWordBoundary reports whether [start, end) is flanked by non-word runes or text edges
func OnWordBoundary(text string, start, end int) bool {
	if r, ok := RuneBefore(text, start); ok && IsWordRune(r) {
		return false
	}
	if r, ok := RuneAt(text, end); ok && IsWordRune(r) {
		return false
	}
	return true
}

// ASCIILower lowercases ASCII letters only, so byte offsets stay aligned with s
func ASCIILower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

// FindBoundedLiteral returns every occurrence of word in text that sits on a
// word boundary. With fold set, ASCII letters compare case-insensitively.
// A rejected hit resumes the search one rune later, like a regex scan would.
func FindBoundedLiteral(text, word string, fold bool) [][2]int {
	if word == "" || text == "" {
		return nil
	}
	haystack := text
	if fold {
		haystack = ASCIILower(text)
		word = ASCIILower(word)
	}

	var hits [][2]int
	pos := 0
	for pos < len(haystack) {
		i := strings.Index(haystack[pos:], word)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(word)
		if OnWordBoundary(text, start, end) {
			hits = append(hits, [2]int{start, end})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		pos = start + size
	}
	return hits
}

// RuneWindow returns the byte range covering up to n runes either side of [start, end)
func RuneWindow(text string, start, end, n int) (int, int) {
	left := start
	for i := 0; i < n && left > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:left])
		left -= size
	}
	right := end
	for i := 0; i < n && right < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[right:])
		right += size
	}
	return left, right
}
