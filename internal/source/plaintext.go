// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var textExtensions = map[string]bool{
	".txt": true, ".text": true, ".log": true, ".md": true, ".markdown": true, ".rst": true,
	".yaml": true, ".yml": true, ".json": true, ".xml": true, ".toml": true, ".ini": true,
	".conf": true, ".cfg": true, ".csv": true, ".tsv": true, ".jsonl": true, ".sql": true,
	".html": true, ".htm": true,
}

// isPlainText accepts known text extensions and, for anything else,
// files whose first bytes look like text
func isPlainText(path string) bool {
	if textExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return sniffText(path)
}

func readTextFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > MaxTextBytes {
		return nil, fmt.Errorf("%s: %w: %d bytes (max: %d bytes)", path, ErrTooLarge, info.Size(), MaxTextBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return newDocument(filepath.Base(path), FormatText, string(data)), nil
}

// sniffText reports whether the first 512 bytes contain no NUL byte and
// decode mostly to printable runes. Multi-byte UTF-8 counts as text.
func sniffText(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return false
	}
	buf = buf[:n]

	printable := 0
	for _, b := range buf {
		switch {
		case b == 0:
			return false
		case b >= 32 || b == '\t' || b == '\n' || b == '\r':
			printable++
		}
	}
	return float64(printable)/float64(len(buf)) > 0.95
}
