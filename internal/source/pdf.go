// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts page text row by row, top to bottom. Pages are joined
// by a blank line; pages that fail to decode are skipped.
func readPDF(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > MaxPDFPages {
		pages = MaxPDFPages
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	if buf.Len() > MaxTextBytes {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}

	doc := newDocument(filepath.Base(path), FormatPDF, buf.String())
	doc.PageCount = pages
	return doc, nil
}

// pageText rebuilds lines from positioned text runs, falling back to the
// plain text stream when rows are unavailable
func pageText(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	kept := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			kept = append(kept, row)
		}
	}
	// PDF y grows upwards
	sort.SliceStable(kept, func(i, j int) bool {
		return averageY(kept[i].Content) > averageY(kept[j].Content)
	})

	var lines []string
	for _, row := range kept {
		if line := strings.TrimSpace(rowText(row.Content)); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func averageY(texts []pdf.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	var total float64
	for _, t := range texts {
		total += t.Y
	}
	return total / float64(len(texts))
}

// rowText joins runs left to right, inserting a space where the gap
// between runs is wider than a fifth of the font size
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		size := t.FontSize
		if size <= 0 {
			size = 12
		}
		if gap := sorted[i+1].X - (t.X + t.W); gap > size*0.2 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
