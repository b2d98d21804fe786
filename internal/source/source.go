// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package source loads documents to scan: plain text files, PDFs, and
// standard input. Every loaded text is valid UTF-8 in NFC form so spans
// computed on it are stable.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"hintscan/internal/observability"
	"hintscan/internal/paths"
)

const (
	// MaxTextBytes caps the size of any loaded document
	MaxTextBytes = 100 * 1024 * 1024
	// MaxPDFPages caps how many PDF pages are read
	MaxPDFPages = 50
)

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrTooLarge    = errors.New("document too large")
)

// Format names the loader that produced a Document
type Format string

const (
	FormatText  Format = "text"
	FormatPDF   Format = "pdf"
	FormatStdin Format = "stdin"
)

// Document is one loaded input
type Document struct {
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Format    Format `json:"format" yaml:"format"`
	Text      string `json:"-" yaml:"-"`
	PageCount int    `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	WordCount int    `json:"word_count" yaml:"word_count"`
	LineCount int    `json:"line_count" yaml:"line_count"`
}

// Loader reads documents from disk
type Loader struct {
	observer *observability.StandardObserver
}

func NewLoader(observer *observability.StandardObserver) *Loader {
	return &Loader{observer: observer}
}

// Load reads path, picking the PDF or plain-text reader by extension and
// content
func (l *Loader) Load(path string) (*Document, error) {
	if err := paths.ValidatePath(path); err != nil {
		return nil, err
	}
	clean := filepath.Clean(path)

	finish := l.observer.StartTiming("source", "load", clean)
	var finishStep func(bool, string)
	if debug := l.observer.Debug(); debug != nil {
		finishStep = debug.StartStep("source", "load", clean)
	}

	var (
		doc *Document
		err error
	)
	switch {
	case strings.EqualFold(filepath.Ext(clean), ".pdf"):
		doc, err = readPDF(clean)
	case isPlainText(clean):
		doc, err = readTextFile(clean)
	default:
		err = fmt.Errorf("%s: %w", clean, ErrUnsupported)
	}

	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		if finishStep != nil {
			finishStep(false, err.Error())
		}
		return nil, err
	}

	doc.Path = clean
	doc.Name = filepath.Base(clean)
	finish(true, map[string]interface{}{"content_length": len(doc.Text), "word_count": doc.WordCount})
	if finishStep != nil {
		finishStep(true, fmt.Sprintf("loaded %s: %d words, %d lines", doc.Format, doc.WordCount, doc.LineCount))
	}
	return doc, nil
}

// LoadAll loads files concurrently with at most workers readers. Results
// keep the order of files; the first error cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, files []string, workers int) ([]*Document, error) {
	docs := make([]*Document, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := l.Load(p)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ReadFrom loads a document from r, for example standard input
func ReadFrom(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxTextBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxTextBytes {
		return nil, fmt.Errorf("%s: %w (max: %d bytes)", name, ErrTooLarge, MaxTextBytes)
	}
	return newDocument(name, FormatStdin, string(data)), nil
}

// Normalize returns text as valid UTF-8 in NFC form
func Normalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	return norm.NFC.String(text)
}

func newDocument(name string, format Format, text string) *Document {
	text = Normalize(text)
	return &Document{
		Name:      name,
		Format:    format,
		Text:      text,
		WordCount: len(strings.Fields(text)),
		LineCount: strings.Count(text, "\n") + 1,
	}
}
