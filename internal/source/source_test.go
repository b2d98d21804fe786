// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"hintscan/internal/observability"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadPlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "request.txt", []byte("은행 의왕센터 구성도\n내부망 PG 서버"))

	doc, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "request.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, 6, doc.WordCount)
	assert.Equal(t, 2, doc.LineCount)
}

func TestLoadNormalizesToNFC(t *testing.T) {
	dir := t.TempDir()
	decomposed := norm.NFD.String("의왕센터")
	path := writeFile(t, dir, "nfd.txt", []byte(decomposed))

	doc, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "의왕센터", doc.Text)
}

func TestLoadDropsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.txt", []byte("ab\xffcd"))

	doc, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abcd", doc.Text)
}

func TestLoadSniffsExtensionlessFiles(t *testing.T) {
	dir := t.TempDir()
	text := writeFile(t, dir, "NOTES", []byte("plain words 한글"))
	binary := writeFile(t, dir, "blob", []byte{0x7f, 0x45, 0x00, 0x01})

	loader := NewLoader(nil)
	_, err := loader.Load(text)
	require.NoError(t, err)

	_, err = loader.Load(binary)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestLoadBrokenPDF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", []byte("not a pdf"))
	_, err := NewLoader(nil).Load(path)
	assert.ErrorContains(t, err, "error opening PDF")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestLoadAllKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		files = append(files, writeFile(t, dir, name, []byte(strings.TrimSuffix(name, ".txt"))))
	}

	docs, err := NewLoader(nil).LoadAll(context.Background(), files, 2)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	for i, doc := range docs {
		assert.Equal(t, files[i], doc.Path)
	}
	assert.Equal(t, "c", docs[2].Text)
}

func TestLoadAllStopsOnError(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "ok.txt", []byte("ok")), filepath.Join(dir, "missing.txt")}

	docs, err := NewLoader(nil).LoadAll(context.Background(), files, 0)
	assert.Error(t, err)
	assert.Nil(t, docs)
}

func TestReadFrom(t *testing.T) {
	doc, err := ReadFrom("stdin", strings.NewReader(norm.NFD.String("안성 DMZ망")))
	require.NoError(t, err)
	assert.Equal(t, FormatStdin, doc.Format)
	assert.Equal(t, "안성 DMZ망", doc.Text)
	assert.Equal(t, 2, doc.WordCount)
}

func TestLoadLogsThroughObserver(t *testing.T) {
	var buf bytes.Buffer
	debug := observability.NewDebugObserver(&buf)
	path := writeFile(t, t.TempDir(), "x.md", []byte("# title"))

	_, err := NewLoader(debug.StandardObserver).Load(path)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"component":"source"`)
}
