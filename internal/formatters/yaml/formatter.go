// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"hintscan/internal/core"
	"hintscan/internal/formatters"
	"hintscan/internal/formatters/shared"
	"hintscan/internal/parallel"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML format output, same structure as JSON"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(results []core.DocumentResult, stats *parallel.ProcessingStats, options formatters.FormatterOptions) (string, error) {
	response := shared.ConvertToJSONFormat(results, stats, options)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(response); err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return buf.String(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
