// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable interface for all components that need observability
type Observable interface {
	// GetComponentName returns the component identifier
	GetComponentName() string
}

// FromLevel maps the CLI switches onto an observability level
func FromLevel(verbose, debug bool) ObservabilityLevel {
	switch {
	case debug:
		return ObservabilityDebug
	case verbose:
		return ObservabilityMetrics
	default:
		return ObservabilityOff
	}
}
