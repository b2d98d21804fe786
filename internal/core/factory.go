// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"

	"hintscan/internal/config"
	"hintscan/internal/extract"
	"hintscan/internal/fuzzy"
	"hintscan/internal/observability"
)

// Factory builds engines and resolvers from a configuration. Engines are
// cached by a fingerprint of the settings that shape them, so repeated
// scans with the same vocabulary compile once.
type Factory struct {
	engines  *extract.Cache
	observer *observability.StandardObserver
}

func NewFactory(observer *observability.StandardObserver) *Factory {
	return &Factory{engines: extract.NewCache(), observer: observer}
}

// Engine returns the cached engine for cfg, compiling it on first use
func (f *Factory) Engine(cfg *config.Config) (*extract.Engine, error) {
	key, err := EngineKey(cfg)
	if err != nil {
		return nil, err
	}
	return f.engines.Get(key, func() (*extract.Engine, error) {
		return BuildEngine(cfg, f.observer)
	})
}

// Resolver builds a resolver for cfg. Resolvers are cheap and not cached.
func (f *Factory) Resolver(cfg *config.Config) (*fuzzy.Resolver, error) {
	return BuildResolver(cfg, f.observer)
}

// CachedEngines reports how many compiled engines the factory holds
func (f *Factory) CachedEngines() int {
	return f.engines.Len()
}

// EngineKey fingerprints the configuration fields an engine depends on
func EngineKey(cfg *config.Config) (string, error) {
	shape := struct {
		Categories   []string          `yaml:"categories"`
		ContextChars int               `yaml:"context_chars"`
		MaxDepth     int               `yaml:"max_depth"`
		Vocabulary   config.Vocabulary `yaml:"vocabulary"`
	}{cfg.Defaults.Categories, cfg.Defaults.ContextChars, cfg.Defaults.MaxDepth, cfg.Vocabulary}

	data, err := yaml.Marshal(shape)
	if err != nil {
		return "", fmt.Errorf("fingerprinting engine settings: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// BuildEngine compiles an extraction engine from cfg
func BuildEngine(cfg *config.Config, observer *observability.StandardObserver) (*extract.Engine, error) {
	vocab, err := cfg.Vocabulary.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile vocabulary: %w", err)
	}
	chars, depth := cfg.Defaults.ContextChars, cfg.Defaults.MaxDepth
	engine, err := extract.NewEngine(extract.Options{
		Vocabulary:   vocab,
		Categories:   cfg.EnabledCategories(),
		ContextChars: &chars,
		MaxDepth:     &depth,
		Observer:     observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction engine: %w", err)
	}
	return engine, nil
}

// BuildResolver creates an entity resolver from cfg
func BuildResolver(cfg *config.Config, observer *observability.StandardObserver) (*fuzzy.Resolver, error) {
	ask, auto := cfg.Thresholds.Ask, cfg.Thresholds.Auto
	resolver, err := fuzzy.NewResolver(fuzzy.Options{
		Organizations: cfg.Vocabulary.Organizations,
		Facilities:    cfg.Vocabulary.Facilities,
		AskThreshold:  &ask,
		AutoThreshold: &auto,
		Observer:      observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build entity resolver: %w", err)
	}
	return resolver, nil
}
