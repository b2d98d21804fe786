// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import "sync"

// Cache keeps compiled engines keyed by vocabulary version
type Cache struct {
	mu      sync.RWMutex
	engines map[string]*Engine
}

func NewCache() *Cache {
	return &Cache{engines: make(map[string]*Engine)}
}

// Get returns the engine for version, building it on first use
func (c *Cache) Get(version string, build func() (*Engine, error)) (*Engine, error) {
	c.mu.RLock()
	e, ok := c.engines[version]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.engines[version]; ok {
		return e, nil
	}
	e, err := build()
	if err != nil {
		return nil, err
	}
	c.engines[version] = e
	return e, nil
}

// Len reports how many engines are cached
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.engines)
}
