// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	assert.Equal(t, filepath.Clean(dir), GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
}

func TestConfigDirFromXDG(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("AppData", xdg)

	dir := GetConfigDir()
	assert.Equal(t, "hintscan", filepath.Base(dir))
}

func TestNormalizePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	assert.Equal(t, filepath.Join(home, "docs"), NormalizePath("~/docs"))
	assert.Equal(t, filepath.Clean("a/b"), NormalizePath("a//b/"))
	assert.Empty(t, NormalizePath(""))
}

func TestValidatePath(t *testing.T) {
	require.NoError(t, ValidatePath(""))
	require.NoError(t, ValidatePath("notes/한글.txt"))

	err := ValidatePath("bad\x00name")
	var pathErr *PathValidationError
	require.True(t, errors.As(err, &pathErr))
	assert.Contains(t, err.Error(), "null byte")
}
