// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGetCommandReadsNestedValue(t *testing.T) {
	path := writeTempYAML(t, "foo:\n  bar:\n    bozo: [to, be, or, not, to, be]\n")

	var out bytes.Buffer
	cmd := newGetCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path, "foo.bar.bozo.2"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "or")
}

func TestGetCommandMissingPathReportsNotFound(t *testing.T) {
	path := writeTempYAML(t, "a: 1\n")

	cmd := newGetCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{path, "nope"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestSetCommandWritesBackToFile(t *testing.T) {
	path := writeTempYAML(t, "foo:\n  bar: 1\n")

	cmd := newSetCmd()
	cmd.SetArgs([]string{path, "foo.bar", "42"})
	require.NoError(t, cmd.Execute())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "42")
}

func TestCoerceScalarTypes(t *testing.T) {
	require.Equal(t, 42, coerceScalar("42"))
	require.Equal(t, true, coerceScalar("true"))
	require.Equal(t, "hello", coerceScalar("hello"))
	require.InDelta(t, 3.5, coerceScalar("3.5"), 0.0001)
}

func TestBuildCommandAssemblesDocument(t *testing.T) {
	in := strings.NewReader("person.address.street=Elm St\nperson.firstName=J\n")
	dir := t.TempDir()
	out := filepath.Join(dir, "out.yaml")

	require.NoError(t, runBuild(in, out))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(raw)
	require.Contains(t, text, "street: Elm St")
	require.Contains(t, text, "firstName: J")
}

func TestBuildCommandRejectsMalformedLine(t *testing.T) {
	in := strings.NewReader("no-equals-sign\n")
	dir := t.TempDir()
	out := filepath.Join(dir, "out.yaml")

	err := runBuild(in, out)
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	require.False(t, cfg.Suppress)
	require.Equal(t, "yaml", cfg.Output)
}
