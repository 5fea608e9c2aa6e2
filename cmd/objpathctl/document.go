// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netascode/objpath"
)

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadDocument decodes the YAML file at path into a generic object
// graph (nested map[string]any / []any), the same "decode to
// interface{}, then path-walk it" shape objpath.PathWalker expects.
func loadDocument(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// marshalDocument renders doc as a YAML byte stream.
func marshalDocument(doc any) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return out, nil
}

// writeDocument re-encodes doc as YAML and overwrites path.
func writeDocument(path string, doc any) error {
	out, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// printValue renders v to w in the requested format ("yaml" or "json";
// anything else falls back to yaml).
func printValue(w io.Writer, v any, format string) error {
	switch format {
	case "json":
		return printJSON(w, v)
	default:
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, string(out))
		return err
	}
}

// newWalker builds a PathWalker from the resolved CLI configuration.
func newWalker(cfg *cliConfig) *objpath.PathWalker {
	mode := objpath.StrictDiscovery
	if cfg.Lenient {
		mode = objpath.LenientDiscovery
	}
	return objpath.NewPathWalker(cfg.Suppress, objpath.WithAccessorDiscovery(mode))
}
