// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netascode/objpath"
)

func init() {
	rootCmd.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <output-file>",
		Short: "Assemble a YAML document from path=value pairs read on stdin",
		Long: `build reads one "path=value" assignment per line from stdin and
feeds each through objpath.MapPathBuilder.Set, then writes the resulting
nested document to <output-file> ("-" means stdout).

Example:

	printf 'person.address.street=Elm St\nperson.firstName=J\n' | objpathctl build out.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.InOrStdin(), args[0])
		},
	}
	return cmd
}

func runBuild(in io.Reader, outPath string) error {
	b := objpath.NewMapPathBuilder()

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		key, val, ok := strings.Cut(text, "=")
		if !ok {
			return fmt.Errorf("line %d: missing '=' in %q", line, text)
		}
		if err := b.Set(key, coerceScalar(val)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	doc := orderedMapToPlain(b.Build())
	if outPath == "-" {
		out, err := marshalDocument(doc)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}
	return writeDocument(outPath, doc)
}

// orderedMapToPlain converts objpath's OrderedMap tree into plain
// map[string]any, the shape yaml.v3 marshals directly. The builder's
// insertion order is not kept: yaml.v3 keeps map key order only via
// yaml.Node, and a plain map loses it on marshal.
func orderedMapToPlain(m *objpath.OrderedMap) map[string]any {
	out := make(map[string]any, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *objpath.OrderedMap:
		return orderedMapToPlain(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = plainValue(e)
		}
		return cp
	default:
		return v
	}
}
