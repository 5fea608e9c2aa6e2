// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Write a value at a path within a YAML document, in place",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			w := newWalker(cfg)
			ok, err := w.WriteString(doc, args[1], coerceScalar(args[2]))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: write rejected", args[1])
			}
			return writeDocument(args[0], doc)
		},
	}
	return cmd
}

// coerceScalar interprets a raw CLI argument as an int, float, bool, or
// falls back to a plain string, so `objpathctl set file.yaml a.b 3`
// writes the integer 3 rather than the string "3".
func coerceScalar(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
