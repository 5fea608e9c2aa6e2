// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netascode/objpath"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Read the value at a path within a YAML document",
		Args:  cobra.ExactArgs(2),
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
			value, err := w.ReadString(doc, args[1])
			if err != nil {
				if objpath.Is(err, objpath.NullValue) || objpath.Is(err, objpath.NoSuchKey) ||
					objpath.Is(err, objpath.NoSuchProperty) || objpath.Is(err, objpath.IndexOutOfBounds) {
					return fmt.Errorf("%s: not found", args[1])
				}
				return err
			}
			return printValue(cmd.OutOrStdout(), value, cfg.Output)
		},
	}
	return cmd
}
