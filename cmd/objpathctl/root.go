// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

// Command objpathctl is a small CLI front end over the objpath package:
// it decodes a YAML document into a generic map[string]any/[]any graph
// and runs Path reads/writes against it, plus a MapPathBuilder-backed
// "build" subcommand that assembles a document from path=value pairs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "objpathctl",
	Short: "Read and write dot-paths through YAML documents",
	Long: `objpathctl decodes a YAML document into an in-memory object graph
and walks it with objpath's path traversal engine: "get" reads a value
at a path, "set" writes one back, and "build" assembles a new document
from a sequence of path=value pairs using objpath's MapPathBuilder.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().Bool("suppress", false, "suppress dead-end errors (get returns null, set returns false)")
	rootCmd.PersistentFlags().Bool("lenient", false, "use lenient accessor discovery for record segments")
	rootCmd.PersistentFlags().String("output", "yaml", "output format for get: yaml or json")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "objpathctl:", err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
