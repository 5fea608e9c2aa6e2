// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

// Package objpath reads and writes values at dot-notation paths through
// heterogeneous in-memory object graphs: keyed mappings, slices and
// arrays of any element kind, custom ordered sequences, and Go structs
// accessed either through Get/Is/Set-style methods or, failing that,
// their own exported fields.
//
// # Basic usage
//
// A PathWalker is the entry point for single-shot reads and writes:
//
//	root := map[string]any{
//		"foo": map[string]any{
//			"bar": map[string]any{"bozo": []string{"to", "be", "or", "not", "to", "be"}},
//		},
//	}
//	w := objpath.NewPathWalker(false) // throw mode
//	v, err := w.ReadString(root, "foo.bar.bozo.2")
//	// v == "or"
//	ok, err := w.WriteString(root, "foo.bar.bozo.2", "nor")
//	// ok == true; root's bozo slice is now [to be nor not to be]
//
// NewPathWalker(true) builds a suppress-mode walker instead: dead ends
// return a zero value (Read) or false (Write) rather than an error.
//
// # Path syntax
//
// A path string is a sequence of segments joined by '.'. The escape
// character '^' lets a segment contain a literal dot ("^."), a literal
// caret ("^^"), or stand for the distinguished null-key segment used to
// address a map entry keyed by nil ("^0" alone in a segment position).
// Parse with From, render back with Path.Format; From(p.Format())
// reconstructs p, except for a path whose only segment is the empty
// string, which formats as "" and parses back as the empty path.
//
// # Record access
//
// Struct fields are reached through the package's accessor registry,
// which by default (StrictDiscovery) recognizes GetName()/IsName() bool
// getters and SetName(v) setters, falling back to a struct's own
// exported fields when a type defines none of those. LenientDiscovery
// instead treats every qualifying zero-argument method as a reader.
// BeanReader and BeanWriter expose the same registry directly, with
// optional property allow/deny lists and a value transform hook, for
// bulk copy/enrich operations between two values of the same type.
//
// # Building nested mappings
//
// MapPathBuilder constructs a tree of nested, insertion-ordered mappings
// from path strings, with cursor navigation (In, Jump, Up, Root) for
// working on deeply nested sections without repeating a full path on
// every call.
//
// # Concurrency
//
// A PathWalker holds no mutable state and is safe for concurrent use.
// The package's one piece of shared state, the accessor registry that
// backs record access, is an insert-only, process-wide cache: concurrent
// first-touches of the same type are serialized just long enough to
// publish one reader/writer set, and every subsequent lookup for that
// type is lock-free. The object graphs themselves are never snapshotted
// or locked; callers mutating a graph from multiple goroutines while it
// is being walked must synchronize that themselves.
package objpath
