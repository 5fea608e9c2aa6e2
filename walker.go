// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"github.com/go-logr/logr"
)

// PathWalker is the top-level facade (spec.md §4.6): it owns the
// suppress-vs-throw policy and the optional key deserializer, and
// exposes the single-shot, stateless Read/Write operations. A
// PathWalker is safe for concurrent use by multiple goroutines (it
// holds no mutable state of its own; the only shared mutable state in
// the package is the insert-only accessor registry).
type PathWalker struct {
	suppressExceptions bool
	keyDeserializer    KeyDeserializer
	mode               DiscoveryMode
	log                logr.Logger
}

// WalkerOption configures a PathWalker at construction time.
type WalkerOption func(*PathWalker)

// WithKeyDeserializer installs a KeyDeserializer, consulted only at
// mapping segments.
func WithKeyDeserializer(kd KeyDeserializer) WalkerOption {
	return func(w *PathWalker) { w.keyDeserializer = kd }
}

// WithAccessorDiscovery overrides the default StrictDiscovery mode used
// when the walker reaches a record segment.
func WithAccessorDiscovery(mode DiscoveryMode) WalkerOption {
	return func(w *PathWalker) { w.mode = mode }
}

// WithWalkerLogger installs a logr.Logger the walker uses to log dead
// ends at V(1); the default is logr.Discard().
func WithWalkerLogger(l logr.Logger) WalkerOption {
	return func(w *PathWalker) { w.log = l }
}

// NewPathWalker builds a PathWalker. suppressExceptions selects the
// dead-end policy: true converts every dead-end into a zero value
// (Read) or false (Write); false raises a *PathError instead.
func NewPathWalker(suppressExceptions bool, opts ...WalkerOption) *PathWalker {
	w := &PathWalker{suppressExceptions: suppressExceptions, mode: StrictDiscovery, log: logr.Discard()}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *PathWalker) readCtx() *readContext {
	return &readContext{keyDeser: w.keyDeserializer, mode: w.mode}
}

// Read resolves path against root. In suppress mode a dead-end yields
// (nil, nil); in throw mode it returns the *PathError as err.
func (w *PathWalker) Read(root any, path Path) (any, error) {
	value, perr := objectRead(w.readCtx(), root, path, 0)
	if perr != nil {
		w.log.V(1).Info("read dead-end", "code", perr.Code.String(), "path", path.Format(), "segment", perr.SegmentIndex)
		if w.suppressExceptions {
			return nil, nil
		}
		return nil, perr
	}
	return value, nil
}

// ReadString is a convenience wrapper around Read that parses path with
// From.
func (w *PathWalker) ReadString(root any, path string) (any, error) {
	return w.Read(root, From(path))
}

// Write stores value at path within root. It returns true on success;
// in suppress mode a dead-end returns (false, nil); in throw mode it
// returns (false, *PathError).
func (w *PathWalker) Write(root any, path Path, value any) (bool, error) {
	perr := objectWrite(&writeContext{readCtx: w.readCtx()}, root, path, value)
	if perr != nil {
		w.log.V(1).Info("write dead-end", "code", perr.Code.String(), "path", path.Format(), "segment", perr.SegmentIndex)
		if w.suppressExceptions {
			return false, nil
		}
		return false, perr
	}
	return true, nil
}

// WriteString is a convenience wrapper around Write that parses path
// with From.
func (w *PathWalker) WriteString(root any, path string, value any) (bool, error) {
	return w.Write(root, From(path), value)
}
