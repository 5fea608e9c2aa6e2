// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// AuditRecord is one successful write captured by an AuditingWalker,
// expressed the way RFC 6902 itself would name the operation: "add" when
// the path was absent before the write, "replace" when it already held a
// value.
type AuditRecord struct {
	ID    uuid.UUID
	Op    string
	Path  string
	Value any
}

// AuditingWalker decorates a PathWalker, recording every successful
// Write as an RFC 6902 JSON Patch operation. It does not change read or
// write semantics in any way; it only observes them.
type AuditingWalker struct {
	*PathWalker
	probe *PathWalker // throw-mode twin, used only to test pre-write presence

	mu      sync.Mutex
	records []AuditRecord
	log     logr.Logger
}

// NewAuditingWalker wraps w, which should already be fully configured.
// The wrapped walker's suppress-vs-throw policy governs Write's return
// value exactly as it would unwrapped; auditing is purely a side effect
// of a write that returns ok == true.
func NewAuditingWalker(w *PathWalker) *AuditingWalker {
	probe := NewPathWalker(false, WithKeyDeserializer(w.keyDeserializer), WithAccessorDiscovery(w.mode))
	return &AuditingWalker{PathWalker: w, probe: probe, log: logr.Discard()}
}

// WithAuditLogger installs the logr.Logger the AuditingWalker uses to
// log an Info line for each recorded write.
func (a *AuditingWalker) WithAuditLogger(l logr.Logger) *AuditingWalker {
	a.log = l
	return a
}

// Write behaves exactly like the wrapped PathWalker's Write, and in
// addition records an RFC 6902 operation when the write succeeds.
func (a *AuditingWalker) Write(root any, path Path, value any) (bool, error) {
	_, existedErr := a.probe.Read(root, path)
	existed := existedErr == nil

	ok, err := a.PathWalker.Write(root, path, value)
	if !ok {
		return ok, err
	}

	op := "add"
	if existed {
		op = "replace"
	}
	rec := AuditRecord{ID: uuid.New(), Op: op, Path: path.Format(), Value: value}

	a.mu.Lock()
	a.records = append(a.records, rec)
	a.mu.Unlock()

	a.log.Info("recorded write", "id", rec.ID, "op", rec.Op, "path", rec.Path)
	return ok, err
}

// WriteString parses path with From and delegates to Write.
func (a *AuditingWalker) WriteString(root any, path string, value any) (bool, error) {
	return a.Write(root, From(path), value)
}

// Records returns a defensive copy of every write recorded so far, in
// the order they were applied.
func (a *AuditingWalker) Records() []AuditRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := make([]AuditRecord, len(a.records))
	copy(cp, a.records)
	return cp
}

// Patches renders the recorded writes as an RFC 6902 JSON Patch
// document, converting each objpath Path into a JSON Pointer.
func (a *AuditingWalker) Patches() (jsonpatch.Patch, error) {
	a.mu.Lock()
	recs := make([]AuditRecord, len(a.records))
	copy(recs, a.records)
	a.mu.Unlock()

	ops := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		ops = append(ops, map[string]any{
			"op":    r.Op,
			"path":  toJSONPointer(From(r.Path)),
			"value": r.Value,
		})
	}

	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("objpath: marshaling audit patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("objpath: decoding audit patch: %w", err)
	}
	return patch, nil
}

// toJSONPointer renders p as an RFC 6901 JSON Pointer: each segment is
// prefixed with '/' and has '~' and '/' escaped per the pointer spec.
// The null-key sentinel has no JSON Pointer equivalent and is rendered
// as the token "~0~0". An ordinary "~~" segment escapes to the same
// token, so the two cannot be told apart in the rendered pointer.
func toJSONPointer(p Path) string {
	if p.IsEmpty() {
		return ""
	}
	var b strings.Builder
	for _, seg := range p.Segments() {
		b.WriteByte('/')
		if seg.IsNull() {
			b.WriteString("~0~0")
			continue
		}
		b.WriteString(escapeJSONPointerToken(seg.Value()))
	}
	return b.String()
}

func escapeJSONPointerToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}
