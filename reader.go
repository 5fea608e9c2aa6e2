// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"reflect"
	"strconv"
)

// KeyDeserializer converts a raw mapping-segment string into the key
// type a particular map actually uses (e.g. a custom enum key type).
// It is consulted only at mapping segments, and only when configured on
// the PathWalker.
type KeyDeserializer func(p Path, segmentIndex int) (any, error)

// readContext threads the per-call configuration (key deserializer,
// accessor discovery mode) through the recursive descent, without
// making either a field of Path itself — Path stays a pure data value.
type readContext struct {
	keyDeser KeyDeserializer
	mode     DiscoveryMode
}

// parseIndex converts a path segment into a nonnegative integer index.
// This is the numeric-parser collaborator spec.md treats as an external
// dependency; objpath implements it directly over strconv since Go has
// no separate "parse to index" package in the standard library.
func parseIndex(segment string) (int, bool) {
	n, err := strconv.Atoi(segment)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// objectRead is the Object Reader dispatch switch (spec.md §4.5): it
// classifies node and routes to the matching segment reader, or returns
// the node itself once the path is exhausted.
func objectRead(ctx *readContext, node any, p Path, i int) (any, *PathError) {
	if i == p.Size() {
		return node, nil
	}

	if node == nil {
		return nil, newDeadEnd(NullValue, p, i, "")
	}

	k, rv := classify(node)
	switch k {
	case kindNull:
		return nil, newDeadEnd(NullValue, p, i, "")
	case kindMapping:
		return readMapping(ctx, rv, p, i)
	case kindReferenceArray:
		return readIndexed(ctx, rv, p, i, "reference array")
	case kindOrderedSequence:
		return readOrderedSequence(ctx, rv, p, i)
	case kindPrimitiveArray:
		return readIndexed(ctx, rv, p, i, "primitive array")
	default: // kindRecord
		return readRecord(ctx, rv, p, i)
	}
}

func readMapping(ctx *readContext, m reflect.Value, p Path, i int) (any, *PathError) {
	seg := p.Segment(i)

	var key reflect.Value
	if ctx.keyDeser != nil {
		raw, err := ctx.keyDeser(p, i)
		if err != nil {
			return nil, newDeadEndCause(KeyDeserializationFailed, p, i, "", err)
		}
		key = reflect.ValueOf(raw)
	} else {
		if seg.IsNull() {
			key = reflect.Zero(m.Type().Key())
		} else {
			kv, err := coerce(seg.Value(), m.Type().Key())
			if err != nil {
				// Segment strings that don't convert to the map's key
				// type can never be present; treat as a plain miss.
				return nil, newDeadEnd(NoSuchKey, p, i, seg.Value())
			}
			key = kv
		}
	}

	// Per spec.md §9: MapIndex's validity bit, not the value it
	// returns, is what distinguishes "key absent" from "key present
	// with the zero value" (e.g. a present key bound to nil for an
	// interface{} value map) — a single MapIndex call already carries
	// that bit via IsValid, so no second probe is needed.
	val := m.MapIndex(key)
	if !val.IsValid() {
		return nil, newDeadEnd(NoSuchKey, p, i, seg.Value())
	}

	return objectRead(ctx, val.Interface(), p, i+1)
}

func readIndexed(ctx *readContext, arr reflect.Value, p Path, i int, label string) (any, *PathError) {
	seg := p.Segment(i)
	idx, ok := parseIndex(seg.Value())
	if !ok {
		return nil, newDeadEnd(IndexExpected, p, i, seg.Value())
	}
	if idx >= arr.Len() {
		return nil, newDeadEnd(IndexOutOfBounds, p, i, label)
	}
	elem := arr.Index(idx)
	return objectRead(ctx, elem.Interface(), p, i+1)
}

func readOrderedSequence(ctx *readContext, seqVal reflect.Value, p Path, i int) (any, *PathError) {
	seg := p.Segment(i)
	idx, ok := parseIndex(seg.Value())
	if !ok {
		return nil, newDeadEnd(IndexExpected, p, i, seg.Value())
	}
	seq := seqVal.Interface().(OrderedSequence)
	if seq.Len == nil || seq.At == nil {
		return nil, newDeadEnd(IndexOutOfBounds, p, i, "ordered sequence")
	}
	if idx >= seq.Len() {
		return nil, newDeadEnd(IndexOutOfBounds, p, i, "ordered sequence")
	}
	elem, err := seq.At(idx)
	if err != nil {
		return nil, newDeadEndCause(IndexOutOfBounds, p, i, "ordered sequence", err)
	}
	return objectRead(ctx, elem, p, i+1)
}

func readRecord(ctx *readContext, rec reflect.Value, p Path, i int) (any, *PathError) {
	seg := p.Segment(i)
	if seg.IsNull() || seg.Value() == "" {
		return nil, newDeadEnd(EmptySegment, p, i, "")
	}
	if rec.Kind() != reflect.Struct {
		// Primitives, strings, etc: leaves with no properties at all.
		return nil, newDeadEnd(TerminalValue, p, i, rec.Kind().String())
	}
	if !hasAnyReaders(rec.Type(), ctx.mode) {
		return nil, newDeadEnd(TerminalValue, p, i, rec.Type().String())
	}
	value, found, err := readProperty(ctx.mode, rec, seg.Value())
	if err != nil {
		return nil, newDeadEndCause(Unexpected, p, i, seg.Value(), err)
	}
	if !found {
		return nil, newDeadEnd(NoSuchProperty, p, i, seg.Value())
	}
	return objectRead(ctx, value, p, i+1)
}
