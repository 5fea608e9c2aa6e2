// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import "reflect"

// writeContext carries the same configuration as readContext; writes
// traverse every segment but the last exactly like a read (via
// readCtx), then dispatch the final segment to a segment writer.
type writeContext struct {
	readCtx *readContext
}

// objectWrite is the Object Writer dispatch switch (spec.md §4.5): it
// walks every segment but the last via the Object Reader, then routes
// the terminal segment to the matching segment writer. Writing with an
// empty path is a programmer error (there is no parent container to
// write into), not a traversal dead-end, and panics like an
// out-of-range Path index access.
func objectWrite(ctx *writeContext, root any, p Path, value any) *PathError {
	if p.IsEmpty() {
		panic(errIllegalArgument)
	}
	if root == nil {
		return newDeadEnd(TerminalValue, p, 0, "")
	}

	last := p.Size() - 1
	parent := root
	if last > 0 {
		parentPath := p.SubPathLen(0, last)
		v, rerr := objectRead(ctx.readCtx, root, parentPath, 0)
		if rerr != nil {
			return rerr
		}
		parent = v
	}
	if parent == nil {
		return newDeadEnd(TerminalValue, p, last, "")
	}
	return writeSegment(ctx, parent, p, last, value)
}

func writeSegment(ctx *writeContext, parent any, p Path, i int, value any) *PathError {
	k, rv := classify(parent)
	switch k {
	case kindNull:
		return newDeadEnd(TerminalValue, p, i, "")
	case kindMapping:
		return writeMapping(rv, p, i, value)
	case kindReferenceArray:
		return writeIndexed(rv, p, i, value)
	case kindOrderedSequence:
		return writeOrderedSequence(rv, p, i, value)
	case kindPrimitiveArray:
		return writeIndexed(rv, p, i, value)
	default:
		return writeRecord(ctx, rv, p, i, value)
	}
}

func writeMapping(m reflect.Value, p Path, i int, value any) (perr *PathError) {
	if m.IsNil() {
		return newDeadEnd(NotModifiable, p, i, "nil mapping")
	}

	seg := p.Segment(i)
	var key reflect.Value
	if seg.IsNull() {
		key = reflect.Zero(m.Type().Key())
	} else {
		kv, err := coerce(seg.Value(), m.Type().Key())
		if err != nil {
			return newDeadEnd(TypeMismatch, p, i, "key "+seg.Value())
		}
		key = kv
	}

	rv, err := coerce(value, m.Type().Elem())
	if err != nil {
		return newDeadEnd(TypeMismatch, p, i, err.Error())
	}

	// A map reached through an unexported struct field is read-only
	// from reflect's perspective; SetMapIndex panics rather than
	// returning an error, so that case is converted here.
	defer func() {
		if r := recover(); r != nil {
			perr = newDeadEnd(NotModifiable, p, i, "map rejected modification")
		}
	}()
	m.SetMapIndex(key, rv)
	return nil
}

func writeIndexed(arr reflect.Value, p Path, i int, value any) *PathError {
	seg := p.Segment(i)
	idx, ok := parseIndex(seg.Value())
	if !ok {
		return newDeadEnd(IndexExpected, p, i, seg.Value())
	}
	if idx >= arr.Len() {
		return newDeadEnd(IndexOutOfBounds, p, i, "")
	}
	elem := arr.Index(idx)
	if !elem.CanSet() {
		return newDeadEnd(NotModifiable, p, i, "array element not settable")
	}
	rv, err := coerce(value, elem.Type())
	if err != nil {
		return newDeadEnd(TypeMismatch, p, i, err.Error())
	}
	elem.Set(rv)
	return nil
}

func writeOrderedSequence(seqVal reflect.Value, p Path, i int, value any) *PathError {
	seg := p.Segment(i)
	idx, ok := parseIndex(seg.Value())
	if !ok {
		return newDeadEnd(IndexExpected, p, i, seg.Value())
	}
	seq := seqVal.Interface().(OrderedSequence)
	if seq.Len == nil || idx >= seq.Len() {
		return newDeadEnd(IndexOutOfBounds, p, i, "ordered sequence")
	}
	if seq.SetAt == nil {
		return newDeadEnd(NotModifiable, p, i, "ordered sequence is read-only")
	}
	if err := seq.SetAt(idx, value); err != nil {
		return newDeadEndCause(NotModifiable, p, i, "ordered sequence", err)
	}
	return nil
}

func writeRecord(ctx *writeContext, rec reflect.Value, p Path, i int, value any) *PathError {
	seg := p.Segment(i)
	if seg.IsNull() || seg.Value() == "" {
		return newDeadEnd(EmptySegment, p, i, "")
	}
	ok, werr, code := writeProperty(rec, seg.Value(), value, ctx.readCtx.mode)
	if !ok {
		return newDeadEnd(NoSuchProperty, p, i, seg.Value())
	}
	if werr != nil {
		return newDeadEndCause(code, p, i, seg.Value(), werr)
	}
	return nil
}
