// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import "reflect"

// kind is the tagged variant objpath dispatches segment handlers on.
// The set is fixed and priority matters (spec.md §3): a value that is
// simultaneously a mapping and a record must be treated as a mapping.
// Encoding classification as a closed switch, rather than an open
// interface hierarchy, keeps that priority explicit in one place
// instead of relying on interface-satisfaction order, which Go does not
// define for overlapping interfaces.
type kind int

const (
	kindNull kind = iota
	kindMapping
	kindReferenceArray
	kindOrderedSequence
	kindPrimitiveArray
	kindRecord
)

// classify inspects node and returns its traversal category plus the
// reflect.Value to operate on (already unwrapped of any interface{}
// boxing, with pointers followed through so segment handlers never see
// a *T when T itself is a mapping/slice/record).
func classify(node any) (kind, reflect.Value) {
	if node == nil {
		return kindNull, reflect.Value{}
	}

	v := reflect.ValueOf(node)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return kindNull, reflect.Value{}
		}
		v = v.Elem()
	}

	if !v.IsValid() {
		return kindNull, reflect.Value{}
	}

	switch v.Kind() {
	case reflect.Map:
		return kindMapping, v
	case reflect.Array, reflect.Slice:
		if isPrimitiveElement(v.Type().Elem()) {
			return kindPrimitiveArray, v
		}
		return kindReferenceArray, v
	case reflect.Struct:
		if v.Type() == reflect.TypeOf(OrderedSequence{}) {
			return kindOrderedSequence, v
		}
		return kindRecord, v
	default:
		// Everything else (numbers, strings, bools, funcs, chans) is a
		// leaf: it has no traversal category of its own, and is
		// reported TerminalValue if the walker tries to descend into it.
		return kindRecord, v
	}
}

// isPrimitiveElement reports whether t is an unboxed numeric, boolean,
// or character (rune/byte) primitive type — the Go analogue of a
// "primitive array" component type in spec.md's data model (a language
// with boxed vs. unboxed arrays, like Java, distinguishes []int32 from
// []Integer; Go slices and arrays are always unboxed, so objpath uses
// element kind alone to decide whether a slice or array counts as a
// PrimitiveArray or a ReferenceArray of boxed elements).
func isPrimitiveElement(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// OrderedSequence adapts an arbitrary ordered collection that is not
// backed by a dense, randomly-indexable array — e.g. a linked list or a
// custom iterator-based container — into something objpath can walk in
// O(index) per spec.md's OrderedSequence category. Wrap any type
// satisfying this shape (or just use a slice, which is classified as a
// ReferenceArray/PrimitiveArray directly and walked in O(1) per step).
type OrderedSequence struct {
	// Len returns the number of elements.
	Len func() int
	// At returns the element at position i, walking the sequence's
	// iterator i times per spec.md's contract (the engine deliberately
	// does not assume random access here).
	At func(i int) (any, error)
	// SetAt assigns the element at position i. Nil if the sequence is
	// immutable, in which case a write dead-ends with NotModifiable.
	SetAt func(i int, value any) error
}
