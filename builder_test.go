// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestBuilderSetThenGetRoundTrips covers spec.md invariant 4.
func TestBuilderSetThenGetRoundTrips(t *testing.T) {
	b := NewMapPathBuilder()
	if b.IsSet("person.name") {
		t.Fatal("path should not be set before Set")
	}
	if err := b.Set("person.name", "Ada"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, ok := b.Poll("person.name").Get()
	if !ok || got != "Ada" {
		t.Errorf("Poll = %v, %v; want Ada, true", got, ok)
	}

	tree := b.Build()
	person, ok := tree.Get("person")
	if !ok {
		t.Fatal("build tree missing person key")
	}
	nested := person.(*OrderedMap)
	name, ok := nested.Get("name")
	if !ok || name != "Ada" {
		t.Errorf("build tree person.name = %v, %v; want Ada, true", name, ok)
	}
}

// TestBuilderSetTwiceBlocked covers scenario S6 / invariant 5: setting an
// already-bound path, even to nil, is ErrPathBlocked.
func TestBuilderSetTwiceBlocked(t *testing.T) {
	b := NewMapPathBuilder()
	if err := b.Set("person.address.street", "X"); err != nil {
		t.Fatalf("first Set error: %v", err)
	}
	err := b.Set("person.address.street", "Y")
	if !errors.Is(err, ErrPathBlocked) {
		t.Errorf("second Set error = %v, want ErrPathBlocked", err)
	}

	// A nil-valued key is still "set" for the purposes of re-Set blocking.
	b2 := NewMapPathBuilder()
	if err := b2.Set("k", nil); err != nil {
		t.Fatalf("Set(nil) error: %v", err)
	}
	if err := b2.Set("k", "anything"); !errors.Is(err, ErrPathBlocked) {
		t.Errorf("Set over a nil-valued key = %v, want ErrPathBlocked", err)
	}
}

// TestBuilderCursorNavigation covers scenario S7: In/Up round-tripping a
// builder cursor while assembling sibling branches.
func TestBuilderCursorNavigation(t *testing.T) {
	b := NewMapPathBuilder()

	addr, err := b.In("person.address")
	if err != nil {
		t.Fatalf("In error: %v", err)
	}
	if err := addr.Set("street", "X"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	person, err := addr.Up("person")
	if err != nil {
		t.Fatalf("Up error: %v", err)
	}
	if person.Name() != "person" {
		t.Errorf("Up landed on cursor named %q, want person", person.Name())
	}
	if err := person.Set("firstName", "J"); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	if _, err := person.Up(""); err != nil {
		t.Fatalf("Up(\"\") from directly-under-root cursor error: %v", err)
	}

	got := b.Build()
	wantPerson := newOrderedMap()
	wantAddress := newOrderedMap()
	wantAddress.set("street", "X")
	wantPerson.set("address", wantAddress)
	wantPerson.set("firstName", "J")
	want := newOrderedMap()
	want.set("person", wantPerson)

	if diff := orderedMapDiff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderUpMismatchedNameFails(t *testing.T) {
	b := NewMapPathBuilder()
	addr, _ := b.In("person.address")
	if _, err := addr.Up("wrong"); err == nil {
		t.Error("expected error for mismatched Up name")
	}
	if _, err := b.Up(""); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Up on root cursor = %v, want ErrIllegalState", err)
	}
}

func TestBuilderJumpIgnoresCurrentCursor(t *testing.T) {
	b := NewMapPathBuilder()
	addr, _ := b.In("person.address")
	_ = addr.Set("street", "X")

	other, err := addr.Jump("other.branch")
	if err != nil {
		t.Fatalf("Jump error: %v", err)
	}
	if err := other.Set("leaf", "V"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if !b.IsSet("other.branch.leaf") {
		t.Error("Jump should have descended from the root cursor, not the current one")
	}
}

// TestBuilderAdd covers scenario S8: appending to an existing sequence
// and creating one from scratch.
func TestBuilderAdd(t *testing.T) {
	b := NewMapPathBuilder()
	if err := b.Set("foo", []any{1, 2}); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := b.Add("foo", 3); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	got, _ := b.Poll("foo").Get()
	want := []any{1, 2, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("foo mismatch (-want +got):\n%s", diff)
	}

	b2 := NewMapPathBuilder()
	if err := b2.Add("fresh", "x"); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	got2, _ := b2.Poll("fresh").Get()
	if diff := cmp.Diff([]any{"x"}, got2); diff != "" {
		t.Errorf("fresh mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderAddOnNonSequenceBlocked(t *testing.T) {
	b := NewMapPathBuilder()
	_ = b.Set("foo", "not-a-sequence")
	if err := b.Add("foo", 1); !errors.Is(err, ErrPathBlocked) {
		t.Errorf("Add over a non-sequence = %v, want ErrPathBlocked", err)
	}
}

func TestBuilderUnset(t *testing.T) {
	b := NewMapPathBuilder()
	_ = b.Set("a.b", 1)
	b.Unset("a.b")
	if b.IsSet("a.b") {
		t.Error("a.b should be unset")
	}
	// Unsetting an absent path is silent.
	b.Unset("never.set")
}

func TestBuilderNullValueSentinelNeverEscapes(t *testing.T) {
	b := NewMapPathBuilder()
	_ = b.Set("k", nil)

	v, ok := b.Poll("k").Get()
	if !ok || v != nil {
		t.Errorf("Poll(k) = %v, %v; want nil, true", v, ok)
	}

	tree := b.Build()
	raw, ok := tree.Get("k")
	if !ok || raw != nil {
		t.Errorf("built tree k = %v, %v; want nil, true", raw, ok)
	}
}

func TestBuilderFromSourceMap(t *testing.T) {
	source := map[string]any{
		"a": 1,
		"b": map[string]any{"c": 2, "d": nil},
	}
	b, err := NewMapPathBuilderFromMap(source)
	if err != nil {
		t.Fatalf("NewMapPathBuilderFromMap error: %v", err)
	}
	if v, _ := b.Poll("b.c").Get(); v != 2 {
		t.Errorf("b.c = %v, want 2", v)
	}
	if v, ok := b.Poll("b.d").Get(); !ok || v != nil {
		t.Errorf("b.d = %v, %v; want nil, true", v, ok)
	}
}

func TestBuilderFromSourceMapRejectsBuilderValue(t *testing.T) {
	_, err := NewMapPathBuilderFromMap(map[string]any{"x": NewMapPathBuilder()})
	if err == nil {
		t.Error("expected error for a builder value embedded in the source map")
	}
}

func TestBuilderIsSetTrueForAncestorOfSetLeaf(t *testing.T) {
	b := NewMapPathBuilder()
	_ = b.Set("person.address.street", "X")
	if !b.IsSet("person") {
		t.Error("IsSet(person) should be true: person is itself a bound key")
	}
}

// orderedMapDiff is a small structural comparator for *OrderedMap trees,
// independent of cmp's unexported-field rules, since OrderedMap keeps
// its fields private by design.
func orderedMapDiff(want, got *OrderedMap) string {
	if want.Len() != got.Len() {
		return "length mismatch"
	}
	for _, k := range want.Keys() {
		wv, _ := want.Get(k)
		gv, ok := got.Get(k)
		if !ok {
			return "missing key " + k
		}
		switch wt := wv.(type) {
		case *OrderedMap:
			gt, ok := gv.(*OrderedMap)
			if !ok {
				return "type mismatch at key " + k
			}
			if d := orderedMapDiff(wt, gt); d != "" {
				return d
			}
		default:
			if wv != gv {
				return "value mismatch at key " + k
			}
		}
	}
	return ""
}
