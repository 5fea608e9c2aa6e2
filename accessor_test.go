// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"reflect"
	"testing"
)

type strictBean struct {
	name string
	on   bool
}

func (b strictBean) GetName() string   { return b.name }
func (b strictBean) IsOn() bool        { return b.on }
func (b *strictBean) SetName(s string) { b.name = s }

func TestStrictDiscoveryFindsGetAndIsMethods(t *testing.T) {
	ta := discover(reflect.TypeOf(strictBean{}), StrictDiscovery)
	if _, ok := ta.readers["name"]; !ok {
		t.Error("expected reader for 'name'")
	}
	if _, ok := ta.readers["on"]; !ok {
		t.Error("expected reader for 'on' (from IsOn)")
	}
	if _, ok := ta.writers["name"]; !ok {
		t.Error("expected writer for 'name'")
	}
}

type lenientBean struct{}

func (lenientBean) Total() int      { return 42 }
func (lenientBean) String() string  { return "lenientBean" }

func TestLenientDiscoveryUsesMethodNameDirectly(t *testing.T) {
	ta := discover(reflect.TypeOf(lenientBean{}), LenientDiscovery)
	if _, ok := ta.readers["Total"]; !ok {
		t.Error("expected lenient reader named 'Total'")
	}
	if _, ok := ta.readers["String"]; ok {
		t.Error("String should be excluded from lenient discovery")
	}
}

type plainStruct struct {
	Foo string
	Bar int
}

func TestFieldFallbackForRecordLikeStruct(t *testing.T) {
	ta := discover(reflect.TypeOf(plainStruct{}), StrictDiscovery)
	if _, ok := ta.readers["foo"]; !ok {
		t.Error("expected field-fallback reader 'foo'")
	}
	if _, ok := ta.readers["bar"]; !ok {
		t.Error("expected field-fallback reader 'bar'")
	}
}

func TestAccessorCacheIsInsertOnlyAndStable(t *testing.T) {
	t1 := discover(reflect.TypeOf(plainStruct{}), StrictDiscovery)
	globalRegistry.cache.Store(cacheKey{t: reflect.TypeOf(plainStruct{}), mode: StrictDiscovery}, t1)
	got := globalRegistry.get(reflect.TypeOf(plainStruct{}), StrictDiscovery)
	if got != t1 {
		t.Error("cache hit should return the exact published entry")
	}
}

// lenientOnlyReader has a method that is a valid lenient reader ("Foo")
// but does not match the Get<Name>/Is<Name> convention Strict discovery
// requires, so Strict discovery must fall back to fields while Lenient
// discovery must find the method.
type lenientOnlyReader struct {
	Other string
}

func (lenientOnlyReader) Foo() string { return "foo-value" }

func TestAccessorCacheKeyedByDiscoveryMode(t *testing.T) {
	typ := reflect.TypeOf(lenientOnlyReader{})
	t.Cleanup(func() {
		globalRegistry.cache.Delete(cacheKey{t: typ, mode: StrictDiscovery})
		globalRegistry.cache.Delete(cacheKey{t: typ, mode: LenientDiscovery})
	})

	strict := globalRegistry.get(typ, StrictDiscovery)
	if _, ok := strict.readers["Foo"]; ok {
		t.Fatal("Strict discovery should not recognize Foo() as a reader")
	}

	lenient := globalRegistry.get(typ, LenientDiscovery)
	if _, ok := lenient.readers["Foo"]; !ok {
		t.Error("Lenient discovery should recognize Foo() as a reader, got a cached Strict entry instead")
	}
}

func TestCoerceNilToPointerOrInterface(t *testing.T) {
	var target *int
	rv, err := coerce(nil, reflect.TypeOf(target))
	if err != nil {
		t.Fatalf("coerce(nil, *int) error: %v", err)
	}
	if !rv.IsNil() {
		t.Error("coerced nil *int should be nil")
	}

	_, err = coerce(nil, reflect.TypeOf(0))
	if err == nil {
		t.Error("expected error coercing nil into a non-nilable int")
	}
}

func TestCoerceNumericWidening(t *testing.T) {
	rv, err := coerce(int(5), reflect.TypeOf(int64(0)))
	if err != nil {
		t.Fatalf("coerce int->int64 error: %v", err)
	}
	if rv.Int() != 5 {
		t.Errorf("coerced value = %d, want 5", rv.Int())
	}
}

func TestHasAnyReadersFalseForPlainScalar(t *testing.T) {
	if hasAnyReaders(reflect.TypeOf(42), StrictDiscovery) {
		t.Error("int has no reader methods or fields")
	}
}
