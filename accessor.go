// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"fmt"
	"reflect"
	"sync"
	"unicode"

	"github.com/go-logr/logr"
)

// DiscoveryMode selects how the accessor registry decides which methods
// of a record type qualify as property readers/writers (spec.md §4.2).
type DiscoveryMode int

const (
	// StrictDiscovery only recognizes Get<Name>()/Is<Name>() bool
	// getters and Set<Name>(v) setters.
	StrictDiscovery DiscoveryMode = iota
	// LenientDiscovery recognizes every qualifying zero-arg method as a
	// reader (named after the method itself) and is applied
	// unconditionally to record-like types (plain structs with no
	// Get/Set methods at all), whose exported fields become the
	// authoritative property set — the Go analogue of a language
	// record's components.
	LenientDiscovery
)

// excludedLenientReaders mirrors spec.md's getClass/hashCode/toString
// exclusion list for Go's equivalent universally-present methods.
var excludedLenientReaders = map[string]bool{
	"String": true,
	"Error":  true,
	"GoString": true,
}

type accessorEntry struct {
	name         string
	declaredType reflect.Type
	// getMethod/setMethod are set when the accessor is method-based.
	getMethod reflect.Method
	setMethod reflect.Method
	// field is set when the accessor is a direct struct-field fallback.
	field    reflect.StructField
	isField  bool
	isMethod bool
}

type typeAccessors struct {
	// order preserves discovery order, so BeanReader.Properties() /
	// BeanWriter.Properties() iterate deterministically (insertion
	// order), matching the spec's "insertion-ordered mapping" cache.
	order   []string
	readers map[string]*accessorEntry
	writers map[string]*accessorEntry
}

// registry is the process-wide, insert-only accessor cache. Per
// spec.md §5, concurrent getAccessors(type) calls on the same type must
// observe either a fully populated entry or none; a lock held only over
// the miss path is sufficient, and read-through under an existing entry
// must be lock-free. sync.Map gives exactly that: Load is lock-free on
// the steady-state read path, and a miss takes the mutex below only
// long enough to introspect and publish one immutable entry.
type registry struct {
	cache sync.Map // cacheKey{reflect.Type, DiscoveryMode} -> *typeAccessors
	mu    sync.Mutex
	log   logr.Logger
}

// cacheKey distinguishes accessor entries by both type and discovery
// mode: the same type introspected under StrictDiscovery and under
// LenientDiscovery can legitimately surface different reader/writer
// sets, so mode must be part of the cache identity, not just the type.
type cacheKey struct {
	t    reflect.Type
	mode DiscoveryMode
}

var globalRegistry = &registry{log: logr.Discard()}

// SetLogger installs the logr.Logger used for accessor-cache
// introspection diagnostics (one V(1) line per cache miss, never on
// hits). The default is logr.Discard(), matching the rest of the
// package's "silent unless configured" logging stance.
func SetLogger(l logr.Logger) {
	globalRegistry.log = l
}

func (r *registry) get(t reflect.Type, mode DiscoveryMode) *typeAccessors {
	key := cacheKey{t: t, mode: mode}
	if v, ok := r.cache.Load(key); ok {
		return v.(*typeAccessors)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the lock: another goroutine may have published
	// while we were waiting.
	if v, ok := r.cache.Load(key); ok {
		return v.(*typeAccessors)
	}

	ta := discover(t, mode)
	r.log.V(1).Info("introspected record type", "type", t.String(), "mode", mode,
		"readers", len(ta.readers), "writers", len(ta.writers))
	r.cache.Store(key, ta)
	return ta
}

// discover performs the (possibly expensive) reflective scan of t's
// methods, falling back to exported struct fields when no qualifying
// reader or writer methods are found under mode.
func discover(t reflect.Type, mode DiscoveryMode) *typeAccessors {
	ta := &typeAccessors{readers: map[string]*accessorEntry{}, writers: map[string]*accessorEntry{}}

	collectMethodReaders(t, mode, ta)
	collectMethodWriters(t, ta)

	if len(ta.readers) == 0 && len(ta.writers) == 0 {
		collectFields(t, ta)
	}

	return ta
}

func collectMethodReaders(t reflect.Type, mode DiscoveryMode, ta *typeAccessors) {
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Type.NumIn() != 1 || m.Type.NumOut() == 0 {
			continue // receiver is In(0); readers take no other params
		}

		switch mode {
		case StrictDiscovery:
			name, ok := strictGetterName(m)
			if !ok {
				continue
			}
			addReader(ta, name, m, m.Type.Out(0))
		case LenientDiscovery:
			if excludedLenientReaders[m.Name] {
				continue
			}
			addReader(ta, m.Name, m, m.Type.Out(0))
		}
	}
}

func strictGetterName(m reflect.Method) (string, bool) {
	name := m.Name
	if len(name) > 3 && name[:3] == "Get" && unicode.IsUpper(rune(name[3])) {
		return lowerFirst(name[3:]), true
	}
	if len(name) > 2 && name[:2] == "Is" && unicode.IsUpper(rune(name[2])) && m.Type.Out(0).Kind() == reflect.Bool {
		return lowerFirst(name[2:]), true
	}
	return "", false
}

func collectMethodWriters(t reflect.Type, ta *typeAccessors) {
	// Setters mutate the record, so they must be found on the pointer
	// method set even when t itself is already a pointer-receiver-free
	// struct type.
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if m.Type.NumIn() != 2 {
			continue // receiver + exactly one value parameter
		}
		out := m.Type.NumOut()
		if out > 1 {
			continue
		}
		if out == 1 && m.Type.Out(0) != errType {
			continue // the one Go-idiomatic extension: a trailing error return
		}
		name, ok := strictSetterName(m)
		if !ok {
			continue
		}
		addWriter(ta, name, m, m.Type.In(1))
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

func strictSetterName(m reflect.Method) (string, bool) {
	name := m.Name
	if len(name) > 3 && name[:3] == "Set" && unicode.IsUpper(rune(name[3])) {
		return lowerFirst(name[3:]), true
	}
	return "", false
}

func collectFields(t reflect.Type, ta *typeAccessors) {
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		name := lowerFirst(f.Name)
		entry := &accessorEntry{name: name, declaredType: f.Type, field: f, isField: true}
		if _, exists := ta.readers[name]; !exists {
			ta.readers[name] = entry
			ta.order = append(ta.order, name)
		}
		ta.writers[name] = entry
	}
}

// cloneTypeAccessors returns a shallow copy of ta whose order/readers/
// writers are independent maps and slice, so it can be mutated by a
// builder without touching an already-published entry that concurrent
// readProperty/writeProperty calls may be observing.
func cloneTypeAccessors(ta *typeAccessors) *typeAccessors {
	clone := &typeAccessors{
		order:   append([]string(nil), ta.order...),
		readers: make(map[string]*accessorEntry, len(ta.readers)),
		writers: make(map[string]*accessorEntry, len(ta.writers)),
	}
	for k, v := range ta.readers {
		clone.readers[k] = v
	}
	for k, v := range ta.writers {
		clone.writers[k] = v
	}
	return clone
}

func addReader(ta *typeAccessors, name string, m reflect.Method, declared reflect.Type) {
	if _, exists := ta.readers[name]; !exists {
		ta.order = append(ta.order, name)
	}
	ta.readers[name] = &accessorEntry{name: name, declaredType: declared, getMethod: m, isMethod: true}
}

func addWriter(ta *typeAccessors, name string, m reflect.Method, declared reflect.Type) {
	if _, exists := ta.readers[name]; !exists {
		if _, exists := ta.writers[name]; !exists {
			ta.order = append(ta.order, name)
		}
	}
	ta.writers[name] = &accessorEntry{name: name, declaredType: declared, setMethod: m, isMethod: true}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// readProperty invokes the reader accessor for name on bean (a
// reflect.Value already unwrapped by classify), returning
// (value, found, error). found is false when the type has no such
// reader at all (NoSuchProperty, distinguished by the caller from the
// type-has-zero-readers TerminalValue case).
func readProperty(mode DiscoveryMode, bean reflect.Value, name string) (any, bool, error) {
	ta := globalRegistry.get(bean.Type(), mode)
	entry, ok := ta.readers[name]
	if !ok {
		return nil, false, nil
	}
	if entry.isField {
		return bean.FieldByIndex(entry.field.Index).Interface(), true, nil
	}
	mv := bean.MethodByName(entry.getMethod.Name)
	out := mv.Call(nil)
	return out[0].Interface(), true, nil
}

// writeProperty invokes the writer accessor for name against addr (the
// addressable reflect.Value of the record — i.e. Elem() of a pointer),
// returning the PathError code to use on failure, or Unexpected for an
// unanticipated invocation failure.
func writeProperty(addr reflect.Value, name string, value any, mode DiscoveryMode) (bool, error, ErrorCode) {
	ta := globalRegistry.get(addr.Type(), mode)
	if len(ta.writers) == 0 && mode != LenientDiscovery {
		// Retry under lenient discovery. Setters are found the same way
		// in both modes, and exported fields become writers only for a
		// type with no qualifying reader or writer methods at all, so a
		// type that has getters but no setters has no writers here either.
		ta = globalRegistry.get(addr.Type(), LenientDiscovery)
	}
	entry, ok := ta.writers[name]
	if !ok {
		return false, nil, NoSuchProperty
	}

	if entry.isField {
		if !addr.CanAddr() {
			return true, fmt.Errorf("record value is not addressable"), NotModifiable
		}
		fv := addr.FieldByIndex(entry.field.Index)
		if !fv.CanSet() {
			return true, fmt.Errorf("field %s is not settable", entry.field.Name), NotModifiable
		}
		rv, err := coerce(value, entry.declaredType)
		if err != nil {
			return true, err, TypeMismatch
		}
		fv.Set(rv)
		return true, nil, 0
	}

	if !addr.CanAddr() {
		return true, fmt.Errorf("record value is not addressable"), NotModifiable
	}
	rv, err := coerce(value, entry.declaredType)
	if err != nil {
		return true, err, TypeMismatch
	}
	mv := addr.Addr().MethodByName(entry.setMethod.Name)
	var out []reflect.Value
	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("setter %s panicked: %v", entry.setMethod.Name, r)
			}
		}()
		out = mv.Call([]reflect.Value{rv})
	}()
	if panicErr != nil {
		return true, panicErr, Unexpected
	}
	if len(out) == 1 && !out[0].IsNil() {
		return true, out[0].Interface().(error), Unexpected
	}
	return true, nil, 0
}

// coerce converts value (typically any, decoded from untyped call
// sites) into a reflect.Value assignable to declared, or fails with a
// type-mismatch error — including nil supplied to a non-pointer,
// non-interface, non-slice/map/chan/func declared type, which mirrors
// spec.md's "null supplied to a property of an unboxed primitive type".
func coerce(value any, declared reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch declared.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(declared), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot assign nil to %s", declared)
		}
	}
	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(declared) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(declared) && isNumericKind(rv.Kind()) && isNumericKind(declared.Kind()) {
		return rv.Convert(declared), nil
	}
	return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", rv.Type(), declared)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// hasAnyReaders answers the TerminalValue question: a type with zero
// qualifying readers is a leaf for read traversal, even though it is
// technically a struct/record kind.
func hasAnyReaders(t reflect.Type, mode DiscoveryMode) bool {
	return len(globalRegistry.get(t, mode).readers) > 0
}
