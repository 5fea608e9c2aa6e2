// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"fmt"
	"reflect"
)

// Filter selects Include or Exclude semantics for a BeanReader/
// BeanWriter's property allow-list (spec.md §6).
type Filter int

const (
	// Include restricts to exactly the named properties.
	Include Filter = iota
	// Exclude restricts to everything except the named properties.
	Exclude
)

// TransformFunc is the optional per-property value transform hook
// (spec.md §4.2): applied after read, and before write.
type TransformFunc func(bean any, propertyName string, value any) any

type beanConfig struct {
	mode       DiscoveryMode
	filter     Filter
	properties map[string]bool
	hasFilter  bool
	transform  TransformFunc
}

// BeanOption configures a BeanReader or BeanWriter.
type BeanOption func(*beanConfig)

// WithDiscoveryMode overrides the default StrictDiscovery mode used to
// introspect the record type.
func WithDiscoveryMode(mode DiscoveryMode) BeanOption {
	return func(c *beanConfig) { c.mode = mode }
}

// WithProperties restricts which properties a BeanReader/BeanWriter
// exposes, either to exactly the named set (Include) or to everything
// but the named set (Exclude).
func WithProperties(filter Filter, names ...string) BeanOption {
	return func(c *beanConfig) {
		c.hasFilter = true
		c.filter = filter
		c.properties = make(map[string]bool, len(names))
		for _, n := range names {
			c.properties[n] = true
		}
	}
}

// WithTransform installs the optional value transform hook.
func WithTransform(fn TransformFunc) BeanOption {
	return func(c *beanConfig) { c.transform = fn }
}

func newBeanConfig(opts []BeanOption) *beanConfig {
	c := &beanConfig{mode: StrictDiscovery}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *beanConfig) allows(name string) bool {
	if !c.hasFilter {
		return true
	}
	present := c.properties[name]
	if c.filter == Include {
		return present
	}
	return !present
}

// BeanReader reads named properties off values of a single record type,
// via the shared accessor registry, honoring an optional
// include/exclude property filter and value transform.
type BeanReader struct {
	typ reflect.Type
	cfg *beanConfig
}

// NewBeanReader builds a BeanReader for t.
func NewBeanReader(t reflect.Type, opts ...BeanOption) *BeanReader {
	return &BeanReader{typ: t, cfg: newBeanConfig(opts)}
}

// Properties returns the reader's applicable property names, in
// discovery order, after the include/exclude filter.
func (r *BeanReader) Properties() []string {
	ta := globalRegistry.get(r.typ, r.cfg.mode)
	out := make([]string, 0, len(ta.order))
	for _, name := range ta.order {
		if _, ok := ta.readers[name]; ok && r.cfg.allows(name) {
			out = append(out, name)
		}
	}
	return out
}

// Read returns the named property's value off bean.
func (r *BeanReader) Read(bean any, propertyName string) (any, error) {
	if !r.cfg.allows(propertyName) {
		return nil, newDeadEnd(NoSuchProperty, Empty, 0, propertyName)
	}
	_, v := classify(bean)
	if !v.IsValid() || v.Type() != r.typ {
		return nil, fmt.Errorf("objpath: bean is not of type %s", r.typ)
	}
	value, found, err := readProperty(r.cfg.mode, v, propertyName)
	if err != nil {
		return nil, newDeadEndCause(Unexpected, Empty, 0, propertyName, err)
	}
	if !found {
		return nil, newDeadEnd(NoSuchProperty, Empty, 0, propertyName)
	}
	if r.cfg.transform != nil {
		value = r.cfg.transform(bean, propertyName, value)
	}
	return value, nil
}

// BeanWriter writes named properties onto *pointers to* values of a
// single record type (writes require an addressable target, see
// accessor.go's writeProperty).
type BeanWriter struct {
	typ reflect.Type
	cfg *beanConfig
}

// NewBeanWriter builds a BeanWriter for t.
func NewBeanWriter(t reflect.Type, opts ...BeanOption) *BeanWriter {
	return &BeanWriter{typ: t, cfg: newBeanConfig(opts)}
}

// Properties returns the writer's applicable property names, in
// discovery order, after the include/exclude filter.
func (w *BeanWriter) Properties() []string {
	ta := globalRegistry.get(w.typ, w.cfg.mode)
	out := make([]string, 0, len(ta.order))
	for _, name := range ta.order {
		if _, ok := ta.writers[name]; ok && w.cfg.allows(name) {
			out = append(out, name)
		}
	}
	return out
}

// Write sets the named property on bean, which must be a pointer to an
// addressable record value.
func (w *BeanWriter) Write(bean any, propertyName string, value any) error {
	if !w.cfg.allows(propertyName) {
		return newDeadEnd(NoSuchProperty, Empty, 0, propertyName)
	}
	addr, err := addressableRecord(bean, w.typ)
	if err != nil {
		return err
	}
	if w.cfg.transform != nil {
		value = w.cfg.transform(bean, propertyName, value)
	}
	ok, werr, code := writeProperty(addr, propertyName, value, w.cfg.mode)
	if !ok {
		return newDeadEnd(NoSuchProperty, Empty, 0, propertyName)
	}
	if werr != nil {
		return newDeadEndCause(code, Empty, 0, propertyName, werr)
	}
	return nil
}

func addressableRecord(bean any, want reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(bean)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("objpath: bean writer target must be a non-nil pointer to %s", want)
	}
	elem := rv.Elem()
	if elem.Type() != want {
		return reflect.Value{}, fmt.Errorf("objpath: bean is *%s, want *%s", elem.Type(), want)
	}
	return elem, nil
}

// Copy propagates every writer-visible property from src to dst, using
// this BeanWriter's own property set (spec.md §6), including properties
// whose source value is nil.
func (w *BeanWriter) Copy(dst, src any) error {
	return w.propagate(dst, src, false)
}

// CopyNonNull is Copy, skipping any property whose source value is nil
// or the zero value of its type.
func (w *BeanWriter) CopyNonNull(dst, src any) error {
	return w.propagate(dst, src, true)
}

// Enrich copies only properties that are currently nil/zero on dst,
// leaving any already-populated destination property untouched.
func (w *BeanWriter) Enrich(dst, src any) error {
	addr, err := addressableRecord(dst, w.typ)
	if err != nil {
		return err
	}
	reader := NewBeanReader(w.typ, WithDiscoveryMode(w.cfg.mode))
	for _, name := range w.Properties() {
		current, rerr := reader.Read(dst, name)
		if rerr == nil && !isNilOrZero(current) {
			continue
		}
		value, rerr := readSourceProperty(src, name)
		if rerr != nil {
			continue
		}
		if isNilOrZero(value) {
			continue
		}
		if w.cfg.transform != nil {
			value = w.cfg.transform(dst, name, value)
		}
		if ok, werr, code := writeProperty(addr, name, value, w.cfg.mode); ok && werr != nil {
			return newDeadEndCause(code, Empty, 0, name, werr)
		}
	}
	return nil
}

func (w *BeanWriter) propagate(dst, src any, skipNil bool) error {
	addr, err := addressableRecord(dst, w.typ)
	if err != nil {
		return err
	}
	for _, name := range w.Properties() {
		value, rerr := readSourceProperty(src, name)
		if rerr != nil {
			continue
		}
		if skipNil && isNilOrZero(value) {
			continue
		}
		if w.cfg.transform != nil {
			value = w.cfg.transform(dst, name, value)
		}
		if ok, werr, code := writeProperty(addr, name, value, w.cfg.mode); ok && werr != nil {
			return newDeadEndCause(code, Empty, 0, name, werr)
		}
	}
	return nil
}

// readSourceProperty reads name off src using lenient discovery so Copy/
// CopyNonNull/Enrich can source from any record-shaped value, not just
// ones matching the writer's exact declared type.
func readSourceProperty(src any, name string) (any, error) {
	_, v := classify(src)
	if !v.IsValid() {
		return nil, newDeadEnd(NullValue, Empty, 0, name)
	}
	value, found, err := readProperty(LenientDiscovery, v, name)
	if err != nil {
		return nil, err
	}
	if !found {
		value, found, err = readProperty(StrictDiscovery, v, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newDeadEnd(NoSuchProperty, Empty, 0, name)
		}
	}
	return value, nil
}

func isNilOrZero(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

// BeanReaderBuilder registers explicit (property, method name)
// bindings for a type, bypassing the reflective method/field scan
// entirely (spec.md §4.2's "Builder variant"). Use this when a record
// type's reader should not be discovered by convention — e.g. exposing
// only a curated subset under different names.
type BeanReaderBuilder struct {
	t        reflect.Type
	bindings map[string]string
}

// NewBeanReaderBuilder starts a builder for type t.
func NewBeanReaderBuilder(t reflect.Type) *BeanReaderBuilder {
	return &BeanReaderBuilder{t: t, bindings: map[string]string{}}
}

// Property binds propertyName to the zero-argument method methodName.
func (b *BeanReaderBuilder) Property(propertyName, methodName string) *BeanReaderBuilder {
	b.bindings[propertyName] = methodName
	return b
}

// Build resolves every bound method against the type and returns a
// BeanReader backed by that explicit accessor set, registering it in
// the shared registry under this type so ordinary path traversal also
// benefits from it.
func (b *BeanReaderBuilder) Build() (*BeanReader, error) {
	ta := &typeAccessors{readers: map[string]*accessorEntry{}, writers: map[string]*accessorEntry{}}
	for prop, methodName := range b.bindings {
		m, ok := b.t.MethodByName(methodName)
		if !ok {
			return nil, fmt.Errorf("objpath: type %s has no method %s", b.t, methodName)
		}
		if m.Type.NumIn() != 1 || m.Type.NumOut() == 0 {
			return nil, fmt.Errorf("objpath: method %s is not a zero-argument getter", methodName)
		}
		addReader(ta, prop, m, m.Type.Out(0))
	}
	globalRegistry.cache.Store(cacheKey{t: b.t, mode: StrictDiscovery}, ta)
	return &BeanReader{typ: b.t, cfg: newBeanConfig(nil)}, nil
}

// BeanWriterBuilder is the write-side counterpart of BeanReaderBuilder.
type BeanWriterBuilder struct {
	t        reflect.Type
	bindings map[string]string
}

// NewBeanWriterBuilder starts a builder for type t.
func NewBeanWriterBuilder(t reflect.Type) *BeanWriterBuilder {
	return &BeanWriterBuilder{t: t, bindings: map[string]string{}}
}

// Property binds propertyName to the one-argument method methodName.
func (b *BeanWriterBuilder) Property(propertyName, methodName string) *BeanWriterBuilder {
	b.bindings[propertyName] = methodName
	return b
}

// Build resolves every bound method against *T and returns a
// BeanWriter backed by that explicit accessor set.
func (b *BeanWriterBuilder) Build() (*BeanWriter, error) {
	pt := reflect.PointerTo(b.t)
	// Clone rather than mutate the published entry: readProperty/
	// writeProperty may be reading it concurrently, and a published
	// typeAccessors must never be observed half-updated.
	ta := cloneTypeAccessors(globalRegistry.get(b.t, StrictDiscovery))
	for prop, methodName := range b.bindings {
		m, ok := pt.MethodByName(methodName)
		if !ok {
			return nil, fmt.Errorf("objpath: type *%s has no method %s", b.t, methodName)
		}
		if m.Type.NumIn() != 2 {
			return nil, fmt.Errorf("objpath: method %s is not a one-argument setter", methodName)
		}
		addWriter(ta, prop, m, m.Type.In(1))
	}
	globalRegistry.cache.Store(cacheKey{t: b.t, mode: StrictDiscovery}, ta)
	return &BeanWriter{typ: b.t, cfg: newBeanConfig(nil)}, nil
}
