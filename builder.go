// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

// Builder-specific sentinel errors (spec.md §4.7). These sit alongside,
// not inside, the traversal ErrorCode taxonomy in errors.go: a builder
// cursor misuse is a programmer error against the builder API itself,
// not a PathWalker dead-end.
var (
	// ErrPathBlocked means a Set/In/Jump/Add call found a non-mapping
	// value already bound where it needed to descend further, Set found
	// its target key already bound (to any value, a mapping included), or
	// Add found a non-sequence value bound at its target key.
	ErrPathBlocked = errors.New("objpath: path blocked")
	// ErrIllegalState means Up was called on the root cursor.
	ErrIllegalState = errors.New("objpath: illegal state")
)

// nullSentinel is the private placeholder a MapPathBuilder stores in
// place of an explicit nil value, so that a present-but-nil entry can be
// told apart from an absent one with a single map lookup. It must never
// escape through Get/Poll/Build.
type nullSentinel struct{}

var theNull = nullSentinel{}

func wrapNull(v any) any {
	if v == nil {
		return theNull
	}
	return v
}

func unwrapNull(v any) any {
	if _, ok := v.(nullSentinel); ok {
		return nil
	}
	return v
}

// OrderedMap is an insertion-ordered, string-keyed mapping tree — the
// shape MapPathBuilder.Build produces, and the node type it uses
// internally for every interior (non-leaf) entry.
type OrderedMap struct {
	keys []string
	vals map[string]any
}

func newOrderedMap() *OrderedMap {
	return &OrderedMap{vals: map[string]any{}}
}

func (m *OrderedMap) set(key string, value any) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

func (m *OrderedMap) delete(key string) {
	if _, exists := m.vals[key]; !exists {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *OrderedMap) get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the mapping's keys in insertion order.
func (m *OrderedMap) Keys() []string {
	cp := make([]string, len(m.keys))
	copy(cp, m.keys)
	return cp
}

// Get returns the value bound to key, or (nil, false) if key is absent.
// A key explicitly bound to nil returns (nil, true).
func (m *OrderedMap) Get(key string) (any, bool) {
	return m.get(key)
}

// Len returns the number of entries in m.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// MapPathBuilder builds a tree of nested insertion-ordered mappings from
// path strings (spec.md §4.7). A builder value is a cursor: it holds a
// parent (nil at the root), the absolute path from the root builder to
// this cursor's mapping, and the OrderedMap node being edited. Child
// cursors share the same underlying OrderedMap instances as their
// ancestors, so edits made through any cursor are visible from every
// other cursor over the same tree.
type MapPathBuilder struct {
	parent   *MapPathBuilder
	root     Path
	localMap *OrderedMap
}

// NewMapPathBuilder starts an empty builder positioned at the root
// cursor.
func NewMapPathBuilder() *MapPathBuilder {
	return &MapPathBuilder{localMap: newOrderedMap()}
}

// NewMapPathBuilderFromMap builds a MapPathBuilder whose root mapping is
// populated from source: every key must be a non-empty string, nested
// map[string]any values are recursively wrapped into builder-owned
// OrderedMap nodes, and a *MapPathBuilder appearing anywhere in source
// is rejected — a builder under construction is not itself valid leaf
// data. Every key is validated before NewMapPathBuilderFromMap fails, so
// a caller fixing one bad key at a time sees every other violation in
// the same pass rather than one-at-a-time.
func NewMapPathBuilderFromMap(source map[string]any) (*MapPathBuilder, error) {
	root := newOrderedMap()
	if err := populateOrdered(root, source); err != nil {
		return nil, err
	}
	return &MapPathBuilder{localMap: root}, nil
}

func populateOrdered(dst *OrderedMap, source map[string]any) error {
	var errs error
	for k, v := range source {
		if k == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: empty key in source mapping", errIllegalArgument))
			continue
		}
		wrapped, err := wrapSourceValue(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("key %q: %w", k, err))
			continue
		}
		dst.set(k, wrapped)
	}
	return errs
}

func wrapSourceValue(v any) (any, error) {
	if v == nil {
		return theNull, nil
	}
	if _, ok := v.(*MapPathBuilder); ok {
		return nil, fmt.Errorf("%w: source mapping contains a builder value", errIllegalArgument)
	}
	switch t := v.(type) {
	case map[string]any:
		child := newOrderedMap()
		if err := populateOrdered(child, t); err != nil {
			return nil, err
		}
		return child, nil
	default:
		return v, nil
	}
}

// segmentKey validates that s is a usable builder key: a non-null,
// non-empty string.
func segmentKey(s Segment) (string, error) {
	if s.IsNull() || s.Value() == "" {
		return "", fmt.Errorf("%w: builder keys must be non-null, non-empty strings", errIllegalArgument)
	}
	return s.Value(), nil
}

// childCursor returns the cursor for key, whose local mapping is the
// OrderedMap already stored under key in b's local mapping.
func (b *MapPathBuilder) childCursor(key string, localMap *OrderedMap) *MapPathBuilder {
	return &MapPathBuilder{parent: b, root: b.root.Append(Of(StringSegment(key))), localMap: localMap}
}

// descendCreating walks segs from b, creating an empty nested mapping at
// every segment not yet bound, and dead-ending with ErrPathBlocked the
// moment a segment is already bound to something other than a nested
// mapping.
func (b *MapPathBuilder) descendCreating(segs []Segment) (*MapPathBuilder, error) {
	cursor := b
	for _, s := range segs {
		key, err := segmentKey(s)
		if err != nil {
			return nil, err
		}
		v, exists := cursor.localMap.get(key)
		if !exists {
			child := newOrderedMap()
			cursor.localMap.set(key, child)
			cursor = cursor.childCursor(key, child)
			continue
		}
		child, ok := v.(*OrderedMap)
		if !ok {
			return nil, ErrPathBlocked
		}
		cursor = cursor.childCursor(key, child)
	}
	return cursor, nil
}

// Set binds value at pathString, relative to this cursor, creating any
// missing intermediate mappings along the way. It refuses to overwrite
// an already-present key — even one currently bound to nil — with
// ErrPathBlocked; use In to descend into a nested mapping instead of
// overwriting it. value itself must not be a mapping.
func (b *MapPathBuilder) Set(pathString string, value any) error {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", errIllegalArgument)
	}
	cursor, err := b.descendCreating(segs[:len(segs)-1])
	if err != nil {
		return err
	}
	key, err := segmentKey(segs[len(segs)-1])
	if err != nil {
		return err
	}
	if _, exists := cursor.localMap.get(key); exists {
		return ErrPathBlocked
	}
	if _, isMap := value.(*OrderedMap); isMap || (value != nil && reflect.ValueOf(value).Kind() == reflect.Map) {
		return fmt.Errorf("%w: use In to descend into a nested mapping", errIllegalArgument)
	}
	cursor.localMap.set(key, wrapNull(value))
	return nil
}

// In descends from this cursor along pathString, creating missing
// nested mappings along the way, and returns a cursor positioned at the
// resulting mapping. A path segment already bound to a non-mapping
// value dead-ends with ErrPathBlocked.
func (b *MapPathBuilder) In(pathString string) (*MapPathBuilder, error) {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return b, nil
	}
	return b.descendCreating(segs)
}

// Jump is In, but starts from the root cursor regardless of where this
// cursor is currently positioned.
func (b *MapPathBuilder) Jump(pathString string) (*MapPathBuilder, error) {
	return b.Root().In(pathString)
}

// Up moves to the parent cursor. name must equal the parent cursor's
// own name, or be empty if the parent is the root cursor; any other
// name is an illegal-argument error. Calling Up on the root cursor
// itself is ErrIllegalState.
func (b *MapPathBuilder) Up(name string) (*MapPathBuilder, error) {
	if b.parent == nil {
		return nil, ErrIllegalState
	}
	if name != b.parent.Name() {
		return nil, fmt.Errorf("%w: %q does not match parent cursor %q", errIllegalArgument, name, b.parent.Name())
	}
	return b.parent, nil
}

// Root walks to and returns the topmost parent cursor.
func (b *MapPathBuilder) Root() *MapPathBuilder {
	cursor := b
	for cursor.parent != nil {
		cursor = cursor.parent
	}
	return cursor
}

// Where returns this cursor's absolute path, formatted.
func (b *MapPathBuilder) Where() string {
	return b.root.Format()
}

// Name returns the last segment of this cursor's path, or the empty
// string at the root cursor.
func (b *MapPathBuilder) Name() string {
	if b.root.IsEmpty() {
		return ""
	}
	return b.root.Segment(-1).Value()
}

// Poll resolves pathString against this cursor without creating
// anything, returning Present(value) if the full path is bound (value
// is the unwrapped nil if the entry was set to nil), or Absent if any
// segment is missing or descends through a non-mapping value before the
// path is exhausted.
func (b *MapPathBuilder) Poll(pathString string) Result[any] {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return Absent[any]()
	}
	cursor := b
	for i, s := range segs {
		key, err := segmentKey(s)
		if err != nil {
			return Absent[any]()
		}
		v, exists := cursor.localMap.get(key)
		if !exists {
			return Absent[any]()
		}
		if i == len(segs)-1 {
			return Present(unwrapNull(v))
		}
		child, ok := v.(*OrderedMap)
		if !ok {
			return Absent[any]()
		}
		cursor = cursor.childCursor(key, child)
	}
	return Absent[any]()
}

// Get is shorthand for Poll(pathString).OrElseZero().
func (b *MapPathBuilder) Get(pathString string) any {
	return b.Poll(pathString).OrElseZero()
}

// IsSet reports whether pathString resolves to any bound entry at all,
// mapping or leaf. A naive reading of "is set" would require the final
// value to be a terminal (non-mapping) value, but this mirrors source
// behavior that also reports true for an ancestor of a set leaf — e.g.
// IsSet("person") is true once Set("person.address.street", ...) has
// run, because "person" is itself a bound key, even though it holds a
// nested mapping rather than a leaf. Descending through a nested mapping
// to check a deeper segment still requires every intermediate segment to
// resolve to a mapping.
func (b *MapPathBuilder) IsSet(pathString string) bool {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return false
	}
	cursor := b
	for i, s := range segs {
		key, err := segmentKey(s)
		if err != nil {
			return false
		}
		v, exists := cursor.localMap.get(key)
		if !exists {
			return false
		}
		if i == len(segs)-1 {
			return true
		}
		child, ok := v.(*OrderedMap)
		if !ok {
			return false
		}
		cursor = cursor.childCursor(key, child)
	}
	return false
}

// Unset removes the entry at pathString if present, and is silent if
// any segment along the way is absent or not a mapping.
func (b *MapPathBuilder) Unset(pathString string) {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return
	}
	cursor := b
	for _, s := range segs[:len(segs)-1] {
		key, err := segmentKey(s)
		if err != nil {
			return
		}
		v, exists := cursor.localMap.get(key)
		if !exists {
			return
		}
		child, ok := v.(*OrderedMap)
		if !ok {
			return
		}
		cursor = cursor.childCursor(key, child)
	}
	key, err := segmentKey(segs[len(segs)-1])
	if err != nil {
		return
	}
	cursor.localMap.delete(key)
}

// Add appends element to the sequence at pathString, creating a new
// singleton sequence if the path is currently absent. A path currently
// bound to anything other than a sequence dead-ends with ErrPathBlocked.
func (b *MapPathBuilder) Add(pathString string, element any) error {
	segs := From(pathString).Segments()
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", errIllegalArgument)
	}
	cursor, err := b.descendCreating(segs[:len(segs)-1])
	if err != nil {
		return err
	}
	key, err := segmentKey(segs[len(segs)-1])
	if err != nil {
		return err
	}
	v, exists := cursor.localMap.get(key)
	if !exists {
		cursor.localMap.set(key, []any{element})
		return nil
	}
	seq, ok := v.([]any)
	if !ok {
		return ErrPathBlocked
	}
	cursor.localMap.set(key, append(seq, element))
	return nil
}

// Build produces a deep copy of this cursor's local mapping as a plain
// OrderedMap tree, with every internal nil sentinel replaced by a real
// nil. The builder remains fully usable after Build.
func (b *MapPathBuilder) Build() *OrderedMap {
	return deepCopyOrdered(b.localMap)
}

func deepCopyOrdered(m *OrderedMap) *OrderedMap {
	out := newOrderedMap()
	for _, k := range m.keys {
		out.set(k, deepCopyValue(m.vals[k]))
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case nullSentinel:
		return nil
	case *OrderedMap:
		return deepCopyOrdered(t)
	case []any:
		cp := make([]any, len(t))
		for i, e := range t {
			cp[i] = deepCopyValue(e)
		}
		return cp
	default:
		return v
	}
}
