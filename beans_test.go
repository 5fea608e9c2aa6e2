// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Daniel Schmidt

package objpath

import (
	"reflect"
	"testing"
)

type person struct {
	Name string
	Age  int
}

func TestBeanReaderReadsFields(t *testing.T) {
	r := NewBeanReader(reflect.TypeOf(person{}))
	v, err := r.Read(person{Name: "Ada", Age: 30}, "name")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if v != "Ada" {
		t.Errorf("Read = %v, want Ada", v)
	}
}

func TestBeanReaderPropertyFilter(t *testing.T) {
	r := NewBeanReader(reflect.TypeOf(person{}), WithProperties(Include, "name"))
	if _, err := r.Read(person{Name: "Ada", Age: 30}, "age"); err == nil {
		t.Error("expected NoSuchProperty for an excluded property")
	}
	props := r.Properties()
	if len(props) != 1 || props[0] != "name" {
		t.Errorf("Properties() = %v, want [name]", props)
	}
}

func TestBeanWriterWriteRequiresAddressablePointer(t *testing.T) {
	w := NewBeanWriter(reflect.TypeOf(person{}))
	p := &person{}
	if err := w.Write(p, "name", "Grace"); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if p.Name != "Grace" {
		t.Errorf("p.Name = %q, want Grace", p.Name)
	}

	if err := w.Write(person{}, "name", "x"); err == nil {
		t.Error("expected error writing through a non-pointer value")
	}
}

func TestBeanWriterCopyAndCopyNonNull(t *testing.T) {
	w := NewBeanWriter(reflect.TypeOf(person{}))
	dst := &person{Name: "old", Age: 1}
	src := person{Name: "new", Age: 0}

	if err := w.CopyNonNull(dst, src); err != nil {
		t.Fatalf("CopyNonNull error: %v", err)
	}
	if dst.Name != "new" {
		t.Errorf("dst.Name = %q, want new", dst.Name)
	}
	if dst.Age != 1 {
		t.Errorf("dst.Age = %d, want 1 (CopyNonNull should skip the zero-valued Age)", dst.Age)
	}

	dst2 := &person{Name: "old", Age: 1}
	if err := w.Copy(dst2, src); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if dst2.Age != 0 {
		t.Errorf("dst2.Age = %d, want 0 (Copy propagates every property)", dst2.Age)
	}
}

func TestBeanWriterEnrich(t *testing.T) {
	w := NewBeanWriter(reflect.TypeOf(person{}))
	dst := &person{Name: "", Age: 5}
	src := person{Name: "filled", Age: 99}

	if err := w.Enrich(dst, src); err != nil {
		t.Fatalf("Enrich error: %v", err)
	}
	if dst.Name != "filled" {
		t.Errorf("dst.Name = %q, want filled (was zero, should be enriched)", dst.Name)
	}
	if dst.Age != 5 {
		t.Errorf("dst.Age = %d, want 5 (already populated, should not be overwritten)", dst.Age)
	}
}

func TestBeanTransformHookAppliesOnReadAndWrite(t *testing.T) {
	upper := func(bean any, propertyName string, value any) any {
		if s, ok := value.(string); ok {
			return s + "!"
		}
		return value
	}
	r := NewBeanReader(reflect.TypeOf(person{}), WithTransform(upper))
	v, err := r.Read(person{Name: "Ada"}, "name")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if v != "Ada!" {
		t.Errorf("Read = %v, want Ada!", v)
	}

	w := NewBeanWriter(reflect.TypeOf(person{}), WithTransform(upper))
	p := &person{}
	if err := w.Write(p, "name", "Grace"); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if p.Name != "Grace!" {
		t.Errorf("p.Name = %q, want Grace!", p.Name)
	}
}

type explicitBean struct {
	label string
}

func (e explicitBean) Label() string   { return e.label }
func (e *explicitBean) Relabel(s string) { e.label = s }

func TestBeanReaderWriterBuilderExplicitBindings(t *testing.T) {
	t.Cleanup(func() {
		globalRegistry.cache.Delete(cacheKey{t: reflect.TypeOf(explicitBean{}), mode: StrictDiscovery})
	})

	rb := NewBeanReaderBuilder(reflect.TypeOf(explicitBean{})).Property("tag", "Label")
	reader, err := rb.Build()
	if err != nil {
		t.Fatalf("BeanReaderBuilder.Build error: %v", err)
	}
	v, err := reader.Read(explicitBean{label: "x"}, "tag")
	if err != nil || v != "x" {
		t.Fatalf("Read = %v, %v; want x, nil", v, err)
	}

	wb := NewBeanWriterBuilder(reflect.TypeOf(explicitBean{})).Property("tag", "Relabel")
	writer, err := wb.Build()
	if err != nil {
		t.Fatalf("BeanWriterBuilder.Build error: %v", err)
	}
	e := &explicitBean{}
	if err := writer.Write(e, "tag", "y"); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if e.label != "y" {
		t.Errorf("e.label = %q, want y", e.label)
	}
}
