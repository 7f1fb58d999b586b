// Package classinfo is the common class model: one read-only capability
// surface over classes loaded from JVM class files or dex payloads.
package classinfo

import (
	"hash/fnv"
)

// RootSuperName is the default superclass when a format reports none.
const RootSuperName = "java/lang/Object"

// CommonClassInfo is the capability surface shared by every class variant.
// Names are internal (slash-delimited); descriptors follow the binary
// grammar.
type CommonClassInfo interface {
	Name() string
	SuperName() string
	Interfaces() []string
	Access() uint32
	Fields() []FieldInfo
	Methods() []MethodInfo
}

// FieldInfo describes one declared field. Desc is the field type descriptor.
type FieldInfo struct {
	Owner  string
	Name   string
	Desc   string
	Access uint32
}

// MethodInfo describes one declared method. Desc is the full method
// descriptor, "(params)return".
type MethodInfo struct {
	Owner  string
	Name   string
	Desc   string
	Access uint32
}

// ClassInfo is the plain (JVM class file) variant of the model.
type ClassInfo struct {
	name       string
	superName  string
	interfaces []string
	access     uint32
	fields     []FieldInfo
	methods    []MethodInfo
}

// NewClassInfo builds a plain class model instance.
func NewClassInfo(name, superName string, interfaces []string, access uint32,
	fields []FieldInfo, methods []MethodInfo) *ClassInfo {
	return &ClassInfo{
		name:       name,
		superName:  superName,
		interfaces: interfaces,
		access:     access,
		fields:     fields,
		methods:    methods,
	}
}

func (c *ClassInfo) Name() string          { return c.name }
func (c *ClassInfo) SuperName() string     { return c.superName }
func (c *ClassInfo) Interfaces() []string  { return c.interfaces }
func (c *ClassInfo) Access() uint32        { return c.access }
func (c *ClassInfo) Fields() []FieldInfo   { return c.fields }
func (c *ClassInfo) Methods() []MethodInfo { return c.methods }

// structuralEqual compares the observable structure of two classes:
// name, super, interfaces, access, fields, methods. Nothing else.
func structuralEqual(a, b CommonClassInfo) bool {
	if a.Name() != b.Name() || a.SuperName() != b.SuperName() || a.Access() != b.Access() {
		return false
	}
	ai, bi := a.Interfaces(), b.Interfaces()
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i] != bi[i] {
			return false
		}
	}
	af, bf := a.Fields(), b.Fields()
	if len(af) != len(bf) {
		return false
	}
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	am, bm := a.Methods(), b.Methods()
	if len(am) != len(bm) {
		return false
	}
	for i := range am {
		if am[i] != bm[i] {
			return false
		}
	}
	return true
}

// structuralHash folds the same structure Equal compares into an FNV-64
// digest, so equal classes always hash equal.
func structuralHash(c CommonClassInfo) uint64 {
	h := fnv.New64a()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	writeFlags := func(v uint32) {
		h.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
	}
	write(c.Name())
	write(c.SuperName())
	for _, itf := range c.Interfaces() {
		write(itf)
	}
	writeFlags(c.Access())
	for _, f := range c.Fields() {
		write(f.Owner)
		write(f.Name)
		write(f.Desc)
		writeFlags(f.Access)
	}
	for _, m := range c.Methods() {
		write(m.Owner)
		write(m.Name)
		write(m.Desc)
		writeFlags(m.Access)
	}
	return h.Sum64()
}
