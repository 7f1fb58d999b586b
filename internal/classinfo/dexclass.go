package classinfo

import (
	"strings"

	"unshrink/internal/descriptor"
	"unshrink/internal/dexfile"
)

// DexClassInfo is the dex-backed variant of the class model. Beyond the
// common surface it records which payload of a multi-dex container the
// class came from, the payload's instruction set, and an exclusively owned
// copy of the raw definition.
//
// Equality and hashing cover the common surface only, so reloading the same
// class from a different payload path still compares equal.
type DexClassInfo struct {
	dexPath    string
	opcodes    dexfile.Opcodes
	def        *dexfile.ClassDef
	name       string
	superName  string
	interfaces []string
	access     uint32
	fields     []FieldInfo
	methods    []MethodInfo
}

// ParseDexClass translates a dex class definition into the common model.
func ParseDexClass(dexPath string, opcodes dexfile.Opcodes, def *dexfile.ClassDef) *DexClassInfo {
	// Dex type tokens keep the "L...;" wrapper; the model wants bare
	// internal names.
	name := descriptor.Type(def.TypeDesc).InternalName()
	superName := RootSuperName
	if def.SuperDesc != "" {
		superName = descriptor.Type(def.SuperDesc).InternalName()
	}
	interfaces := make([]string, len(def.InterfaceDescs))
	for i, itf := range def.InterfaceDescs {
		interfaces[i] = descriptor.Type(itf).InternalName()
	}
	fields := make([]FieldInfo, len(def.Fields))
	for i, f := range def.Fields {
		fields[i] = FieldInfo{
			Owner:  name,
			Name:   f.Name,
			Desc:   f.TypeDesc,
			Access: f.AccessFlags,
		}
	}
	methods := make([]MethodInfo, len(def.Methods))
	for i, m := range def.Methods {
		methods[i] = MethodInfo{
			Owner:  name,
			Name:   m.Name,
			Desc:   buildMethodDesc(m),
			Access: m.AccessFlags,
		}
	}
	return &DexClassInfo{
		dexPath:    dexPath,
		opcodes:    opcodes,
		def:        def.Clone(),
		name:       name,
		superName:  superName,
		interfaces: interfaces,
		access:     def.AccessFlags,
		fields:     fields,
		methods:    methods,
	}
}

// buildMethodDesc synthesizes the binary method descriptor. Raw dex type
// tokens already follow the descriptor grammar, so this is concatenation.
func buildMethodDesc(m dexfile.Method) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range m.ParamDescs {
		sb.WriteString(p)
	}
	sb.WriteByte(')')
	sb.WriteString(m.ReturnDesc)
	return sb.String()
}

// DexPath identifies the payload inside a multi-dex container the class was
// defined in.
func (c *DexClassInfo) DexPath() string { return c.dexPath }

// Opcodes returns the instruction set of the originating payload.
func (c *DexClassInfo) Opcodes() dexfile.Opcodes { return c.opcodes }

// ClassDef returns the backing definition. It is owned by this record;
// callers must not assume it is shared with any other translation.
func (c *DexClassInfo) ClassDef() *dexfile.ClassDef { return c.def }

func (c *DexClassInfo) Name() string          { return c.name }
func (c *DexClassInfo) SuperName() string     { return c.superName }
func (c *DexClassInfo) Interfaces() []string  { return c.interfaces }
func (c *DexClassInfo) Access() uint32        { return c.access }
func (c *DexClassInfo) Fields() []FieldInfo   { return c.fields }
func (c *DexClassInfo) Methods() []MethodInfo { return c.methods }

// Equal reports structural equality. Payload path, instruction set and the
// backing definition are deliberately excluded so container bookkeeping
// differences never register as class changes.
func (c *DexClassInfo) Equal(o *DexClassInfo) bool {
	if c == o {
		return true
	}
	if o == nil {
		return false
	}
	return structuralEqual(c, o)
}

// Hash digests the same structure Equal compares.
func (c *DexClassInfo) Hash() uint64 {
	return structuralHash(c)
}
