// Package descriptor converts between human-readable type names and the
// slash-delimited binary descriptor grammar shared by JVM class files and
// dex payloads.
package descriptor

import "strings"

// primitives maps the eight primitive keywords to their single-letter
// descriptor codes.
var primitives = map[string]string{
	"int":     "I",
	"float":   "F",
	"double":  "D",
	"long":    "J",
	"boolean": "Z",
	"short":   "S",
	"byte":    "B",
	"void":    "V",
}

// ToInternal converts a human-readable type name to internal form.
// Primitive keywords map to their single-letter codes; everything else is
// treated as an object type name and dot-to-slash converted.
func ToInternal(name string) string {
	if code, ok := primitives[name]; ok {
		return code
	}
	return strings.ReplaceAll(name, ".", "/")
}

// IsPrimitive reports whether name is one of the eight primitive keywords.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// ObjectDesc wraps an internal object type name as a field descriptor.
func ObjectDesc(internalName string) string {
	return "L" + internalName + ";"
}

// Type is a binary type descriptor, e.g. "I", "La/b/C;" or "[J".
type Type string

// IsObject reports whether the descriptor denotes a (non-array) object type.
func (t Type) IsObject() bool {
	return len(t) >= 2 && t[0] == 'L' && t[len(t)-1] == ';'
}

// InternalName returns the internal class name for object types. Primitive
// and array descriptors are returned unchanged, matching how they appear in
// descriptor position.
func (t Type) InternalName() string {
	if t.IsObject() {
		return string(t[1 : len(t)-1])
	}
	return string(t)
}

func (t Type) String() string {
	return string(t)
}
