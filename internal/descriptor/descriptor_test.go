package descriptor

import "testing"

func TestToInternal_Primitives(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "I"},
		{"float", "F"},
		{"double", "D"},
		{"long", "J"},
		{"boolean", "Z"},
		{"short", "S"},
		{"byte", "B"},
		{"void", "V"},
	}
	for _, tt := range tests {
		if got := ToInternal(tt.in); got != tt.want {
			t.Errorf("ToInternal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToInternal_ObjectNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"java.lang.String", "java/lang/String"},
		{"a.b.C", "a/b/C"},
		{"NoPackage", "NoPackage"},
		{"already/internal/Name", "already/internal/Name"},
		{"Integer", "Integer"}, // not the keyword, stays an object name
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToInternal(tt.in); got != tt.want {
			t.Errorf("ToInternal(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToInternal_RoundTrip(t *testing.T) {
	// Dotting an internal name and converting back must round-trip.
	names := []string{"a/b/C", "java/util/Map$Entry", "Single"}
	for _, n := range names {
		dotted := ""
		for _, r := range n {
			if r == '/' {
				dotted += "."
			} else {
				dotted += string(r)
			}
		}
		if got := ToInternal(dotted); got != n {
			t.Errorf("ToInternal(%q) = %q, want %q", dotted, got, n)
		}
	}
}

func TestIsPrimitive(t *testing.T) {
	for _, kw := range []string{"int", "float", "double", "long", "boolean", "short", "byte", "void"} {
		if !IsPrimitive(kw) {
			t.Errorf("IsPrimitive(%q) = false, want true", kw)
		}
	}
	for _, s := range []string{"", "Int", "java.lang.Integer", "I", "char", "string"} {
		if IsPrimitive(s) {
			t.Errorf("IsPrimitive(%q) = true, want false", s)
		}
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		desc     Type
		isObject bool
		internal string
	}{
		{"La/b/C;", true, "a/b/C"},
		{"Ljava/lang/Object;", true, "java/lang/Object"},
		{"I", false, "I"},
		{"[J", false, "[J"},
		{"[La/b/C;", false, "[La/b/C;"},
	}
	for _, tt := range tests {
		if got := tt.desc.IsObject(); got != tt.isObject {
			t.Errorf("Type(%q).IsObject() = %v, want %v", tt.desc, got, tt.isObject)
		}
		if got := tt.desc.InternalName(); got != tt.internal {
			t.Errorf("Type(%q).InternalName() = %q, want %q", tt.desc, got, tt.internal)
		}
	}
}

func TestObjectDesc(t *testing.T) {
	if got := ObjectDesc("a/b/C"); got != "La/b/C;" {
		t.Errorf("ObjectDesc(a/b/C) = %q, want La/b/C;", got)
	}
}
