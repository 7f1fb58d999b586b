package classinfo

import (
	"testing"

	"unshrink/internal/dexfile"
)

func sampleDef() *dexfile.ClassDef {
	return &dexfile.ClassDef{
		TypeDesc:       "Lcom/example/Widget;",
		SuperDesc:      "Landroid/view/View;",
		InterfaceDescs: []string{"Ljava/lang/Runnable;", "Ljava/io/Serializable;"},
		AccessFlags:    0x0001,
		Fields: []dexfile.Field{
			{Name: "count", TypeDesc: "I", AccessFlags: 0x0002},
			{Name: "label", TypeDesc: "Ljava/lang/String;", AccessFlags: 0x0012},
		},
		Methods: []dexfile.Method{
			{Name: "run", ParamDescs: nil, ReturnDesc: "V", AccessFlags: 0x0001},
			{Name: "resize", ParamDescs: []string{"I", "I", "Ljava/lang/String;"}, ReturnDesc: "Z", AccessFlags: 0x0001},
		},
	}
}

func TestParseDexClass(t *testing.T) {
	c := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), sampleDef())

	if c.Name() != "com/example/Widget" {
		t.Errorf("Name = %q", c.Name())
	}
	if c.SuperName() != "android/view/View" {
		t.Errorf("SuperName = %q", c.SuperName())
	}
	wantItfs := []string{"java/lang/Runnable", "java/io/Serializable"}
	if len(c.Interfaces()) != 2 {
		t.Fatalf("Interfaces = %v", c.Interfaces())
	}
	for i, itf := range wantItfs {
		if c.Interfaces()[i] != itf {
			t.Errorf("Interfaces[%d] = %q, want %q", i, c.Interfaces()[i], itf)
		}
	}

	fields := c.Fields()
	if len(fields) != 2 {
		t.Fatalf("Fields = %v", fields)
	}
	want := FieldInfo{Owner: "com/example/Widget", Name: "count", Desc: "I", Access: 0x0002}
	if fields[0] != want {
		t.Errorf("Fields[0] = %+v, want %+v", fields[0], want)
	}

	methods := c.Methods()
	if len(methods) != 2 {
		t.Fatalf("Methods = %v", methods)
	}
	if methods[0].Desc != "()V" {
		t.Errorf("Methods[0].Desc = %q, want ()V", methods[0].Desc)
	}
	if methods[1].Desc != "(IILjava/lang/String;)Z" {
		t.Errorf("Methods[1].Desc = %q, want (IILjava/lang/String;)Z", methods[1].Desc)
	}
	if methods[1].Owner != "com/example/Widget" {
		t.Errorf("Methods[1].Owner = %q", methods[1].Owner)
	}
}

func TestParseDexClass_NoSuper(t *testing.T) {
	def := &dexfile.ClassDef{TypeDesc: "Ljava/lang/Object;"}
	c := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), def)
	if c.SuperName() != RootSuperName {
		t.Errorf("SuperName = %q, want %q", c.SuperName(), RootSuperName)
	}
}

func TestDexClassInfo_EqualIgnoresContainer(t *testing.T) {
	a := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), sampleDef())
	b := ParseDexClass("classes2.dex", dexfile.OpcodesForVersion("039"), sampleDef())

	if !a.Equal(b) {
		t.Error("records differing only in payload path and instruction set must be equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("equal records must hash equal")
	}
}

func TestDexClassInfo_EqualStructure(t *testing.T) {
	base := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), sampleDef())

	tests := []struct {
		name   string
		mutate func(*dexfile.ClassDef)
	}{
		{"access", func(d *dexfile.ClassDef) { d.AccessFlags = 0x0011 }},
		{"super", func(d *dexfile.ClassDef) { d.SuperDesc = "Ljava/lang/Object;" }},
		{"interface order", func(d *dexfile.ClassDef) {
			d.InterfaceDescs[0], d.InterfaceDescs[1] = d.InterfaceDescs[1], d.InterfaceDescs[0]
		}},
		{"field type", func(d *dexfile.ClassDef) { d.Fields[0].TypeDesc = "J" }},
		{"method flags", func(d *dexfile.ClassDef) { d.Methods[0].AccessFlags = 0x0008 }},
		{"dropped method", func(d *dexfile.ClassDef) { d.Methods = d.Methods[:1] }},
	}
	for _, tt := range tests {
		def := sampleDef()
		tt.mutate(def)
		other := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), def)
		if base.Equal(other) {
			t.Errorf("%s: structural change not detected", tt.name)
		}
		if base.Hash() == other.Hash() {
			t.Errorf("%s: hash collision on structural change", tt.name)
		}
	}
}

func TestDexClassInfo_OwnsBackingDef(t *testing.T) {
	def := sampleDef()
	c := ParseDexClass("classes.dex", dexfile.OpcodesForVersion("035"), def)

	// Mutating the input after translation must not reach the record's copy.
	def.Fields[0].Name = "mutated"
	if c.ClassDef().Fields[0].Name != "count" {
		t.Error("backing definition aliases the caller's input")
	}
}

func TestClassInfo_CommonSurface(t *testing.T) {
	c := NewClassInfo("a/B", "java/lang/Object", nil, 0x0021,
		[]FieldInfo{{Owner: "a/B", Name: "x", Desc: "I", Access: 0}},
		nil)
	var common CommonClassInfo = c
	if common.Name() != "a/B" || common.SuperName() != "java/lang/Object" {
		t.Errorf("common surface: %q %q", common.Name(), common.SuperName())
	}
	if len(common.Fields()) != 1 || common.Fields()[0].Name != "x" {
		t.Errorf("Fields = %v", common.Fields())
	}
}
