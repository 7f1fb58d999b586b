package bootstrap

import (
	"errors"
	"strings"
	"testing"

	"unshrink/internal/descriptor"
)

func TestOf_Kinds(t *testing.T) {
	handle := &HandleInfo{Tag: "H_INVOKESTATIC", Owner: "a/b/C", Name: "run", Desc: "()V"}
	tests := []struct {
		in   any
		want ArgKind
	}{
		{"hello", KindString},
		{int32(5), KindInteger},
		{42, KindInteger},
		{float32(1.5), KindFloat},
		{2.5, KindDouble},
		{int64(9), KindLong},
		{descriptor.Type("La/b/C;"), KindType},
		{handle, KindHandle},
	}
	for _, tt := range tests {
		arg, err := Of(tt.in)
		if err != nil {
			t.Errorf("Of(%v): %v", tt.in, err)
			continue
		}
		if arg.Kind() != tt.want {
			t.Errorf("Of(%v).Kind() = %s, want %s", tt.in, arg.Kind(), tt.want)
		}
	}
}

func TestOf_Nil(t *testing.T) {
	_, err := Of(nil)
	if !errors.Is(err, ErrNilValue) {
		t.Errorf("Of(nil) = %v, want ErrNilValue", err)
	}
}

func TestOf_Unsupported(t *testing.T) {
	_, err := Of(struct{ x int }{1})
	var uke *UnsupportedKindError
	if !errors.As(err, &uke) {
		t.Fatalf("Of(struct) = %v, want UnsupportedKindError", err)
	}
	if !strings.Contains(uke.Error(), "struct") {
		t.Errorf("error %q does not name the offending type", uke.Error())
	}
}

func TestPrint(t *testing.T) {
	handle := &HandleInfo{Tag: "H_GETFIELD", Owner: "a/b/C", Name: "x", Desc: "I"}
	tests := []struct {
		in   any
		want string
	}{
		{descriptor.Type("La/b/C;"), "a/b/C"}, // object type: bare internal name
		{descriptor.Type("I"), "I"},           // primitive: raw descriptor
		{descriptor.Type("[J"), "[J"},         // array: raw descriptor
		{"text", "\"text\""},
		{int32(7), "7"},
		{int64(-3), "-3"},
		{float32(1.5), "1.5"},
		{2.25, "2.25"},
		{handle, "handle(H_GETFIELD a/b/C.x I)"},
	}
	for _, tt := range tests {
		arg, err := Of(tt.in)
		if err != nil {
			t.Fatalf("Of(%v): %v", tt.in, err)
		}
		if got := arg.Print(); got != tt.want {
			t.Errorf("Of(%v).Print() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewHandle(t *testing.T) {
	h, err := NewHandle(TagInvokeStatic, "a/b/C", "run", "()V")
	if err != nil {
		t.Fatalf("NewHandle: %v", err)
	}
	if h.Print() != "H_INVOKESTATIC a/b/C.run ()V" {
		t.Errorf("Print() = %q", h.Print())
	}
	if _, err := NewHandle(0, "a", "b", "c"); err == nil {
		t.Error("NewHandle(0) succeeded, want error")
	}
	if _, err := NewHandle(10, "a", "b", "c"); err == nil {
		t.Error("NewHandle(10) succeeded, want error")
	}
}

func TestTagFromDex(t *testing.T) {
	tests := []struct {
		code int
		want int
	}{
		{0x00, TagPutStatic},
		{0x01, TagGetStatic},
		{0x04, TagInvokeStatic},
		{0x05, TagInvokeVirtual},
		{0x08, TagInvokeInterface},
	}
	for _, tt := range tests {
		got, ok := TagFromDex(tt.code)
		if !ok || got != tt.want {
			t.Errorf("TagFromDex(%#x) = %d, %v, want %d", tt.code, got, ok, tt.want)
		}
	}
	if _, ok := TagFromDex(9); ok {
		t.Error("TagFromDex(9) ok, want false")
	}
}
