// Package bootstrap models the constant arguments of dynamic invocation
// sites: a tagged value per recognized constant kind, plus the symbolic
// method/field handle used as a linkage target.
package bootstrap

import (
	"errors"
	"fmt"

	"unshrink/internal/descriptor"
)

// ErrNilValue is returned when classifying an absent value.
var ErrNilValue = errors.New("bootstrap: argument value must not be nil")

// UnsupportedKindError reports a value whose runtime kind is not a
// recognized bootstrap argument kind.
type UnsupportedKindError struct {
	TypeName string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("bootstrap: unsupported argument type: %s", e.TypeName)
}

// ArgKind discriminates bootstrap argument payloads.
type ArgKind int

const (
	KindInteger ArgKind = iota
	KindFloat
	KindDouble
	KindLong
	KindString
	KindType
	KindHandle
)

func (k ArgKind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindDouble:
		return "DOUBLE"
	case KindLong:
		return "LONG"
	case KindString:
		return "STRING"
	case KindType:
		return "TYPE"
	case KindHandle:
		return "HANDLE"
	default:
		return fmt.Sprintf("ArgKind(%d)", int(k))
	}
}

// HandleInfo is a symbolic reference to a method or field.
type HandleInfo struct {
	Tag   string
	Owner string
	Name  string
	Desc  string
}

// NewHandle builds a HandleInfo from a numeric reference tag. The tag name
// comes from the fixed tag table; unknown tags are rejected.
func NewHandle(tag int, owner, name, desc string) (*HandleInfo, error) {
	tagName, ok := TagName(tag)
	if !ok {
		return nil, fmt.Errorf("bootstrap: unknown handle tag %d", tag)
	}
	return &HandleInfo{Tag: tagName, Owner: owner, Name: name, Desc: desc}, nil
}

// Print renders the handle in assembly syntax: "tag owner.name desc".
func (h *HandleInfo) Print() string {
	return h.Tag + " " + h.Owner + "." + h.Name + " " + h.Desc
}

func (h *HandleInfo) String() string {
	return h.Print()
}

// Arg is one bootstrap method argument: a kind tag and the matching payload.
type Arg struct {
	kind  ArgKind
	value any
}

// Of classifies a raw constant value by its runtime kind.
func Of(value any) (*Arg, error) {
	switch v := value.(type) {
	case string:
		return &Arg{kind: KindString, value: v}, nil
	case int32:
		return &Arg{kind: KindInteger, value: v}, nil
	case int:
		return &Arg{kind: KindInteger, value: int32(v)}, nil
	case float32:
		return &Arg{kind: KindFloat, value: v}, nil
	case float64:
		return &Arg{kind: KindDouble, value: v}, nil
	case int64:
		return &Arg{kind: KindLong, value: v}, nil
	case descriptor.Type:
		return &Arg{kind: KindType, value: v}, nil
	case *HandleInfo:
		return &Arg{kind: KindHandle, value: v}, nil
	case nil:
		return nil, ErrNilValue
	default:
		return nil, &UnsupportedKindError{TypeName: fmt.Sprintf("%T", value)}
	}
}

// Kind returns the discriminator.
func (a *Arg) Kind() ArgKind {
	return a.kind
}

// Value returns the payload matching Kind.
func (a *Arg) Value() any {
	return a.value
}

// Print renders the argument in assembly syntax. The form is stable: it is
// both the display form and the round-trip form for the textual assembler.
func (a *Arg) Print() string {
	switch a.kind {
	case KindType:
		t := a.value.(descriptor.Type)
		if t.IsObject() {
			return t.InternalName()
		}
		return t.String()
	case KindString:
		return "\"" + a.value.(string) + "\""
	case KindHandle:
		return "handle(" + a.value.(*HandleInfo).Print() + ")"
	default:
		return fmt.Sprint(a.value)
	}
}

func (a *Arg) String() string {
	return fmt.Sprintf("ARG[%s:%v]", a.kind, a.value)
}
