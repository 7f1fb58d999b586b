package dexfile

import (
	"fmt"
	"math"

	"unshrink/internal/bootstrap"
	"unshrink/internal/descriptor"
)

// encoded_value type codes.
const (
	valueByte         = 0x00
	valueShort        = 0x02
	valueChar         = 0x03
	valueInt          = 0x04
	valueLong         = 0x06
	valueFloat        = 0x10
	valueDouble       = 0x11
	valueMethodType   = 0x15
	valueMethodHandle = 0x16
	valueString       = 0x17
	valueType         = 0x18
	valueField        = 0x19
	valueMethod       = 0x1a
	valueEnum         = 0x1b
	valueArray        = 0x1c
	valueAnnotation   = 0x1d
	valueNull         = 0x1e
	valueBoolean      = 0x1f
)

// DecodeValueArray decodes an encoded_array: a ULEB128 count followed by
// that many encoded values.
func (d *Dex) DecodeValueArray(s *Stream) ([]any, error) {
	n, err := s.ReadULEB128()
	if err != nil {
		return nil, err
	}
	out := make([]any, n)
	for i := range out {
		if out[i], err = d.DecodeValue(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeValue decodes one encoded_value. Scalars come back as int32/int64/
// float32/float64, text as string, type references as descriptor.Type and
// method handles as *bootstrap.HandleInfo, so the runtime kind of the result
// is what downstream classification dispatches on.
func (d *Dex) DecodeValue(s *Stream) (any, error) {
	header, err := s.ReadByte()
	if err != nil {
		return nil, err
	}
	vtype := int(header & 0x1f)
	arg := int(header >> 5)
	size := arg + 1

	switch vtype {
	case valueByte, valueShort, valueInt:
		v, err := s.ReadSizedInt(size)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case valueChar:
		v, err := s.ReadSizedUint(size)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case valueLong:
		return s.ReadSizedInt(size)
	case valueFloat:
		bits, err := s.ReadSizedFloatBits(size, 32)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(uint32(bits)), nil
	case valueDouble:
		bits, err := s.ReadSizedFloatBits(size, 64)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case valueString:
		idx, err := s.ReadSizedUint(size)
		if err != nil {
			return nil, err
		}
		return d.stringAt(uint32(idx))
	case valueType:
		idx, err := s.ReadSizedUint(size)
		if err != nil {
			return nil, err
		}
		desc, err := d.typeAt(uint32(idx))
		if err != nil {
			return nil, err
		}
		return descriptor.Type(desc), nil
	case valueMethodHandle:
		idx, err := s.ReadSizedUint(size)
		if err != nil {
			return nil, err
		}
		return d.methodHandleAt(uint32(idx))
	case valueNull:
		return nil, nil
	case valueBoolean:
		return arg != 0, nil
	case valueArray:
		return d.DecodeValueArray(s)
	default:
		return nil, fmt.Errorf("dexfile: unsupported encoded value type 0x%02x", vtype)
	}
}

// methodHandleAt resolves a method_handle_item into a symbolic handle. The
// member id indexes the field table for accessor handles and the method
// table for invocation handles.
func (d *Dex) methodHandleAt(idx uint32) (*bootstrap.HandleInfo, error) {
	if int(idx) >= len(d.methodHandles) {
		return nil, fmt.Errorf("dexfile: method handle index %d out of range", idx)
	}
	item := d.methodHandles[idx]
	tag, ok := bootstrap.TagFromDex(int(item.handleType))
	if !ok {
		return nil, fmt.Errorf("dexfile: unknown method handle type %d", item.handleType)
	}

	if item.handleType <= 0x03 {
		// Field accessor handle.
		fid, err := d.fieldAt(uint32(item.memberID))
		if err != nil {
			return nil, err
		}
		owner, err := d.typeAt(uint32(fid.classIdx))
		if err != nil {
			return nil, err
		}
		name, err := d.stringAt(fid.nameIdx)
		if err != nil {
			return nil, err
		}
		desc, err := d.typeAt(uint32(fid.typeIdx))
		if err != nil {
			return nil, err
		}
		return bootstrap.NewHandle(tag, descriptor.Type(owner).InternalName(), name, desc)
	}

	mid, err := d.methodAt(uint32(item.memberID))
	if err != nil {
		return nil, err
	}
	owner, err := d.typeAt(uint32(mid.classIdx))
	if err != nil {
		return nil, err
	}
	name, err := d.stringAt(mid.nameIdx)
	if err != nil {
		return nil, err
	}
	desc, err := d.methodDescAt(uint32(mid.protoIdx))
	if err != nil {
		return nil, err
	}
	return bootstrap.NewHandle(tag, descriptor.Type(owner).InternalName(), name, desc)
}

// methodDescAt builds the binary method descriptor for a proto entry.
// Raw dex type tokens already obey the descriptor grammar, so the
// descriptor is plain token concatenation.
func (d *Dex) methodDescAt(protoIdx uint32) (string, error) {
	if int(protoIdx) >= len(d.protos) {
		return "", fmt.Errorf("dexfile: proto index %d out of range", protoIdx)
	}
	proto := d.protos[protoIdx]
	desc := "("
	for _, ti := range proto.paramTypeIdxs {
		t, err := d.typeAt(uint32(ti))
		if err != nil {
			return "", err
		}
		desc += t
	}
	ret, err := d.typeAt(proto.returnTypeIdx)
	if err != nil {
		return "", err
	}
	return desc + ")" + ret, nil
}
