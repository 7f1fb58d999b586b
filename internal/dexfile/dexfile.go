// Package dexfile reads dex payloads: identifier tables, class definitions
// and the encoded constants hanging off them. It decodes class structure
// only; instruction bodies are left untouched.
package dexfile

import (
	"errors"
	"fmt"
)

const (
	headerSize = 0x70
	endianTag  = 0x12345678
	noIndex    = 0xffffffff

	typeMethodHandleItem = 0x0008
)

var (
	ErrBadMagic  = errors.New("dexfile: bad magic")
	ErrBadEndian = errors.New("dexfile: unsupported endianness")
)

// Field is one declared field of a class definition.
type Field struct {
	Name        string
	TypeDesc    string
	AccessFlags uint32
	// Static initial value from the class's static_values array, when one
	// was encoded. Value kinds follow DecodeValue.
	StaticValue any
	HasValue    bool
}

// Method is one declared method of a class definition.
type Method struct {
	Name        string
	ParamDescs  []string
	ReturnDesc  string
	AccessFlags uint32
}

// ClassDef is a decoded class definition. Type references are raw dex
// descriptors ("La/b/C;", "I", "[J").
type ClassDef struct {
	TypeDesc       string
	SuperDesc      string // empty when the class declares no superclass
	InterfaceDescs []string
	AccessFlags    uint32
	SourceFile     string
	Fields         []Field
	Methods        []Method
}

// Clone returns a deep copy. Callers that hold on to a definition across
// reloads must own their copy; the slices in a parsed Dex are shared.
func (c *ClassDef) Clone() *ClassDef {
	cp := *c
	cp.InterfaceDescs = append([]string(nil), c.InterfaceDescs...)
	cp.Fields = append([]Field(nil), c.Fields...)
	cp.Methods = make([]Method, len(c.Methods))
	for i, m := range c.Methods {
		m.ParamDescs = append([]string(nil), m.ParamDescs...)
		cp.Methods[i] = m
	}
	return &cp
}

type fieldID struct {
	classIdx uint16
	typeIdx  uint16
	nameIdx  uint32
}

type methodID struct {
	classIdx uint16
	protoIdx uint16
	nameIdx  uint32
}

type protoID struct {
	returnTypeIdx uint32
	paramTypeIdxs []uint16
}

type methodHandleItem struct {
	handleType uint16
	memberID   uint16
}

// Dex is a parsed dex payload.
type Dex struct {
	Version string
	Opcodes Opcodes
	Classes []*ClassDef

	data          []byte
	strings       []string
	typeDescs     []string
	protos        []protoID
	fields        []fieldID
	methods       []methodID
	methodHandles []methodHandleItem
}

// Parse decodes a dex payload from data.
func Parse(data []byte) (*Dex, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("dexfile: truncated header (%d bytes)", len(data))
	}
	version, err := checkMagic(data)
	if err != nil {
		return nil, err
	}
	s := NewStreamAt(data, 40)
	endian, _ := s.ReadUint32()
	if endian != endianTag {
		return nil, ErrBadEndian
	}

	d := &Dex{
		Version: version,
		Opcodes: OpcodesForVersion(version),
		data:    data,
	}

	s.SetPosition(52)
	mapOff, _ := s.ReadUint32()
	stringIDsSize, _ := s.ReadUint32()
	stringIDsOff, _ := s.ReadUint32()
	typeIDsSize, _ := s.ReadUint32()
	typeIDsOff, _ := s.ReadUint32()
	protoIDsSize, _ := s.ReadUint32()
	protoIDsOff, _ := s.ReadUint32()
	fieldIDsSize, _ := s.ReadUint32()
	fieldIDsOff, _ := s.ReadUint32()
	methodIDsSize, _ := s.ReadUint32()
	methodIDsOff, _ := s.ReadUint32()
	classDefsSize, _ := s.ReadUint32()
	classDefsOff, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}

	if err := d.readStrings(stringIDsOff, stringIDsSize); err != nil {
		return nil, err
	}
	if err := d.readTypeIDs(typeIDsOff, typeIDsSize); err != nil {
		return nil, err
	}
	if err := d.readProtoIDs(protoIDsOff, protoIDsSize); err != nil {
		return nil, err
	}
	if err := d.readFieldIDs(fieldIDsOff, fieldIDsSize); err != nil {
		return nil, err
	}
	if err := d.readMethodIDs(methodIDsOff, methodIDsSize); err != nil {
		return nil, err
	}
	if err := d.readMethodHandles(mapOff); err != nil {
		return nil, err
	}
	if err := d.readClassDefs(classDefsOff, classDefsSize); err != nil {
		return nil, err
	}
	return d, nil
}

func checkMagic(data []byte) (string, error) {
	if string(data[:4]) != "dex\n" || data[7] != 0 {
		return "", ErrBadMagic
	}
	version := string(data[4:7])
	for _, c := range version {
		if c < '0' || c > '9' {
			return "", ErrBadMagic
		}
	}
	return version, nil
}

func (d *Dex) readStrings(off, count uint32) error {
	ids := NewStreamAt(d.data, int(off))
	d.strings = make([]string, count)
	for i := range d.strings {
		dataOff, err := ids.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: string id %d: %w", i, err)
		}
		item := NewStreamAt(d.data, int(dataOff))
		if _, err := item.ReadULEB128(); err != nil { // utf16 length, unused
			return fmt.Errorf("dexfile: string %d: %w", i, err)
		}
		str, err := item.ReadMUTF8()
		if err != nil {
			return fmt.Errorf("dexfile: string %d: %w", i, err)
		}
		d.strings[i] = str
	}
	return nil
}

func (d *Dex) readTypeIDs(off, count uint32) error {
	s := NewStreamAt(d.data, int(off))
	d.typeDescs = make([]string, count)
	for i := range d.typeDescs {
		idx, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: type id %d: %w", i, err)
		}
		str, err := d.stringAt(idx)
		if err != nil {
			return fmt.Errorf("dexfile: type id %d: %w", i, err)
		}
		d.typeDescs[i] = str
	}
	return nil
}

func (d *Dex) readProtoIDs(off, count uint32) error {
	s := NewStreamAt(d.data, int(off))
	d.protos = make([]protoID, count)
	for i := range d.protos {
		if _, err := s.ReadUint32(); err != nil { // shorty_idx, unused
			return fmt.Errorf("dexfile: proto id %d: %w", i, err)
		}
		retIdx, _ := s.ReadUint32()
		paramsOff, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: proto id %d: %w", i, err)
		}
		p := protoID{returnTypeIdx: retIdx}
		if paramsOff != 0 {
			list := NewStreamAt(d.data, int(paramsOff))
			n, err := list.ReadUint32()
			if err != nil {
				return fmt.Errorf("dexfile: proto id %d params: %w", i, err)
			}
			p.paramTypeIdxs = make([]uint16, n)
			for j := range p.paramTypeIdxs {
				idx, err := list.ReadUint16()
				if err != nil {
					return fmt.Errorf("dexfile: proto id %d params: %w", i, err)
				}
				p.paramTypeIdxs[j] = idx
			}
		}
		d.protos[i] = p
	}
	return nil
}

func (d *Dex) readFieldIDs(off, count uint32) error {
	s := NewStreamAt(d.data, int(off))
	d.fields = make([]fieldID, count)
	for i := range d.fields {
		classIdx, _ := s.ReadUint16()
		typeIdx, _ := s.ReadUint16()
		nameIdx, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: field id %d: %w", i, err)
		}
		d.fields[i] = fieldID{classIdx: classIdx, typeIdx: typeIdx, nameIdx: nameIdx}
	}
	return nil
}

func (d *Dex) readMethodIDs(off, count uint32) error {
	s := NewStreamAt(d.data, int(off))
	d.methods = make([]methodID, count)
	for i := range d.methods {
		classIdx, _ := s.ReadUint16()
		protoIdx, _ := s.ReadUint16()
		nameIdx, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: method id %d: %w", i, err)
		}
		d.methods[i] = methodID{classIdx: classIdx, protoIdx: protoIdx, nameIdx: nameIdx}
	}
	return nil
}

// readMethodHandles walks the map list for the method_handles section, which
// has no dedicated header entry.
func (d *Dex) readMethodHandles(mapOff uint32) error {
	if mapOff == 0 {
		return nil
	}
	s := NewStreamAt(d.data, int(mapOff))
	n, err := s.ReadUint32()
	if err != nil {
		return fmt.Errorf("dexfile: map list: %w", err)
	}
	for i := uint32(0); i < n; i++ {
		itemType, _ := s.ReadUint16()
		_, _ = s.ReadUint16() // unused
		size, _ := s.ReadUint32()
		offset, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: map list entry %d: %w", i, err)
		}
		if itemType != typeMethodHandleItem {
			continue
		}
		items := NewStreamAt(d.data, int(offset))
		d.methodHandles = make([]methodHandleItem, size)
		for j := range d.methodHandles {
			handleType, _ := items.ReadUint16()
			_, _ = items.ReadUint16()
			memberID, _ := items.ReadUint16()
			if _, err := items.ReadUint16(); err != nil {
				return fmt.Errorf("dexfile: method handle %d: %w", j, err)
			}
			d.methodHandles[j] = methodHandleItem{handleType: handleType, memberID: memberID}
		}
	}
	return nil
}

func (d *Dex) readClassDefs(off, count uint32) error {
	s := NewStreamAt(d.data, int(off))
	d.Classes = make([]*ClassDef, 0, count)
	for i := uint32(0); i < count; i++ {
		classIdx, _ := s.ReadUint32()
		accessFlags, _ := s.ReadUint32()
		superIdx, _ := s.ReadUint32()
		interfacesOff, _ := s.ReadUint32()
		sourceFileIdx, _ := s.ReadUint32()
		_, _ = s.ReadUint32() // annotations_off, unused
		classDataOff, _ := s.ReadUint32()
		staticValuesOff, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("dexfile: class def %d: %w", i, err)
		}

		def := &ClassDef{AccessFlags: accessFlags}
		if def.TypeDesc, err = d.typeAt(classIdx); err != nil {
			return fmt.Errorf("dexfile: class def %d: %w", i, err)
		}
		if superIdx != noIndex {
			if def.SuperDesc, err = d.typeAt(superIdx); err != nil {
				return fmt.Errorf("dexfile: class def %d: %w", i, err)
			}
		}
		if sourceFileIdx != noIndex {
			if def.SourceFile, err = d.stringAt(sourceFileIdx); err != nil {
				return fmt.Errorf("dexfile: class def %d: %w", i, err)
			}
		}
		if interfacesOff != 0 {
			if def.InterfaceDescs, err = d.readTypeList(interfacesOff); err != nil {
				return fmt.Errorf("dexfile: class %s interfaces: %w", def.TypeDesc, err)
			}
		}
		if classDataOff != 0 {
			if err := d.readClassData(def, classDataOff); err != nil {
				return fmt.Errorf("dexfile: class %s: %w", def.TypeDesc, err)
			}
		}
		if staticValuesOff != 0 {
			if err := d.applyStaticValues(def, staticValuesOff); err != nil {
				return fmt.Errorf("dexfile: class %s static values: %w", def.TypeDesc, err)
			}
		}
		d.Classes = append(d.Classes, def)
	}
	return nil
}

func (d *Dex) readTypeList(off uint32) ([]string, error) {
	s := NewStreamAt(d.data, int(off))
	n, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		idx, err := s.ReadUint16()
		if err != nil {
			return nil, err
		}
		if out[i], err = d.typeAt(uint32(idx)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readClassData decodes the ULEB128 member lists. Field and method indices
// are delta encoded within each list.
func (d *Dex) readClassData(def *ClassDef, off uint32) error {
	s := NewStreamAt(d.data, int(off))
	staticFields, err := s.ReadULEB128()
	if err != nil {
		return err
	}
	instanceFields, err := s.ReadULEB128()
	if err != nil {
		return err
	}
	directMethods, err := s.ReadULEB128()
	if err != nil {
		return err
	}
	virtualMethods, err := s.ReadULEB128()
	if err != nil {
		return err
	}

	readFields := func(count uint32) error {
		var idx uint32
		for i := uint32(0); i < count; i++ {
			diff, err := s.ReadULEB128()
			if err != nil {
				return err
			}
			access, err := s.ReadULEB128()
			if err != nil {
				return err
			}
			idx += diff
			fid, err := d.fieldAt(idx)
			if err != nil {
				return err
			}
			typeDesc, err := d.typeAt(uint32(fid.typeIdx))
			if err != nil {
				return err
			}
			name, err := d.stringAt(fid.nameIdx)
			if err != nil {
				return err
			}
			def.Fields = append(def.Fields, Field{
				Name:        name,
				TypeDesc:    typeDesc,
				AccessFlags: access,
			})
		}
		return nil
	}
	readMethods := func(count uint32) error {
		var idx uint32
		for i := uint32(0); i < count; i++ {
			diff, err := s.ReadULEB128()
			if err != nil {
				return err
			}
			access, err := s.ReadULEB128()
			if err != nil {
				return err
			}
			if _, err := s.ReadULEB128(); err != nil { // code_off, unused
				return err
			}
			idx += diff
			mid, err := d.methodAt(idx)
			if err != nil {
				return err
			}
			name, err := d.stringAt(mid.nameIdx)
			if err != nil {
				return err
			}
			if int(mid.protoIdx) >= len(d.protos) {
				return fmt.Errorf("proto index %d out of range", mid.protoIdx)
			}
			proto := d.protos[mid.protoIdx]
			ret, err := d.typeAt(proto.returnTypeIdx)
			if err != nil {
				return err
			}
			params := make([]string, len(proto.paramTypeIdxs))
			for j, ti := range proto.paramTypeIdxs {
				if params[j], err = d.typeAt(uint32(ti)); err != nil {
					return err
				}
			}
			def.Methods = append(def.Methods, Method{
				Name:        name,
				ParamDescs:  params,
				ReturnDesc:  ret,
				AccessFlags: access,
			})
		}
		return nil
	}

	if err := readFields(staticFields); err != nil {
		return err
	}
	if err := readFields(instanceFields); err != nil {
		return err
	}
	if err := readMethods(directMethods); err != nil {
		return err
	}
	return readMethods(virtualMethods)
}

// applyStaticValues attaches the encoded static_values array to the leading
// static fields, in declaration order per the format.
func (d *Dex) applyStaticValues(def *ClassDef, off uint32) error {
	s := NewStreamAt(d.data, int(off))
	values, err := d.DecodeValueArray(s)
	if err != nil {
		return err
	}
	for i, v := range values {
		if i >= len(def.Fields) {
			break
		}
		def.Fields[i].StaticValue = v
		def.Fields[i].HasValue = true
	}
	return nil
}

func (d *Dex) stringAt(idx uint32) (string, error) {
	if int(idx) >= len(d.strings) {
		return "", fmt.Errorf("string index %d out of range", idx)
	}
	return d.strings[idx], nil
}

func (d *Dex) typeAt(idx uint32) (string, error) {
	if int(idx) >= len(d.typeDescs) {
		return "", fmt.Errorf("type index %d out of range", idx)
	}
	return d.typeDescs[idx], nil
}

func (d *Dex) fieldAt(idx uint32) (fieldID, error) {
	if int(idx) >= len(d.fields) {
		return fieldID{}, fmt.Errorf("field index %d out of range", idx)
	}
	return d.fields[idx], nil
}

func (d *Dex) methodAt(idx uint32) (methodID, error) {
	if int(idx) >= len(d.methods) {
		return methodID{}, fmt.Errorf("method index %d out of range", idx)
	}
	return d.methods[idx], nil
}
