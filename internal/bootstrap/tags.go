package bootstrap

// JVM method handle reference tags.
const (
	TagGetField = iota + 1
	TagGetStatic
	TagPutField
	TagPutStatic
	TagInvokeVirtual
	TagInvokeStatic
	TagInvokeSpecial
	TagNewInvokeSpecial
	TagInvokeInterface
)

var tagNames = [...]string{
	TagGetField:         "H_GETFIELD",
	TagGetStatic:        "H_GETSTATIC",
	TagPutField:         "H_PUTFIELD",
	TagPutStatic:        "H_PUTSTATIC",
	TagInvokeVirtual:    "H_INVOKEVIRTUAL",
	TagInvokeStatic:     "H_INVOKESTATIC",
	TagInvokeSpecial:    "H_INVOKESPECIAL",
	TagNewInvokeSpecial: "H_NEWINVOKESPECIAL",
	TagInvokeInterface:  "H_INVOKEINTERFACE",
}

// TagName resolves a numeric JVM reference tag to its symbolic name.
func TagName(tag int) (string, bool) {
	if tag < TagGetField || tag > TagInvokeInterface {
		return "", false
	}
	return tagNames[tag], true
}

// Dex method handle type codes map onto the same symbolic names the JVM
// side uses, so handles print identically regardless of source format.
var dexHandleTags = [...]int{
	0x00: TagPutStatic,        // static-put
	0x01: TagGetStatic,        // static-get
	0x02: TagPutField,         // instance-put
	0x03: TagGetField,         // instance-get
	0x04: TagInvokeStatic,     // invoke-static
	0x05: TagInvokeVirtual,    // invoke-instance
	0x06: TagNewInvokeSpecial, // invoke-constructor
	0x07: TagInvokeSpecial,    // invoke-direct
	0x08: TagInvokeInterface,  // invoke-interface
}

// TagFromDex converts a dex method-handle type code to the JVM reference tag.
func TagFromDex(code int) (int, bool) {
	if code < 0 || code >= len(dexHandleTags) {
		return 0, false
	}
	return dexHandleTags[code], true
}
