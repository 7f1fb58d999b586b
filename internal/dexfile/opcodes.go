package dexfile

// Opcodes identifies the instruction set a payload was compiled against.
// Dex format versions imply a minimum Android API level.
type Opcodes struct {
	Version string
	MinAPI  int
}

// OpcodesForVersion maps a dex header version to its instruction set.
func OpcodesForVersion(version string) Opcodes {
	api := 1
	switch version {
	case "037":
		api = 24
	case "038":
		api = 26
	case "039":
		api = 28
	case "040":
		api = 30
	}
	return Opcodes{Version: version, MinAPI: api}
}
