// Package mapping reconstructs symbol tables from ProGuard mapping reports.
// Unlike the usual direction, the goal is to undo the obfuscation: the
// report's clean->obfuscated entries are parsed back into an
// obfuscated->clean dictionary keyed the way the binary still names things.
package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"unshrink/internal/descriptor"
)

var (
	// A class header: "clean.Name -> obf.Name:".
	headerLine = regexp.MustCompile(`^.+:$`)
	// Token delimiter shared by header and member lines.
	splitter = regexp.MustCompile(`( |->)+`)
)

// LineError is a fatal parse failure tagged with its 1-based line number.
type LineError struct {
	Line  int
	Cause string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("mapping: invalid ProGuard mappings, line %d: %s", e.Line, e.Cause)
}

// ParseProguard parses a mapping report and returns the obfuscated->clean
// dictionary. Keys are class internal names, "owner.obfField" for fields and
// "owner.obfMethod(desc)" for methods. The clean->obf class table built
// during the first pass is scratch state for resolving member types and is
// not part of the result.
//
// A failed parse yields no usable dictionary; the tables are rebuilt from
// scratch on every call.
func ParseProguard(text string) (map[string]string, error) {
	lines := splitLines(text)
	obfToClean, cleanToObf, err := collectClassNames(lines)
	if err != nil {
		return nil, err
	}
	members, err := collectMembers(lines, cleanToObf)
	if err != nil {
		return nil, err
	}
	for k, v := range members {
		obfToClean[k] = v
	}
	return obfToClean, nil
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// collectClassNames is the first pass: record both directions of every class
// rename. Member lines need the full class table before they can be parsed,
// because their type names are resolved through it.
func collectClassNames(lines []string) (obfToClean, cleanToObf map[string]string, err error) {
	obfToClean = make(map[string]string)
	cleanToObf = make(map[string]string)
	for i, line := range lines {
		if strings.HasPrefix(line, "#") || !headerLine.MatchString(line) {
			continue
		}
		num := i + 1
		clean, obf, err := parseHeader(line)
		if err != nil {
			return nil, nil, &LineError{Line: num, Cause: err.Error()}
		}
		obfToClean[obf] = clean
		cleanToObf[clean] = obf
	}
	return obfToClean, cleanToObf, nil
}

func parseHeader(line string) (clean, obf string, err error) {
	split := splitter.Split(line, -1)
	if len(split) < 2 {
		return "", "", fmt.Errorf("malformed class header %q", line)
	}
	clean = descriptor.ToInternal(split[0])
	obf = descriptor.ToInternal(split[1])
	colon := strings.IndexByte(obf, ':')
	if colon < 0 {
		return "", "", fmt.Errorf("malformed class header %q", line)
	}
	return clean, obf[:colon], nil
}

// collectMembers is the second pass: walk the lines again tracking the
// current class header and emit one dictionary entry per field or method.
func collectMembers(lines []string, cleanToObf map[string]string) (map[string]string, error) {
	members := make(map[string]string)
	currentObf := ""
	haveClass := false
	for i, line := range lines {
		num := i + 1
		if strings.HasPrefix(line, "#") {
			continue
		}
		if headerLine.MatchString(line) {
			_, obf, err := parseHeader(line)
			if err != nil {
				return nil, &LineError{Line: num, Cause: err.Error()}
			}
			currentObf = obf
			haveClass = true
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !haveClass {
			return nil, &LineError{Line: num, Cause: "no class context"}
		}
		if !strings.Contains(trimmed, "(") {
			key, clean, err := parseField(trimmed, currentObf)
			if err != nil {
				return nil, &LineError{Line: num, Cause: err.Error()}
			}
			members[key] = clean
			continue
		}
		// Constructor names are fixed by the format and never renamed, so
		// their lines carry no usable mapping.
		if strings.Contains(trimmed, "init>") {
			continue
		}
		key, clean, err := parseMethod(trimmed, currentObf, cleanToObf)
		if err != nil {
			return nil, &LineError{Line: num, Cause: err.Error()}
		}
		members[key] = clean
	}
	return members, nil
}

// parseField handles "<type> <clean-name> -> <obf-name>". The declared type
// is parsed but not kept: fields are not overloaded by type in the binary
// format, so name-keyed lookup is enough.
func parseField(line, ownerObf string) (key, clean string, err error) {
	split := splitter.Split(line, -1)
	if len(split) < 3 {
		return "", "", fmt.Errorf("malformed field mapping %q", line)
	}
	return ownerObf + "." + split[2], split[1], nil
}

// parseMethod handles both method line forms:
//
//	<start>:<end>:<ret-type> <name>(<args>) -> <obf-name>
//	<ret-type> <name>(<args>) -> <obf-name>
//
// The obfuscated descriptor is rebuilt from the human-readable types, with
// class names resolved back to their obfuscated form.
func parseMethod(line, ownerObf string, cleanToObf map[string]string) (key, clean string, err error) {
	rest := line
	if idx := strings.LastIndexByte(line, ':'); idx >= 0 {
		rest = strings.TrimSpace(line[idx+1:])
	}
	split := splitter.Split(rest, -1)
	if len(split) < 3 {
		return "", "", fmt.Errorf("malformed method mapping %q", line)
	}

	cleanRet := descriptor.ToInternal(split[0])
	obfRet, ok := cleanToObf[cleanRet]
	if !ok {
		obfRet = cleanRet
	}

	definition := split[1]
	open := strings.IndexByte(definition, '(')
	closing := strings.LastIndexByte(definition, ')')
	if open < 0 || closing < open {
		return "", "", fmt.Errorf("malformed method definition %q", definition)
	}
	clean = definition[:open]

	var desc strings.Builder
	desc.WriteByte('(')
	argList := definition[open+1 : closing]
	if argList != "" {
		for _, arg := range strings.Split(argList, ",") {
			if descriptor.IsPrimitive(arg) {
				desc.WriteString(descriptor.ToInternal(arg))
			} else {
				desc.WriteString(descriptor.ObjectDesc(descriptor.ToInternal(arg)))
			}
		}
	}
	desc.WriteByte(')')
	desc.WriteString(obfRet)

	return ownerObf + "." + split[2] + desc.String(), clean, nil
}
