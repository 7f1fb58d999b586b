// Package output writes unshrink analysis results to files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"unshrink/internal/classinfo"
)

// MemberEntry is the JSON shape of one field or method.
type MemberEntry struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Access uint32 `json:"access"`
}

// ClassEntry is the JSON shape of one translated class.
type ClassEntry struct {
	Name       string        `json:"name"`
	SuperName  string        `json:"super"`
	Interfaces []string      `json:"interfaces,omitempty"`
	Access     uint32        `json:"access"`
	DexPath    string        `json:"dexPath,omitempty"`
	Fields     []MemberEntry `json:"fields,omitempty"`
	Methods    []MemberEntry `json:"methods,omitempty"`
}

// NewClassEntry flattens a class model for serialization.
func NewClassEntry(c classinfo.CommonClassInfo) ClassEntry {
	entry := ClassEntry{
		Name:       c.Name(),
		SuperName:  c.SuperName(),
		Interfaces: c.Interfaces(),
		Access:     c.Access(),
	}
	if dc, ok := c.(*classinfo.DexClassInfo); ok {
		entry.DexPath = dc.DexPath()
	}
	for _, f := range c.Fields() {
		entry.Fields = append(entry.Fields, MemberEntry{Name: f.Name, Desc: f.Desc, Access: f.Access})
	}
	for _, m := range c.Methods() {
		entry.Methods = append(entry.Methods, MemberEntry{Name: m.Name, Desc: m.Desc, Access: m.Access})
	}
	return entry
}

// WriteClassesJSON writes translated classes to classes.json.
func WriteClassesJSON(dir string, entries []ClassEntry) error {
	return writeJSON(filepath.Join(dir, "classes.json"), entries)
}

// WriteMappingJSON writes the obfuscated->clean dictionary to mappings.json.
func WriteMappingJSON(dir string, table map[string]string) error {
	return writeJSON(filepath.Join(dir, "mappings.json"), table)
}

// WriteHierarchyDOT writes the rendered hierarchy graph to hierarchy.dot.
func WriteHierarchyDOT(dir string, dot string) error {
	path := filepath.Join(dir, "hierarchy.dot")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir: %w", err)
	}
	return os.WriteFile(path, []byte(dot), 0644)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("output: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("output: encode %s: %w", path, err)
	}
	return nil
}
