package dexfile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Payload is one dex payload inside a container. Path is the
// archive-internal path ("classes.dex", "classes2.dex", ...) for APKs, or
// the file name for a bare dex file.
type Payload struct {
	Path string
	Dex  *Dex
}

// OpenContainer reads every dex payload from path. APKs (and any other zip
// archive bundling dex entries) yield one payload per .dex entry in archive
// order; a bare .dex file yields a single payload.
func OpenContainer(path string) ([]Payload, error) {
	if strings.EqualFold(filepath.Ext(path), ".dex") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("dexfile: read %s: %w", path, err)
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("dexfile: parse %s: %w", path, err)
		}
		return []Payload{{Path: filepath.Base(path), Dex: d}}, nil
	}

	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("dexfile: open container %s: %w", path, err)
	}
	defer rc.Close()

	var payloads []Payload
	for _, f := range rc.File {
		if !strings.HasSuffix(f.Name, ".dex") {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("dexfile: open entry %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("dexfile: read entry %s: %w", f.Name, err)
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("dexfile: parse entry %s: %w", f.Name, err)
		}
		payloads = append(payloads, Payload{Path: f.Name, Dex: d})
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("dexfile: no dex payloads in %s", path)
	}
	return payloads, nil
}
