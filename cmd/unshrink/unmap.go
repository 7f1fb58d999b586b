package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/emirpasic/gods/maps/treemap"

	"unshrink/internal/mapping"
	"unshrink/internal/output"
)

func cmdUnmap(args []string) error {
	fs := flag.NewFlagSet("unmap", flag.ExitOnError)
	mappingPath := fs.String("mapping", "", "path to ProGuard mapping report")
	jsonOut := fs.Bool("json", false, "output JSON to stdout")
	outDir := fs.String("out", "", "write mappings.json to directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *mappingPath == "" {
		return fmt.Errorf("--mapping is required")
	}

	text, err := os.ReadFile(*mappingPath)
	if err != nil {
		return fmt.Errorf("read mapping: %w", err)
	}

	table, err := mapping.ParseProguard(string(text))
	if err != nil {
		return err
	}
	log.WithField("entries", len(table)).Info("reconstructed mappings")

	if *outDir != "" {
		return output.WriteMappingJSON(*outDir, table)
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	// Sorted text output: class keys and member keys interleave naturally
	// because members are prefixed with their owner.
	sorted := treemap.NewWithStringComparator()
	for k, v := range table {
		sorted.Put(k, v)
	}
	sorted.Each(func(key any, value any) {
		fmt.Printf("%s -> %s\n", key, value)
	})
	return nil
}
