package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"

	"unshrink/internal/bootstrap"
	"unshrink/internal/classinfo"
	"unshrink/internal/dexfile"
	"unshrink/internal/output"
)

func cmdClasses(args []string) error {
	fs := flag.NewFlagSet("classes", flag.ExitOnError)
	apk := fs.String("apk", "", "path to APK")
	dex := fs.String("dex", "", "path to bare dex file")
	jsonOut := fs.Bool("json", false, "output JSON to stdout")
	showValues := fs.Bool("values", false, "show static field values")
	outDir := fs.String("out", "", "write classes.json to directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	path := *apk
	if path == "" {
		path = *dex
	}
	if path == "" {
		return fmt.Errorf("--apk or --dex is required")
	}

	classes, err := loadClasses(path)
	if err != nil {
		return err
	}

	if *outDir != "" {
		entries := make([]output.ClassEntry, len(classes))
		for i, c := range classes {
			entries[i] = output.NewClassEntry(c)
		}
		if err := output.WriteClassesJSON(*outDir, entries); err != nil {
			return err
		}
		log.WithField("classes", len(classes)).Info("wrote classes.json")
		return nil
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		for _, c := range classes {
			if err := enc.Encode(output.NewClassEntry(c)); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range classes {
		fmt.Printf("class %s extends %s", c.Name(), c.SuperName())
		if itfs := c.Interfaces(); len(itfs) > 0 {
			fmt.Printf(" implements %v", itfs)
		}
		fmt.Printf(" [payload %s, dex %s]\n", c.DexPath(), c.Opcodes().Version)
		for i, f := range c.Fields() {
			fmt.Printf("  field  %s %s\n", f.Name, f.Desc)
			if *showValues {
				printStaticValue(c.ClassDef().Fields[i])
			}
		}
		for _, m := range c.Methods() {
			fmt.Printf("  method %s%s\n", m.Name, m.Desc)
		}
	}
	return nil
}

// printStaticValue renders an encoded static value through the bootstrap
// argument grammar, the same textual form the assembler uses.
func printStaticValue(f dexfile.Field) {
	if !f.HasValue || f.StaticValue == nil {
		return
	}
	arg, err := bootstrap.Of(f.StaticValue)
	if err != nil {
		log.WithField("field", f.Name).Debugf("skipping value: %v", err)
		return
	}
	fmt.Printf("         = %s\n", arg.Print())
}

func loadClasses(path string) ([]*classinfo.DexClassInfo, error) {
	payloads, err := dexfile.OpenContainer(path)
	if err != nil {
		return nil, err
	}
	var classes []*classinfo.DexClassInfo
	for _, p := range payloads {
		log.WithField("payload", p.Path).
			WithField("classes", len(p.Dex.Classes)).
			Debug("translating payload")
		for _, def := range p.Dex.Classes {
			classes = append(classes, classinfo.ParseDexClass(p.Path, p.Dex.Opcodes, def))
		}
	}
	return classes, nil
}
