package main

import (
	"flag"
	"fmt"
	"sort"

	"unshrink/internal/classinfo"
)

// cmdDiff compares the observable class structure of two containers. The
// model's equality semantics ignore payload paths and instruction sets, so
// repackaging alone never shows up as a change.
func cmdDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	oldPath := fs.String("old", "", "path to old APK or dex file")
	newPath := fs.String("new", "", "path to new APK or dex file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *oldPath == "" || *newPath == "" {
		return fmt.Errorf("--old and --new are required")
	}

	oldClasses, err := loadClasses(*oldPath)
	if err != nil {
		return err
	}
	newClasses, err := loadClasses(*newPath)
	if err != nil {
		return err
	}

	oldByName := make(map[string]*classinfo.DexClassInfo, len(oldClasses))
	for _, c := range oldClasses {
		oldByName[c.Name()] = c
	}
	newByName := make(map[string]*classinfo.DexClassInfo, len(newClasses))
	for _, c := range newClasses {
		newByName[c.Name()] = c
	}

	var lines []string
	for name, oc := range oldByName {
		nc, ok := newByName[name]
		switch {
		case !ok:
			lines = append(lines, "- "+name)
		case !oc.Equal(nc):
			lines = append(lines, "~ "+name)
		}
	}
	for name := range newByName {
		if _, ok := oldByName[name]; !ok {
			lines = append(lines, "+ "+name)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i][2:] < lines[j][2:] })

	for _, l := range lines {
		fmt.Println(l)
	}
	if len(lines) == 0 {
		fmt.Println("no structural changes")
	}
	return nil
}
