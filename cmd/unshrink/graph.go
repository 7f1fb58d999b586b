package main

import (
	"flag"
	"fmt"

	"github.com/apex/log"
	"github.com/zboralski/lattice/render"

	"unshrink/internal/classinfo"
	"unshrink/internal/hierarchy"
	"unshrink/internal/output"
)

func cmdGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	apk := fs.String("apk", "", "path to APK or dex file")
	outDir := fs.String("out", "", "output directory")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *apk == "" {
		return fmt.Errorf("--apk is required")
	}
	if *outDir == "" {
		return fmt.Errorf("--out is required")
	}

	classes, err := loadClasses(*apk)
	if err != nil {
		return err
	}
	common := make([]classinfo.CommonClassInfo, len(classes))
	for i, c := range classes {
		common[i] = c
	}

	g := hierarchy.Build(common)
	dot := render.DOT(g, "hierarchy")
	if err := output.WriteHierarchyDOT(*outDir, dot); err != nil {
		return err
	}
	log.WithField("nodes", len(g.Nodes)).
		WithField("edges", len(g.Edges)).
		Info("wrote hierarchy.dot")
	return nil
}
