package main

import (
	"fmt"
	"os"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
)

func main() {
	log.SetHandler(clihandler.Default)
	if os.Getenv("UNSHRINK_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "classes":
		err = cmdClasses(os.Args[2:])
	case "unmap":
		err = cmdUnmap(os.Args[2:])
	case "graph":
		err = cmdGraph(os.Args[2:])
	case "diff":
		err = cmdDiff(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `unshrink — dex class modeling and ProGuard mapping recovery

Usage:
  unshrink classes --apk <path> | --dex <path>   Translate dex classes to the common model
  unshrink unmap   --mapping <path>              Rebuild obfuscated->clean symbol table
  unshrink graph   --apk <path> --out <dir>      Export class hierarchy as DOT
  unshrink diff    --old <path> --new <path>     Report structural class changes

Flags:
  --apk <path>       Path to an APK (or any zip bundling classes*.dex)
  --dex <path>       Path to a bare dex file
  --mapping <path>   Path to a ProGuard mapping report
  --out <dir>        Output directory (JSON/DOT artifacts)
  --json             Emit JSON to stdout instead of text
  --values           Show static field values (classes)
`)
}
