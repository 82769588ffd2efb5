package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/overworld/level"
)

// mapcheck loads every map in a directory and reports what the game
// would silently drop at runtime, so broken scripts surface in CI
// instead of in play.

func main() {
	dir := flag.String("dir", "maps", "map directory to check")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal(err)
	}

	loader := level.NewLoader(*dir)
	failed := 0
	checked := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".tmx") {
			continue
		}
		checked++
		lvl, err := loader.Load(entry.Name())
		if err != nil {
			fmt.Printf("FAIL %s: %v\n", entry.Name(), err)
			failed++
			continue
		}
		fmt.Printf("ok   %s: %d entities, %d map actions, %d edge actions\n",
			entry.Name(), len(lvl.World.Entities), len(lvl.World.Actions), len(lvl.World.EdgeActions))
	}

	if checked == 0 {
		fmt.Printf("no maps in %s\n", *dir)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
