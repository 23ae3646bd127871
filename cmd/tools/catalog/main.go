// cmd/tools/catalog/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"toolbox-ai/pkg/registry"
)

func main() {
	dumpCmd := flag.NewFlagSet("dump", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	dumpPath := dumpCmd.String("path", "configs/flow-registry.json", "Where to write the catalog")
	validatePath := validateCmd.String("path", "", "Catalog file to validate (defaults to the built-in catalog)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dump":
		dumpCmd.Parse(os.Args[2:])
		reg, err := registry.Default()
		if err != nil {
			fmt.Printf("Error building catalog: %v\n", err)
			os.Exit(1)
		}
		if err := registry.Validate(reg); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := registry.SaveRegistry(reg, *dumpPath); err != nil {
			fmt.Printf("Error writing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d flows to %s\n", len(reg.Flows), *dumpPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		var (
			reg *registry.FlowRegistry
			err error
		)
		if *validatePath == "" {
			reg, err = registry.Default()
		} else {
			reg, err = registry.LoadRegistry(*validatePath)
		}
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if err := registry.Validate(reg); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d flows.\n", len(reg.Flows))

	case "help":
		fallthrough
	default:
		help()
	}
}

func help() {
	fmt.Println(`
Usage: catalog <command> [flags]

Commands:
  dump      Write the built-in flow catalog as JSON
  validate  Check a catalog file (or the built-in catalog)
  help      Show this help message

Examples:
  catalog dump -path configs/flow-registry.json
  catalog validate -path configs/flow-registry.json`)
}
