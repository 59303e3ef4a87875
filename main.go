// Command cheesemaker evaluates a crust script and writes the extracted
// surface as JSON, and optionally as binary STL.
//
//	cheesemaker -script examples/tetra.crust -config tuning.yaml -out surface.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/cheesemaker/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit. It returns 0 on success, 1 when
// the script produced errors and 2 on usage or I/O failure.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cheesemaker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		scriptPath = fs.String("script", "", "crust script to evaluate (default: stdin)")
		configPath = fs.String("config", "", "tuning config file (.json, .yaml or .yml)")
		outPath    = fs.String("out", "", "write the JSON result to this file (default: stdout)")
		stlPath    = fs.String("stl", "", "also write the surface as binary STL")
		quiet      = fs.Bool("q", false, "suppress progress logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	log.SetOutput(stderr)
	if *quiet {
		log.SetOutput(io.Discard)
	}

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "cheesemaker: %v\n", err)
			return 2
		}
	}

	var (
		source []byte
		err    error
	)
	if *scriptPath != "" {
		source, err = os.ReadFile(*scriptPath)
	} else {
		source, err = io.ReadAll(stdin)
	}
	if err != nil {
		fmt.Fprintf(stderr, "cheesemaker: reading script: %v\n", err)
		return 2
	}

	app := NewAppWithConfig(cfg)
	result, res := app.evaluate(string(source))

	out := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(stderr, "cheesemaker: %v\n", err)
			return 2
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "cheesemaker: writing result: %v\n", err)
		return 2
	}

	if *stlPath != "" && res != nil && result.OK() {
		if err := res.Surface.SaveSTL(*stlPath); err != nil {
			fmt.Fprintf(stderr, "cheesemaker: writing stl: %v\n", err)
			return 2
		}
	}

	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(stderr, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(stderr, "error: %s\n", e.Message)
		}
	}
	if !result.OK() {
		return 1
	}
	return 0
}
