// Command shadyc is the shadyc shader compiler CLI.
//
// Usage:
//
//	shadyc [options] <input>
//
// Examples:
//
//	shadyc -o shader.spv shader.sf     # Compile to SPIR-V
//	shadyc -debug shader.sf            # Compile with debug info
//	shadyc -dump-cfg shader.sf         # Dump each function's control-flow graph
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vkshade/shadyc/cfa"
	"github.com/vkshade/shadyc/diag"
	"github.com/vkshade/shadyc/ir"
	"github.com/vkshade/shadyc/pipeline"
	"github.com/vkshade/shadyc/spirv"
)

var (
	output      = flag.String("o", "", "output file (default: stdout)")
	debugFlag   = flag.Bool("debug", false, "include debug info (OpName)")
	dumpCFG     = flag.Bool("dump-cfg", false, "dump each function's control-flow scope as Graphviz DOT instead of compiling")
	versionFlag = flag.Bool("version", false, "print version")
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("shadyc version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	arena, prog, err := loadProgram(inputPath, source)
	if err != nil {
		reportAndExit(err)
	}

	if *dumpCFG {
		if err := dumpControlFlow(prog); err != nil {
			reportAndExit(err)
		}
		return
	}

	cfg := pipeline.DefaultConfig()
	result, err := pipeline.Run(cfg, arena, prog)
	if err != nil {
		reportAndExit(err)
	}

	spirvOpts := spirv.EmitOptions{
		Version: spirv.Version{Major: cfg.TargetSPIRVMajor, Minor: cfg.TargetSPIRVMinor},
		Debug:   *debugFlag,
	}
	binary, err := spirv.Emit(spirvOpts, result.Prog)
	if err != nil {
		reportAndExit(err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, binary, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Successfully compiled %s to %s (%d bytes)\n", inputPath, *output, len(binary))
		return
	}
	if _, err := os.Stdout.Write(binary); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		os.Exit(1)
	}
}

// loadProgram turns source into an arena-rooted program. Parsing a
// surface shading language into ir.Root is out of scope here (the
// frontend is a separate concern from the pipeline and emitter this
// repo implements); wiring one in means replacing this function with a
// real tokenizer/parser that builds the program via *ir.Arena's
// NewXHeader/SetXBody calls, the same way this package's own tests do.
func loadProgram(path string, source []byte) (*ir.Arena, *ir.Node, error) {
	_ = source
	return nil, nil, diag.Unimplemented(diag.Position{File: path}, "a front-end that parses source into ir.Root")
}

func dumpControlFlow(prog *ir.Node) error {
	rp, ok := prog.Payload.(*ir.RootPayload)
	if !ok {
		return diag.New(diag.KindStructural, diag.Position{}, "", "program root is not a Root declaration")
	}
	for _, d := range rp.Decls {
		if !d.IsFunction() {
			continue
		}
		scope := cfa.BuildScope(d, nil)
		fmt.Fprintf(os.Stdout, "// function %s\n", d.Name())
		cfa.DumpDOT(os.Stdout, scope)
	}
	return nil
}

func reportAndExit(err error) {
	if derr, ok := err.(*diag.Error); ok {
		reporter := diag.NewReporter()
		reporter.ReportError(derr)
		fmt.Fprint(os.Stderr, reporter.String())
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shadyc [options] <input>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shadyc shader.sf                Compile to stdout\n")
	fmt.Fprintf(os.Stderr, "  shadyc -o shader.spv shader.sf  Compile to file\n")
	fmt.Fprintf(os.Stderr, "  shadyc -dump-cfg shader.sf       Dump control-flow graphs\n")
}
