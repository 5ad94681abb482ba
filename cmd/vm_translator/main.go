package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"
	"nand2tetris.dev/toolchain/pkg/asm"
	"nand2tetris.dev/toolchain/pkg/vm"
)

var Description = strings.ReplaceAll(`
The VM Translator translates programs (composed of multiple modules/files) written in
the VM language into Hack assembly code that can be further elaborated. The VM language
is a higher-level (bytecode'like) language tailored for use with the Hack computer arch.
`, "\n", " ")

var VmTranslator = cli.New(Description).
	WithArg(cli.NewArg("path", "A single .vm file, or a directory of them").WithType(cli.TypeString)).
	WithArg(cli.NewArg("bootstrap_flag", "Pass 'no_bootstrap' to skip the SP/Sys.init prologue").
		AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	target := args[0]
	bootstrap := len(args) < 2 || args[1] != "no_bootstrap"

	info, err := os.Stat(target)
	if err != nil {
		fmt.Printf("ERROR: Unable to stat input path: %s\n", err)
		return -1
	}

	// Collects every .vm file to translate together as a single program. In directory
	// mode every sibling .vm file is part of the same program (and only the directory
	// mode gets a bootstrap prologue, since a lone file is typically a unit test that
	// supplies its own entrypoint). In file mode, the program is the lone file.
	var inputs []string
	if info.IsDir() {
		filepath.Walk(target, func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || filepath.Ext(p) != ".vm" {
				return nil
			}
			inputs = append(inputs, p)
			return nil
		})
	} else {
		inputs = []string{target}
		bootstrap = false
	}

	program := vm.Program{}
	for _, input := range inputs {
		content, err := os.ReadFile(input)
		if err != nil {
			fmt.Printf("ERROR: Unable to open input file: %s\n", err)
			return -1
		}

		filename, extension := path.Base(input), path.Ext(input)
		parser := vm.NewParser(bytes.NewReader(content))
		module, err := parser.Parse()
		if err != nil {
			fmt.Printf("ERROR: Unable to complete 'parsing' pass: %s\n", err)
			return -1
		}
		program[strings.TrimSuffix(filename, extension)] = module
	}

	// Instantiate a lowerer to convert the program from Vm to Asm, letting it decide
	// where the bootstrap prologue (SP=256; call Sys.init 0) goes, if at all.
	lowerer := vm.NewLowerer(program)
	asmProgram, err := lowerer.Lower(bootstrap)
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'lowering' pass: %s\n", err)
		return -1
	}

	codegen := asm.NewCodeGenerator(asmProgram)
	compiled, err := codegen.Generate()
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'codegen' pass: %s\n", err)
		return -1
	}

	outputPath := outputFor(target, info.IsDir())
	output, err := os.Create(outputPath)
	if err != nil {
		fmt.Printf("ERROR: Unable to open output file: %s\n", err)
		return -1
	}
	defer output.Close()

	for _, line := range compiled {
		output.Write([]byte(fmt.Sprintf("%s\n", line)))
	}

	return 0
}

// outputFor derives the destination .asm path: '<dir>/<dir-basename>.asm' for
// directory mode, or the sibling '<file-basename>.asm' for file mode.
func outputFor(target string, isDir bool) string {
	if isDir {
		base := filepath.Base(filepath.Clean(target))
		return filepath.Join(target, base+".asm")
	}
	extension := filepath.Ext(target)
	return strings.TrimSuffix(target, extension) + ".asm"
}

func main() { os.Exit(VmTranslator.Run(os.Args, os.Stdout)) }
