package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJackCompiler(t *testing.T) {
	test := func(filename, source string, expected []string) {
		dir := t.TempDir()
		input := filepath.Join(dir, filename)
		if err := os.WriteFile(input, []byte(source), 0644); err != nil {
			t.Fatalf("failed to write fixture input: %s", err)
		}

		status := Handler([]string{input}, map[string]string{})
		if status != 0 {
			t.Fatalf("Unexpected exit status code: expected 0 got: %d", status)
		}

		outputPath := strings.TrimSuffix(input, filepath.Ext(input)) + ".vm"
		compiled, err := os.ReadFile(outputPath)
		if err != nil {
			t.Fatalf("Error reading output file %s: %v", outputPath, err)
		}

		got := strings.Split(strings.TrimRight(string(compiled), "\n"), "\n")
		if len(got) != len(expected) {
			t.Fatalf("expected %d lines, got %d: %v", len(expected), len(got), got)
		}
		for i, want := range expected {
			if got[i] != want {
				t.Fatalf("line %d: expected %q, got %q", i, want, got[i])
			}
		}
	}

	t.Run("function with no prelude", func(t *testing.T) {
		test("Main.jack", `
			class Main {
				function int double(int x) {
					return x + x;
				}
			}
		`, []string{
			"function Main.double 0",
			"push argument 0",
			"push argument 0",
			"add",
			"return",
		})
	})

	t.Run("void subroutine still returns a dummy value", func(t *testing.T) {
		test("Main.jack", `
			class Main {
				function void run() {
					return;
				}
			}
		`, []string{
			"function Main.run 0",
			"push constant 0",
			"return",
		})
	})
}
