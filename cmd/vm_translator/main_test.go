package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVMTranslatorFileMode(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "SimpleAdd.vm")
	source := "push constant 7\npush constant 8\nadd\n"
	if err := os.WriteFile(input, []byte(source), 0644); err != nil {
		t.Fatalf("failed to write fixture input: %s", err)
	}

	status := Handler([]string{input}, map[string]string{})
	if status != 0 {
		t.Fatalf("Unexpected exit status code: expected 0 got: %d", status)
	}

	output, err := os.ReadFile(filepath.Join(dir, "SimpleAdd.asm"))
	if err != nil {
		t.Fatalf("Error reading output file: %v", err)
	}

	expected := []string{
		"@7", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@8", "D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1",
		"@SP", "AM=M-1", "D=M", "A=A-1", "M=D+M",
	}
	got := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(got) != len(expected) {
		t.Fatalf("expected %d lines, got %d: %v", len(expected), len(got), got)
	}
	for i, want := range expected {
		if got[i] != want {
			t.Fatalf("line %d: expected %q, got %q", i, want, got[i])
		}
	}

	// A lone file is treated as a self-contained unit, never a program entrypoint.
	if strings.Contains(string(output), "Sys.init") {
		t.Fatalf("file mode must not emit a bootstrap prologue, got %s", output)
	}
}

func TestVMTranslatorDirectoryModeBootstraps(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Main.vm"), []byte("function Main.main 0\nreturn\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture input: %s", err)
	}

	status := Handler([]string{dir}, map[string]string{})
	if status != 0 {
		t.Fatalf("Unexpected exit status code: expected 0 got: %d", status)
	}

	base := filepath.Base(dir)
	output, err := os.ReadFile(filepath.Join(dir, base+".asm"))
	if err != nil {
		t.Fatalf("Error reading output file: %v", err)
	}

	if !strings.HasPrefix(string(output), "@256\nD=A\n@SP\nM=D\n") {
		t.Fatalf("expected directory mode to bootstrap with 'SP=256', got %s", output)
	}
	if !strings.Contains(string(output), "@Sys.init") {
		t.Fatalf("expected bootstrap prologue to call Sys.init, got %s", output)
	}
	if !strings.Contains(string(output), "(Main.main)") {
		t.Fatalf("expected Main.main to be lowered to a label declaration, got %s", output)
	}
}

func TestVMTranslatorDirectoryModeNoBootstrap(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Main.vm"), []byte("push constant 1\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture input: %s", err)
	}

	status := Handler([]string{dir, "no_bootstrap"}, map[string]string{})
	if status != 0 {
		t.Fatalf("Unexpected exit status code: expected 0 got: %d", status)
	}

	base := filepath.Base(dir)
	output, err := os.ReadFile(filepath.Join(dir, base+".asm"))
	if err != nil {
		t.Fatalf("Error reading output file: %v", err)
	}

	if strings.Contains(string(output), "Sys.init") {
		t.Fatalf("'no_bootstrap' must suppress the SP/Sys.init prologue, got %s", output)
	}
}
