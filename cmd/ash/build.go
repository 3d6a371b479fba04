package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ash-lang/ash/internal/config"
	"github.com/ash-lang/ash/internal/vm"
)

// build compiles the source file at sourcePath and writes the serialized
// chunk to outPath, or to sourcePath with its extension replaced by
// ".shc" when outPath is empty (SPEC_FULL.md §6's `ash build <in>
// [out.shc]`).
func build(cfg *config.Config, sourcePath, outPath string) int {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}

	store := openCache(cfg)
	if store != nil {
		defer store.Close()
	}

	in := vm.NewInterner()
	chunk, errs := compileCached(store, in, string(source))
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return exitCompileError
	}

	if outPath == "" {
		outPath = outputPath(sourcePath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}
	defer out.Close()

	if err := vm.EncodeChunk(chunk, out); err != nil {
		fmt.Fprintf(os.Stderr, "ash: encoding %s: %s\n", outPath, err)
		return exitIOError
	}

	fmt.Printf("wrote %s\n", outPath)
	return exitOK
}

func outputPath(sourcePath string) string {
	if idx := strings.LastIndexByte(sourcePath, '.'); idx != -1 {
		return sourcePath[:idx] + ".shc"
	}
	return sourcePath + ".shc"
}

// disasmChunkFile reads a .shc file and prints its disassembly.
func disasmChunkFile(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}
	defer f.Close()

	in := vm.NewInterner()
	chunk, err := vm.DecodeChunk(f, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: decoding %s: %s\n", path, err)
		return exitIOError
	}

	fmt.Print(vm.Disassemble(chunk, path))
	return exitOK
}

// disasmSourceFile compiles a source file and prints its disassembly
// without running it or writing a .shc file.
func disasmSourceFile(cfg *config.Config, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}

	store := openCache(cfg)
	if store != nil {
		defer store.Close()
	}

	in := vm.NewInterner()
	chunk, errs := compileCached(store, in, string(source))
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return exitCompileError
	}

	fmt.Print(vm.Disassemble(chunk, path))
	return exitOK
}
