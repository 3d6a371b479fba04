// Command ash is the ash language's CLI: a REPL, a direct script runner,
// and subcommands to build and inspect compiled bytecode.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/ash-lang/ash/internal/config"
	"github.com/ash-lang/ash/internal/vm"
)

const (
	exitOK           = 0
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
)

// version is the ash CLI's own version, printed in the REPL's startup
// banner (SPEC_FULL.md §6).
const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		os.Exit(exitIOError)
	}

	args, trace := parseFlags(os.Args[1:])
	if trace {
		cfg.Trace = true
	}

	if len(args) == 0 {
		os.Exit(runREPL(cfg))
	}

	switch args[0] {
	case "run":
		if len(args) != 2 {
			usage()
			os.Exit(exitUsage)
		}
		os.Exit(runPath(cfg, args[1]))
	case "build":
		if len(args) != 2 && len(args) != 3 {
			usage()
			os.Exit(exitUsage)
		}
		out := ""
		if len(args) == 3 {
			out = args[2]
		}
		os.Exit(build(cfg, args[1], out))
	case "disasm-file":
		if len(args) != 2 {
			usage()
			os.Exit(exitUsage)
		}
		os.Exit(disasmChunkFile(args[1]))
	case "disasm":
		if len(args) != 2 {
			usage()
			os.Exit(exitUsage)
		}
		os.Exit(disasmSourceFile(cfg, args[1]))
	default:
		if len(args) != 1 {
			usage()
			os.Exit(exitUsage)
		}
		os.Exit(runPath(cfg, args[0]))
	}
}

// parseFlags pulls the "-trace"/"--trace" flag out of args, the same
// manual os.Args scan the teacher's own cmd/funxy/main.go uses for
// "-debug"/"--debug" rather than reaching for a flag-parsing framework.
func parseFlags(args []string) (rest []string, trace bool) {
	rest = make([]string, 0, len(args))
	for _, a := range args {
		switch a {
		case "-trace", "--trace":
			trace = true
		default:
			rest = append(rest, a)
		}
	}
	return rest, trace
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ash [-trace]                 start a REPL")
	fmt.Fprintln(os.Stderr, "  ash [-trace] <path>          run a source file")
	fmt.Fprintln(os.Stderr, "  ash [-trace] run <path>      run a source file or a .shc bytecode file")
	fmt.Fprintln(os.Stderr, "  ash build <path> [out.shc]   compile a source file to out.shc (default: <path> with extension .shc)")
	fmt.Fprintln(os.Stderr, "  ash disasm <path>            compile a source file and print its disassembly")
	fmt.Fprintln(os.Stderr, "  ash disasm-file <p>          print the disassembly of a .shc file")
}

// newVM wires a VM instance the way every subcommand wants it: tracing
// per config, a session id for diagnostics.
func newVM(cfg *config.Config) *vm.VM {
	v := vm.New()
	v.Trace = cfg.Trace
	v.SessionID = uuid.NewString()
	return v
}

func runPath(cfg *config.Config, path string) int {
	v := newVM(cfg)
	defer v.Close()

	if strings.HasSuffix(path, ".shc") {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ash: %s\n", err)
			return exitIOError
		}
		defer f.Close()

		chunk, err := vm.DecodeChunk(f, v.Strings())
		if err != nil {
			fmt.Fprintf(os.Stderr, "ash: decoding %s: %s\n", path, err)
			return exitIOError
		}
		return exitFor(v.RunChunk(chunk))
	}

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}

	store := openCache(cfg)
	if store != nil {
		defer store.Close()
	}

	chunk, errs := compileCached(store, v.Strings(), string(source))
	if errs != nil {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return exitCompileError
	}

	return exitFor(v.RunChunk(chunk))
}

func exitFor(result vm.InterpretResult) int {
	switch result {
	case vm.InterpretOK:
		return exitOK
	case vm.InterpretCompileError:
		return exitCompileError
	case vm.InterpretRuntimeError:
		return exitRuntimeError
	default:
		return exitRuntimeError
	}
}

// runREPL reads one line at a time and interprets it against a single
// long-lived VM, so top-level var declarations persist across lines
// (SPEC_FULL.md §6). The prompt and startup banner are suppressed when
// stdin isn't a tty, so piped input behaves like a script.
func runREPL(cfg *config.Config) int {
	v := newVM(cfg)
	defer v.Close()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	if interactive {
		fmt.Fprintf(os.Stdout, "ash %s (session %s)\n", version, v.SessionID)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(os.Stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v.Interpret(line)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "ash: %s\n", err)
		return exitIOError
	}
	return exitOK
}
