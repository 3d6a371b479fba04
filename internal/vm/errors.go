package vm

import "fmt"

// CompileError reports a single compile-time diagnostic, already
// formatted the way error_at renders it: "[line N] Error<location>: msg".
type CompileError struct {
	Line    int
	Message string
}

func (e *CompileError) Error() string {
	return e.Message
}

// RuntimeError reports a VM-level failure: a formatted message plus the
// source line active when it was raised.
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d] in script\n", e.Message, e.Line)
}
