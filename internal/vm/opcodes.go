// Package vm implements a bytecode virtual machine for ash: the chunk
// format, value representation, string interning, single-pass compiler,
// and the stack machine that executes compiled chunks.
package vm

// Opcode is a single VM instruction.
type Opcode byte

const (
	OP_CONSTANT Opcode = iota // k -> push constants[k]
	OP_NIL                    // -> push nil
	OP_TRUE                   // -> push true
	OP_FALSE                  // -> push false
	OP_POP                    // discard top

	OP_DEFINE_GLOBAL // k: bind constants[k] -> top, pop
	OP_GET_GLOBAL    // k: push globals[constants[k]]
	OP_SET_GLOBAL    // k: globals[constants[k]] = top (no pop)
	OP_GET_LOCAL     // k: push stack[k]
	OP_SET_LOCAL     // k: stack[k] = top (no pop)

	OP_EQUAL   // pop b, a; push a == b
	OP_GREATER // pop b, a; push a > b
	OP_LESS    // pop b, a; push a < b

	OP_ADD      // pop b, a; push a + b (number or string concat)
	OP_SUBTRACT // pop b, a; push a - b
	OP_MULTIPLY // pop b, a; push a * b
	OP_DIVIDE   // pop b, a; push a / b

	OP_NOT    // replace top with its truthiness negation
	OP_NEGATE // replace top with its numeric negation

	OP_PRINT  // pop, format + newline to stdout
	OP_RETURN // halt execution successfully

	// Reserved, not emitted by this compiler: control flow and calls are
	// not part of this language core. Named here so the
	// disassembler and a future compiler share one opcode space.
	OP_JUMP
	OP_JUMP_IF_FALSE
	OP_LOOP
	OP_CALL
)

var opcodeNames = map[Opcode]string{
	OP_CONSTANT: "CONSTANT",
	OP_NIL:      "NIL",
	OP_TRUE:     "TRUE",
	OP_FALSE:    "FALSE",
	OP_POP:      "POP",

	OP_DEFINE_GLOBAL: "DEFINE_GLOBAL",
	OP_GET_GLOBAL:    "GET_GLOBAL",
	OP_SET_GLOBAL:    "SET_GLOBAL",
	OP_GET_LOCAL:     "GET_LOCAL",
	OP_SET_LOCAL:     "SET_LOCAL",

	OP_EQUAL:   "EQUAL",
	OP_GREATER: "GREATER",
	OP_LESS:    "LESS",

	OP_ADD:      "ADD",
	OP_SUBTRACT: "SUBTRACT",
	OP_MULTIPLY: "MULTIPLY",
	OP_DIVIDE:   "DIVIDE",

	OP_NOT:    "NOT",
	OP_NEGATE: "NEGATE",

	OP_PRINT:  "PRINT",
	OP_RETURN: "RETURN",

	OP_JUMP:          "JUMP",
	OP_JUMP_IF_FALSE: "JUMP_IF_FALSE",
	OP_LOOP:          "LOOP",
	OP_CALL:          "CALL",
}

func (op Opcode) String() string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return "UNKNOWN"
}

// takesConstantOperand reports whether op is followed by a one-byte
// constant-pool index. This is the set the Chunk invariant in spec.md §3
// actually constrains: "every constant-operand byte indexes a valid
// entry in chunk.constants".
func takesConstantOperand(op Opcode) bool {
	switch op {
	case OP_CONSTANT, OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL:
		return true
	default:
		return false
	}
}

// takesLocalOperand reports whether op is followed by a one-byte
// stack-slot index (not a constant-pool index).
func takesLocalOperand(op Opcode) bool {
	switch op {
	case OP_GET_LOCAL, OP_SET_LOCAL:
		return true
	default:
		return false
	}
}
