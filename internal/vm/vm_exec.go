package vm

import "fmt"

// run is the fetch/decode/execute loop: it switches on one opcode at a
// time, applying the stack effects from the opcode table, until RETURN
// halts it or a runtime error aborts it.
func (vm *VM) run() InterpretResult {
	for {
		if vm.Trace {
			fmt.Fprint(vm.Stderr, traceInstruction(vm.chunk, vm.ip))
		}

		instruction := Opcode(vm.readByte())
		switch instruction {
		case OP_CONSTANT:
			vm.push(vm.readConstant())

		case OP_NIL:
			vm.push(NilValue())
		case OP_TRUE:
			vm.push(TrueValue())
		case OP_FALSE:
			vm.push(FalseValue())

		case OP_POP:
			vm.pop()

		case OP_DEFINE_GLOBAL:
			name := vm.readConstant().AsString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case OP_GET_GLOBAL:
			name := vm.readConstant().AsString()
			value, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(value)

		case OP_SET_GLOBAL:
			name := vm.readConstant().AsString()
			// SET_GLOBAL must not silently create a new global: the
			// source's VM loop is missing this case entirely (spec §9);
			// a faithful reproduction checks presence first.
			if _, ok := vm.globals.Get(name); !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.globals.Set(name, vm.peek(0))

		case OP_GET_LOCAL:
			slot := vm.readByte()
			vm.push(vm.stack[slot])

		case OP_SET_LOCAL:
			slot := vm.readByte()
			vm.stack[slot] = vm.peek(0)

		case OP_EQUAL:
			b := vm.pop()
			a := vm.pop()
			vm.push(BoolValue(a.Equals(b)))

		case OP_GREATER:
			if res := vm.requireNumbers(); res != InterpretOK {
				return res
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(BoolValue(a > b))

		case OP_LESS:
			if res := vm.requireNumbers(); res != InterpretOK {
				return res
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(BoolValue(a < b))

		case OP_ADD:
			if res := vm.add(); res != InterpretOK {
				return res
			}

		case OP_SUBTRACT:
			if res := vm.requireNumbers(); res != InterpretOK {
				return res
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(NumberValue(a - b))

		case OP_MULTIPLY:
			if res := vm.requireNumbers(); res != InterpretOK {
				return res
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(NumberValue(a * b))

		case OP_DIVIDE:
			if res := vm.requireNumbers(); res != InterpretOK {
				return res
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(NumberValue(a / b))

		case OP_NOT:
			vm.push(BoolValue(vm.pop().IsFalsey()))

		case OP_NEGATE:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operands must be numbers.")
			}
			vm.push(NumberValue(-vm.pop().AsNumber()))

		case OP_PRINT:
			fmt.Fprintln(vm.Stdout, vm.pop().String())

		case OP_RETURN:
			return InterpretOK

		default:
			return vm.runtimeError("Unknown opcode %d.", instruction)
		}
	}
}

// requireNumbers checks the top two stack values are both numbers,
// without popping them, for the binary comparison/arithmetic opcodes
// that don't also accept strings.
func (vm *VM) requireNumbers() InterpretResult {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	return InterpretOK
}

// add implements OP_ADD's dual dispatch: string concatenation when both
// operands are strings, numeric addition when both are numbers,
// otherwise a runtime error.
func (vm *VM) add() InterpretResult {
	b := vm.peek(0)
	a := vm.peek(1)

	switch {
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		vm.push(ObjValue(vm.concatenate(a.AsString(), b.AsString())))
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(NumberValue(a.AsNumber() + b.AsNumber()))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
	return InterpretOK
}

// concatenate builds a fresh buffer for a+b and hands it to TakeString,
// which will reuse an existing interned string with the same content
// instead of registering a duplicate.
func (vm *VM) concatenate(a, b *ObjString) *ObjString {
	return vm.strings.TakeString(a.Chars + b.Chars)
}
