package vm

import (
	"fmt"
	"strconv"

	"github.com/ash-lang/ash/internal/lexer"
)

// Precedence orders binding power from loosest to tightest; each level
// parses everything of a strictly higher precedence as its right operand.
type Precedence uint8

const (
	PREC_NONE Precedence = iota
	PREC_ASSIGNMENT
	PREC_OR
	PREC_AND
	PREC_EQUALITY
	PREC_COMPARISON
	PREC_TERM
	PREC_FACTOR
	PREC_UNARY
	PREC_CALL
	PREC_PRIMARY
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the Pratt table as data, keyed by token kind. Kinds absent
// from the map have no rule: getRule returns {nil, nil, PREC_NONE} for them.
var rules map[lexer.TokenType]parseRule

func init() {
	rules = map[lexer.TokenType]parseRule{
		lexer.LEFT_PAREN:    {grouping, nil, PREC_NONE},
		lexer.MINUS:         {unary, binaryOp, PREC_TERM},
		lexer.PLUS:          {nil, binaryOp, PREC_TERM},
		lexer.SLASH:         {nil, binaryOp, PREC_FACTOR},
		lexer.STAR:          {nil, binaryOp, PREC_FACTOR},
		lexer.BANG:          {unary, nil, PREC_NONE},
		lexer.BANG_EQUAL:    {nil, binaryOp, PREC_EQUALITY},
		lexer.EQUAL_EQUAL:   {nil, binaryOp, PREC_EQUALITY},
		lexer.GREATER:       {nil, binaryOp, PREC_COMPARISON},
		lexer.GREATER_EQUAL: {nil, binaryOp, PREC_COMPARISON},
		lexer.LESS:          {nil, binaryOp, PREC_COMPARISON},
		lexer.LESS_EQUAL:    {nil, binaryOp, PREC_COMPARISON},
		lexer.NUMBER:        {number, nil, PREC_NONE},
		lexer.STRING:        {stringLiteral, nil, PREC_NONE},
		lexer.IDENTIFIER:    {variable, nil, PREC_NONE},
		lexer.FALSE:         {literal, nil, PREC_NONE},
		lexer.TRUE:          {literal, nil, PREC_NONE},
		lexer.NIL:           {literal, nil, PREC_NONE},
	}
}

func getRule(t lexer.TokenType) parseRule {
	if r, ok := rules[t]; ok {
		return r
	}
	return parseRule{nil, nil, PREC_NONE}
}

// local is a compile-time local-variable slot. Depth of -1 means
// "declared but not yet initialized" (the value's own initializer is
// still being compiled).
type local struct {
	name  lexer.Token
	depth int
}

const maxLocals = 256

// Compiler holds all per-compilation state: the scanner feeding it, the
// parser's lookahead pair, error/panic flags, and the local-variable
// table. One Compiler compiles exactly one top-level source string into
// one Chunk.
type Compiler struct {
	scanner *lexer.Scanner
	chunk   *Chunk
	strings *Interner

	current  lexer.Token
	previous lexer.Token

	hasError   bool
	panicMode  bool
	errors     []*CompileError

	locals     [maxLocals]local
	localCount int
	scopeDepth int
}

// Compile compiles source into chunk using a single-pass Pratt parser,
// emitting bytecode as it goes. It returns whether compilation succeeded;
// on failure, Errors returns every diagnostic collected (panic-mode
// suppresses cascades, synchronize() resumes at the next boundary so
// more than one diagnostic can surface per compile).
func Compile(source string, chunk *Chunk, strings *Interner) (*Compiler, bool) {
	c := &Compiler{
		scanner: lexer.New(source),
		chunk:   chunk,
		strings: strings,
	}
	c.advance()
	for !c.match(lexer.EOF) {
		c.declaration()
	}
	c.emitReturn()
	return c, !c.hasError
}

// Errors returns every compile diagnostic collected during Compile.
func (c *Compiler) Errors() []*CompileError {
	return c.errors
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Type != lexer.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(t lexer.TokenType) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t lexer.TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t lexer.TokenType, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting / panic-mode protocol ---

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

func (c *Compiler) errorAtPrevious(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAt(tok lexer.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true

	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	switch tok.Type {
	case lexer.EOF:
		where = " at end"
	case lexer.ERROR:
		where = ""
	}

	c.errors = append(c.errors, &CompileError{
		Line:    tok.Line,
		Message: fmt.Sprintf("[line %d] Error%s: %s", tok.Line, where, message),
	})
	c.hasError = true
}

// synchronize skips tokens until a plausible statement boundary, clearing
// panic mode so subsequent errors are reported again.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Type != lexer.EOF {
		if c.previous.Type == lexer.SEMICOLON {
			return
		}
		switch c.current.Type {
		case lexer.CLASS, lexer.FUN, lexer.VAR, lexer.FOR, lexer.IF,
			lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		c.advance()
	}
}

// --- bytecode emission helpers ---

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op Opcode) {
	c.chunk.WriteOp(op, c.previous.Line)
}

func (c *Compiler) emitOps(a, b Opcode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *Compiler) emitReturn() {
	c.emitOp(OP_RETURN)
}

// makeConstant adds value to the chunk's constant pool, hard-erroring at
// compile time if the pool would exceed its one-byte addressable limit.
func (c *Compiler) makeConstant(value Value) byte {
	idx := c.chunk.AddConstant(value)
	if idx >= MaxConstants {
		c.errorAtPrevious("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(value Value) {
	c.emitOp(OP_CONSTANT)
	c.emitByte(c.makeConstant(value))
}

// --- declarations and statements ---

func (c *Compiler) declaration() {
	if c.match(lexer.VAR) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(lexer.EQUAL) {
		c.expression()
	} else {
		c.emitOp(OP_NIL)
	}
	c.consume(lexer.SEMICOLON, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(lexer.PRINT):
		c.printStatement()
	case c.match(lexer.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(lexer.SEMICOLON, "Expect ';' after value.")
	c.emitOp(OP_PRINT)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(lexer.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(OP_POP)
}

func (c *Compiler) block() {
	for !c.check(lexer.RIGHT_BRACE) && !c.check(lexer.EOF) {
		c.declaration()
	}
	c.consume(lexer.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

// endScope closes the current block: every local declared inside it is
// dropped from the compile-time table and given a matching runtime POP.
func (c *Compiler) endScope() {
	c.scopeDepth--
	for c.localCount > 0 && c.locals[c.localCount-1].depth > c.scopeDepth {
		c.emitOp(OP_POP)
		c.localCount--
	}
}

func (c *Compiler) expression() {
	c.parsePrecedence(PREC_ASSIGNMENT)
}

// parsePrecedence is the Pratt core: consume a prefix rule for the
// current token, then keep absorbing infix operators at least as tight
// as precedence.
func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefixRule := getRule(c.previous.Type).prefix
	if prefixRule == nil {
		c.errorAtPrevious("Expect expression.")
		return
	}

	canAssign := precedence <= PREC_ASSIGNMENT
	prefixRule(c, canAssign)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		infixRule := getRule(c.previous.Type).infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(lexer.EQUAL) {
		c.errorAtPrevious("Invalid assignment target.")
	}
}

// --- variable declaration / resolution ---

func (c *Compiler) parseVariable(errorMessage string) byte {
	c.consume(lexer.IDENTIFIER, errorMessage)

	c.declareVariable()
	if c.scopeDepth > 0 {
		return 0 // locals are not looked up by constant index
	}

	return c.identifierConstant(c.previous)
}

func (c *Compiler) identifierConstant(name lexer.Token) byte {
	return c.makeConstant(ObjValue(internCompileTimeString(c, name.Lexeme)))
}

// declareVariable registers the just-parsed identifier as a local when
// inside a scope; at global scope it is a no-op, since globals bind by
// name at runtime via DEFINE_GLOBAL.
func (c *Compiler) declareVariable() {
	if c.scopeDepth == 0 {
		return
	}

	name := c.previous
	for i := c.localCount - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			c.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}

	c.addLocal(name)
}

func (c *Compiler) addLocal(name lexer.Token) {
	if c.localCount == maxLocals {
		c.errorAtPrevious("Too many local variables in function.")
		return
	}
	c.locals[c.localCount] = local{name: name, depth: -1}
	c.localCount++
}

func (c *Compiler) defineVariable(global byte) {
	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOp(OP_DEFINE_GLOBAL)
	c.emitByte(global)
}

func (c *Compiler) markInitialized() {
	c.locals[c.localCount-1].depth = c.scopeDepth
}

// resolveLocal scans the local table backward (innermost scope first)
// for a lexeme match, returning its slot or -1 if not found.
func (c *Compiler) resolveLocal(name lexer.Token) int {
	for i := c.localCount - 1; i >= 0; i-- {
		l := &c.locals[i]
		if l.name.Lexeme == name.Lexeme {
			if l.depth == -1 {
				c.errorAtPrevious("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

// --- Pratt rule bodies ---

func number(c *Compiler, _ bool) {
	value, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.errorAtPrevious("Invalid number literal.")
		return
	}
	c.emitConstant(NumberValue(value))
}

func stringLiteral(c *Compiler, _ bool) {
	lexeme := c.previous.Lexeme
	trimmed := lexeme[1 : len(lexeme)-1] // drop the surrounding quotes
	c.emitConstant(ObjValue(internCompileTimeString(c, trimmed)))
}

func literal(c *Compiler, _ bool) {
	switch c.previous.Type {
	case lexer.FALSE:
		c.emitOp(OP_FALSE)
	case lexer.TRUE:
		c.emitOp(OP_TRUE)
	case lexer.NIL:
		c.emitOp(OP_NIL)
	}
}

func grouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(lexer.RIGHT_PAREN, "Expect ')' after expression.")
}

func unary(c *Compiler, _ bool) {
	operatorType := c.previous.Type

	c.parsePrecedence(PREC_UNARY)

	switch operatorType {
	case lexer.MINUS:
		c.emitOp(OP_NEGATE)
	case lexer.BANG:
		c.emitOp(OP_NOT)
	}
}

func binaryOp(c *Compiler, _ bool) {
	operatorType := c.previous.Type
	rule := getRule(operatorType)
	c.parsePrecedence(rule.precedence + 1) // left-associative

	switch operatorType {
	case lexer.BANG_EQUAL:
		c.emitOps(OP_EQUAL, OP_NOT)
	case lexer.EQUAL_EQUAL:
		c.emitOp(OP_EQUAL)
	case lexer.GREATER:
		c.emitOp(OP_GREATER)
	case lexer.GREATER_EQUAL:
		c.emitOps(OP_LESS, OP_NOT)
	case lexer.LESS:
		c.emitOp(OP_LESS)
	case lexer.LESS_EQUAL:
		c.emitOps(OP_GREATER, OP_NOT)
	case lexer.PLUS:
		c.emitOp(OP_ADD)
	case lexer.MINUS:
		c.emitOp(OP_SUBTRACT)
	case lexer.STAR:
		c.emitOp(OP_MULTIPLY)
	case lexer.SLASH:
		c.emitOp(OP_DIVIDE)
	}
}

func variable(c *Compiler, canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) namedVariable(name lexer.Token, canAssign bool) {
	var getOp, setOp Opcode
	arg := c.resolveLocal(name)
	if arg != -1 {
		getOp, setOp = OP_GET_LOCAL, OP_SET_LOCAL
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = OP_GET_GLOBAL, OP_SET_GLOBAL
	}

	if canAssign && c.match(lexer.EQUAL) {
		c.expression()
		c.emitOp(setOp)
		c.emitByte(byte(arg))
	} else {
		c.emitOp(getOp)
		c.emitByte(byte(arg))
	}
}
