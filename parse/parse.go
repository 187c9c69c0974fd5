// Copyright 2026 The Calq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parse compiles source text to bytecode: a recursive-descent
// statement compiler with precedence climbing for expressions,
// emitting code.Function values. Forward branches are recorded and
// patched once their targets are known.
package parse // import "calq.io/calq/parse"

import (
	"errors"

	"calq.io/calq/code"
	"calq.io/calq/scan"
	"calq.io/calq/value"
)

// Env is the compile-time view of the environment: function and
// object-type registration plus builtin numbering. exec.Context
// implements it.
type Env interface {
	DefineFunc(fn *code.Function)
	DefineObjectType(name string, fields []string) error
	ObjectType(name string) (*value.ObjectTypeDef, bool)
	BuiltinIndex(name string) (int, bool)
}

// ErrIncomplete reports source that ended mid-construct; the REPL
// responds by reading a continuation line.
var ErrIncomplete = errors.New("incomplete input")

// Parser compiles one source unit.
type Parser struct {
	scanner *scan.Scanner
	env     Env
	tok     scan.Token
	peeked  bool
	peekTok scan.Token

	fn       *code.Function
	topLevel bool              // auto-print expression statements
	locals   map[string]int    // in-function declared locals and params
	fnName   string            // enclosing function name, for statics
	statics  map[string]string // declared statics: name -> qualified name

	breaks    [][]int
	continues [][]int
	labels    map[string]int
	gotos     []gotoRef

	incomplete bool
}

type gotoRef struct {
	name string
	pc   int
	line int
}

// Compile compiles a source unit into an anonymous top-level function.
// Function and object definitions inside the unit are registered with
// env as they are compiled.
func Compile(name, src string, env Env) (fn *code.Function, err error) {
	p := &Parser{
		scanner:  scan.New(name, src),
		env:      env,
		topLevel: true,
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(value.Fault); ok {
			if p.incomplete {
				err = ErrIncomplete
				return
			}
			err = f
			return
		}
		panic(r)
	}()
	p.fn = &code.Function{Name: name}
	p.labels = make(map[string]int)
	p.statics = make(map[string]string)
	p.advance()
	for p.tok.Type != scan.EOF {
		p.statement()
	}
	p.fixGotos()
	p.emit(code.Instr{Op: code.PUSH_NULL})
	p.emit(code.Instr{Op: code.RETURN})
	return p.fn, nil
}

// CompileEval compiles a single expression whose value becomes the
// function's return value; the eval builtin runs on it.
func CompileEval(name, src string, env Env) (fn *code.Function, err error) {
	p := &Parser{
		scanner: scan.New(name, src),
		env:     env,
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(value.Fault); ok {
			err = f
			return
		}
		panic(r)
	}()
	p.fn = &code.Function{Name: name}
	p.labels = make(map[string]int)
	p.statics = make(map[string]string)
	p.advance()
	if p.tok.Type == scan.EOF {
		p.emit(code.Instr{Op: code.PUSH_NULL})
	} else {
		p.compileExpr()
	}
	if p.tok.Type != scan.EOF {
		p.errorf("unexpected %s after expression", p.tok)
	}
	p.emit(code.Instr{Op: code.RETURN})
	return p.fn, nil
}

func (p *Parser) errorf(format string, args ...interface{}) {
	if p.tok.Type == scan.EOF {
		p.incomplete = true
	}
	value.Errorf(value.ErrSyntax, "%s:%d: "+format,
		append([]interface{}{p.scanner.Name(), p.tok.Line}, args...)...)
}

func (p *Parser) advance() {
	if p.peeked {
		p.tok, p.peeked = p.peekTok, false
		return
	}
	p.tok = p.scanner.Next()
	if p.tok.Type == scan.Error {
		p.errorf("%s", p.tok.Text)
	}
}

func (p *Parser) peek() scan.Token {
	if !p.peeked {
		p.peekTok = p.scanner.Next()
		if p.peekTok.Type == scan.Error {
			p.errorf("%s", p.peekTok.Text)
		}
		p.peeked = true
	}
	return p.peekTok
}

// accept consumes the current token if it matches.
func (p *Parser) accept(t scan.Type) bool {
	if p.tok.Type == t {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t scan.Type, context string) scan.Token {
	if p.tok.Type != t {
		p.errorf("expected %s in %s, found %s", t, context, p.tok)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) acceptWord(word string) bool {
	if p.tok.Type == scan.Identifier && p.tok.Text == word {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) acceptOp(text string) bool {
	if p.tok.Type == scan.Operator && p.tok.Text == text {
		p.advance()
		return true
	}
	return false
}

// emit appends an instruction and returns its pc.
func (p *Parser) emit(in code.Instr) int {
	p.fn.Code = append(p.fn.Code, in)
	return len(p.fn.Code) - 1
}

// patch sets the branch target of the instruction at pc to the
// current end of code.
func (p *Parser) patch(pc int) {
	p.fn.Code[pc].A = len(p.fn.Code)
}

func (p *Parser) pushConst(v value.Value) {
	p.emit(code.Instr{Op: code.PUSH_CONST, A: p.fn.AddConst(v)})
}

func (p *Parser) pushInt(i int64) {
	p.pushConst(value.NewInt(i))
}

// here is the pc of the next instruction.
func (p *Parser) here() int { return len(p.fn.Code) }

// ---------- statements ----------

var keywords = map[string]bool{
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"switch": true, "case": true, "default": true, "break": true,
	"continue": true, "goto": true, "return": true, "define": true,
	"obj": true, "mat": true, "global": true, "static": true,
	"local": true, "print": true, "try": true, "catch": true,
}

func (p *Parser) statement() {
	if p.tok.Type == scan.Semicolon {
		p.advance()
		return
	}
	if p.tok.Type == scan.LeftBrace {
		p.block()
		return
	}
	if p.tok.Type == scan.Identifier {
		switch p.tok.Text {
		case "if":
			p.ifStatement()
			return
		case "while":
			p.whileStatement()
			return
		case "do":
			p.doStatement()
			return
		case "for":
			p.forStatement()
			return
		case "switch":
			p.switchStatement()
			return
		case "break":
			p.advance()
			p.breakContinue(&p.breaks, "break")
			return
		case "continue":
			p.advance()
			p.breakContinue(&p.continues, "continue")
			return
		case "goto":
			p.advance()
			name := p.expect(scan.Identifier, "goto").Text
			p.gotos = append(p.gotos, gotoRef{name, p.emit(code.Instr{Op: code.BRANCH}), p.tok.Line})
			p.endStatement()
			return
		case "return":
			p.returnStatement()
			return
		case "define":
			p.defineStatement()
			return
		case "obj":
			p.objStatement()
			return
		case "mat":
			p.matStatement()
			return
		case "global", "static", "local":
			p.declStatement(p.tok.Text)
			return
		case "print":
			p.printStatement()
			return
		case "try":
			p.tryStatement()
			return
		}
		// A label: identifier followed by a colon, not a keyword.
		if p.peek().Type == scan.Colon && !keywords[p.tok.Text] {
			name := p.tok.Text
			if _, dup := p.labels[name]; dup {
				value.Errorf(value.ErrRedefined, "label %s redefined", name)
			}
			p.advance()
			p.advance()
			p.labels[name] = p.here()
			return
		}
	}
	// Expression statement.
	isAssign := p.compileExpr()
	if !isAssign && len(p.fn.Code) > 0 {
		// A bare increment or decrement ends in its store; it is an
		// assignment form and stays silent like one.
		switch p.fn.Code[len(p.fn.Code)-1].Op {
		case code.STORE_GLOBAL, code.STORE_LOCAL, code.STORE_STATIC:
			isAssign = true
		}
	}
	switch {
	case isAssign:
		p.emit(code.Instr{Op: code.POP})
	case p.topLevel:
		p.emit(code.Instr{Op: code.PRINT, A: 1})
	default:
		p.emit(code.Instr{Op: code.POP})
	}
	p.endStatement()
}

func (p *Parser) endStatement() {
	switch p.tok.Type {
	case scan.Semicolon:
		p.advance()
	case scan.EOF, scan.RightBrace:
		// Implicit terminator.
	default:
		p.errorf("expected ; after statement, found %s", p.tok)
	}
}

func (p *Parser) block() {
	p.expect(scan.LeftBrace, "block")
	for p.tok.Type != scan.RightBrace {
		if p.tok.Type == scan.EOF {
			p.errorf("unexpected EOF in block")
		}
		p.statement()
	}
	p.advance()
}

func (p *Parser) condition(what string) {
	p.expect(scan.LeftParen, what)
	p.compileExpr()
	p.expect(scan.RightParen, what)
}

func (p *Parser) ifStatement() {
	p.advance()
	p.condition("if")
	jfalse := p.emit(code.Instr{Op: code.BRANCH_IF_FALSE})
	p.statement()
	if p.acceptWord("else") {
		jend := p.emit(code.Instr{Op: code.BRANCH})
		p.patch(jfalse)
		p.statement()
		p.patch(jend)
	} else {
		p.patch(jfalse)
	}
}

func (p *Parser) loopStart() {
	p.breaks = append(p.breaks, nil)
	p.continues = append(p.continues, nil)
}

// loopEnd patches break fixups to here and continue fixups to target.
func (p *Parser) loopEnd(continueTarget int) {
	n := len(p.breaks) - 1
	for _, pc := range p.breaks[n] {
		p.patch(pc)
	}
	for _, pc := range p.continues[n] {
		p.fn.Code[pc].A = continueTarget
	}
	p.breaks = p.breaks[:n]
	p.continues = p.continues[:n]
}

func (p *Parser) breakContinue(stack *[][]int, what string) {
	if len(*stack) == 0 {
		p.errorf("%s outside loop", what)
	}
	pc := p.emit(code.Instr{Op: code.BRANCH})
	(*stack)[len(*stack)-1] = append((*stack)[len(*stack)-1], pc)
	p.endStatement()
}

func (p *Parser) whileStatement() {
	p.advance()
	top := p.here()
	p.loopStart()
	p.condition("while")
	jout := p.emit(code.Instr{Op: code.BRANCH_IF_FALSE})
	p.statement()
	p.emit(code.Instr{Op: code.BRANCH, A: top})
	p.patch(jout)
	p.loopEnd(top)
}

func (p *Parser) doStatement() {
	p.advance()
	top := p.here()
	p.loopStart()
	p.statement()
	condAt := p.here()
	if !p.acceptWord("while") {
		p.errorf("expected while after do body")
	}
	p.condition("do-while")
	p.emit(code.Instr{Op: code.BRANCH_IF, A: top})
	p.endStatement()
	p.loopEnd(condAt)
}

func (p *Parser) forStatement() {
	p.advance()
	p.expect(scan.LeftParen, "for")
	if p.tok.Type != scan.Semicolon {
		p.compileExpr()
		p.emit(code.Instr{Op: code.POP})
	}
	p.expect(scan.Semicolon, "for")
	condAt := p.here()
	var jout = -1
	if p.tok.Type != scan.Semicolon {
		p.compileExpr()
		jout = p.emit(code.Instr{Op: code.BRANCH_IF_FALSE})
	}
	p.expect(scan.Semicolon, "for")
	jbody := p.emit(code.Instr{Op: code.BRANCH})
	stepAt := p.here()
	if p.tok.Type != scan.RightParen {
		p.compileExpr()
		p.emit(code.Instr{Op: code.POP})
	}
	p.emit(code.Instr{Op: code.BRANCH, A: condAt})
	p.expect(scan.RightParen, "for")
	p.patch(jbody)
	p.loopStart()
	p.statement()
	p.emit(code.Instr{Op: code.BRANCH, A: stepAt})
	if jout >= 0 {
		p.patch(jout)
	}
	p.loopEnd(stepAt)
}

// switchStatement compiles the dispatch as a linear chain of
// (constant, jump) tests threaded through the case bodies: each
// failing test branches to the next test, each succeeding test pops
// the switch value and jumps to its body, and bodies fall through in
// the C manner.
func (p *Parser) switchStatement() {
	p.advance()
	p.condition("switch")
	p.expect(scan.LeftBrace, "switch")
	p.breaks = append(p.breaks, nil)

	var pendingBody []int // jumps awaiting the next body statement
	failChain := -1       // last failing test awaiting the next test
	defaultBodyPC := -1
	wantDefault := false
	inBody := false

	for p.tok.Type != scan.RightBrace {
		if p.tok.Type == scan.EOF {
			p.errorf("unexpected EOF in switch")
		}
		switch {
		case p.acceptWord("case"):
			if inBody {
				pendingBody = append(pendingBody, p.emit(code.Instr{Op: code.BRANCH}))
				inBody = false
			}
			if failChain >= 0 {
				p.patch(failChain)
			}
			p.emit(code.Instr{Op: code.DUP})
			p.compileExpr()
			p.expect(scan.Colon, "case")
			p.emit(code.Instr{Op: code.OP, S: "=="})
			failChain = p.emit(code.Instr{Op: code.BRANCH_IF_FALSE})
			p.emit(code.Instr{Op: code.POP})
			pendingBody = append(pendingBody, p.emit(code.Instr{Op: code.BRANCH}))
		case p.acceptWord("default"):
			p.expect(scan.Colon, "default")
			if inBody {
				inBody = false
			}
			wantDefault = true
		default:
			if !inBody {
				for _, pc := range pendingBody {
					p.patch(pc)
				}
				pendingBody = nil
				if wantDefault {
					defaultBodyPC = p.here()
					wantDefault = false
				}
				inBody = true
			}
			p.statement()
		}
	}
	p.advance() // }
	if inBody {
		// The last body falls out past the dispatch exit.
		p.breaks[len(p.breaks)-1] = append(p.breaks[len(p.breaks)-1],
			p.emit(code.Instr{Op: code.BRANCH}))
	}
	// Dispatch exit: every test failed. Drop the value; enter the
	// default body if there is one.
	if failChain >= 0 {
		p.patch(failChain)
	}
	p.emit(code.Instr{Op: code.POP})
	if wantDefault {
		// default: was the last clause with no body statement.
		wantDefault = false
	} else if defaultBodyPC >= 0 {
		p.emit(code.Instr{Op: code.BRANCH, A: defaultBodyPC})
	}
	// Labels with no trailing body land at the end.
	for _, pc := range pendingBody {
		p.patch(pc)
	}
	n := len(p.breaks) - 1
	for _, pc := range p.breaks[n] {
		p.patch(pc)
	}
	p.breaks = p.breaks[:n]
}

func (p *Parser) returnStatement() {
	p.advance()
	if p.tok.Type == scan.Semicolon || p.tok.Type == scan.RightBrace || p.tok.Type == scan.EOF {
		p.emit(code.Instr{Op: code.PUSH_NULL})
	} else {
		p.compileExpr()
	}
	p.emit(code.Instr{Op: code.RETURN})
	p.endStatement()
}

// defineStatement compiles a function definition into its own
// code.Function and registers it.
func (p *Parser) defineStatement() {
	p.advance()
	name := p.expect(scan.Identifier, "define").Text
	p.expect(scan.LeftParen, "parameter list")
	var params []string
	for p.tok.Type != scan.RightParen {
		params = append(params, p.expect(scan.Identifier, "parameter list").Text)
		if !p.accept(scan.Comma) {
			break
		}
	}
	p.expect(scan.RightParen, "parameter list")

	// Swap in a fresh compilation state for the body.
	outer := *p
	p.fn = &code.Function{Name: name, Params: params, LocalCount: len(params)}
	p.topLevel = false
	p.locals = make(map[string]int)
	p.statics = make(map[string]string)
	p.fnName = name
	p.labels = make(map[string]int)
	p.gotos = nil
	p.breaks, p.continues = nil, nil
	for i, param := range params {
		p.locals[param] = i
	}
	p.block()
	p.fixGotos()
	p.emit(code.Instr{Op: code.PUSH_NULL})
	p.emit(code.Instr{Op: code.RETURN})
	fn := p.fn

	// Restore the outer state, keeping scanner progress.
	scannerState, tok, peeked, peekTok := p.scanner, p.tok, p.peeked, p.peekTok
	*p = outer
	p.scanner, p.tok, p.peeked, p.peekTok = scannerState, tok, peeked, peekTok

	p.env.DefineFunc(fn)
}

func (p *Parser) fixGotos() {
	for _, g := range p.gotos {
		target, ok := p.labels[g.name]
		if !ok {
			value.Errorf(value.ErrUndefLabel, "%s:%d: undefined label %s",
				p.scanner.Name(), g.line, g.name)
		}
		p.fn.Code[g.pc].A = target
	}
	p.gotos = nil
}

// objStatement handles the declaration obj T {a, b} and the
// instance statement obj T var.
func (p *Parser) objStatement() {
	p.advance()
	name := p.expect(scan.Identifier, "obj").Text
	if p.tok.Type == scan.LeftBrace {
		p.advance()
		var fields []string
		for p.tok.Type != scan.RightBrace {
			fields = append(fields, p.expect(scan.Identifier, "obj fields").Text)
			if !p.accept(scan.Comma) {
				break
			}
		}
		p.expect(scan.RightBrace, "obj")
		if err := p.env.DefineObjectType(name, fields); err != nil {
			value.Errorf(value.ErrRedefined, "%s", err)
		}
		p.endStatement()
		return
	}
	// obj T var [= expr]: declare a variable holding a new instance.
	varName := p.expect(scan.Identifier, "obj declaration").Text
	p.emit(code.Instr{Op: code.NEW_OBJ, S: name})
	p.emitStore(varName)
	p.endStatement()
}

// matStatement compiles mat name[bounds...] [= {values...}].
// A bound is either an extent n (indexes 0..n-1) or an inclusive
// lo:hi pair; MAKE_MATRIX's A2 bitmask records which dimensions
// carried a pair.
func (p *Parser) matStatement() {
	p.advance()
	name := p.expect(scan.Identifier, "mat").Text
	p.expect(scan.LeftBrack, "mat")
	ndim := 0
	pairMask := 0
	for {
		p.compileExpr()
		if p.accept(scan.Colon) {
			p.compileExpr()
			pairMask |= 1 << ndim
		}
		ndim++
		if !p.accept(scan.Comma) {
			break
		}
	}
	p.expect(scan.RightBrack, "mat")
	p.emit(code.Instr{Op: code.MAKE_MATRIX, A: ndim, A2: pairMask})
	if p.tok.Type == scan.Assign && p.tok.Text == "=" {
		p.advance()
		offset := 0
		p.matInit(&offset)
	}
	p.emitStore(name)
	p.endStatement()
}

// matInit compiles a brace initializer, flattening nested braces in
// row-major order; each element becomes a SETELEM on the matrix left
// on the stack.
func (p *Parser) matInit(offset *int) {
	p.expect(scan.LeftBrace, "matrix initializer")
	for p.tok.Type != scan.RightBrace {
		if p.tok.Type == scan.LeftBrace {
			p.matInit(offset)
		} else {
			p.compileExpr()
			p.emit(code.Instr{Op: code.SETELEM, A: *offset})
			*offset++
		}
		if !p.accept(scan.Comma) {
			break
		}
	}
	p.expect(scan.RightBrace, "matrix initializer")
}

// declStatement compiles global/static/local declarations with
// optional initializers.
func (p *Parser) declStatement(kind string) {
	p.advance()
	if kind == "local" && p.locals == nil {
		p.errorf("local declaration outside function")
	}
	for {
		name := p.expect(scan.Identifier, kind+" declaration").Text
		switch kind {
		case "local":
			if _, dup := p.locals[name]; !dup {
				p.locals[name] = p.fn.LocalCount
				p.fn.LocalCount++
			}
		case "static":
			p.statics[name] = p.staticName(name)
		}
		if p.tok.Type == scan.Assign && p.tok.Text == "=" {
			p.advance()
			p.compileBinary(1)
			switch kind {
			case "local":
				p.emit(code.Instr{Op: code.STORE_LOCAL, A: p.locals[name]})
			case "static":
				p.emit(code.Instr{Op: code.STORE_STATIC, S: p.statics[name]})
			default:
				p.emit(code.Instr{Op: code.STORE_GLOBAL, S: name})
			}
		} else if kind == "static" {
			// Leave an existing static alone; initialize to null
			// only the first time, which the VM's LOAD handles.
		}
		if !p.accept(scan.Comma) {
			break
		}
	}
	p.endStatement()
}

func (p *Parser) staticName(name string) string {
	if p.fnName != "" {
		return p.fnName + ":" + name
	}
	return p.scanner.Name() + ":" + name
}

func (p *Parser) printStatement() {
	p.advance()
	if p.tok.Type == scan.Semicolon || p.tok.Type == scan.EOF || p.tok.Type == scan.RightBrace {
		p.pushConst(value.String(""))
		p.emit(code.Instr{Op: code.PRINT, A: 1})
		p.endStatement()
		return
	}
	for {
		p.compileExpr()
		if p.accept(scan.Comma) {
			p.emit(code.Instr{Op: code.PRINT, A: 0})
			continue
		}
		p.emit(code.Instr{Op: code.PRINT, A: 1})
		break
	}
	p.endStatement()
}

// tryStatement compiles try stmt catch name stmt.
func (p *Parser) tryStatement() {
	p.advance()
	try := p.emit(code.Instr{Op: code.TRY})
	p.statement()
	p.emit(code.Instr{Op: code.ENDTRY})
	jend := p.emit(code.Instr{Op: code.BRANCH})
	p.patch(try)
	// Handler: the VM pushes the error value.
	if !p.acceptWord("catch") {
		p.errorf("expected catch after try body")
	}
	name := p.expect(scan.Identifier, "catch").Text
	p.emitStore(name)
	p.statement()
	p.patch(jend)
}

// emitStore stores the top of stack into a named variable and pops it.
func (p *Parser) emitStore(name string) {
	if p.locals != nil {
		if slot, ok := p.locals[name]; ok {
			p.emit(code.Instr{Op: code.STORE_LOCAL, A: slot})
			return
		}
	}
	if qual, ok := p.statics[name]; ok {
		p.emit(code.Instr{Op: code.STORE_STATIC, S: qual})
		return
	}
	p.emit(code.Instr{Op: code.STORE_GLOBAL, S: name})
}

// ---------- expressions ----------

// Binary precedence, higher binds tighter. ** is right-associative.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "//": 10, "%": 10,
	"**": 11,
}

// compileExpr compiles one expression, handling assignment forms.
// It reports whether the expression was an assignment (which leaves
// its value on the stack like any expression).
func (p *Parser) compileExpr() bool {
	p.compileBinary(1)
	if p.tok.Type != scan.Assign {
		return false
	}
	opText := p.tok.Text
	p.advance()
	if opText == "=" {
		p.rewriteStore(false, "")
		return true
	}
	// Compound assignment: a op= b requires a simple variable target.
	p.rewriteStore(true, opText[:len(opText)-1])
	return true
}

// rewriteStore converts the most recent load into a store around the
// right-hand side. For compound assignment the load is kept and the
// operator applied.
func (p *Parser) rewriteStore(compound bool, op string) {
	if len(p.fn.Code) == 0 {
		p.errorf("cannot assign")
	}
	last := p.fn.Code[len(p.fn.Code)-1]
	pop := func() { p.fn.Code = p.fn.Code[:len(p.fn.Code)-1] }
	switch last.Op {
	case code.LOAD_GLOBAL, code.LOAD_LOCAL, code.LOAD_STATIC:
		store := code.Instr{Op: code.STORE_GLOBAL, A: last.A, S: last.S}
		switch last.Op {
		case code.LOAD_LOCAL:
			store.Op = code.STORE_LOCAL
		case code.LOAD_STATIC:
			store.Op = code.STORE_STATIC
		}
		if compound {
			p.compileBinary(1)
			p.emit(code.Instr{Op: code.OP, S: op})
		} else {
			pop()
			p.compileExprValue()
		}
		p.emit(code.Instr{Op: code.DUP})
		p.emit(store)
	case code.INDEX:
		if compound {
			p.errorf("compound assignment needs a simple variable")
		}
		n := last.A
		pop()
		p.compileExprValue()
		p.emit(code.Instr{Op: code.SETINDEX, A: n})
	case code.GETFIELD:
		if compound {
			p.errorf("compound assignment needs a simple variable")
		}
		field := last.S
		pop()
		p.compileExprValue()
		p.emit(code.Instr{Op: code.SETFIELD, S: field})
	default:
		p.errorf("cannot assign to this expression")
	}
}

// compileExprValue compiles the right-hand side of an assignment,
// allowing chained assignment a = b = c.
func (p *Parser) compileExprValue() {
	p.compileExpr()
}

// compileBinary implements precedence climbing above minPrec.
func (p *Parser) compileBinary(minPrec int) {
	p.compileUnary()
	for p.tok.Type == scan.Operator {
		op := p.tok.Text
		prec, ok := precedence[op]
		if !ok || prec < minPrec {
			return
		}
		p.advance()
		switch op {
		case "&&":
			p.andOr(true, prec)
		case "||":
			p.andOr(false, prec)
		case "**":
			p.compileBinary(prec) // right associative
			p.emit(code.Instr{Op: code.OP, S: op})
		default:
			p.compileBinary(prec + 1)
			p.emit(code.Instr{Op: code.OP, S: op})
		}
	}
}

// andOr emits short-circuit logic yielding 0 or 1.
func (p *Parser) andOr(isAnd bool, prec int) {
	// Left operand truth is on the stack.
	var early code.Opcode
	if isAnd {
		early = code.BRANCH_IF_FALSE
	} else {
		early = code.BRANCH_IF
	}
	jshort := p.emit(code.Instr{Op: early})
	p.compileBinary(prec + 1)
	jshort2 := p.emit(code.Instr{Op: early})
	if isAnd {
		p.pushInt(1)
	} else {
		p.pushInt(0)
	}
	jend := p.emit(code.Instr{Op: code.BRANCH})
	p.patch(jshort)
	p.patch(jshort2)
	if isAnd {
		p.pushInt(0)
	} else {
		p.pushInt(1)
	}
	p.patch(jend)
}

func (p *Parser) compileUnary() {
	if p.tok.Type == scan.Operator {
		switch p.tok.Text {
		case "-":
			p.advance()
			p.compileUnary()
			p.emit(code.Instr{Op: code.OP_UNARY, S: "-"})
			return
		case "+":
			p.advance()
			p.compileUnary()
			p.emit(code.Instr{Op: code.OP_UNARY, S: "+"})
			return
		case "!":
			p.advance()
			p.compileUnary()
			p.emit(code.Instr{Op: code.OP_UNARY, S: "!"})
			return
		case "~":
			p.advance()
			p.compileUnary()
			p.emit(code.Instr{Op: code.OP_UNARY, S: "~"})
			return
		case "++", "--":
			op := p.tok.Text[:1]
			p.advance()
			p.compileUnary()
			p.incDec(op, true)
			return
		}
	}
	p.compilePostfix()
}

// incDec rewrites the load on top into load-modify-store. prefix
// leaves the new value, postfix the old.
func (p *Parser) incDec(op string, prefix bool) {
	if len(p.fn.Code) == 0 {
		p.errorf("++/-- needs a variable")
	}
	last := p.fn.Code[len(p.fn.Code)-1]
	var store code.Instr
	switch last.Op {
	case code.LOAD_GLOBAL:
		store = code.Instr{Op: code.STORE_GLOBAL, S: last.S}
	case code.LOAD_LOCAL:
		store = code.Instr{Op: code.STORE_LOCAL, A: last.A}
	case code.LOAD_STATIC:
		store = code.Instr{Op: code.STORE_STATIC, S: last.S}
	default:
		p.errorf("++/-- needs a simple variable")
	}
	if prefix {
		p.pushInt(1)
		p.emit(code.Instr{Op: code.OP, S: op})
		p.emit(code.Instr{Op: code.DUP})
		p.emit(store)
	} else {
		p.emit(code.Instr{Op: code.DUP})
		p.pushInt(1)
		p.emit(code.Instr{Op: code.OP, S: op})
		p.emit(store)
	}
}

func (p *Parser) compilePostfix() {
	p.compilePrimary()
	for {
		switch {
		case p.tok.Type == scan.LeftBrack:
			p.advance()
			n := 0
			for {
				p.compileExpr()
				n++
				if !p.accept(scan.Comma) {
					break
				}
			}
			p.expect(scan.RightBrack, "index")
			p.emit(code.Instr{Op: code.INDEX, A: n})
		case p.tok.Type == scan.Dot:
			p.advance()
			field := p.expect(scan.Identifier, "field access").Text
			p.emit(code.Instr{Op: code.GETFIELD, S: field})
		case p.tok.Type == scan.Operator && (p.tok.Text == "++" || p.tok.Text == "--"):
			op := p.tok.Text[:1]
			p.advance()
			p.incDec(op, false)
		default:
			return
		}
	}
}

func (p *Parser) compilePrimary() {
	switch p.tok.Type {
	case scan.Number:
		n, ok := value.ParseNumber(p.tok.Text)
		if !ok {
			p.errorf("bad number %q", p.tok.Text)
		}
		p.pushConst(n)
		p.advance()
	case scan.Imaginary:
		n, ok := value.ParseNumber(p.tok.Text)
		if !ok {
			p.errorf("bad number %q", p.tok.Text)
		}
		p.pushConst(value.NewComplex(value.NewInt(0), n))
		p.advance()
	case scan.String:
		p.pushConst(value.String(p.tok.Text))
		p.advance()
	case scan.LeftParen:
		p.advance()
		p.compileExpr()
		p.expect(scan.RightParen, "parenthesized expression")
	case scan.LeftBrace:
		// List literal {a, b, c}.
		p.advance()
		n := 0
		for p.tok.Type != scan.RightBrace {
			p.compileExpr()
			n++
			if !p.accept(scan.Comma) {
				break
			}
		}
		p.expect(scan.RightBrace, "list literal")
		p.emit(code.Instr{Op: code.MAKE_LIST, A: n})
	case scan.Identifier:
		name := p.tok.Text
		if name == "obj" {
			p.advance()
			typeName := p.expect(scan.Identifier, "obj expression").Text
			p.emit(code.Instr{Op: code.NEW_OBJ, S: typeName})
			return
		}
		if keywords[name] {
			p.errorf("unexpected keyword %s in expression", name)
		}
		if p.peek().Type == scan.LeftParen {
			p.advance()
			p.call(name)
			return
		}
		p.advance()
		p.emitLoad(name)
	default:
		p.errorf("unexpected %s in expression", p.tok)
	}
}

func (p *Parser) emitLoad(name string) {
	if p.locals != nil {
		if slot, ok := p.locals[name]; ok {
			p.emit(code.Instr{Op: code.LOAD_LOCAL, A: slot})
			return
		}
	}
	if qual, ok := p.statics[name]; ok {
		p.emit(code.Instr{Op: code.LOAD_STATIC, S: qual})
		return
	}
	p.emit(code.Instr{Op: code.LOAD_GLOBAL, S: name})
}

// call compiles a function invocation. Builtins with dedicated
// opcodes compile directly; other builtins go through CALL_BUILTIN;
// everything else is a runtime-resolved CALL.
func (p *Parser) call(name string) {
	p.expect(scan.LeftParen, "call")
	n := 0
	for p.tok.Type != scan.RightParen {
		p.compileExpr()
		n++
		if !p.accept(scan.Comma) {
			break
		}
	}
	p.expect(scan.RightParen, "call")
	switch name {
	case "list":
		p.emit(code.Instr{Op: code.MAKE_LIST, A: n})
		return
	case "error":
		if n < 1 || n > 2 {
			p.errorf("error() takes a code and an optional message")
		}
		p.emit(code.Instr{Op: code.NEWERROR, A: n})
		return
	case "iserror":
		if n != 1 {
			p.errorf("iserror() takes one argument")
		}
		p.emit(code.Instr{Op: code.ISERR})
		return
	case "errno":
		if n != 1 {
			p.errorf("errno() takes one argument")
		}
		p.emit(code.Instr{Op: code.ERRNO})
		return
	case "throw":
		if n != 1 {
			p.errorf("throw() takes one argument")
		}
		p.emit(code.Instr{Op: code.ERROR})
		p.emit(code.Instr{Op: code.PUSH_NULL})
		return
	case "append":
		if n != 2 {
			p.errorf("append() takes a list and a value")
		}
		p.emit(code.Instr{Op: code.APPEND})
		return
	}
	if id, ok := p.env.BuiltinIndex(name); ok {
		p.emit(code.Instr{Op: code.CALL_BUILTIN, A: n, A2: id})
		return
	}
	p.emit(code.Instr{Op: code.CALL, A: n, S: name})
}
