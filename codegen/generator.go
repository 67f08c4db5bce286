// Package codegen walks the syntax tree built by the parser and
// emits x86-64 assembly in Intel syntax against the System V AMD64
// calling convention, one line at a time, into an asm.Buffer.
package codegen

import (
	"fmt"

	"minic/asm"
	"minic/ast"
)

// argRegs is the System V AMD64 integer argument register order.
var argRegs = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// Generator walks a program and emits its assembly. The label counter
// is shared across every function in the compilation, never resets,
// and never decrements.
type Generator struct {
	buf       *asm.Buffer
	nextLabel int
}

// New returns a Generator writing into buf.
func New(buf *asm.Buffer) *Generator {
	return &Generator{buf: buf}
}

// Generate emits the standard prelude followed by every function in
// order.
func Generate(buf *asm.Buffer, funcs []*ast.Function) error {
	g := New(buf)
	buf.Line(".intel_syntax noprefix")
	buf.Line(".globl main")
	for _, fn := range funcs {
		if err := g.genFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) label() int {
	k := g.nextLabel
	g.nextLabel++
	return k
}

// genFunction emits one function's prologue, body, and the mandatory
// trailing epilogue. Return emits its own full inline epilogue, so
// the number of `ret` instructions in a function equals the number of
// explicit Return nodes plus this one, unconditional, fallthrough
// epilogue.
func (g *Generator) genFunction(fn *ast.Function) error {
	g.buf.Label(fn.Name)
	g.buf.Inst("push rbp")
	g.buf.Inst("mov rbp, rsp")

	if len(fn.Params) > len(argRegs) {
		return &Error{Kind: CallArgsOverflow, Detail: fmt.Sprintf("function %q has %d parameters", fn.Name, len(fn.Params))}
	}
	for i := range fn.Params {
		g.buf.Inst(fmt.Sprintf("push %s", argRegs[i]))
	}

	for _, stmt := range fn.Body {
		if err := g.gen(stmt); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
	}

	g.epilogue()
	return nil
}

// epilogue emits the unconditional function exit sequence.
func (g *Generator) epilogue() {
	g.buf.Inst("mov rsp, rbp")
	g.buf.Inst("pop rbp")
	g.buf.Inst("ret")
}

// genLval emits the address of an lvalue node, leaving it on the
// stack. Only LocalVar and Deref are valid lvalues.
func (g *Generator) genLval(n ast.Node) error {
	switch v := n.(type) {
	case *ast.LocalVar:
		g.buf.Inst("mov rax, rbp")
		g.buf.Inst(fmt.Sprintf("sub rax, %d", v.Offset))
		g.buf.Inst("push rax")
		return nil
	case *ast.Deref:
		return g.gen(v.Inner)
	default:
		return &Error{Kind: NotLeftValue, Detail: fmt.Sprintf("%T", n)}
	}
}

// gen emits one node's evaluation, leaving exactly one value on the
// stack.
func (g *Generator) gen(n ast.Node) error {
	switch v := n.(type) {
	case *ast.Num:
		g.buf.Inst(fmt.Sprintf("push %d", v.Value))
		return nil

	case *ast.LocalVar:
		if err := g.genLval(v); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
		g.buf.Inst("mov rax, [rax]")
		g.buf.Inst("push rax")
		return nil

	case *ast.DefineVar:
		g.buf.Inst("sub rsp, 8")
		g.buf.Inst("push rsp")
		return nil

	case *ast.Assign:
		if err := g.genLval(v.LHS); err != nil {
			return err
		}
		if err := g.gen(v.RHS); err != nil {
			return err
		}
		g.buf.Inst("pop rdi")
		g.buf.Inst("pop rax")
		g.buf.Inst("mov [rax], rdi")
		g.buf.Inst("push rdi")
		return nil

	case *ast.BinOp:
		return g.genBinOp(v)

	case *ast.Addr:
		return g.genLval(v.Inner)

	case *ast.Deref:
		if err := g.gen(v.Inner); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
		g.buf.Inst("mov rax, [rax]")
		g.buf.Inst("push rax")
		return nil

	case *ast.Return:
		if err := g.gen(v.Inner); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
		g.epilogue()
		return nil

	case *ast.IfElse:
		return g.genIfElse(v)

	case *ast.For:
		return g.genFor(v)

	case *ast.Block:
		for _, stmt := range v.Stmts {
			if err := g.gen(stmt); err != nil {
				return err
			}
			g.buf.Inst("pop rax")
		}
		g.buf.Inst("push 0")
		return nil

	case *ast.Call:
		return g.genCall(v)

	default:
		return &Error{Kind: NotLeftValue, Detail: fmt.Sprintf("unhandled node %T", n)}
	}
}

// genBinOp evaluates both operands, applies pointer-arithmetic
// scaling to Add only (and only when the left operand is a pointer),
// and emits the operator.
func (g *Generator) genBinOp(v *ast.BinOp) error {
	if err := g.gen(v.LHS); err != nil {
		return err
	}
	if err := g.gen(v.RHS); err != nil {
		return err
	}
	g.buf.Inst("pop rdi")
	g.buf.Inst("pop rax")

	switch v.Op {
	case ast.Add:
		if lt, ok := v.LHS.DeclaredType(); ok && lt.Kind == ast.KindPtr {
			switch lt.Elem.Size() {
			case 4:
				g.buf.Inst("shl rdi, 2")
			case 8:
				g.buf.Inst("shl rdi, 3")
			default:
				return &Error{Kind: InvalidTypeSize, Detail: fmt.Sprintf("size %d", lt.Elem.Size())}
			}
		}
		g.buf.Inst("add rax, rdi")
	case ast.Sub:
		g.buf.Inst("sub rax, rdi")
	case ast.Mul:
		g.buf.Inst("mul rdi")
	case ast.Div:
		g.buf.Inst("cqo")
		g.buf.Inst("idiv rdi")
	case ast.Eq:
		g.buf.Inst("cmp rax, rdi")
		g.buf.Inst("sete al")
		g.buf.Inst("movzb rax, al")
	case ast.Ne:
		g.buf.Inst("cmp rax, rdi")
		g.buf.Inst("setne al")
		g.buf.Inst("movzb rax, al")
	case ast.Lt:
		g.buf.Inst("cmp rax, rdi")
		g.buf.Inst("setl al")
		g.buf.Inst("movzb rax, al")
	case ast.Le:
		g.buf.Inst("cmp rax, rdi")
		g.buf.Inst("setle al")
		g.buf.Inst("movzb rax, al")
	}

	g.buf.Inst("push rax")
	return nil
}

func (g *Generator) genIfElse(v *ast.IfElse) error {
	k := g.label()
	if err := g.gen(v.Cond); err != nil {
		return err
	}
	g.buf.Inst("pop rax")
	g.buf.Inst("cmp rax, 0")
	g.buf.Inst(fmt.Sprintf("je .Lelse%d", k))
	if err := g.gen(v.Then); err != nil {
		return err
	}
	g.buf.Inst(fmt.Sprintf("jmp .Lend%d", k))
	g.buf.Label(fmt.Sprintf(".Lelse%d", k))
	if v.Else != nil {
		if err := g.gen(v.Else); err != nil {
			return err
		}
	} else {
		g.buf.Inst("push 0")
	}
	g.buf.Label(fmt.Sprintf(".Lend%d", k))
	return nil
}

// genFor emits init/cond/body/step per the loop skeleton. Init, body,
// and step are statement positions, not expression positions - each
// is popped immediately after evaluation, exactly as Block does for
// its own statements, so a loop body executed many times never grows
// the stack. The construct as a whole then pushes a single trailing
// zero, so that - like IfElse - a For used as a statement leaves
// exactly one value for its caller's own pop to discard.
func (g *Generator) genFor(v *ast.For) error {
	k := g.label()
	if v.Init != nil {
		if err := g.gen(v.Init); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
	}
	g.buf.Label(fmt.Sprintf(".Lbegin%d", k))
	if v.Cond != nil {
		if err := g.gen(v.Cond); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
		g.buf.Inst("cmp rax, 0")
		g.buf.Inst(fmt.Sprintf("je .Lend%d", k))
	}
	if err := g.gen(v.Body); err != nil {
		return err
	}
	g.buf.Inst("pop rax")
	if v.Step != nil {
		if err := g.gen(v.Step); err != nil {
			return err
		}
		g.buf.Inst("pop rax")
	}
	g.buf.Inst(fmt.Sprintf("jmp .Lbegin%d", k))
	g.buf.Label(fmt.Sprintf(".Lend%d", k))
	g.buf.Inst("push 0")
	return nil
}

// genCall evaluates arguments right-to-left, then loads them into
// the fixed argument registers left-to-right, per the System V
// calling convention.
func (g *Generator) genCall(v *ast.Call) error {
	if len(v.Args) > len(argRegs) {
		return &Error{Kind: CallArgsOverflow, Detail: fmt.Sprintf("call to %q has %d arguments", v.Name, len(v.Args))}
	}
	for i := len(v.Args) - 1; i >= 0; i-- {
		if err := g.gen(v.Args[i]); err != nil {
			return err
		}
	}
	for i := range v.Args {
		g.buf.Inst(fmt.Sprintf("pop %s", argRegs[i]))
	}
	g.buf.Inst(fmt.Sprintf("call %s", v.Name))
	g.buf.Inst("push rax")
	return nil
}
