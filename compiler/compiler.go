// The compiler package contains the core of our compiler.
//
// In brief we go through a three-step process:
//
//  1. Use the lexer to tokenize the source program.
//
//  2. Parse the tokens into a list of function definitions, resolving
//     local-variable references to stack offsets as we go.
//
//  3. Walk the resulting syntax tree, generating assembly for each
//     function in turn.
package compiler

import (
	"minic/asm"
	"minic/ast"
	"minic/codegen"
	"minic/lexer"
	"minic/parser"
	"minic/token"
)

// Compiler holds our object-state.
type Compiler struct {
	// debug holds a flag to decide if debugging "stuff" is generated
	// in the output assembly.
	debug bool

	// source holds the program we're compiling.
	source string

	// tokens holds the source, broken down into a series of tokens.
	//
	// The tokens are received from the lexer, and are not modified.
	tokens []token.Token

	// functions is the syntax tree we're going to compile to
	// assembly: an ordered list of top-level function definitions.
	functions []*ast.Function
}

// New creates a new compiler, given the source program in the
// constructor.
func New(input string) *Compiler {
	return &Compiler{source: input}
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// Compile converts the source program into x86-64 assembly.
func (c *Compiler) Compile() (string, error) {
	if err := c.tokenize(); err != nil {
		return "", err
	}

	if err := c.parse(); err != nil {
		return "", err
	}

	return c.output()
}

// tokenize populates our internal list of tokens, as a result of
// lexing the source program.
func (c *Compiler) tokenize() error {
	toks, err := lexer.All(c.source)
	if err != nil {
		return err
	}
	c.tokens = toks
	return nil
}

// parse converts the token sequence into our list of top-level
// function definitions.
func (c *Compiler) parse() error {
	funcs, err := parser.Parse(c.tokens)
	if err != nil {
		return err
	}
	c.functions = funcs
	return nil
}

// output walks the syntax tree and renders the final assembly text.
func (c *Compiler) output() (string, error) {
	buf := asm.New()

	if c.debug {
		buf.Line("# debug: compiling " + c.source)
	}

	if err := codegen.Generate(buf, c.functions); err != nil {
		return "", err
	}

	return buf.String(), nil
}
