package ast

// Op names a binary operator.
type Op int

// Operators, in the order the generator's dispatch table lists them.
const (
	Add Op = iota
	Sub
	Mul
	Div
	Eq
	Ne
	Lt
	Le
)

// Node is any element of the syntax tree. DeclaredType reports the
// type a node's evaluation would have, for the nodes that have one
// (per spec.md §4.2's type-inference rules); the bool is false for
// nodes with no declared type (statements, in the main).
type Node interface {
	DeclaredType() (*Type, bool)
}

// Num is an integer literal.
type Num struct {
	Value int64
}

// DeclaredType implements Node.
func (*Num) DeclaredType() (*Type, bool) { return IntType, true }

// LocalVar is a reference to a declared local variable or parameter.
// Offset is the positive, 8-byte-aligned distance subtracted from rbp
// to reach its storage slot.
type LocalVar struct {
	Name   string
	Offset int
	Typ    *Type
}

// DeclaredType implements Node.
func (l *LocalVar) DeclaredType() (*Type, bool) { return l.Typ, true }

// DefineVar is a local-variable declaration statement.
type DefineVar struct {
	Name string
	Typ  *Type
}

// DeclaredType implements Node.
func (*DefineVar) DeclaredType() (*Type, bool) { return nil, false }

// Assign is "lhs = rhs", itself an expression yielding the assigned
// value.
type Assign struct {
	LHS, RHS Node
}

// DeclaredType implements Node.
func (a *Assign) DeclaredType() (*Type, bool) { return a.LHS.DeclaredType() }

// BinOp is a binary operator applied to two operands.
type BinOp struct {
	Op       Op
	LHS, RHS Node
}

// DeclaredType implements Node: a BinOp's type is its left operand's
// type.
func (b *BinOp) DeclaredType() (*Type, bool) { return b.LHS.DeclaredType() }

// Addr is address-of ("&x").
type Addr struct {
	Inner Node
}

// DeclaredType implements Node.
func (a *Addr) DeclaredType() (*Type, bool) {
	t, ok := a.Inner.DeclaredType()
	if !ok {
		return nil, false
	}
	return PtrTo(t), true
}

// Deref is pointer dereference ("*p").
type Deref struct {
	Inner Node
}

// DeclaredType implements Node.
func (d *Deref) DeclaredType() (*Type, bool) {
	t, ok := d.Inner.DeclaredType()
	if !ok || t.Kind != KindPtr {
		return nil, false
	}
	return t.Elem, true
}

// Return is a return statement.
type Return struct {
	Inner Node
}

// DeclaredType implements Node.
func (*Return) DeclaredType() (*Type, bool) { return nil, false }

// IfElse is an if/else statement. Else is nil when there is no else
// branch.
type IfElse struct {
	Cond, Then Node
	Else       Node
}

// DeclaredType implements Node.
func (*IfElse) DeclaredType() (*Type, bool) { return nil, false }

// For is a for-statement; while is lowered into this with Init and
// Step nil. Init, Cond, and Step are independently nilable.
type For struct {
	Init, Cond, Step Node
	Body             Node
}

// DeclaredType implements Node.
func (*For) DeclaredType() (*Type, bool) { return nil, false }

// Block is a brace-delimited sequence of statements.
type Block struct {
	Stmts []Node
}

// DeclaredType implements Node.
func (*Block) DeclaredType() (*Type, bool) { return nil, false }

// Call is a function-call expression. ReturnType is nominally Int
// regardless of the callee's real signature - the parser never
// cross-checks it against a definition (see DESIGN.md).
type Call struct {
	Name       string
	Args       []Node
	ReturnType *Type
}

// DeclaredType implements Node.
func (c *Call) DeclaredType() (*Type, bool) { return c.ReturnType, true }

// Param is one function parameter.
type Param struct {
	Name string
	Typ  *Type
}

// Function is a top-level function definition. FrameSize is the
// offset of the last local/parameter slot allocated within it -
// informational only, the generator never needs to pre-reserve a
// single contiguous frame.
type Function struct {
	Name      string
	Params    []Param
	Body      []Node
	FrameSize int
}
