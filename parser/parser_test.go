package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minic/ast"
	"minic/lexer"
)

func parse(t *testing.T, src string) []*ast.Function {
	t.Helper()
	toks, err := lexer.All(src)
	require.NoError(t, err)
	funcs, err := Parse(toks)
	require.NoError(t, err)
	return funcs
}

func TestSimpleReturn(t *testing.T) {
	funcs := parse(t, "int main() { return 42; }")
	require.Len(t, funcs, 1)
	fn := funcs[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	num, ok := ret.Inner.(*ast.Num)
	require.True(t, ok)
	assert.Equal(t, int64(42), num.Value)
}

func TestNotEqualParsesAsEq(t *testing.T) {
	funcs := parse(t, "int main() { return 1 != 2; }")
	ret := funcs[0].Body[0].(*ast.Return)
	bin, ok := ret.Inner.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Eq, bin.Op)
}

func TestGreaterThanSwapsOperands(t *testing.T) {
	funcs := parse(t, "int main() { return 1 > 2; }")
	ret := funcs[0].Body[0].(*ast.Return)
	bin := ret.Inner.(*ast.BinOp)
	assert.Equal(t, ast.Lt, bin.Op)
	lhs := bin.LHS.(*ast.Num)
	rhs := bin.RHS.(*ast.Num)
	assert.Equal(t, int64(2), lhs.Value)
	assert.Equal(t, int64(1), rhs.Value)
}

func TestUnaryMinusLowersToSub(t *testing.T) {
	funcs := parse(t, "int main() { return -5; }")
	ret := funcs[0].Body[0].(*ast.Return)
	bin := ret.Inner.(*ast.BinOp)
	assert.Equal(t, ast.Sub, bin.Op)
	assert.Equal(t, int64(0), bin.LHS.(*ast.Num).Value)
}

func TestWhileLowersToFor(t *testing.T) {
	funcs := parse(t, "int main() { int i; while (i < 10) i = i + 1; return i; }")
	forNode, ok := funcs[0].Body[1].(*ast.For)
	require.True(t, ok)
	assert.Nil(t, forNode.Init)
	assert.Nil(t, forNode.Step)
	assert.NotNil(t, forNode.Cond)
}

func TestParamsGetSequentialOffsets(t *testing.T) {
	funcs := parse(t, "int add(int a, int b) { return a + b; }")
	fn := funcs[0]
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)

	ret := fn.Body[0].(*ast.Return)
	bin := ret.Inner.(*ast.BinOp)
	a := bin.LHS.(*ast.LocalVar)
	b := bin.RHS.(*ast.LocalVar)
	assert.Equal(t, 8, a.Offset)
	assert.Equal(t, 16, b.Offset)
}

func TestRedeclarationIsNoOp(t *testing.T) {
	funcs := parse(t, "int main() { int x; int *x; x = 1; return x; }")
	fn := funcs[0]
	ret := fn.Body[len(fn.Body)-1].(*ast.Return)
	v := ret.Inner.(*ast.LocalVar)
	assert.Equal(t, ast.IntType, v.Typ, "first declaration's type wins")
	assert.Equal(t, 8, v.Offset)
}

func TestUndefinedVariableIsAnError(t *testing.T) {
	toks, err := lexer.All("int main() { return x; }")
	require.NoError(t, err)
	_, err = Parse(toks)
	require.Error(t, err)
	var pErr *Error
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, UndefinedVariable, pErr.Kind)
}

func TestPointerDeclarationAndDeref(t *testing.T) {
	funcs := parse(t, "int main() { int x; x = 3; int *y; y = &x; return *y; }")
	fn := funcs[0]
	ret := fn.Body[len(fn.Body)-1].(*ast.Return)
	deref, ok := ret.Inner.(*ast.Deref)
	require.True(t, ok)
	v := deref.Inner.(*ast.LocalVar)
	typ, ok := v.DeclaredType()
	require.True(t, ok)
	assert.Equal(t, ast.KindPtr, typ.Kind)
}

func TestCallArguments(t *testing.T) {
	funcs := parse(t, "int add(int a, int b) { return a + b; } int main() { return add(3, 4); }")
	main := funcs[1]
	ret := main.Body[0].(*ast.Return)
	call, ok := ret.Inner.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "add", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestMultipleFunctions(t *testing.T) {
	funcs := parse(t, "int add(int a, int b) { return a + b; } int main() { return add(3, 4); }")
	require.Len(t, funcs, 2)
	assert.Equal(t, "add", funcs[0].Name)
	assert.Equal(t, "main", funcs[1].Name)
}
