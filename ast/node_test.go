package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumIsAlwaysInt(t *testing.T) {
	typ, ok := (&Num{Value: 5}).DeclaredType()
	assert.True(t, ok)
	assert.Equal(t, IntType, typ)
}

func TestAddrWrapsInPointer(t *testing.T) {
	v := &LocalVar{Name: "x", Offset: 8, Typ: IntType}
	typ, ok := (&Addr{Inner: v}).DeclaredType()
	assert.True(t, ok)
	assert.Equal(t, KindPtr, typ.Kind)
	assert.Equal(t, IntType, typ.Elem)
}

func TestDerefUnwrapsPointer(t *testing.T) {
	v := &LocalVar{Name: "p", Offset: 8, Typ: PtrTo(IntType)}
	typ, ok := (&Deref{Inner: v}).DeclaredType()
	assert.True(t, ok)
	assert.Equal(t, IntType, typ)
}

func TestDerefOfNonPointerHasNoType(t *testing.T) {
	v := &LocalVar{Name: "x", Offset: 8, Typ: IntType}
	_, ok := (&Deref{Inner: v}).DeclaredType()
	assert.False(t, ok)
}

func TestBinOpTypeIsLeftOperandType(t *testing.T) {
	ptr := &LocalVar{Name: "p", Offset: 8, Typ: PtrTo(IntType)}
	num := &Num{Value: 1}
	typ, ok := (&BinOp{Op: Add, LHS: ptr, RHS: num}).DeclaredType()
	assert.True(t, ok)
	assert.Equal(t, KindPtr, typ.Kind)
}

func TestStatementsHaveNoDeclaredType(t *testing.T) {
	_, ok := (&Return{Inner: &Num{Value: 0}}).DeclaredType()
	assert.False(t, ok)
	_, ok = (&Block{}).DeclaredType()
	assert.False(t, ok)
	_, ok = (&IfElse{}).DeclaredType()
	assert.False(t, ok)
	_, ok = (&For{}).DeclaredType()
	assert.False(t, ok)
	_, ok = (&DefineVar{}).DeclaredType()
	assert.False(t, ok)
}

func TestCallReturnTypeIsNominal(t *testing.T) {
	typ, ok := (&Call{Name: "f", ReturnType: IntType}).DeclaredType()
	assert.True(t, ok)
	assert.Equal(t, IntType, typ)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int", IntType.String())
	assert.Equal(t, "int*", PtrTo(IntType).String())
	assert.Equal(t, "int**", PtrTo(PtrTo(IntType)).String())
}
