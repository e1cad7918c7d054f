package main

import (
	"strings"
	"testing"
)

func TestBodyAlwaysReturnsSimpleReturn(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{&ReturnStmt{Value: &IntLit{Value: 1}}}}
	if !bodyAlwaysReturns(body) {
		t.Error("a block ending in return should always return")
	}
}

func TestBodyAlwaysReturnsFallsThroughWithoutReturn(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{&VarDeclStmt{Name: "x", Value: &IntLit{Value: 1}}}}
	if bodyAlwaysReturns(body) {
		t.Error("a block with no return should not always return")
	}
}

func TestBodyAlwaysReturnsIfElseBothReturn(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{
		&IfStmt{
			Cond: &BoolLit{Value: true},
			Then: &BlockStmt{Stmts: []Statement{&ReturnStmt{Value: &IntLit{Value: 1}}}},
			Else: &BlockStmt{Stmts: []Statement{&ReturnStmt{Value: &IntLit{Value: 2}}}},
		},
	}}
	if !bodyAlwaysReturns(body) {
		t.Error("an if/else where both branches return should always return")
	}
}

func TestBodyAlwaysReturnsIfWithoutElseDoesNot(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{
		&IfStmt{
			Cond: &BoolLit{Value: true},
			Then: &BlockStmt{Stmts: []Statement{&ReturnStmt{Value: &IntLit{Value: 1}}}},
		},
	}}
	if bodyAlwaysReturns(body) {
		t.Error("an if with no else cannot guarantee a return on every path")
	}
}

func TestBlockHasTailCallFindsMarkedReturn(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{&ReturnStmt{TailCall: true}}}
	if !blockHasTailCall(body) {
		t.Error("expected a TailCall-marked return to be found")
	}
	body2 := &BlockStmt{Stmts: []Statement{&ReturnStmt{TailCall: false}}}
	if blockHasTailCall(body2) {
		t.Error("a non-tail-call return should not be reported")
	}
}

func TestBlockHasTailCallSearchesNestedLoop(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{
		&WhileStmt{
			Cond: &BoolLit{Value: true},
			Body: &BlockStmt{Stmts: []Statement{&ReturnStmt{TailCall: true}}},
		},
	}}
	if !blockHasTailCall(body) {
		t.Error("expected a tail call nested inside a while loop to be found")
	}
}

func TestFuncUsesHeapTypesByReturnType(t *testing.T) {
	fn := &FuncDecl{ReturnType: prim(KindString), Body: &BlockStmt{}}
	if !funcUsesHeapTypes(fn) {
		t.Error("a function returning string should be reported as using heap types")
	}
}

func TestFuncUsesHeapTypesByParam(t *testing.T) {
	fn := &FuncDecl{
		ReturnType: prim(KindVoid),
		Params:     []*Param{{Name: "arr", Type: &Type{Kind: KindArray, Elem: prim(KindLong)}}},
		Body:       &BlockStmt{},
	}
	if !funcUsesHeapTypes(fn) {
		t.Error("a function taking an array parameter should be reported as using heap types")
	}
}

func TestFuncUsesHeapTypesFalseForPurePrimitives(t *testing.T) {
	fn := &FuncDecl{
		ReturnType: prim(KindLong),
		Params:     []*Param{{Name: "n", Type: prim(KindLong)}},
		Body:       &BlockStmt{Stmts: []Statement{&VarDeclStmt{Name: "m", Type: prim(KindLong)}}},
	}
	if funcUsesHeapTypes(fn) {
		t.Error("a pure-primitive function should not be reported as using heap types")
	}
}

func TestDebugSignatureRendersSharedParam(t *testing.T) {
	fn := &FuncDecl{
		Name:       "greet",
		Modifier:   ModShared,
		ReturnType: prim(KindVoid),
		Params:     []*Param{{Name: "name", Type: prim(KindString)}},
	}
	sig := debugSignature(fn)
	if !strings.Contains(sig, "__caller_arena__") {
		t.Errorf("signature = %q, want the hidden caller-arena parameter", sig)
	}
	if !strings.Contains(sig, "char* name") {
		t.Errorf("signature = %q, want the name parameter rendered", sig)
	}
}
