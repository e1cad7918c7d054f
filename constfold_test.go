package main

import "testing"

func TestFoldConstantIntArithmetic(t *testing.T) {
	e := &BinaryExpr{Op: TokPlus, Left: &IntLit{Value: 2}, Right: &IntLit{Value: 3}}
	folded, ok := foldConstant(e)
	if !ok {
		t.Fatal("expected fold to succeed")
	}
	lit, isInt := folded.(*IntLit)
	if !isInt {
		t.Fatalf("folded type = %T, want *IntLit", folded)
	}
	if lit.Value != 5 {
		t.Errorf("got %d, want 5", lit.Value)
	}
}

func TestFoldConstantNestedExpression(t *testing.T) {
	// (2 + 3) * 4
	inner := &BinaryExpr{Op: TokPlus, Left: &IntLit{Value: 2}, Right: &IntLit{Value: 3}}
	outer := &BinaryExpr{Op: TokStar, Left: inner, Right: &IntLit{Value: 4}}
	folded, ok := foldConstant(outer)
	if !ok {
		t.Fatal("expected fold to succeed")
	}
	lit := folded.(*IntLit)
	if lit.Value != 20 {
		t.Errorf("got %d, want 20", lit.Value)
	}
}

func TestFoldConstantUnaryNegation(t *testing.T) {
	e := &UnaryExpr{Op: TokMinus, Operand: &IntLit{Value: 7}}
	folded, ok := foldConstant(e)
	if !ok {
		t.Fatal("expected fold to succeed")
	}
	lit := folded.(*IntLit)
	if lit.Value != -7 {
		t.Errorf("got %d, want -7", lit.Value)
	}
}

func TestFoldConstantRefusesNonConstant(t *testing.T) {
	e := &BinaryExpr{Op: TokPlus, Left: &Ident{Name: "x"}, Right: &IntLit{Value: 1}}
	_, ok := foldConstant(e)
	if ok {
		t.Error("expected fold to refuse an expression containing a free identifier")
	}
}

func TestFoldConstantFloatArithmetic(t *testing.T) {
	e := &BinaryExpr{Op: TokSlash, Left: &FloatLit{Value: 7.5}, Right: &FloatLit{Value: 2.5}}
	folded, ok := foldConstant(e)
	if !ok {
		t.Fatal("expected fold to succeed")
	}
	lit := folded.(*FloatLit)
	if lit.Value != 3.0 {
		t.Errorf("got %v, want 3.0", lit.Value)
	}
}

func TestFoldConstantIntOverflowWraps(t *testing.T) {
	// Unlike rt_checked_add, which traps on overflow at runtime, constant
	// folding never traps: it folds with Go's two's-complement int64
	// arithmetic, so MaxInt64 + 1 wraps to MinInt64.
	const maxInt64 = int64(1<<63 - 1)
	e := &BinaryExpr{Op: TokPlus, Left: &IntLit{Value: maxInt64}, Right: &IntLit{Value: 1}}
	folded, ok := foldConstant(e)
	if !ok {
		t.Fatal("expected fold to succeed")
	}
	lit := folded.(*IntLit)
	if lit.Value != -maxInt64-1 {
		t.Errorf("got %d, want two's-complement wraparound", lit.Value)
	}
}
