package main

import "testing"

func checkSrc(t *testing.T, src string) (*Program, *ErrorCollector, bool) {
	t.Helper()
	prog := mustParse(t, src)
	errs := NewErrorCollector(20)
	checker := NewChecker(errs)
	ok := checker.Check(prog)
	return prog, errs, ok
}

func TestCheckerInfersArithmeticType(t *testing.T) {
	prog, _, ok := checkSrc(t, `fn main() { var x = 1 + 2 }`)
	if !ok {
		t.Fatal("expected check to pass")
	}
	decl := prog.Functions[0].Body.Stmts[0].(*VarDeclStmt)
	if decl.Type == nil || decl.Type.Kind != KindLong {
		t.Errorf("inferred type = %v, want long", decl.Type)
	}
}

func TestCheckerFlagsUndefinedIdentifier(t *testing.T) {
	_, errs, ok := checkSrc(t, `fn main() { var x = y + 1 }`)
	if ok {
		t.Fatal("expected check to fail on undefined identifier")
	}
	if !errs.HasFatalError() {
		t.Error("expected a fatal error to be recorded")
	}
}

func TestCheckerMarksTailCall(t *testing.T) {
	prog, _, ok := checkSrc(t, `fn fact(n: long): long { return fact(n) }`)
	if !ok {
		t.Fatal("expected check to pass")
	}
	fn := prog.Functions[0]
	ret, isReturn := fn.Body.Stmts[0].(*ReturnStmt)
	if !isReturn {
		t.Fatalf("stmt type = %T, want *ReturnStmt", fn.Body.Stmts[0])
	}
	if !ret.TailCall {
		t.Error("expected return fact(n) inside fact to be marked as a tail call")
	}
}

func TestCheckerDoesNotMarkNonTailCall(t *testing.T) {
	prog, _, ok := checkSrc(t, `fn fact(n: long): long { return fact(n) + 1 }`)
	if !ok {
		t.Fatal("expected check to pass")
	}
	fn := prog.Functions[0]
	ret := fn.Body.Stmts[0].(*ReturnStmt)
	if ret.TailCall {
		t.Error("return fact(n) + 1 is not a direct tail call and should not be marked")
	}
}

func TestCheckerStringConcatInfersString(t *testing.T) {
	prog, _, ok := checkSrc(t, `fn main() { var s = "a" + "b" }`)
	if !ok {
		t.Fatal("expected check to pass")
	}
	decl := prog.Functions[0].Body.Stmts[0].(*VarDeclStmt)
	if decl.Type == nil || decl.Type.Kind != KindString {
		t.Errorf("inferred type = %v, want string", decl.Type)
	}
}
