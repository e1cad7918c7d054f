package main

import "testing"

// findLambda returns the first LambdaExpr found in fn's body, searching
// through VarDeclStmt values one level deep (enough for these tests' shape).
func findLambda(t *testing.T, fn *FuncDecl) *LambdaExpr {
	t.Helper()
	for _, st := range fn.Body.Stmts {
		if decl, ok := st.(*VarDeclStmt); ok {
			if lam, ok := decl.Value.(*LambdaExpr); ok {
				return lam
			}
		}
	}
	t.Fatal("no lambda found in function body")
	return nil
}

func TestAnalyzeCapturesMarksPrimitiveAsRef(t *testing.T) {
	prog := mustParse(t, `fn main() {
		var n = 1
		var f = || { return n }
	}`)
	fn := prog.Functions[0]
	cg := newTestCodeGen()
	cg.analyzeCaptures(fn)

	decl := fn.Body.Stmts[0].(*VarDeclStmt)
	if !decl.Captured {
		t.Error("expected n to be marked Captured")
	}
	if decl.Qualifier != QualAsRef {
		t.Errorf("qualifier = %v, want QualAsRef", decl.Qualifier)
	}
	if !cg.captured["n"] {
		t.Error("expected cg.captured to record n")
	}

	lam := findLambda(t, fn)
	found := false
	for _, c := range lam.Captures {
		if c == "n" {
			found = true
		}
	}
	if !found {
		t.Errorf("lambda Captures = %v, want it to include n", lam.Captures)
	}
}

func TestAnalyzeCapturesIgnoresUncapturedLocal(t *testing.T) {
	prog := mustParse(t, `fn main() {
		var n = 1
		var m = 2
		var f = || { return m }
	}`)
	fn := prog.Functions[0]
	cg := newTestCodeGen()
	cg.analyzeCaptures(fn)

	nDecl := fn.Body.Stmts[0].(*VarDeclStmt)
	if nDecl.Captured {
		t.Error("expected n to remain uncaptured since only m is referenced in the lambda")
	}
}

func TestAnalyzeCapturesIgnoresLambdaOwnParam(t *testing.T) {
	prog := mustParse(t, `fn main() {
		var f = |n: long| { return n }
	}`)
	fn := prog.Functions[0]
	cg := newTestCodeGen()
	cg.analyzeCaptures(fn)
	if cg.captured["n"] {
		t.Error("a lambda's own parameter is not a capture of the enclosing scope")
	}
}
