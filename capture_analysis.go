// Completion: 85% - C2: captured-primitive lifting to AS_REF
//
// Grounded on the teacher's closure-conversion pass (the free-variable walk
// that decided what a native closure's environment record needed to hold).
// Here the "environment record" is just a heap-allocated cell: any local
// primitive variable referenced from inside a lambda defined in its scope
// gets its declaration upgraded to QualAsRef, so both the outer function and
// the closure see the same storage. Heap-typed locals (string/array/
// function) need no such lift — they are already pointers into the arena,
// so the closure capturing one already captures the right aliasing.
package main

// declInfo tracks enough about one lexical binding to decide, when it is
// later found to be captured, whether it needs promotion.
type declInfo struct {
	typ  *Type
	decl *VarDeclStmt // nil for parameters and loop variables
}

// analyzeCaptures walks fn's body once, finds every LambdaExpr, and marks
// which outer-scope primitive locals each one closes over. Call this before
// lowering fn's body.
func (cg *CodeGen) analyzeCaptures(fn *FuncDecl) {
	cg.captured = make(map[string]bool)
	top := map[string]*declInfo{}
	for _, p := range fn.Params {
		top[p.Name] = &declInfo{typ: p.Type}
	}
	cg.walkBlockCaptures(fn.Body, []map[string]*declInfo{top}, -1, nil)
}

// walkBlockCaptures walks a block, threading the scope stack. lambdaFloor is
// the scope-stack depth at which the nearest enclosing lambda's own
// parameters begin (-1 if not inside a lambda); sink, when non-nil,
// accumulates the names of outer-scope primitives this lambda reads or
// writes.
func (cg *CodeGen) walkBlockCaptures(b *BlockStmt, scopes []map[string]*declInfo, lambdaFloor int, sink map[string]bool) {
	scopes = append(scopes, map[string]*declInfo{})
	for _, st := range b.Stmts {
		cg.walkStmtCaptures(st, scopes, lambdaFloor, sink)
	}
}

func (cg *CodeGen) walkStmtCaptures(st Statement, scopes []map[string]*declInfo, lambdaFloor int, sink map[string]bool) {
	switch s := st.(type) {
	case *VarDeclStmt:
		cg.walkExprCaptures(s.Value, scopes, lambdaFloor, sink)
		scopes[len(scopes)-1][s.Name] = &declInfo{typ: s.Type, decl: s}
	case *AssignStmt:
		cg.walkExprCaptures(s.Target, scopes, lambdaFloor, sink)
		cg.walkExprCaptures(s.Value, scopes, lambdaFloor, sink)
	case *ExprStmt:
		cg.walkExprCaptures(s.Expr, scopes, lambdaFloor, sink)
	case *BlockStmt:
		cg.walkBlockCaptures(s, scopes, lambdaFloor, sink)
	case *IfStmt:
		cg.walkExprCaptures(s.Cond, scopes, lambdaFloor, sink)
		cg.walkBlockCaptures(s.Then, scopes, lambdaFloor, sink)
		if s.Else != nil {
			cg.walkStmtCaptures(s.Else, scopes, lambdaFloor, sink)
		}
	case *WhileStmt:
		cg.walkExprCaptures(s.Cond, scopes, lambdaFloor, sink)
		cg.walkBlockCaptures(s.Body, scopes, lambdaFloor, sink)
	case *ForStmt:
		scopes = append(scopes, map[string]*declInfo{})
		if s.Init != nil {
			cg.walkStmtCaptures(s.Init, scopes, lambdaFloor, sink)
		}
		if s.Cond != nil {
			cg.walkExprCaptures(s.Cond, scopes, lambdaFloor, sink)
		}
		if s.Post != nil {
			cg.walkStmtCaptures(s.Post, scopes, lambdaFloor, sink)
		}
		cg.walkBlockCaptures(s.Body, scopes, lambdaFloor, sink)
	case *ForEachStmt:
		cg.walkExprCaptures(s.Iterable, scopes, lambdaFloor, sink)
		scopes = append(scopes, map[string]*declInfo{s.Var: {typ: &Type{Kind: KindLong}}})
		cg.walkBlockCaptures(s.Body, scopes, lambdaFloor, sink)
	case *ReturnStmt:
		if s.Value != nil {
			cg.walkExprCaptures(s.Value, scopes, lambdaFloor, sink)
		}
	case *BreakStmt, *ContinueStmt:
	}
}

func (cg *CodeGen) walkExprCaptures(e Expression, scopes []map[string]*declInfo, lambdaFloor int, sink map[string]bool) {
	switch ex := e.(type) {
	case *Ident:
		cg.resolveCaptureUse(ex.Name, scopes, lambdaFloor, sink)
	case *ArrayLit:
		for _, el := range ex.Elems {
			cg.walkExprCaptures(el, scopes, lambdaFloor, sink)
		}
	case *RangeExpr:
		cg.walkExprCaptures(ex.Lo, scopes, lambdaFloor, sink)
		cg.walkExprCaptures(ex.Hi, scopes, lambdaFloor, sink)
	case *BinaryExpr:
		cg.walkExprCaptures(ex.Left, scopes, lambdaFloor, sink)
		cg.walkExprCaptures(ex.Right, scopes, lambdaFloor, sink)
	case *UnaryExpr:
		cg.walkExprCaptures(ex.Operand, scopes, lambdaFloor, sink)
	case *IndexExpr:
		cg.walkExprCaptures(ex.Array, scopes, lambdaFloor, sink)
		cg.walkExprCaptures(ex.Index, scopes, lambdaFloor, sink)
	case *CallExpr:
		cg.walkExprCaptures(ex.Callee, scopes, lambdaFloor, sink)
		for _, a := range ex.Args {
			cg.walkExprCaptures(a, scopes, lambdaFloor, sink)
		}
	case *MemberCallExpr:
		cg.walkExprCaptures(ex.Object, scopes, lambdaFloor, sink)
		for _, a := range ex.Args {
			cg.walkExprCaptures(a, scopes, lambdaFloor, sink)
		}
	case *StaticCallExpr:
		for _, a := range ex.Args {
			cg.walkExprCaptures(a, scopes, lambdaFloor, sink)
		}
	case *LambdaExpr:
		cg.analyzeLambda(ex, scopes)
	}
}

// resolveCaptureUse looks up name in the scope stack. If we are currently
// inside a lambda (lambdaFloor >= 0) and the binding lives below the
// lambda's own floor, it is a capture: record it in sink and, if the
// binding is a local declaration that is primitive or not yet typed, mark
// that declaration for AS_REF promotion (lowerVarDecl heap-cell-backs it
// only if its lowered type is primitive).
func (cg *CodeGen) resolveCaptureUse(name string, scopes []map[string]*declInfo, lambdaFloor int, sink map[string]bool) {
	for depth := len(scopes) - 1; depth >= 0; depth-- {
		info, ok := scopes[depth][name]
		if !ok {
			continue
		}
		if lambdaFloor >= 0 && depth < lambdaFloor {
			sink[name] = true
			cg.captured[name] = true
			if info.decl != nil && (info.typ == nil || info.typ.IsPrimitive()) {
				info.decl.Captured = true
				info.decl.Qualifier = QualAsRef
			}
		}
		return
	}
}

// analyzeLambda recurses into a lambda body with a fresh capture sink,
// recording the free-variable set onto the node itself for C3/C5 to read
// back when lowering the closure's environment.
func (cg *CodeGen) analyzeLambda(lam *LambdaExpr, outerScopes []map[string]*declInfo) {
	inner := map[string]*declInfo{}
	for _, p := range lam.Params {
		inner[p.Name] = &declInfo{typ: p.Type}
	}
	scopes := append(append([]map[string]*declInfo{}, outerScopes...), inner)
	floor := len(scopes) - 1

	sink := map[string]bool{}
	cg.walkBlockCaptures(lam.Body, scopes[:floor+1], floor, sink)

	lam.Captures = lam.Captures[:0]
	for name := range sink {
		lam.Captures = append(lam.Captures, name)
	}
}
