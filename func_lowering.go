// Completion: 75% - C5: function lowering, signatures, and tail-call trampoline
//
// Grounded on the teacher's function-prologue/epilogue emission (the part
// of codegen.go that built a stack frame and its matching teardown) minus
// the register/stack-slot bookkeeping, since the C compiler downstream now
// owns that. The self-recursive tail-call trampoline is new: the teacher
// never needed one because its native backend already did proper tail
// calls at the instruction level; emitting portable C99 text does not get
// that for free, so §8 S4's "constant stack depth" guarantee is built here
// explicitly with a top-of-body label that a tail-recursive return jumps
// back to with `goto` after reassigning the parameters.
package main

// lowerFunction emits one function's full C definition: signature,
// prologue (arena creation, AS_VAL rebinding, tail-call trampoline label),
// body, and epilogue.
func (cg *CodeGen) lowerFunction(fn *FuncDecl) error {
	cg.fn = fn
	cg.out.Reset()
	cg.labelCounter = 0
	cg.tempCounter = 0
	cg.arenaDepth = 0
	cg.loopStack = nil
	cg.privateBlockStack = nil
	cg.loopCounterStack = nil

	cg.syms.Push()
	defer cg.syms.Pop()
	for _, p := range fn.Params {
		cg.syms.Define(&Symbol{Name: p.Name, Type: p.Type, Kind: SymParam, Qualifier: p.Qualifier})
	}

	cg.analyzeCaptures(fn)

	isShared := effectiveShared(fn)
	fn.HasTailCall = blockHasTailCall(fn.Body)
	fn.UsesHeapTypes = funcUsesHeapTypes(fn)
	fn.NeedsArena = fn.IsMain || (!isShared && fn.UsesHeapTypes)

	cg.write("%s {\n", cg.signatureFor(fn, isShared))

	cg.enterFunctionArena(fn, isShared)
	cg.emitAsValRebinding(fn, 1)

	if fn.HasTailCall {
		cg.tailCallLabel = cg.newLabel("tailtop")
		cg.writeIndent(1, "%s:;\n", cg.tailCallLabel)
	}

	cg.lowerBlock(fn.Body, 1)

	if !bodyAlwaysReturns(fn.Body) {
		cg.emitImplicitEpilogue(fn, isShared)
	}

	cg.write("}\n\n")

	cg.definitions.WriteString(cg.out.String())
	return nil
}

// emitAsValRebinding copies an AS_VAL parameter into a deep clone on entry,
// per §4.7, so mutation inside the function never aliases the caller's
// argument.
func (cg *CodeGen) emitAsValRebinding(fn *FuncDecl, indent int) {
	for _, p := range fn.Params {
		if p.Qualifier != QualAsVal {
			continue
		}
		tmp := cg.newTemp()
		switch p.Type.Kind {
		case KindArray:
			cg.writeIndent(indent, "%s %s = rt_array_clone_%s(%s, %s);\n", p.Type.CType(), tmp, p.Type.ArraySuffix(), cg.arenaArg(), p.Name)
		case KindString:
			cg.writeIndent(indent, "%s %s = rt_string_clone(%s, %s);\n", p.Type.CType(), tmp, cg.arenaArg(), p.Name)
		default:
			continue
		}
		cg.writeIndent(indent, "%s = %s;\n", p.Name, tmp)
	}
}

// emitImplicitEpilogue handles falling off the end of a block without an
// explicit return — valid for void functions and for `main`, which gets an
// implicit `return 0`.
func (cg *CodeGen) emitImplicitEpilogue(fn *FuncDecl, isShared bool) {
	cg.cleanupForEarlyExit(1, len(cg.loopStack))
	cg.exitFunctionArena(isShared)
	if fn.IsMain {
		cg.writeIndent(1, "return 0;\n")
	} else if fn.ReturnType.Kind == KindVoid {
		cg.writeIndent(1, "return;\n")
	} else {
		cg.writeIndent(1, "return %s;\n", fn.ReturnType.ZeroValue())
	}
}

// bodyAlwaysReturns is a conservative, syntactic check: true only when the
// last statement of the block is a return, or an if/else chain whose every
// arm (including a final else) itself always returns, so the
// emitter doesn't second-guess reachability the way a full control-flow
// analysis would — matching the teacher's own preference for simple,
// syntax-driven passes over a general dataflow framework (see DESIGN.md).
func bodyAlwaysReturns(b *BlockStmt) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	last := b.Stmts[len(b.Stmts)-1]
	switch s := last.(type) {
	case *ReturnStmt:
		return true
	case *IfStmt:
		if s.Else == nil {
			return false
		}
		thenReturns := bodyAlwaysReturns(s.Then)
		switch e := s.Else.(type) {
		case *BlockStmt:
			return thenReturns && bodyAlwaysReturns(e)
		case *IfStmt:
			return thenReturns && ifAlwaysReturns(e)
		}
	}
	return false
}

func ifAlwaysReturns(s *IfStmt) bool {
	if s.Else == nil {
		return false
	}
	thenReturns := bodyAlwaysReturns(s.Then)
	switch e := s.Else.(type) {
	case *BlockStmt:
		return thenReturns && bodyAlwaysReturns(e)
	case *IfStmt:
		return thenReturns && ifAlwaysReturns(e)
	}
	return false
}

func blockHasTailCall(b *BlockStmt) bool {
	for _, st := range b.Stmts {
		if stmtHasTailCall(st) {
			return true
		}
	}
	return false
}

func stmtHasTailCall(st Statement) bool {
	switch s := st.(type) {
	case *ReturnStmt:
		return s.TailCall
	case *IfStmt:
		if blockHasTailCall(s.Then) {
			return true
		}
		if s.Else != nil {
			return stmtHasTailCall(s.Else)
		}
	case *BlockStmt:
		return blockHasTailCall(s)
	case *WhileStmt:
		return blockHasTailCall(s.Body)
	case *ForStmt:
		return blockHasTailCall(s.Body)
	case *ForEachStmt:
		return blockHasTailCall(s.Body)
	}
	return false
}

func funcUsesHeapTypes(fn *FuncDecl) bool {
	if fn.ReturnType.IsHeap() {
		return true
	}
	for _, p := range fn.Params {
		if p.Type.IsHeap() {
			return true
		}
	}
	return blockUsesHeapTypes(fn.Body)
}

func blockUsesHeapTypes(b *BlockStmt) bool {
	for _, st := range b.Stmts {
		if stmtUsesHeapTypes(st) {
			return true
		}
	}
	return false
}

// stmtUsesHeapTypes walks a statement and everything nested inside it —
// every branch, loop body, and sub-expression — looking for anything that
// touches a heap type. It must never under-report: a false negative here
// means a function gets built with no arena at all, and the first heap
// allocation inside it calls rt_arena_alloc_aligned with a NULL arena,
// which aborts (see runtime/arena.c).
func stmtUsesHeapTypes(st Statement) bool {
	switch s := st.(type) {
	case *VarDeclStmt:
		if s.Qualifier == QualAsRef {
			// A captured primitive is boxed into an arena cell by capture
			// analysis, regardless of its own type.
			return true
		}
		if s.Type != nil && s.Type.IsHeap() {
			return true
		}
		return exprUsesHeapTypes(s.Value)
	case *AssignStmt:
		return exprUsesHeapTypes(s.Target) || exprUsesHeapTypes(s.Value)
	case *ExprStmt:
		return exprUsesHeapTypes(s.Expr)
	case *IfStmt:
		if exprUsesHeapTypes(s.Cond) || blockUsesHeapTypes(s.Then) {
			return true
		}
		return s.Else != nil && stmtUsesHeapTypes(s.Else)
	case *BlockStmt:
		return blockUsesHeapTypes(s)
	case *WhileStmt:
		return exprUsesHeapTypes(s.Cond) || blockUsesHeapTypes(s.Body)
	case *ForStmt:
		if s.Init != nil && stmtUsesHeapTypes(s.Init) {
			return true
		}
		if s.Cond != nil && exprUsesHeapTypes(s.Cond) {
			return true
		}
		if s.Post != nil && stmtUsesHeapTypes(s.Post) {
			return true
		}
		return blockUsesHeapTypes(s.Body)
	case *ForEachStmt:
		return exprUsesHeapTypes(s.Iterable) || blockUsesHeapTypes(s.Body)
	case *ReturnStmt:
		return s.Value != nil && exprUsesHeapTypes(s.Value)
	}
	return false
}

// exprUsesHeapTypes is stmtUsesHeapTypes's expression-level counterpart.
// Calls of every flavor are treated as heap-using unconditionally — like
// exprAllocatesHeap's loop-arena heuristic, that's deliberately
// conservative rather than attempting to analyze a callee's own body.
func exprUsesHeapTypes(e Expression) bool {
	switch ex := e.(type) {
	case nil:
		return false
	case *ArrayLit:
		return true
	case *RangeExpr:
		return true
	case *LambdaExpr:
		return true
	case *StringLit:
		return len(ex.Parts) > 0
	case *CallExpr, *MemberCallExpr, *StaticCallExpr:
		return true
	case *BinaryExpr:
		if ex.ResultType != nil && ex.ResultType.Kind == KindString {
			return true
		}
		return exprUsesHeapTypes(ex.Left) || exprUsesHeapTypes(ex.Right)
	case *UnaryExpr:
		return exprUsesHeapTypes(ex.Operand)
	case *IndexExpr:
		return exprUsesHeapTypes(ex.Array) || exprUsesHeapTypes(ex.Index)
	}
	return false
}

// debugSignature is used only by tests to assert a rendered prototype
// without running the full generator.
func debugSignature(fn *FuncDecl) string {
	cg := &CodeGen{syms: NewSymbolTable()}
	return cg.signatureFor(fn, effectiveShared(fn))
}
