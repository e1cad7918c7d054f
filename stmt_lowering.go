// Completion: 75% - C4: statement lowering
//
// Grounded on the teacher's statement-level codegen dispatch (the big
// switch in codegen.go that walked each statement kind and emitted its
// control-flow shape) but every branch here additionally threads arena
// state: entering a private block pushes a child arena, entering a loop
// body may push a per-iteration one, and every early exit unwinds whatever
// is still open in the right order (§4.6).
package main

import "fmt"

func (cg *CodeGen) lowerBlock(b *BlockStmt, indent int) {
	switch b.Modifier {
	case ModPrivate:
		prev := cg.enterPrivateBlock(indent)
		for _, st := range b.Stmts {
			cg.lowerStmt(st, indent)
		}
		cg.exitPrivateBlock(indent, prev)
	case ModShared:
		prevShared := cg.inSharedCtx
		cg.inSharedCtx = true
		for _, st := range b.Stmts {
			cg.lowerStmt(st, indent)
		}
		cg.inSharedCtx = prevShared
	default:
		for _, st := range b.Stmts {
			cg.lowerStmt(st, indent)
		}
	}
}

func (cg *CodeGen) lowerStmt(st Statement, indent int) {
	switch s := st.(type) {
	case *VarDeclStmt:
		cg.lowerVarDecl(s, indent)
	case *AssignStmt:
		cg.lowerAssign(s, indent)
	case *ExprStmt:
		v, _ := cg.lowerExpr(s.Expr)
		cg.writeIndent(indent, "%s;\n", v)
	case *BlockStmt:
		cg.writeIndent(indent, "{\n")
		cg.lowerBlock(s, indent+1)
		cg.writeIndent(indent, "}\n")
	case *IfStmt:
		cg.lowerIf(s, indent)
	case *WhileStmt:
		cg.lowerWhile(s, indent)
	case *ForStmt:
		cg.lowerFor(s, indent)
	case *ForEachStmt:
		cg.lowerForEach(s, indent)
	case *ReturnStmt:
		cg.lowerReturn(s, indent)
	case *BreakStmt:
		cg.lowerBreak(indent)
	case *ContinueStmt:
		cg.lowerContinue(indent)
	default:
		cg.writeIndent(indent, "/* unhandled statement %T */\n", s)
	}
}

// lowerVarDecl emits a local declaration. AS_REF locals (captured
// primitives, per C2) are heap-cell-backed so a closure can alias them;
// every other local, AS_VAL included, is emitted as a plain value
// declaration.
func (cg *CodeGen) lowerVarDecl(s *VarDeclStmt, indent int) {
	v, valT := cg.lowerExpr(s.Value)
	t := s.Type
	if t == nil {
		t = valT
	}
	if s.Qualifier == QualAsRef && t.IsPrimitive() {
		cg.writeIndent(indent, "%s *%s = rt_arena_alloc(%s, sizeof(%s));\n", t.CType(), s.Name, cg.arenaArg(), t.CType())
		cg.writeIndent(indent, "*%s = %s;\n", s.Name, v)
		cg.syms.Define(&Symbol{Name: s.Name, Type: t, Kind: SymLocal, Qualifier: s.Qualifier})
		return
	}
	cg.writeIndent(indent, "%s %s = %s;\n", t.CType(), s.Name, v)
	cg.syms.Define(&Symbol{Name: s.Name, Type: t, Kind: SymLocal, Qualifier: s.Qualifier})
}

func (cg *CodeGen) lowerAssign(s *AssignStmt, indent int) {
	v, _ := cg.lowerExpr(s.Value)
	switch target := s.Target.(type) {
	case *Ident:
		if cg.captured[target.Name] {
			if sym, ok := cg.syms.Resolve(target.Name); ok && sym.Type != nil && sym.Type.IsPrimitive() {
				cg.writeIndent(indent, "*%s = %s;\n", target.Name, v)
				return
			}
		}
		cg.writeIndent(indent, "%s = %s;\n", target.Name, v)
	case *IndexExpr:
		arr, arrT := cg.lowerExpr(target.Array)
		idx, _ := cg.lowerExpr(target.Index)
		cg.writeIndent(indent, "rt_array_set_checked_%s(%s, %s, %s, %s);\n", arrT.ArraySuffix(), cg.arenaArg(), arr, idx, v)
	default:
		cg.writeIndent(indent, "/* unsupported assignment target */\n")
	}
}

func (cg *CodeGen) lowerIf(s *IfStmt, indent int) {
	cond, _ := cg.lowerExpr(s.Cond)
	cg.writeIndent(indent, "if (%s) {\n", cond)
	cg.lowerBlock(s.Then, indent+1)
	cg.writeIndent(indent, "}")
	if s.Else == nil {
		cg.out.WriteString("\n")
		return
	}
	switch e := s.Else.(type) {
	case *IfStmt:
		cg.out.WriteString(" else ")
		cg.lowerIfInline(e, indent)
	case *BlockStmt:
		cg.out.WriteString(" else {\n")
		cg.lowerBlock(e, indent+1)
		cg.writeIndent(indent, "}\n")
	}
}

// lowerIfInline emits an `else if` chain without a leading indent (it
// continues the previous line).
func (cg *CodeGen) lowerIfInline(s *IfStmt, indent int) {
	cond, _ := cg.lowerExpr(s.Cond)
	fmt.Fprintf(&cg.out, "if (%s) {\n", cond)
	cg.lowerBlock(s.Then, indent+1)
	cg.writeIndent(indent, "}")
	if s.Else == nil {
		cg.out.WriteString("\n")
		return
	}
	switch e := s.Else.(type) {
	case *IfStmt:
		cg.out.WriteString(" else ")
		cg.lowerIfInline(e, indent)
	case *BlockStmt:
		cg.out.WriteString(" else {\n")
		cg.lowerBlock(e, indent+1)
		cg.writeIndent(indent, "}\n")
	}
}

func (cg *CodeGen) lowerWhile(s *WhileStmt, indent int) {
	frame := cg.enterLoop(indent, s.Body)
	cg.writeIndent(indent, "while (1) {\n")
	if frame.ArenaVar != "" {
		cg.writeIndent(indent+1, "rt_arena_reset(%s);\n", frame.ArenaVar)
	}
	cond, _ := cg.lowerExpr(s.Cond)
	cg.writeIndent(indent+1, "if (!(%s)) break;\n", cond)
	cg.lowerBlock(s.Body, indent+1)
	cg.writeIndent(indent+1, "%s:;\n", frame.ContinueLabel)
	cg.writeIndent(indent, "}\n")
	cg.writeIndent(indent, "%s:;\n", frame.BreakLabel)
	cg.exitLoop(indent)
}

// lowerFor desugars the C-style for into a while-shaped loop, matching
// §4.6: init runs once outside the loop, continue jumps to a label placed
// immediately before the post-increment so `continue` still runs it.
func (cg *CodeGen) lowerFor(s *ForStmt, indent int) {
	cg.writeIndent(indent, "{\n")
	if s.Init != nil {
		cg.lowerVarDecl(s.Init, indent+1)
	}
	frame := cg.enterLoop(indent+1, s.Body)
	frame.ContinueBeforeIncrement = cg.newLabel("forinc")
	cg.writeIndent(indent+1, "while (1) {\n")
	if frame.ArenaVar != "" {
		cg.writeIndent(indent+2, "rt_arena_reset(%s);\n", frame.ArenaVar)
	}
	if s.Cond != nil {
		cond, _ := cg.lowerExpr(s.Cond)
		cg.writeIndent(indent+2, "if (!(%s)) break;\n", cond)
	}
	cg.lowerBlock(s.Body, indent+2)
	cg.writeIndent(indent+2, "%s:;\n", frame.ContinueLabel)
	if s.Post != nil {
		cg.lowerStmt(s.Post, indent+2)
	}
	cg.writeIndent(indent+1, "}\n")
	cg.writeIndent(indent+1, "%s:;\n", frame.BreakLabel)
	cg.exitLoop(indent + 1)
	cg.writeIndent(indent, "}\n")
}

// lowerForEach desugars `for x in lo..hi { }` or `for x in arr { }` into an
// indexed C for loop. For a range, the loop variable itself is the C
// counter and is pushed onto the loop-counter stack so IndexExpr lowering
// can elide the bounds check when the body indexes by it; the array form
// iterates with a synthesized index that is not pushed.
func (cg *CodeGen) lowerForEach(s *ForEachStmt, indent int) {
	idxVar := fmt.Sprintf("__i_%s__", cg.newLabel("idx"))

	cg.writeIndent(indent, "{\n")
	switch it := s.Iterable.(type) {
	case *RangeExpr:
		lo, _ := cg.lowerExpr(it.Lo)
		hi, _ := cg.lowerExpr(it.Hi)
		// The range loop's own variable counts as its counter directly —
		// no synthesized copy needed, so IndexExpr lowering can elide a
		// bounds check when the body indexes by s.Var itself.
		cg.loopCounterStack = append(cg.loopCounterStack, s.Var)
		defer func() { cg.loopCounterStack = cg.loopCounterStack[:len(cg.loopCounterStack)-1] }()
		frame := cg.enterLoop(indent+1, s.Body)
		cg.writeIndent(indent+1, "for (int64_t %s = %s; %s < %s; %s++) {\n", s.Var, lo, s.Var, hi, s.Var)
		if frame.ArenaVar != "" {
			cg.writeIndent(indent+2, "rt_arena_reset(%s);\n", frame.ArenaVar)
		}
		cg.syms.Define(&Symbol{Name: s.Var, Type: &Type{Kind: KindLong}, Kind: SymLocal})
		cg.lowerBlock(s.Body, indent+2)
		cg.writeIndent(indent+2, "%s:;\n", frame.ContinueLabel)
		cg.writeIndent(indent+1, "}\n")
		cg.writeIndent(indent+1, "%s:;\n", frame.BreakLabel)
		cg.exitLoop(indent + 1)
	default:
		arr, arrT := cg.lowerExpr(s.Iterable)
		elemT := &Type{Kind: KindUnknown}
		if arrT != nil && arrT.Kind == KindArray {
			elemT = arrT.Elem
		}
		arrVar := fmt.Sprintf("__arr_%s__", idxVar)
		cg.writeIndent(indent+1, "%s %s = %s;\n", arrT.CType(), arrVar, arr)
		frame := cg.enterLoop(indent+1, s.Body)
		cg.writeIndent(indent+1, "for (int64_t %s = 0; %s < rt_array_length(%s); %s++) {\n", idxVar, idxVar, arrVar, idxVar)
		if frame.ArenaVar != "" {
			cg.writeIndent(indent+2, "rt_arena_reset(%s);\n", frame.ArenaVar)
		}
		cg.writeIndent(indent+2, "%s %s = %s[%s];\n", elemT.CType(), s.Var, arrVar, idxVar)
		cg.syms.Define(&Symbol{Name: s.Var, Type: elemT, Kind: SymLocal})
		cg.lowerBlock(s.Body, indent+2)
		cg.writeIndent(indent+2, "%s:;\n", frame.ContinueLabel)
		cg.writeIndent(indent+1, "}\n")
		cg.writeIndent(indent+1, "%s:;\n", frame.BreakLabel)
		cg.exitLoop(indent + 1)
	}
	cg.writeIndent(indent, "}\n")
}

// lowerReturn handles a plain return, a tail-recursive return (rewritten by
// func_lowering.go's trampoline into a reassign-and-continue instead of a
// real `return`), and the arena cleanup that must run on every path out of
// the function.
func (cg *CodeGen) lowerReturn(s *ReturnStmt, indent int) {
	if s.TailCall {
		cg.lowerTailCallReturn(s, indent)
		return
	}
	if s.Value == nil {
		cg.cleanupForEarlyExit(indent, len(cg.loopStack))
		if !cg.fn.IsMain {
			cg.exitFunctionArena(effectiveShared(cg.fn))
		}
		cg.writeIndent(indent, "return;\n")
		return
	}
	v, valT := cg.lowerExpr(s.Value)
	if valT == nil {
		valT = &Type{Kind: KindLong}
	}
	needsBox := cg.fn.ReturnType.Kind == KindAny && valT.Kind != KindAny
	declType := cg.fn.ReturnType.CType()
	if needsBox {
		declType = valT.CType()
	}
	retVar := cg.newTemp()
	cg.writeIndent(indent, "%s %s = %s;\n", declType, retVar, v)
	isShared := effectiveShared(cg.fn)
	if valT.IsHeap() && !isShared {
		retVar = cg.promoteExpr(retVar, valT, "__caller_arena__")
	}
	if needsBox {
		boxed := cg.newTemp()
		cg.writeIndent(indent, "RtAny %s = %s;\n", boxed, cg.boxAny(retVar, valT))
		retVar = boxed
	}
	cg.cleanupForEarlyExit(indent, len(cg.loopStack))
	cg.exitFunctionArena(isShared)
	cg.writeIndent(indent, "return %s;\n", retVar)
}

// lowerTailCallReturn is filled in by func_lowering.go's trampoline setup;
// here it just reassigns the loop-carried parameter variables and jumps
// back to the function's top-of-body label instead of emitting a real C
// `return`, eliminating the call frame per §8 S4.
func (cg *CodeGen) lowerTailCallReturn(s *ReturnStmt, indent int) {
	call := s.Value.(*CallExpr)
	tmp := make([]string, len(call.Args))
	for i, a := range call.Args {
		v, _ := cg.lowerExpr(a)
		tmp[i] = v
	}
	for i, p := range cg.fn.Params {
		cg.writeIndent(indent, "%s = %s;\n", p.Name, tmp[i])
	}
	cg.writeIndent(indent, "goto %s;\n", cg.tailCallLabel)
}

func (cg *CodeGen) lowerBreak(indent int) {
	frame := cg.currentLoop()
	if frame == nil {
		cg.writeIndent(indent, "break;\n")
		return
	}
	cg.cleanupForEarlyExit(indent, 1)
	cg.writeIndent(indent, "goto %s;\n", frame.BreakLabel)
}

func (cg *CodeGen) lowerContinue(indent int) {
	frame := cg.currentLoop()
	if frame == nil {
		cg.writeIndent(indent, "continue;\n")
		return
	}
	cg.writeIndent(indent, "goto %s;\n", frame.ContinueLabel)
}
