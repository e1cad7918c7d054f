// Completion: 80% - C1: arena lifetime and nesting model
//
// Grounded on the teacher's register-allocation scope stack — the part of
// codegen.go that tracked which physical registers were live across a
// block's entry/exit. Arenas play the analogous role here: every DEFAULT or
// PRIVATE function owns one for its own lifetime, every private block and
// every loop body may nest a child one, and SHARED functions borrow
// whatever their caller passed in. What's identical to the teacher's
// approach is the discipline: push on entry, pop (and clean up) on every
// exit path, including early return/break/continue.
package main

import "fmt"

// enterFunctionArena emits the arena-creation prologue for a DEFAULT or
// PRIVATE function and sets it as the current arena. SHARED functions skip
// this entirely; their arena is the caller's, passed in as
// __caller_arena__. A non-shared function that never touches a heap type
// skips arena creation too, per §4.7's needs_arena predicate — it has
// nothing to free and cg.arenaArg() is never dereferenced by anything it
// emits.
func (cg *CodeGen) enterFunctionArena(fn *FuncDecl, isShared bool) string {
	if isShared {
		cg.currentArenaVar = "__caller_arena__"
		return ""
	}
	if !fn.NeedsArena {
		cg.currentArenaVar = ""
		return ""
	}
	arenaVar := "__arena__"
	cg.writeIndent(1, "RtArena *%s = rt_arena_create(NULL);\n", arenaVar)
	cg.currentArenaVar = arenaVar
	return arenaVar
}

func (cg *CodeGen) exitFunctionArena(isShared bool) {
	if isShared || !cg.fn.NeedsArena {
		return
	}
	cg.writeIndent(1, "rt_arena_destroy(%s);\n", cg.arenaArg())
}

// enterPrivateBlock creates a child arena for a `private { ... }` block
// (§4.3's private-block stack, entry (a)) and returns its variable name so
// the caller can restore cg.currentArenaVar on exit.
func (cg *CodeGen) enterPrivateBlock(indent int) string {
	cg.arenaDepth++
	name := fmt.Sprintf("__parena_%d__", cg.arenaDepth)
	cg.writeIndent(indent, "RtArena *%s = rt_arena_create(%s);\n", name, cg.arenaArg())
	cg.privateBlockStack = append(cg.privateBlockStack, name)
	prev := cg.currentArenaVar
	cg.currentArenaVar = name
	return prev
}

func (cg *CodeGen) exitPrivateBlock(indent int, prevArena string) {
	if len(cg.privateBlockStack) == 0 {
		return
	}
	name := cg.privateBlockStack[len(cg.privateBlockStack)-1]
	cg.privateBlockStack = cg.privateBlockStack[:len(cg.privateBlockStack)-1]
	cg.writeIndent(indent, "rt_arena_destroy(%s);\n", name)
	cg.currentArenaVar = prevArena
}

// needsPerIterationArena reports whether a loop body allocates heap values
// directly in its own scope (not inside a further-nested private block,
// which manages its own lifetime) — if so each pass needs a clean slate so
// N iterations don't accumulate N iterations' worth of garbage in the
// enclosing arena.
func needsPerIterationArena(body *BlockStmt) bool {
	for _, st := range body.Stmts {
		if stmtAllocatesHeap(st) {
			return true
		}
	}
	return false
}

func stmtAllocatesHeap(st Statement) bool {
	switch s := st.(type) {
	case *VarDeclStmt:
		return exprAllocatesHeap(s.Value)
	case *ExprStmt:
		return exprAllocatesHeap(s.Expr)
	case *AssignStmt:
		return exprAllocatesHeap(s.Value)
	case *IfStmt:
		for _, bs := range s.Then.Stmts {
			if stmtAllocatesHeap(bs) {
				return true
			}
		}
	}
	return false
}

func exprAllocatesHeap(e Expression) bool {
	switch ex := e.(type) {
	case *ArrayLit:
		return true
	case *StringLit:
		return len(ex.Parts) > 0
	case *CallExpr, *MemberCallExpr, *StaticCallExpr:
		return true
	case *BinaryExpr:
		return exprAllocatesHeap(ex.Left) || exprAllocatesHeap(ex.Right)
	}
	return false
}

// enterLoop pushes a new LoopFrame, creating a per-iteration arena when the
// body's allocation pattern warrants one and the loop is not inside a
// shared block, per §4.3's loop-arena stack entry (b). Returns the frame so
// the caller can emit the reset-at-top-of-body line and use the labels for
// break/continue.
func (cg *CodeGen) enterLoop(indent int, body *BlockStmt) *LoopFrame {
	frame := &LoopFrame{
		ContinueLabel: cg.newLabel("continue"),
		BreakLabel:    cg.newLabel("break"),
	}
	if needsPerIterationArena(body) && !cg.inSharedCtx {
		cg.arenaDepth++
		frame.ArenaVar = fmt.Sprintf("__larena_%d__", cg.arenaDepth)
		cg.writeIndent(indent, "RtArena *%s = rt_arena_create(%s);\n", frame.ArenaVar, cg.arenaArg())
		frame.PrevArenaVar = cg.currentArenaVar
		cg.currentArenaVar = frame.ArenaVar
	}
	cg.loopStack = append(cg.loopStack, frame)
	return frame
}

func (cg *CodeGen) exitLoop(indent int) {
	if len(cg.loopStack) == 0 {
		return
	}
	frame := cg.loopStack[len(cg.loopStack)-1]
	cg.loopStack = cg.loopStack[:len(cg.loopStack)-1]
	if frame.ArenaVar != "" {
		cg.writeIndent(indent, "rt_arena_destroy(%s);\n", frame.ArenaVar)
		cg.currentArenaVar = frame.PrevArenaVar
	}
}

func (cg *CodeGen) currentLoop() *LoopFrame {
	if len(cg.loopStack) == 0 {
		return nil
	}
	return cg.loopStack[len(cg.loopStack)-1]
}

// promoteExpr wraps a C expression of the given type in the appropriate
// rt_arena_promote* call when a value computed in one arena must outlive
// it — returning a DEFAULT-turned-SHARED function's heap result to the
// caller, or lifting a per-iteration loop allocation out to the enclosing
// arena. Non-heap types pass through unchanged; §3's returns_heap_type
// predicate is exactly Type.IsHeap().
func (cg *CodeGen) promoteExpr(valueExpr string, typ *Type, destArena string) string {
	if typ == nil || !typ.IsHeap() {
		return valueExpr
	}
	switch typ.Kind {
	case KindString:
		return fmt.Sprintf("rt_arena_promote_string(%s, %s)", destArena, valueExpr)
	case KindArray:
		return fmt.Sprintf("rt_arena_promote(%s, %s)", destArena, valueExpr)
	case KindFunction:
		return fmt.Sprintf("rt_closure_promote(%s, %s)", destArena, valueExpr)
	default:
		return valueExpr
	}
}

// cleanupForEarlyExit emits destroy calls for the innermost throughLoops
// loop arenas (innermost first), then for every open private-block arena
// (innermost first), at an early return/break point, per §4.6's
// "early-exit arena cleanup ordering" — without popping the tracking
// stacks, since control resumes normal emission after the jump and the
// stacks must still reflect the surrounding blocks.
func (cg *CodeGen) cleanupForEarlyExit(indent int, throughLoops int) {
	n := len(cg.loopStack)
	for i := 0; i < throughLoops && n-1-i >= 0; i++ {
		frame := cg.loopStack[n-1-i]
		if frame.ArenaVar != "" {
			cg.writeIndent(indent, "rt_arena_destroy(%s);\n", frame.ArenaVar)
		}
	}
	for i := len(cg.privateBlockStack) - 1; i >= 0; i-- {
		cg.writeIndent(indent, "rt_arena_destroy(%s);\n", cg.privateBlockStack[i])
	}
}
