package main

import (
	"strings"
	"testing"
)

func TestEnterExitFunctionArenaNonShared(t *testing.T) {
	cg := newTestCodeGen()
	fn := &FuncDecl{Name: "main", IsMain: true, NeedsArena: true}
	cg.fn = fn
	arenaVar := cg.enterFunctionArena(fn, false)
	if arenaVar != "__arena__" {
		t.Errorf("arenaVar = %q, want __arena__", arenaVar)
	}
	if cg.currentArenaVar != "__arena__" {
		t.Errorf("currentArenaVar = %q, want __arena__", cg.currentArenaVar)
	}
	cg.exitFunctionArena(false)
	if !strings.Contains(cg.out.String(), "rt_arena_create") {
		t.Error("expected rt_arena_create to be emitted")
	}
	if !strings.Contains(cg.out.String(), "rt_arena_destroy(__arena__)") {
		t.Error("expected rt_arena_destroy(__arena__) to be emitted")
	}
}

func TestEnterFunctionArenaSharedBorrowsCaller(t *testing.T) {
	cg := newTestCodeGen()
	fn := &FuncDecl{Name: "helper", Modifier: ModShared}
	arenaVar := cg.enterFunctionArena(fn, true)
	if arenaVar != "" {
		t.Errorf("arenaVar = %q, want empty string for a shared function", arenaVar)
	}
	if cg.currentArenaVar != "__caller_arena__" {
		t.Errorf("currentArenaVar = %q, want __caller_arena__", cg.currentArenaVar)
	}
	before := cg.out.String()
	cg.exitFunctionArena(true)
	if cg.out.String() != before {
		t.Error("exitFunctionArena should emit nothing for a shared function")
	}
}

func TestPrivateBlockPushPopRestoresArena(t *testing.T) {
	cg := newTestCodeGen()
	cg.currentArenaVar = "__arena__"
	prev := cg.enterPrivateBlock(1)
	if prev != "__arena__" {
		t.Errorf("prev = %q, want __arena__", prev)
	}
	if cg.currentArenaVar == "__arena__" {
		t.Error("expected a nested private-block arena to become current")
	}
	if len(cg.privateBlockStack) != 1 {
		t.Fatalf("privateBlockStack len = %d, want 1", len(cg.privateBlockStack))
	}
	cg.exitPrivateBlock(1, prev)
	if cg.currentArenaVar != "__arena__" {
		t.Errorf("currentArenaVar after exit = %q, want restored __arena__", cg.currentArenaVar)
	}
	if len(cg.privateBlockStack) != 0 {
		t.Errorf("privateBlockStack len after exit = %d, want 0", len(cg.privateBlockStack))
	}
}

func TestNeedsPerIterationArenaDetectsHeapAllocatingBody(t *testing.T) {
	body := &BlockStmt{Stmts: []Statement{
		&VarDeclStmt{Name: "s", Value: &ArrayLit{}},
	}}
	if !needsPerIterationArena(body) {
		t.Error("expected a body declaring an array literal to need a per-iteration arena")
	}

	plain := &BlockStmt{Stmts: []Statement{
		&VarDeclStmt{Name: "x", Value: &IntLit{Value: 1}},
	}}
	if needsPerIterationArena(plain) {
		t.Error("expected a body with only primitive allocation to not need a per-iteration arena")
	}
}

func TestEnterExitLoopCreatesArenaOnlyWhenNeeded(t *testing.T) {
	cg := newTestCodeGen()
	cg.currentArenaVar = "__arena__"

	allocating := &BlockStmt{Stmts: []Statement{&ExprStmt{Expr: &ArrayLit{}}}}
	frame := cg.enterLoop(1, allocating)
	if frame.ArenaVar == "" {
		t.Error("expected a per-iteration arena for a heap-allocating loop body")
	}
	if frame.ContinueLabel == "" || frame.BreakLabel == "" {
		t.Error("expected continue/break labels to be set")
	}
	cg.exitLoop(1)
	if len(cg.loopStack) != 0 {
		t.Errorf("loopStack len after exit = %d, want 0", len(cg.loopStack))
	}

	plain := &BlockStmt{Stmts: []Statement{&ExprStmt{Expr: &IntLit{Value: 1}}}}
	frame2 := cg.enterLoop(1, plain)
	if frame2.ArenaVar != "" {
		t.Error("expected no per-iteration arena for a non-allocating loop body")
	}
	cg.exitLoop(1)
}

func TestPromoteExprWrapsHeapTypesOnly(t *testing.T) {
	cg := newTestCodeGen()
	got := cg.promoteExpr("s", prim(KindString), "__arena__")
	if !strings.Contains(got, "rt_arena_promote_string") {
		t.Errorf("promoteExpr(string) = %q, want rt_arena_promote_string call", got)
	}
	got = cg.promoteExpr("arr", &Type{Kind: KindArray, Elem: prim(KindLong)}, "__arena__")
	if !strings.Contains(got, "rt_arena_promote(") {
		t.Errorf("promoteExpr(array) = %q, want rt_arena_promote call", got)
	}
	got = cg.promoteExpr("n", prim(KindLong), "__arena__")
	if got != "n" {
		t.Errorf("promoteExpr(long) = %q, want unchanged passthrough", got)
	}
}

func TestCleanupForEarlyExitDestroysInnermostFirst(t *testing.T) {
	cg := newTestCodeGen()
	cg.privateBlockStack = []string{"__parena_1__", "__parena_2__"}
	cg.loopStack = []*LoopFrame{{ArenaVar: "__larena_1__"}}
	cg.cleanupForEarlyExit(1, 1)

	out := cg.out.String()
	idx2 := strings.Index(out, "__parena_2__")
	idx1 := strings.Index(out, "__parena_1__")
	if idx2 == -1 || idx1 == -1 || idx2 > idx1 {
		t.Errorf("expected __parena_2__ (innermost) destroyed before __parena_1__, got %q", out)
	}
	if !strings.Contains(out, "__larena_1__") {
		t.Error("expected the enclosing loop arena to also be destroyed")
	}
	if len(cg.privateBlockStack) != 2 {
		t.Error("cleanupForEarlyExit must not pop the tracking stacks")
	}
}
