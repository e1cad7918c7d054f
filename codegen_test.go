package main

import (
	"strings"
	"testing"
)

func newTestCodeGen() *CodeGen {
	return NewCodeGen(NewSymbolTable(), NewErrorCollector(20), ArithChecked)
}

func TestArenaArgDefaultsToNULL(t *testing.T) {
	cg := newTestCodeGen()
	if got := cg.arenaArg(); got != "NULL" {
		t.Errorf("arenaArg() = %q, want NULL with no current arena", got)
	}
	cg.currentArenaVar = "__arena__"
	if got := cg.arenaArg(); got != "__arena__" {
		t.Errorf("arenaArg() = %q, want __arena__", got)
	}
}

func TestNewTempAndLabelAreUnique(t *testing.T) {
	cg := newTestCodeGen()
	t1 := cg.newTemp()
	t2 := cg.newTemp()
	if t1 == t2 {
		t.Errorf("expected distinct temp names, got %q twice", t1)
	}
	l1 := cg.newLabel("break")
	l2 := cg.newLabel("break")
	if l1 == l2 {
		t.Errorf("expected distinct labels, got %q twice", l1)
	}
}

func TestEffectiveSharedPromotesHeapReturningDefault(t *testing.T) {
	fn := &FuncDecl{Name: "makeGreeting", Modifier: ModDefault, ReturnType: prim(KindString)}
	if !effectiveShared(fn) {
		t.Error("a DEFAULT function returning a heap type should be effectively shared")
	}

	fn2 := &FuncDecl{Name: "add", Modifier: ModDefault, ReturnType: prim(KindLong)}
	if effectiveShared(fn2) {
		t.Error("a DEFAULT function returning a non-heap type should not be effectively shared")
	}

	fn3 := &FuncDecl{Name: "cat", Modifier: ModDefault, ReturnType: prim(KindString), IsMain: true}
	if effectiveShared(fn3) {
		t.Error("main should never be treated as effectively shared, even when it 'returns' a heap type")
	}

	fn4 := &FuncDecl{Name: "helper", Modifier: ModShared, ReturnType: prim(KindLong)}
	if !effectiveShared(fn4) {
		t.Error("an explicitly SHARED function should remain shared regardless of return type")
	}
}

func TestSignatureForMainIsAlwaysInt(t *testing.T) {
	cg := newTestCodeGen()
	fn := &FuncDecl{Name: "main", IsMain: true, ReturnType: prim(KindVoid)}
	sig := cg.signatureFor(fn, false)
	if !strings.HasPrefix(sig, "int main(") {
		t.Errorf("signature = %q, want it to start with int main(", sig)
	}
}

func TestSignatureForSharedPrependsCallerArena(t *testing.T) {
	cg := newTestCodeGen()
	fn := &FuncDecl{
		Name:       "helper",
		ReturnType: prim(KindLong),
		Params:     []*Param{{Name: "n", Type: prim(KindLong)}},
	}
	sig := cg.signatureFor(fn, true)
	if !strings.Contains(sig, "RtArena *__caller_arena__") {
		t.Errorf("signature = %q, want the hidden arena parameter to lead", sig)
	}
	if !strings.Contains(sig, "int64_t n") {
		t.Errorf("signature = %q, want the n parameter present", sig)
	}
}

func TestSignatureForNoParamsUsesVoid(t *testing.T) {
	cg := newTestCodeGen()
	fn := &FuncDecl{Name: "noop", ReturnType: prim(KindVoid)}
	sig := cg.signatureFor(fn, false)
	if !strings.Contains(sig, "(void)") {
		t.Errorf("signature = %q, want (void) parameter list", sig)
	}
}
