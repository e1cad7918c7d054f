package main

import "testing"

func TestSymbolTableScoping(t *testing.T) {
	st := NewSymbolTable()
	st.Define(&Symbol{Name: "g", Kind: SymGlobal})

	st.Push()
	st.Define(&Symbol{Name: "local", Kind: SymLocal})

	if _, ok := st.Resolve("g"); !ok {
		t.Error("expected global to be visible from a nested scope")
	}
	if _, ok := st.Resolve("local"); !ok {
		t.Error("expected local to resolve in its own scope")
	}

	st.Pop()
	if _, ok := st.Resolve("local"); ok {
		t.Error("expected local to be out of scope after Pop")
	}
	if _, ok := st.Resolve("g"); !ok {
		t.Error("expected global to remain visible after Pop")
	}
}

func TestSymbolTableShadowing(t *testing.T) {
	st := NewSymbolTable()
	st.Define(&Symbol{Name: "x", Type: prim(KindLong)})
	st.Push()
	st.Define(&Symbol{Name: "x", Type: prim(KindString)})

	sym, ok := st.Resolve("x")
	if !ok {
		t.Fatal("expected x to resolve")
	}
	if sym.Type.Kind != KindString {
		t.Errorf("inner x type = %v, want string (shadowing outer long)", sym.Type.Kind)
	}

	st.Pop()
	sym, ok = st.Resolve("x")
	if !ok {
		t.Fatal("expected x to resolve after pop")
	}
	if sym.Type.Kind != KindLong {
		t.Errorf("outer x type = %v, want long", sym.Type.Kind)
	}
}

func TestScopeNamesDeduplicatesAcrossParents(t *testing.T) {
	root := NewScope(nil)
	root.Define(&Symbol{Name: "a"})
	child := NewScope(root)
	child.Define(&Symbol{Name: "a"})
	child.Define(&Symbol{Name: "b"})

	names := child.Names()
	counts := map[string]int{}
	for _, n := range names {
		counts[n]++
	}
	if counts["a"] != 1 {
		t.Errorf("expected 'a' to appear once, got %d", counts["a"])
	}
	if counts["b"] != 1 {
		t.Errorf("expected 'b' to appear once, got %d", counts["b"])
	}
}
