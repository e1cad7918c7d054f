package main

import "testing"

func TestTypeStringPrimitives(t *testing.T) {
	cases := []struct {
		typ  *Type
		want string
	}{
		{prim(KindInt), "int"},
		{prim(KindLong), "long"},
		{prim(KindBool), "bool"},
		{&Type{Kind: KindArray, Elem: prim(KindLong)}, "long[]"},
		{nil, "unknown"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestTypeIsPrimitive(t *testing.T) {
	for _, k := range []TypeKind{KindInt, KindLong, KindDouble, KindBool, KindByte, KindChar} {
		if !prim(k).IsPrimitive() {
			t.Errorf("kind %v should be primitive", k)
		}
	}
	for _, k := range []TypeKind{KindString, KindArray, KindFunction, KindAny} {
		if prim(k).IsPrimitive() {
			t.Errorf("kind %v should not be primitive", k)
		}
	}
}

func TestTypeIsHeap(t *testing.T) {
	for _, k := range []TypeKind{KindString, KindArray, KindFunction} {
		if !prim(k).IsHeap() {
			t.Errorf("kind %v should be heap-allocated", k)
		}
	}
	if prim(KindLong).IsHeap() {
		t.Error("long should not be heap-allocated")
	}
}

func TestArraySuffixByElement(t *testing.T) {
	cases := []struct {
		elem TypeKind
		want string
	}{
		{KindLong, "long"},
		{KindInt, "long"},
		{KindDouble, "double"},
		{KindChar, "char"},
		{KindBool, "bool"},
		{KindByte, "byte"},
		{KindString, "string"},
		{KindTime, "ptr"},
	}
	for _, c := range cases {
		arr := &Type{Kind: KindArray, Elem: prim(c.elem)}
		if got := arr.ArraySuffix(); got != c.want {
			t.Errorf("ArraySuffix() for elem %v = %q, want %q", c.elem, got, c.want)
		}
	}
	if got := prim(KindLong).ArraySuffix(); got != "" {
		t.Errorf("ArraySuffix() on non-array = %q, want empty", got)
	}
}

func TestCTypeMapping(t *testing.T) {
	cases := []struct {
		typ  *Type
		want string
	}{
		{prim(KindInt), "int32_t"},
		{prim(KindLong), "int64_t"},
		{prim(KindString), "char*"},
		{prim(KindAny), "RtAny"},
		{&Type{Kind: KindArray, Elem: prim(KindLong)}, "int64_t*"},
		{prim(KindFunction), "RtClosure*"},
	}
	for _, c := range cases {
		if got := c.typ.CType(); got != c.want {
			t.Errorf("CType() = %q, want %q", got, c.want)
		}
	}
}

func TestZeroValueByKind(t *testing.T) {
	cases := []struct {
		kind TypeKind
		want string
	}{
		{KindInt, "0"},
		{KindDouble, "0.0"},
		{KindBool, "false"},
		{KindString, "NULL"},
		{KindAny, "rt_any_nil()"},
	}
	for _, c := range cases {
		if got := prim(c.kind).ZeroValue(); got != c.want {
			t.Errorf("ZeroValue() for %v = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestFunctionModifierString(t *testing.T) {
	cases := []struct {
		mod  FunctionModifier
		want string
	}{
		{ModDefault, "default"},
		{ModPrivate, "private"},
		{ModShared, "shared"},
	}
	for _, c := range cases {
		if got := c.mod.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
