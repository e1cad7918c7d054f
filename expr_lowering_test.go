package main

import (
	"strings"
	"testing"
)

func TestLowerBinaryCheckedArithmeticUsesRtChecked(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = 1
		var x = a + 2
	}`)
	if !strings.Contains(out, "rt_checked_add(") {
		t.Errorf("expected a CHECKED-mode rt_checked_add call in output:\n%s", out)
	}
}

func TestLowerBinaryStringConcatUsesRtStringConcat(t *testing.T) {
	out := generateC(t, `fn main() { var s = "a" + "b" }`)
	if !strings.Contains(out, "rt_string_concat(") {
		t.Errorf("expected rt_string_concat for string '+' in output:\n%s", out)
	}
}

func TestLowerBinaryDivisionAlwaysChecked(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = 10
		var x = a / 2
	}`)
	if !strings.Contains(out, "rt_checked_div(") {
		t.Errorf("expected rt_checked_div regardless of arith mode in output:\n%s", out)
	}
}

func TestLowerArrayLitEmitsRtArrayLiteral(t *testing.T) {
	out := generateC(t, `fn main() { var a = [1, 2, 3] }`)
	if !strings.Contains(out, "rt_array_literal_long(") {
		t.Errorf("expected rt_array_literal_long for a long[] literal in output:\n%s", out)
	}
}

func TestLowerIndexEmitsCheckedGet(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = [1, 2, 3]
		var x = a[0]
	}`)
	if !strings.Contains(out, "rt_array_get_checked_long(") {
		t.Errorf("expected a checked array-get call in output:\n%s", out)
	}
}

func TestLowerIndexElidesCheckForLoopCounter(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = [1, 2, 3]
		for i in 0..3 {
			var x = a[i]
		}
	}`)
	if strings.Contains(out, "rt_array_get_checked_") {
		t.Errorf("expected the bounds check to be elided when indexing by the loop's own counter:\n%s", out)
	}
}

func TestLowerCallToSharedFunctionThreadsArena(t *testing.T) {
	out := generateC(t, `
shared fn cat(s: string, t: string): string { return s }
fn main() { var r = cat("a", "b") }
`)
	if !strings.Contains(out, "cat(__arena__, ") {
		t.Errorf("expected the caller's arena to be threaded into the shared call:\n%s", out)
	}
}

func TestBoxAnyDispatchesByKind(t *testing.T) {
	cg := newTestCodeGen()
	cases := []struct {
		kind TypeKind
		want string
	}{
		{KindLong, "rt_any_from_long"},
		{KindDouble, "rt_any_from_double"},
		{KindBool, "rt_any_from_bool"},
		{KindString, "rt_any_from_string"},
	}
	for _, c := range cases {
		got := cg.boxAny("v", prim(c.kind))
		if !strings.Contains(got, c.want) {
			t.Errorf("boxAny(%v) = %q, want it to contain %q", c.kind, got, c.want)
		}
	}
}

func TestUnboxAnyDispatchesByKind(t *testing.T) {
	cg := newTestCodeGen()
	cases := []struct {
		kind TypeKind
		want string
	}{
		{KindLong, "rt_any_as_long"},
		{KindDouble, "rt_any_as_double"},
		{KindBool, "rt_any_as_bool"},
		{KindString, "rt_any_as_string"},
	}
	for _, c := range cases {
		got := cg.unboxAny("v", prim(c.kind))
		if !strings.Contains(got, c.want) {
			t.Errorf("unboxAny(%v) = %q, want it to contain %q", c.kind, got, c.want)
		}
	}
}

func TestLowerMemberCallArraySliceAppendsStepSentinel(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = [1, 2, 3]
		var b = a.slice(0, 2)
	}`)
	if !strings.Contains(out, "RT_SLICE_STEP_ABSENT") {
		t.Errorf("expected the slice() call to pass RT_SLICE_STEP_ABSENT:\n%s", out)
	}
}
