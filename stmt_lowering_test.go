package main

import (
	"strings"
	"testing"
)

func generateC(t *testing.T, src string) string {
	t.Helper()
	prog := mustParse(t, src)
	errs := NewErrorCollector(20)
	checker := NewChecker(errs)
	if !checker.Check(prog) {
		t.Fatalf("check failed: %s", errs.Report(false))
	}
	cg := NewCodeGen(NewSymbolTable(), errs, ArithChecked)
	out, err := cg.Generate(prog)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return out
}

func TestLowerIfElseEmitsBothBranches(t *testing.T) {
	out := generateC(t, `fn main() {
		if 1 < 2 {
			var a = 1
		} else {
			var b = 2
		}
	}`)
	if !strings.Contains(out, "if (") || !strings.Contains(out, "} else {") {
		t.Errorf("expected if/else C shape in output:\n%s", out)
	}
}

func TestLowerWhileUsesGotoLabels(t *testing.T) {
	out := generateC(t, `fn main() {
		var i = 0
		while i < 10 {
			i = i + 1
		}
	}`)
	if !strings.Contains(out, "while (1) {") {
		t.Errorf("expected while-as-while(1)-with-break shape in output:\n%s", out)
	}
	if !strings.Contains(out, "break_") {
		t.Errorf("expected a break label in output:\n%s", out)
	}
}

func TestLowerForEachRangeEmitsIndexedFor(t *testing.T) {
	out := generateC(t, `fn main() {
		for i in 0..5 {
			var x = i
		}
	}`)
	if !strings.Contains(out, "for (int64_t") {
		t.Errorf("expected a synthesized indexed for loop in output:\n%s", out)
	}
}

func TestLowerBreakInsideLoopJumpsToBreakLabel(t *testing.T) {
	out := generateC(t, `fn main() {
		var i = 0
		while i < 10 {
			if i == 5 {
				break
			}
			i = i + 1
		}
	}`)
	if !strings.Contains(out, "goto break_") {
		t.Errorf("expected a goto to the loop's break label in output:\n%s", out)
	}
}

func TestLowerReturnFromMainIsZero(t *testing.T) {
	out := generateC(t, `fn main() { }`)
	if !strings.Contains(out, "return 0;") {
		t.Errorf("expected implicit 'return 0;' for main falling off the end:\n%s", out)
	}
}

func TestLowerAssignToIndexEmitsCheckedSet(t *testing.T) {
	out := generateC(t, `fn main() {
		var a = [1, 2, 3]
		a[0] = 9
	}`)
	if !strings.Contains(out, "rt_array_set_checked_") {
		t.Errorf("expected a checked array-set call in output:\n%s", out)
	}
}
