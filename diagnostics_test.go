package main

import "strings"
import "testing"

func TestErrorCollectorAddErrorVsWarning(t *testing.T) {
	ec := NewErrorCollector(10)
	ec.AddError(SyntaxError("bad token", SourceLocation{Line: 1, Column: 1}))
	ec.AddWarning(CompilerError{Category: CategorySemantic, Message: "unused variable 'x'", Location: SourceLocation{Line: 2, Column: 1}})

	if ec.ErrorCount() != 1 {
		t.Errorf("error count = %d, want 1", ec.ErrorCount())
	}
	if ec.WarningCount() != 1 {
		t.Errorf("warning count = %d, want 1", ec.WarningCount())
	}
	if !ec.HasErrors() {
		t.Error("expected HasErrors to be true")
	}
}

func TestErrorCollectorHasFatalError(t *testing.T) {
	ec := NewErrorCollector(10)
	ec.AddError(SyntaxError("minor issue", SourceLocation{Line: 1}))
	if ec.HasFatalError() {
		t.Error("expected no fatal error yet")
	}
	ec.AddError(FatalError("internal state corrupted", SourceLocation{Line: 1}))
	if !ec.HasFatalError() {
		t.Error("expected HasFatalError to be true after a fatal error")
	}
}

func TestErrorCollectorShouldStop(t *testing.T) {
	ec := NewErrorCollector(2)
	if ec.ShouldStop() {
		t.Fatal("should not stop with zero errors")
	}
	ec.AddError(SyntaxError("e1", SourceLocation{Line: 1}))
	ec.AddError(SyntaxError("e2", SourceLocation{Line: 2}))
	if !ec.ShouldStop() {
		t.Error("expected ShouldStop once maxErrors is reached")
	}
}

func TestErrorCollectorSourceLineAttachment(t *testing.T) {
	ec := NewErrorCollector(10)
	ec.SetSourceCode("var x = 1\nvar y = x + bogus\n")
	ec.AddError(UndefinedVariableError("bogus", SourceLocation{Line: 2, Column: 13}, ""))
	if len(ec.errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(ec.errors))
	}
	if ec.errors[0].Context.SourceLine != "var y = x + bogus" {
		t.Errorf("source line = %q, want the attached line", ec.errors[0].Context.SourceLine)
	}
}

func TestUndefinedVariableErrorSuggestion(t *testing.T) {
	err := UndefinedVariableError("coutn", SourceLocation{Line: 1, Column: 1}, "count")
	if !strings.Contains(err.Context.Suggestion, "count") {
		t.Errorf("suggestion = %q, want it to mention 'count'", err.Context.Suggestion)
	}
}

func TestCompilerErrorErrorMethodIncludesLocation(t *testing.T) {
	err := SyntaxError("unexpected '}'", SourceLocation{File: "prog.arc", Line: 4, Column: 9})
	msg := err.Error()
	if !strings.Contains(msg, "prog.arc:4:9") {
		t.Errorf("Error() = %q, want it to include prog.arc:4:9", msg)
	}
}

func TestErrorCollectorReportCountsErrorsAndWarnings(t *testing.T) {
	ec := NewErrorCollector(10)
	ec.AddError(SyntaxError("bad", SourceLocation{Line: 1}))
	ec.AddWarning(CompilerError{Message: "unused", Location: SourceLocation{Line: 2}})
	report := ec.Report(false)
	if !strings.Contains(report, "1 error(s)") {
		t.Errorf("report = %q, want it to mention 1 error(s)", report)
	}
	if !strings.Contains(report, "1 warning(s)") {
		t.Errorf("report = %q, want it to mention 1 warning(s)", report)
	}
}

func TestErrorCollectorClear(t *testing.T) {
	ec := NewErrorCollector(10)
	ec.AddError(SyntaxError("bad", SourceLocation{Line: 1}))
	ec.Clear()
	if ec.HasErrors() {
		t.Error("expected no errors after Clear")
	}
	if ec.ErrorCount() != 0 || ec.WarningCount() != 0 {
		t.Error("expected counts to reset after Clear")
	}
}

func TestCodegenRefusalErrorIsFatal(t *testing.T) {
	err := CodegenRefusalError("cannot lower this construct", SourceLocation{Line: 1})
	if err.Level != LevelFatal {
		t.Errorf("level = %v, want LevelFatal", err.Level)
	}
	if err.Category != CategoryCodegen {
		t.Errorf("category = %v, want CategoryCodegen", err.Category)
	}
}
