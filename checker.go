// Completion: 85% - Minimal type checker: inference and tail-call marking only
//
// spec.md §1 puts "the type checker's inference rules" out of scope as an
// external collaborator; what the codegen actually depends on is (a) every
// expression carrying a resolved Type and (b) every eligible `return f(...)`
// marked as a tail call to its enclosing function (see the GLOSSARY's
// "Tail call" entry: "marked by the type checker (external)"). This file
// does exactly those two things and nothing more — no general unification,
// no overload resolution.
package main

import (
	"fmt"

	"github.com/xyproto/arcl/internal/engine"
)

// Checker performs a single pass over a Program: resolve identifiers,
// infer expression types, and mark tail calls.
type Checker struct {
	syms *SymbolTable
	errs *ErrorCollector
	fn   *FuncDecl // enclosing function, for tail-call marking
}

// NewChecker creates a checker reporting into the given collector.
func NewChecker(errs *ErrorCollector) *Checker {
	return &Checker{syms: NewSymbolTable(), errs: errs}
}

// Check resolves types and tail calls across every function in program.
// Returns false if any fatal error was recorded.
func (c *Checker) Check(program *Program) bool {
	for _, fn := range program.Functions {
		c.syms.Define(&Symbol{Name: fn.Name, IsFunction: true, Decl: fn, Type: fn.ReturnType})
	}
	for _, fn := range program.Functions {
		c.checkFunc(fn)
	}
	return !c.errs.HasFatalError()
}

func (c *Checker) checkFunc(fn *FuncDecl) {
	prevFn := c.fn
	c.fn = fn
	defer func() { c.fn = prevFn }()

	c.syms.Push()
	defer c.syms.Pop()

	for _, p := range fn.Params {
		c.syms.Define(&Symbol{Name: p.Name, Type: p.Type, Kind: SymParam, Qualifier: p.Qualifier})
	}
	c.checkBlock(fn.Body)
}

func (c *Checker) checkBlock(b *BlockStmt) {
	c.syms.Push()
	defer c.syms.Pop()
	for _, st := range b.Stmts {
		c.checkStmt(st)
	}
}

func (c *Checker) checkStmt(st Statement) {
	switch s := st.(type) {
	case *VarDeclStmt:
		t := c.inferExpr(s.Value)
		if s.Type == nil {
			s.Type = t
		}
		c.syms.Define(&Symbol{Name: s.Name, Type: s.Type, Kind: SymLocal, Qualifier: s.Qualifier})
	case *AssignStmt:
		c.inferExpr(s.Target)
		c.inferExpr(s.Value)
	case *ExprStmt:
		c.inferExpr(s.Expr)
	case *BlockStmt:
		c.checkBlock(s)
	case *IfStmt:
		c.inferExpr(s.Cond)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkStmt(s.Else)
		}
	case *WhileStmt:
		c.inferExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ForStmt:
		c.syms.Push()
		if s.Init != nil {
			c.checkStmt(s.Init)
		}
		if s.Cond != nil {
			c.inferExpr(s.Cond)
		}
		if s.Post != nil {
			c.checkStmt(s.Post)
		}
		c.checkBlock(s.Body)
		c.syms.Pop()
	case *ForEachStmt:
		elemType := &Type{Kind: KindUnknown}
		switch it := s.Iterable.(type) {
		case *RangeExpr:
			c.inferExpr(it.Lo)
			c.inferExpr(it.Hi)
			elemType = &Type{Kind: KindLong}
		default:
			arrT := c.inferExpr(s.Iterable)
			if arrT != nil && arrT.Kind == KindArray {
				elemType = arrT.Elem
			}
		}
		c.syms.Push()
		c.syms.Define(&Symbol{Name: s.Var, Type: elemType, Kind: SymLocal})
		c.checkBlock(s.Body)
		c.syms.Pop()
	case *ReturnStmt:
		if s.Value != nil {
			c.inferExpr(s.Value)
			s.TailCall = c.isTailCallToEnclosing(s.Value)
		}
	case *BreakStmt, *ContinueStmt:
		// no type information to resolve
	default:
		c.errs.AddError(FatalError(fmt.Sprintf("checker: unhandled statement %T", st), SourceLocation{}))
	}
}

// isTailCallToEnclosing reports whether expr is a direct call to the
// function currently being checked — the only shape the GLOSSARY's "Tail
// call" definition recognizes for self-recursive elimination (§8 S4).
func (c *Checker) isTailCallToEnclosing(expr Expression) bool {
	call, ok := expr.(*CallExpr)
	if !ok {
		return false
	}
	if c.fn == nil {
		return false
	}
	ident, ok := call.Callee.(*Ident)
	if !ok {
		return false
	}
	return ident.Name == c.fn.Name
}

func (c *Checker) inferExpr(expr Expression) *Type {
	switch e := expr.(type) {
	case *IntLit:
		return &Type{Kind: KindLong}
	case *FloatLit:
		return &Type{Kind: KindDouble}
	case *BoolLit:
		return &Type{Kind: KindBool}
	case *CharLit:
		return &Type{Kind: KindChar}
	case *StringLit:
		for _, part := range e.Parts {
			c.inferExpr(part)
		}
		return &Type{Kind: KindString}
	case *Ident:
		if sym, ok := c.syms.Resolve(e.Name); ok {
			return sym.Type
		}
		suggestion := ""
		if names := c.syms.Current().Names(); len(names) > 0 {
			suggestion = closestName(e.Name, names)
		}
		undef := UndefinedVariableError(e.Name, SourceLocation{}, suggestion)
		undef.Level = LevelFatal
		c.errs.AddError(undef)
		return &Type{Kind: KindUnknown}
	case *ArrayLit:
		var elem *Type
		for _, el := range e.Elems {
			elem = c.inferExpr(el)
		}
		if elem == nil {
			elem = &Type{Kind: KindLong}
		}
		e.Elem = elem
		return &Type{Kind: KindArray, Elem: elem}
	case *RangeExpr:
		c.inferExpr(e.Lo)
		c.inferExpr(e.Hi)
		return &Type{Kind: KindArray, Elem: &Type{Kind: KindLong}}
	case *BinaryExpr:
		lt := c.inferExpr(e.Left)
		rt := c.inferExpr(e.Right)
		switch e.Op {
		case TokEq, TokNeq, TokLt, TokLte, TokGt, TokGte, TokAnd, TokOr:
			e.ResultType = &Type{Kind: KindBool}
		case TokPlus:
			if lt != nil && lt.Kind == KindString {
				e.ResultType = &Type{Kind: KindString}
			} else if lt != nil && lt.Kind == KindDouble || rt != nil && rt.Kind == KindDouble {
				e.ResultType = &Type{Kind: KindDouble}
			} else {
				e.ResultType = wider(lt, rt)
			}
		default:
			if lt != nil && lt.Kind == KindDouble || rt != nil && rt.Kind == KindDouble {
				e.ResultType = &Type{Kind: KindDouble}
			} else {
				e.ResultType = wider(lt, rt)
			}
		}
		return e.ResultType
	case *UnaryExpr:
		t := c.inferExpr(e.Operand)
		if e.Op == TokNot {
			return &Type{Kind: KindBool}
		}
		return t
	case *IndexExpr:
		arrT := c.inferExpr(e.Array)
		c.inferExpr(e.Index)
		if arrT != nil && arrT.Kind == KindArray {
			return arrT.Elem
		}
		return &Type{Kind: KindUnknown}
	case *CallExpr:
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		if ident, ok := e.Callee.(*Ident); ok {
			if sym, ok := c.syms.Resolve(ident.Name); ok {
				if sym.IsFunction && sym.Decl != nil {
					return sym.Decl.ReturnType
				}
				if sym.Type != nil && sym.Type.Kind == KindFunction && sym.Type.Result != nil {
					return sym.Type.Result
				}
				if sym.Type != nil && sym.Type.Kind == KindFunction {
					return &Type{Kind: KindAny}
				}
			}
			if rt, ok := builtinFunctions[ident.Name]; ok {
				return rt
			}
			suggestion := closestName(ident.Name, c.syms.Current().Names())
			undef := UndefinedVariableError(ident.Name, SourceLocation{}, suggestion)
			undef.Level = LevelFatal
			c.errs.AddError(undef)
		}
		return &Type{Kind: KindUnknown}
	case *MemberCallExpr:
		objT := c.inferExpr(e.Object)
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		return inferMethodResult(objT, e.Method)
	case *StaticCallExpr:
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		return inferStaticResult(e.TypeName, e.Method)
	case *LambdaExpr:
		c.syms.Push()
		for _, p := range e.Params {
			c.syms.Define(&Symbol{Name: p.Name, Type: p.Type, Kind: SymParam})
		}
		c.checkBlock(e.Body)
		c.syms.Pop()
		return &Type{Kind: KindFunction}
	default:
		c.errs.AddError(FatalError(fmt.Sprintf("checker: unhandled expression %T", expr), SourceLocation{}))
		return &Type{Kind: KindUnknown}
	}
}

func wider(a, b *Type) *Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Kind == KindLong || b.Kind == KindLong {
		return &Type{Kind: KindLong}
	}
	return a
}

// closestName finds the nearest identifier by edit distance, reusing the
// teacher's Levenshtein helper (internal/engine).
func closestName(name string, candidates []string) string {
	best := ""
	bestDist := 1 << 30
	for _, cand := range candidates {
		d := engine.LevenshteinDistance(name, cand)
		if d < bestDist && d <= 3 && d > 0 {
			bestDist = d
			best = cand
		}
	}
	return best
}
