// Completion: 75% - C3: expression lowering to C text
//
// Grounded on the teacher's expression codegen (the part of codegen.go that
// walked an expression tree and emitted one instruction per node) but
// retargeted from "emit an instruction, return a register" to "emit a C
// expression fragment, return its text". Method and static call dispatch
// reads straight out of stdlib.go's tables so the two files never drift.
package main

import (
	"fmt"
	"strings"
)

// lowerExpr renders expr as a single C expression. typ is the resolved
// type (already attached to the relevant AST node by the checker, except
// where this pass fills one in itself — e.g. BinaryExpr.ResultType).
func (cg *CodeGen) lowerExpr(expr Expression) (string, *Type) {
	if folded, ok := foldConstant(expr); ok {
		if lit := folded; lit != expr {
			return cg.lowerExpr(lit)
		}
	}

	switch e := expr.(type) {
	case *IntLit:
		return fmt.Sprintf("%d", e.Value), &Type{Kind: KindLong}
	case *FloatLit:
		return fmt.Sprintf("%g", e.Value), &Type{Kind: KindDouble}
	case *BoolLit:
		if e.Value {
			return "true", &Type{Kind: KindBool}
		}
		return "false", &Type{Kind: KindBool}
	case *CharLit:
		return fmt.Sprintf("'%s'", escapeCChar(e.Value)), &Type{Kind: KindChar}
	case *StringLit:
		return cg.lowerStringLit(e)
	case *Ident:
		return cg.lowerIdent(e)
	case *ArrayLit:
		return cg.lowerArrayLit(e)
	case *RangeExpr:
		lo, _ := cg.lowerExpr(e.Lo)
		hi, _ := cg.lowerExpr(e.Hi)
		return fmt.Sprintf("rt_array_range(%s, %s, %s)", cg.arenaArg(), lo, hi), &Type{Kind: KindArray, Elem: &Type{Kind: KindLong}}
	case *BinaryExpr:
		return cg.lowerBinary(e)
	case *UnaryExpr:
		return cg.lowerUnary(e)
	case *IndexExpr:
		return cg.lowerIndex(e)
	case *CallExpr:
		return cg.lowerCall(e)
	case *MemberCallExpr:
		return cg.lowerMemberCall(e)
	case *StaticCallExpr:
		return cg.lowerStaticCall(e)
	case *LambdaExpr:
		return cg.lowerLambda(e)
	default:
		return "/* unsupported expr */0", &Type{Kind: KindUnknown}
	}
}

func escapeCChar(b byte) string {
	switch b {
	case '\n':
		return "\\n"
	case '\t':
		return "\\t"
	case '\'':
		return "\\'"
	case '\\':
		return "\\\\"
	default:
		return string(b)
	}
}

func escapeCString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			sb.WriteString("\\n")
		case '\t':
			sb.WriteString("\\t")
		case '"':
			sb.WriteString("\\\"")
		case '\\':
			sb.WriteString("\\\\")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// lowerStringLit renders a plain string as a C string literal, or — when
// Parts carries interpolation segments — as a chain of rt_string_concat
// calls over each segment's toString() form, all allocated in the current
// arena.
func (cg *CodeGen) lowerStringLit(e *StringLit) (string, *Type) {
	strT := &Type{Kind: KindString}
	if len(e.Parts) == 0 {
		return fmt.Sprintf("\"%s\"", escapeCString(e.Value)), strT
	}
	acc := fmt.Sprintf("rt_string_new(%s, \"\")", cg.arenaArg())
	for _, part := range e.Parts {
		if lit, ok := part.(*StringLit); ok && len(lit.Parts) == 0 {
			acc = fmt.Sprintf("rt_string_concat(%s, %s, \"%s\")", cg.arenaArg(), acc, escapeCString(lit.Value))
			continue
		}
		v, t := cg.lowerExpr(part)
		str := v
		if t == nil || t.Kind != KindString {
			str = fmt.Sprintf("rt_to_string(%s, %s)", cg.arenaArg(), cg.boxAny(v, t))
		}
		acc = fmt.Sprintf("rt_string_concat(%s, %s, %s)", cg.arenaArg(), acc, str)
	}
	return acc, strT
}

func (cg *CodeGen) lowerIdent(e *Ident) (string, *Type) {
	sym, ok := cg.syms.Resolve(e.Name)
	if !ok {
		return e.Name, &Type{Kind: KindUnknown}
	}
	if cg.captured[e.Name] && sym.Type != nil && sym.Type.IsPrimitive() {
		return fmt.Sprintf("(*%s)", e.Name), sym.Type
	}
	return e.Name, sym.Type
}

// lowerArrayLit constructs a new array in the current arena from a literal
// element list, per R2's metadata-prefixed layout: capacity is sized exactly
// to len(Elems) on construction.
func (cg *CodeGen) lowerArrayLit(e *ArrayLit) (string, *Type) {
	arrT := &Type{Kind: KindArray, Elem: e.Elem}
	if e.Elem == nil {
		arrT.Elem = &Type{Kind: KindLong}
	}
	suf := arrT.ArraySuffix()
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		v, _ := cg.lowerExpr(el)
		parts[i] = v
	}
	return fmt.Sprintf("rt_array_literal_%s(%s, %d, (%s[]){%s})",
		suf, cg.arenaArg(), len(parts), arrT.Elem.CType(), strings.Join(parts, ", ")), arrT
}

// lowerBinary applies §4.5's two arithmetic modes: CHECKED traps on
// overflow/div-by-zero via rt_checked_* calls; UNCHECKED uses native C
// operators for everything except division/modulo, which always go through
// the runtime's division-by-zero guard regardless of mode.
func (cg *CodeGen) lowerBinary(e *BinaryExpr) (string, *Type) {
	l, lt := cg.lowerExpr(e.Left)
	r, rt := cg.lowerExpr(e.Right)

	isArith := e.Op == TokPlus || e.Op == TokMinus || e.Op == TokStar || e.Op == TokSlash || e.Op == TokPercent
	isString := lt != nil && lt.Kind == KindString

	if isArith && isString && e.Op == TokPlus {
		return fmt.Sprintf("rt_string_concat(%s, %s, %s)", cg.arenaArg(), l, r), &Type{Kind: KindString}
	}

	isFloat := (lt != nil && lt.Kind == KindDouble) || (rt != nil && rt.Kind == KindDouble)

	if isArith && !isFloat {
		switch e.Op {
		case TokSlash:
			return fmt.Sprintf("rt_checked_div(%s, %s)", l, r), &Type{Kind: KindLong}
		case TokPercent:
			return fmt.Sprintf("rt_checked_mod(%s, %s)", l, r), &Type{Kind: KindLong}
		}
		if cg.arithMode == ArithChecked {
			fn := map[TokenType]string{TokPlus: "rt_checked_add", TokMinus: "rt_checked_sub", TokStar: "rt_checked_mul"}[e.Op]
			return fmt.Sprintf("%s(%s, %s)", fn, l, r), &Type{Kind: KindLong}
		}
	}

	cop := map[TokenType]string{
		TokPlus: "+", TokMinus: "-", TokStar: "*", TokSlash: "/", TokPercent: "%",
		TokEq: "==", TokNeq: "!=", TokLt: "<", TokLte: "<=", TokGt: ">", TokGte: ">=",
		TokAnd: "&&", TokOr: "||",
	}[e.Op]

	resultType := e.ResultType
	if resultType == nil {
		resultType = &Type{Kind: KindLong}
		if isFloat {
			resultType = &Type{Kind: KindDouble}
		}
	}
	return fmt.Sprintf("(%s %s %s)", l, cop, r), resultType
}

func (cg *CodeGen) lowerUnary(e *UnaryExpr) (string, *Type) {
	v, t := cg.lowerExpr(e.Operand)
	switch e.Op {
	case TokMinus:
		return fmt.Sprintf("(-%s)", v), t
	case TokNot:
		return fmt.Sprintf("(!%s)", v), &Type{Kind: KindBool}
	}
	return v, t
}

// lowerIndex emits a bounds-checked array read, unless the index is known
// to be a provably non-negative, in-range loop counter (§4.3's
// loop-counter-name stack, the index-bounds elision described there).
func (cg *CodeGen) lowerIndex(e *IndexExpr) (string, *Type) {
	arr, arrT := cg.lowerExpr(e.Array)
	idx, _ := cg.lowerExpr(e.Index)

	elemT := &Type{Kind: KindUnknown}
	if arrT != nil && arrT.Kind == KindArray {
		elemT = arrT.Elem
	}

	if ident, ok := e.Index.(*Ident); ok && cg.isElidableLoopCounter(ident.Name) {
		return fmt.Sprintf("%s[%s]", arr, idx), elemT
	}
	return fmt.Sprintf("rt_array_get_checked_%s(%s, %s, %s)", arrT.ArraySuffix(), cg.arenaArg(), arr, idx), elemT
}

func (cg *CodeGen) isElidableLoopCounter(name string) bool {
	for _, n := range cg.loopCounterStack {
		if n == name {
			return true
		}
	}
	return false
}

// lowerCall dispatches a bare `name(args...)` call: a named function (with
// the hidden arena argument threaded in when the callee is SHARED), or an
// indirect call through a local variable of function type (a closure
// value). Closures are called through a uniform RtAny-boxed convention
// (rt_closure_call) since the callee's real parameter types are erased once
// it's stored as a bare RtClosureFn pointer.
func (cg *CodeGen) lowerCall(e *CallExpr) (string, *Type) {
	args := make([]string, len(e.Args))
	argTypes := make([]*Type, len(e.Args))
	for i, a := range e.Args {
		v, t := cg.lowerExpr(a)
		args[i] = v
		argTypes[i] = t
	}

	if ident, ok := e.Callee.(*Ident); ok {
		if sym, ok := cg.syms.Resolve(ident.Name); ok && sym.IsFunction && sym.Decl != nil {
			callArgs := args
			if effectiveShared(sym.Decl) {
				callArgs = append([]string{cg.arenaArg()}, args...)
			}
			return fmt.Sprintf("%s(%s)", ident.Name, strings.Join(callArgs, ", ")), sym.Decl.ReturnType
		}
		if rt, ok := builtinFunctions[ident.Name]; ok {
			return cg.lowerBuiltinCall(ident.Name, args, argTypes), rt
		}
		// Closure call through a local variable: box every argument into an
		// RtAny so the call site never needs to know the lambda's real
		// parameter types.
		boxed := make([]string, len(args))
		for i, v := range args {
			boxed[i] = cg.boxAny(v, argTypes[i])
		}
		argsLit := "NULL"
		if len(boxed) > 0 {
			argsLit = fmt.Sprintf("(RtAny[]){%s}", strings.Join(boxed, ", "))
		}
		return fmt.Sprintf("rt_closure_call(%s, %s, %s, %d)", ident.Name, cg.arenaArg(), argsLit, len(boxed)), &Type{Kind: KindAny}
	}
	return "/* unsupported call target */0", &Type{Kind: KindUnknown}
}

// boxAny wraps a C expression of the given type into an RtAny value.
func (cg *CodeGen) boxAny(expr string, t *Type) string {
	if t == nil {
		t = &Type{Kind: KindLong}
	}
	switch t.Kind {
	case KindAny:
		return expr
	case KindDouble:
		return fmt.Sprintf("rt_any_from_double(%s)", expr)
	case KindBool:
		return fmt.Sprintf("rt_any_from_bool(%s)", expr)
	case KindString:
		return fmt.Sprintf("rt_any_from_string(%s)", expr)
	case KindInt, KindLong, KindByte, KindChar:
		return fmt.Sprintf("rt_any_from_long((int64_t)(%s))", expr)
	case KindTime:
		return fmt.Sprintf("rt_any_from_time(%s)", expr)
	case KindUUID:
		return fmt.Sprintf("rt_any_from_uuid(%s)", expr)
	default:
		return fmt.Sprintf("rt_any_from_ptr((void*)(%s))", expr)
	}
}

// unboxAny reverses boxAny: given an RtAny-valued expression, produce a C
// expression of the requested type.
func (cg *CodeGen) unboxAny(expr string, t *Type) string {
	if t == nil {
		t = &Type{Kind: KindLong}
	}
	switch t.Kind {
	case KindAny:
		return expr
	case KindDouble:
		return fmt.Sprintf("rt_any_as_double(%s)", expr)
	case KindBool:
		return fmt.Sprintf("rt_any_as_bool(%s)", expr)
	case KindString:
		return fmt.Sprintf("rt_any_as_string(%s)", expr)
	case KindInt:
		return fmt.Sprintf("(int32_t)rt_any_as_long(%s)", expr)
	case KindByte:
		return fmt.Sprintf("(uint8_t)rt_any_as_long(%s)", expr)
	case KindChar:
		return fmt.Sprintf("(char)rt_any_as_long(%s)", expr)
	case KindLong:
		return fmt.Sprintf("rt_any_as_long(%s)", expr)
	case KindTime:
		return fmt.Sprintf("rt_any_as_time(%s)", expr)
	case KindUUID:
		return fmt.Sprintf("rt_any_as_uuid(%s)", expr)
	default:
		return fmt.Sprintf("(%s)rt_any_as_ptr(%s)", t.CType(), expr)
	}
}

// lowerBuiltinCall dispatches the handful of free functions that take a
// receiver of any type (print, toString, length). print/toString box their
// operands into RtAny so the runtime can switch on the value's own dynamic
// tag instead of needing one C function per static type; length stays
// statically dispatched since the checker already knows whether it's
// looking at a string or an array.
func (cg *CodeGen) lowerBuiltinCall(name string, args []string, argTypes []*Type) string {
	switch name {
	case "print":
		if len(args) == 0 {
			return "rt_print(0, NULL)"
		}
		boxed := make([]string, len(args))
		for i, v := range args {
			var t *Type
			if i < len(argTypes) {
				t = argTypes[i]
			}
			boxed[i] = cg.boxAny(v, t)
		}
		return fmt.Sprintf("rt_print(%d, (RtAny[]){%s})", len(boxed), strings.Join(boxed, ", "))
	case "toString":
		var t *Type
		if len(argTypes) > 0 {
			t = argTypes[0]
		}
		return fmt.Sprintf("rt_to_string(%s, %s)", cg.arenaArg(), cg.boxAny(args[0], t))
	case "length":
		if len(argTypes) > 0 && argTypes[0] != nil && argTypes[0].Kind == KindString {
			return fmt.Sprintf("rt_string_length(%s)", args[0])
		}
		return fmt.Sprintf("rt_array_length(%s)", args[0])
	case "sleep":
		return fmt.Sprintf("rt_time_sleep_ms(%s)", strings.Join(args, ", "))
	default:
		return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
	}
}

// lowerMemberCall dispatches `obj.method(args)` through stdlib.go's method
// tables: array/string operations that allocate take the current arena as
// their leading runtime argument.
func (cg *CodeGen) lowerMemberCall(e *MemberCallExpr) (string, *Type) {
	obj, objT := cg.lowerExpr(e.Object)
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		v, _ := cg.lowerExpr(a)
		args[i] = v
	}

	var table map[string]methodBinding
	if objT != nil {
		switch objT.Kind {
		case KindArray:
			table = arrayMethods(objT.Elem)
		case KindString:
			table = stringMethods
		case KindTextFile:
			table = textFileMethods
		case KindBinaryFile:
			table = binaryFileMethods
		case KindRandom:
			table = randomMethods
		case KindTCPConn:
			table = tcpMethods
		case KindUDPConn:
			table = udpMethods
		}
	}
	binding, ok := table[e.Method]
	if !ok {
		return fmt.Sprintf("/* unknown method %s */0", e.Method), &Type{Kind: KindUnknown}
	}
	callArgs := []string{obj}
	if binding.NeedsArg {
		callArgs = append([]string{cg.arenaArg()}, callArgs...)
	}
	callArgs = append(callArgs, args...)
	if e.Method == "slice" {
		// arr.slice(start, end) never exposes a step at the surface level;
		// the runtime's rt_array_slice_<T> takes one anyway (§6's ABI),
		// so every call site passes the "no step given" sentinel.
		callArgs = append(callArgs, "RT_SLICE_STEP_ABSENT")
	}
	return fmt.Sprintf("%s(%s)", binding.RtSymbol, strings.Join(callArgs, ", ")), binding.Result
}

// lowerStaticCall dispatches `Type.method(args)` through staticCallTable.
func (cg *CodeGen) lowerStaticCall(e *StaticCallExpr) (string, *Type) {
	table, ok := staticCallTable[e.TypeName]
	if !ok {
		return fmt.Sprintf("/* unknown type %s */0", e.TypeName), &Type{Kind: KindUnknown}
	}
	binding, ok := table[e.Method]
	if !ok {
		return fmt.Sprintf("/* unknown static method %s.%s */0", e.TypeName, e.Method), &Type{Kind: KindUnknown}
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		v, _ := cg.lowerExpr(a)
		args[i] = v
	}
	needsArena := binding.Result != nil && binding.Result.IsHeap()
	allArgs := args
	if needsArena || binding.Result.Kind == KindTextFile || binding.Result.Kind == KindBinaryFile ||
		binding.Result.Kind == KindRandom || binding.Result.Kind == KindTCPConn || binding.Result.Kind == KindUDPConn {
		allArgs = append([]string{cg.arenaArg()}, args...)
	}
	return fmt.Sprintf("%s(%s)", binding.RtSymbol, strings.Join(allArgs, ", ")), binding.Result
}

// lowerLambda allocates an RtClosure in the current arena: a function
// pointer to a synthesized top-level C function plus an environment holding
// each captured variable's C value: for an AS_REF primitive that is its
// heap-cell pointer (so mutations inside the closure are visible to the
// enclosing scope and vice versa, per the AS_REF capture contract built by
// C2); for a string, array or closure local it is the heap pointer itself.
func (cg *CodeGen) lowerLambda(e *LambdaExpr) (string, *Type) {
	fnName := fmt.Sprintf("__lambda_%s__", cg.newLabel("fn"))
	envFields := make([]string, len(e.Captures))
	envTypes := make([]*Type, len(e.Captures))
	for i, name := range e.Captures {
		envFields[i] = name
		if sym, ok := cg.syms.Resolve(name); ok {
			envTypes[i] = sym.Type
		}
	}
	cg.emitLambdaDefinition(fnName, e, envFields, envTypes)

	if len(envFields) == 0 {
		return fmt.Sprintf("rt_closure_new(%s, (RtClosureFn)%s, NULL, 0)", cg.arenaArg(), fnName), &Type{Kind: KindFunction}
	}
	envLit := fmt.Sprintf("(void*[]){%s}", strings.Join(envFields, ", "))
	return fmt.Sprintf("rt_closure_new(%s, (RtClosureFn)%s, %s, %d)", cg.arenaArg(), fnName, envLit, len(envFields)), &Type{Kind: KindFunction}
}

// emitLambdaDefinition writes the synthesized C function for a lambda body
// directly into the definitions buffer, ahead of the enclosing function's
// own definition in file order (lowerLambda runs mid-way through the
// enclosing function's lowering, before that function's accumulated body
// text is flushed), so no forward declaration is needed.
//
// Every lambda shares one calling convention regardless of its declared
// parameter types: RtAny(RtArena*, RtAny *args, size_t argc, void **env).
// That's what makes rt_closure_call uniform — the alternative, emitting a
// distinct C function-pointer type per lambda signature, would need the
// call site to know a closure's real parameter types, which a bare
// RtClosureFn-typed local variable no longer carries.
func (cg *CodeGen) emitLambdaDefinition(fnName string, lam *LambdaExpr, envFields []string, envTypes []*Type) {
	savedOutStr := cg.out.String()
	cg.out.Reset()
	savedArena := cg.currentArenaVar
	savedLoopStack := cg.loopStack
	savedPrivateStack := cg.privateBlockStack
	savedLoopCounters := cg.loopCounterStack
	savedFn := cg.fn
	savedCaptured := cg.captured

	cg.currentArenaVar = "__caller_arena__"
	cg.loopStack = nil
	cg.privateBlockStack = nil
	cg.loopCounterStack = nil
	cg.fn = &FuncDecl{Name: fnName, ReturnType: &Type{Kind: KindAny}, Modifier: ModShared}
	cg.captured = make(map[string]bool)

	cg.syms.Push()
	for i, p := range lam.Params {
		pt := p.Type
		if pt == nil || pt.Kind == KindUnknown {
			pt = &Type{Kind: KindLong}
		}
		lam.Params[i].Type = pt
		cg.syms.Define(&Symbol{Name: p.Name, Type: pt, Kind: SymParam})
		cg.writeIndent(1, "%s %s = %s;\n", pt.CType(), p.Name, cg.unboxAny(fmt.Sprintf("__args__[%d]", i), pt))
	}
	for i, name := range envFields {
		ct := envTypes[i]
		if ct == nil {
			ct = &Type{Kind: KindLong}
		}
		if ct.IsHeap() {
			cg.writeIndent(1, "%s %s = (%s)__env__[%d];\n", ct.CType(), name, ct.CType(), i)
		} else {
			cg.writeIndent(1, "%s *%s = (%s*)__env__[%d];\n", ct.CType(), name, ct.CType(), i)
		}
		cg.syms.Define(&Symbol{Name: name, Type: ct, Kind: SymLocal, Qualifier: QualAsRef})
		cg.captured[name] = true
	}

	cg.lowerBlock(lam.Body, 1)
	if !bodyAlwaysReturns(lam.Body) {
		cg.writeIndent(1, "return rt_any_nil();\n")
	}
	cg.syms.Pop()

	body := cg.out.String()
	cg.out.Reset()
	cg.out.WriteString(savedOutStr)

	cg.currentArenaVar = savedArena
	cg.loopStack = savedLoopStack
	cg.privateBlockStack = savedPrivateStack
	cg.loopCounterStack = savedLoopCounters
	cg.fn = savedFn
	cg.captured = savedCaptured

	cg.definitions.WriteString(fmt.Sprintf("static RtAny %s(RtArena *__caller_arena__, RtAny *__args__, size_t __argc__, void **__env__) {\n", fnName))
	cg.definitions.WriteString("    (void)__argc__;\n")
	cg.definitions.WriteString(body)
	cg.definitions.WriteString("}\n\n")
}
