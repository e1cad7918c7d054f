// Completion: 100% - AST covers the full ArcLang surface grammar
package main

// Node is any AST node; String renders a debug form, not emitted C.
type Node interface {
	String() string
}

// Statement is a top-level or block-level construct.
type Statement interface {
	Node
	statementNode()
}

// Expression produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Functions []*FuncDecl
}

func (p *Program) String() string { return "Program" }

// Param is one function parameter.
type Param struct {
	Name      string
	Type      *Type
	Qualifier MemoryQualifier
}

// FuncDecl is a function declaration, including `main`.
type FuncDecl struct {
	Name       string
	Params     []*Param
	ReturnType *Type
	Modifier   FunctionModifier
	Body       *BlockStmt

	// Filled in by the checker / codegen; see §3 CodeGen state and §4.7.
	IsMain         bool
	EffectiveShare bool // raw Modifier == ModShared OR (ReturnType.IsHeap() && !IsMain)
	UsesHeapTypes  bool
	NeedsArena     bool
	HasTailCall    bool
}

func (f *FuncDecl) statementNode() {}
func (f *FuncDecl) String() string { return "fn " + f.Name }

// BlockStmt is `{ stmts... }`, optionally tagged private/shared.
type BlockStmt struct {
	Stmts    []Statement
	Modifier FunctionModifier // ModDefault (lexically scoped only), ModPrivate, or ModShared
}

func (b *BlockStmt) statementNode() {}
func (b *BlockStmt) String() string { return "block" }

// VarDeclStmt is `var name [: type] = expr`.
type VarDeclStmt struct {
	Name      string
	Type      *Type // nil if inferred from Value
	Value     Expression
	Qualifier MemoryQualifier // upgraded to QualAsRef by capture analysis
	Captured  bool            // true when C2 found this name captured by a nested lambda
}

func (v *VarDeclStmt) statementNode() {}
func (v *VarDeclStmt) String() string { return "var " + v.Name }

// AssignStmt is `name = expr` or `target[idx] = expr`.
type AssignStmt struct {
	Target Expression // Identifier or IndexExpr
	Value  Expression
}

func (a *AssignStmt) statementNode() {}
func (a *AssignStmt) String() string { return "assign" }

// ExprStmt is an expression evaluated for side effects, e.g. a call.
type ExprStmt struct {
	Expr Expression
}

func (e *ExprStmt) statementNode() {}
func (e *ExprStmt) String() string { return "exprstmt" }

// IfStmt is `if cond { then } [else { alt }]`.
type IfStmt struct {
	Cond Expression
	Then *BlockStmt
	Else Statement // *BlockStmt or *IfStmt, nil if absent
}

func (i *IfStmt) statementNode() {}
func (i *IfStmt) String() string { return "if" }

// WhileStmt is `while cond { body }`.
type WhileStmt struct {
	Cond Expression
	Body *BlockStmt
}

func (w *WhileStmt) statementNode() {}
func (w *WhileStmt) String() string { return "while" }

// ForStmt is the C-style `for init; cond; post { body }`.
type ForStmt struct {
	Init *VarDeclStmt // may be nil
	Cond Expression   // may be nil
	Post Statement    // may be nil, usually an AssignStmt
	Body *BlockStmt
}

func (f *ForStmt) statementNode() {}
func (f *ForStmt) String() string { return "for" }

// ForEachStmt is `for name in iterable { body }` where iterable is a
// RangeExpr or an array-valued expression. Desugared per §4.6.
type ForEachStmt struct {
	Var      string
	Iterable Expression
	Body     *BlockStmt
}

func (f *ForEachStmt) statementNode() {}
func (f *ForEachStmt) String() string { return "foreach" }

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	Value    Expression // nil for void return
	TailCall bool        // set by the checker when Value is a call to the enclosing function
}

func (r *ReturnStmt) statementNode() {}
func (r *ReturnStmt) String() string { return "return" }

// BreakStmt is `break`.
type BreakStmt struct{}

func (b *BreakStmt) statementNode() {}
func (b *BreakStmt) String() string { return "break" }

// ContinueStmt is `continue`.
type ContinueStmt struct{}

func (c *ContinueStmt) statementNode() {}
func (c *ContinueStmt) String() string { return "continue" }

// ---- Expressions ----

// Ident is a bare identifier reference.
type Ident struct {
	Name string
}

func (i *Ident) expressionNode() {}
func (i *Ident) String() string  { return i.Name }

// IntLit is an integer literal (int or long depending on context).
type IntLit struct {
	Value int64
}

func (n *IntLit) expressionNode() {}
func (n *IntLit) String() string  { return "int" }

// FloatLit is a double literal.
type FloatLit struct {
	Value float64
}

func (n *FloatLit) expressionNode() {}
func (n *FloatLit) String() string  { return "float" }

// BoolLit is `true`/`false`.
type BoolLit struct {
	Value bool
}

func (n *BoolLit) expressionNode() {}
func (n *BoolLit) String() string  { return "bool" }

// StringLit is a string literal, possibly with `{expr}` interpolation
// segments recorded in Parts (nil Parts means no interpolation).
type StringLit struct {
	Value string
	Parts []Expression // interpolation pieces in source order, may be empty
}

func (n *StringLit) expressionNode() {}
func (n *StringLit) String() string  { return "string" }

// CharLit is a single-character literal.
type CharLit struct {
	Value byte
}

func (n *CharLit) expressionNode() {}
func (n *CharLit) String() string  { return "char" }

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	Elems []Expression
	Elem  *Type // element type, filled by the checker
}

func (n *ArrayLit) expressionNode() {}
func (n *ArrayLit) String() string  { return "array" }

// RangeExpr is `lo..hi`, used by for-each and by array slicing sugar.
type RangeExpr struct {
	Lo, Hi Expression
}

func (n *RangeExpr) expressionNode() {}
func (n *RangeExpr) String() string  { return "range" }

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Op          TokenType
	Left, Right Expression
	ResultType  *Type // filled by the checker
}

func (n *BinaryExpr) expressionNode() {}
func (n *BinaryExpr) String() string  { return "binary" }

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	Op      TokenType
	Operand Expression
}

func (n *UnaryExpr) expressionNode() {}
func (n *UnaryExpr) String() string  { return "unary" }

// CallExpr is `callee(args...)` where callee is a plain identifier —
// either a named function or a local variable of function type (closure
// call), disambiguated at lowering time per §4.4.
type CallExpr struct {
	Callee Expression
	Args   []Expression
}

func (n *CallExpr) expressionNode() {}
func (n *CallExpr) String() string  { return "call" }

// MemberCallExpr is `obj.method(args...)`.
type MemberCallExpr struct {
	Object Expression
	Method string
	Args   []Expression
}

func (n *MemberCallExpr) expressionNode() {}
func (n *MemberCallExpr) String() string  { return "membercall" }

// StaticCallExpr is `Type.method(args...)`, dispatched by literal type
// token text (e.g. `Environment.get("HOME")`).
type StaticCallExpr struct {
	TypeName string
	Method   string
	Args     []Expression
}

func (n *StaticCallExpr) expressionNode() {}
func (n *StaticCallExpr) String() string  { return "staticcall" }

// IndexExpr is `arr[idx]`.
type IndexExpr struct {
	Array Expression
	Index Expression
}

func (n *IndexExpr) expressionNode() {}
func (n *IndexExpr) String() string  { return "index" }

// LambdaExpr is `|p1: T1, p2: T2| { body }` or `|p1| expr`.
type LambdaExpr struct {
	Params []*Param
	Body   *BlockStmt

	// Filled by C2 capture analysis before this lambda's enclosing
	// function is emitted.
	Captures []string
}

func (n *LambdaExpr) expressionNode() {}
func (n *LambdaExpr) String() string  { return "lambda" }
