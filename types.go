// Completion: 100% - Type system complete for the arena-relevant subset
package main

import "fmt"

// TypeKind is the category of an ArcLang type.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindVoid
	KindInt
	KindLong
	KindDouble
	KindBool
	KindByte
	KindChar
	KindString
	KindArray
	KindFunction
	KindAny

	// Opaque runtime handle types (R3 value library). These are never
	// constructed from literals; only from the corresponding static
	// call (TextFile.open, Time.now, ...) or method chain.
	KindTextFile
	KindBinaryFile
	KindTime
	KindRandom
	KindUUID
	KindTCPConn
	KindUDPConn
	KindBytes
)

// Type describes an ArcLang value's static type. Array and Function types
// carry their element/signature via Elem/Params/Result.
type Type struct {
	Kind   TypeKind
	Elem   *Type   // element type, for KindArray
	Params []*Type // parameter types, for KindFunction
	Result *Type   // return type, for KindFunction
}

func (t *Type) String() string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindArray:
		return fmt.Sprintf("%s[]", t.Elem.String())
	case KindFunction:
		return "fn"
	case KindAny:
		return "any"
	case KindTextFile:
		return "TextFile"
	case KindBinaryFile:
		return "BinaryFile"
	case KindTime:
		return "Time"
	case KindRandom:
		return "Random"
	case KindUUID:
		return "Uuid"
	case KindTCPConn:
		return "TcpConn"
	case KindUDPConn:
		return "UdpConn"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether the type is one of the primitives that C2's
// capture analysis lifts to AS_REF when closed over.
func (t *Type) IsPrimitive() bool {
	switch t.Kind {
	case KindInt, KindLong, KindDouble, KindBool, KindByte, KindChar:
		return true
	default:
		return false
	}
}

// IsHeap reports whether values of this type live in arena-owned storage
// and must be promoted across an arena boundary — string, array, or
// closure (function value). This is §3's "returns_heap_type" predicate.
func (t *Type) IsHeap() bool {
	switch t.Kind {
	case KindString, KindArray, KindFunction:
		return true
	default:
		return false
	}
}

// ArraySuffix returns the R2 element-type suffix used in runtime symbol
// names (rt_array_push_<suffix>), per §3 invariant I8.
func (t *Type) ArraySuffix() string {
	if t == nil || t.Kind != KindArray {
		return ""
	}
	switch t.Elem.Kind {
	case KindLong, KindInt:
		return "long"
	case KindDouble:
		return "double"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindString:
		return "string"
	default:
		return "ptr"
	}
}

// CType returns the C type used to declare a variable of this type in
// emitted code.
func (t *Type) CType() string {
	switch t.Kind {
	case KindVoid:
		return "void"
	case KindInt:
		return "int32_t"
	case KindLong:
		return "int64_t"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindByte:
		return "uint8_t"
	case KindChar:
		return "char"
	case KindString:
		return "char*"
	case KindArray:
		return elemCType(t.Elem) + "*"
	case KindFunction:
		return "RtClosure*"
	case KindAny:
		return "RtAny"
	case KindTextFile:
		return "RtTextFile*"
	case KindBinaryFile:
		return "RtBinaryFile*"
	case KindTime:
		return "RtTime"
	case KindRandom:
		return "RtRandom*"
	case KindUUID:
		return "RtUuid"
	case KindTCPConn:
		return "RtTcpConn*"
	case KindUDPConn:
		return "RtUdpConn*"
	case KindBytes:
		return "uint8_t*"
	default:
		return "void*"
	}
}

func elemCType(t *Type) string {
	if t == nil {
		return "void*"
	}
	return t.CType()
}

// ZeroValue is the C literal used to default-initialize `_return_value`
// and declarations of this type, per §4.7 body-prelude step 2.
func (t *Type) ZeroValue() string {
	switch t.Kind {
	case KindVoid:
		return ""
	case KindInt, KindLong:
		return "0"
	case KindDouble:
		return "0.0"
	case KindBool:
		return "false"
	case KindByte, KindChar:
		return "0"
	case KindString, KindArray, KindFunction, KindTextFile, KindBinaryFile,
		KindRandom, KindTCPConn, KindUDPConn, KindBytes:
		return "NULL"
	case KindAny:
		return "rt_any_nil()"
	case KindTime:
		return "(RtTime){0}"
	case KindUUID:
		return "(RtUuid){0}"
	default:
		return "NULL"
	}
}

// MemoryQualifier controls how a variable declaration is emitted: a
// straightforward value, a captured-primitive reference cell, or a
// deep-cloned value.
type MemoryQualifier int

const (
	QualDefault MemoryQualifier = iota
	QualAsRef
	QualAsVal
)

// FunctionModifier is DEFAULT (owns its own arena), PRIVATE (same as
// default, but lexically scoped as a block would be), or SHARED (borrows
// the caller's arena via a hidden first parameter).
type FunctionModifier int

const (
	ModDefault FunctionModifier = iota
	ModPrivate
	ModShared
)

func (m FunctionModifier) String() string {
	switch m {
	case ModPrivate:
		return "private"
	case ModShared:
		return "shared"
	default:
		return "default"
	}
}
