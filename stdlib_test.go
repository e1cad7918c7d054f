package main

import "testing"

func TestInferMethodResultArrayPush(t *testing.T) {
	elem := prim(KindLong)
	got := inferMethodResult(&Type{Kind: KindArray, Elem: elem}, "push")
	if got.Kind != KindArray || got.Elem.Kind != KindLong {
		t.Errorf("push result = %+v, want array of long", got)
	}
}

func TestInferMethodResultArrayPop(t *testing.T) {
	elem := prim(KindString)
	got := inferMethodResult(&Type{Kind: KindArray, Elem: elem}, "pop")
	if got.Kind != KindString {
		t.Errorf("pop result = %+v, want string", got)
	}
}

func TestInferMethodResultStringMethods(t *testing.T) {
	recv := prim(KindString)
	if got := inferMethodResult(recv, "length"); got.Kind != KindLong {
		t.Errorf("length result = %v, want long", got.Kind)
	}
	if got := inferMethodResult(recv, "split"); got.Kind != KindArray || got.Elem.Kind != KindString {
		t.Errorf("split result = %+v, want array of string", got)
	}
}

func TestInferMethodResultUnknownMethod(t *testing.T) {
	got := inferMethodResult(prim(KindString), "notAMethod")
	if got.Kind != KindUnknown {
		t.Errorf("unknown method result = %v, want KindUnknown", got.Kind)
	}
}

func TestInferMethodResultNilReceiver(t *testing.T) {
	got := inferMethodResult(nil, "anything")
	if got.Kind != KindUnknown {
		t.Errorf("nil receiver result = %v, want KindUnknown", got.Kind)
	}
}

func TestInferStaticResultKnownEntries(t *testing.T) {
	cases := []struct {
		typeName, method string
		want             TypeKind
	}{
		{"TextFile", "open", KindTextFile},
		{"Time", "now", KindTime},
		{"Random", "seeded", KindRandom},
		{"Uuid", "v4", KindUUID},
		{"Tcp", "connect", KindTCPConn},
		{"Environment", "getBool", KindBool},
	}
	for _, c := range cases {
		got := inferStaticResult(c.typeName, c.method)
		if got.Kind != c.want {
			t.Errorf("%s.%s result = %v, want %v", c.typeName, c.method, got.Kind, c.want)
		}
	}
}

func TestInferStaticResultUnknownType(t *testing.T) {
	got := inferStaticResult("NotAType", "open")
	if got.Kind != KindUnknown {
		t.Errorf("unknown static type result = %v, want KindUnknown", got.Kind)
	}
}

func TestArrayMethodsRtSymbolUsesElementSuffix(t *testing.T) {
	longArr := arrayMethods(prim(KindLong))
	strArr := arrayMethods(prim(KindString))
	if longArr["push"].RtSymbol == strArr["push"].RtSymbol {
		t.Error("expected distinct rt_array_push_<suffix> symbols for long vs string element arrays")
	}
}

func TestBuiltinFunctionsRegistered(t *testing.T) {
	for _, name := range []string{"print", "toString", "length", "sleep"} {
		if _, ok := builtinFunctions[name]; !ok {
			t.Errorf("expected builtin function %q to be registered", name)
		}
	}
}
