// Completion: 90% - Standard-library surface: method/static-call registries
//
// spec.md §1 puts "the wire-level details of individual standard-library
// method bindings ... beyond their arena/lifetime contract" out of scope.
// This file is the minimal shared registry the checker (type inference)
// and C3 expression lowering (dispatch) both need: for each receiver type
// and method/static name, what it returns and which rt_<category>_<op>
// symbol it lowers to. The arena/lifetime contract itself — who owns the
// returned value, whether a handle gets tracked — is enforced in
// expr_lowering.go and in runtime/*.c, not here.
package main

// methodBinding describes one `obj.method(...)` or `Type.method(...)`
// entry point.
type methodBinding struct {
	Result   *Type
	RtSymbol string // rt_<category>_<op>
	NeedsArg bool   // true if the runtime call needs the arena as first arg
}

func prim(k TypeKind) *Type { return &Type{Kind: k} }

// arrayMethods returns the method table for an array of the given element
// type, per §4.2's operation list.
func arrayMethods(elem *Type) map[string]methodBinding {
	arrT := &Type{Kind: KindArray, Elem: elem}
	suf := arrT.ArraySuffix()
	return map[string]methodBinding{
		"push":     {Result: arrT, RtSymbol: "rt_array_push_" + suf, NeedsArg: true},
		"pop":      {Result: elem, RtSymbol: "rt_array_pop_" + suf},
		"clear":    {Result: prim(KindVoid), RtSymbol: "rt_array_clear_" + suf},
		"length":   {Result: prim(KindLong), RtSymbol: "rt_array_length"},
		"slice":    {Result: arrT, RtSymbol: "rt_array_slice_" + suf, NeedsArg: true},
		"reverse":  {Result: arrT, RtSymbol: "rt_array_reverse_" + suf, NeedsArg: true},
		"clone":    {Result: arrT, RtSymbol: "rt_array_clone_" + suf, NeedsArg: true},
		"concat":   {Result: arrT, RtSymbol: "rt_array_concat_" + suf, NeedsArg: true},
		"indexOf":  {Result: prim(KindLong), RtSymbol: "rt_array_index_of_" + suf},
		"contains": {Result: prim(KindBool), RtSymbol: "rt_array_contains_" + suf},
		"join":     {Result: prim(KindString), RtSymbol: "rt_array_join_" + suf, NeedsArg: true},
		"equals":   {Result: prim(KindBool), RtSymbol: "rt_array_equals_" + suf},
	}
}

// stringMethods is the mutable-string method table per §4.2.
var stringMethods = map[string]methodBinding{
	"append":    {Result: prim(KindString), RtSymbol: "rt_string_append", NeedsArg: true},
	"length":    {Result: prim(KindLong), RtSymbol: "rt_string_length"},
	"indexOf":   {Result: prim(KindLong), RtSymbol: "rt_string_index_of"},
	"contains":  {Result: prim(KindBool), RtSymbol: "rt_string_contains"},
	"substring": {Result: prim(KindString), RtSymbol: "rt_string_substring", NeedsArg: true},
	"split":     {Result: &Type{Kind: KindArray, Elem: prim(KindString)}, RtSymbol: "rt_string_split", NeedsArg: true},
	"toUpper":   {Result: prim(KindString), RtSymbol: "rt_string_to_upper", NeedsArg: true},
	"toLower":   {Result: prim(KindString), RtSymbol: "rt_string_to_lower", NeedsArg: true},
	"trim":      {Result: prim(KindString), RtSymbol: "rt_string_trim", NeedsArg: true},
	"equals":    {Result: prim(KindBool), RtSymbol: "rt_string_equals"},
}

var textFileMethods = map[string]methodBinding{
	"readLine": {Result: prim(KindString), RtSymbol: "rt_text_file_read_line", NeedsArg: true},
	"writeLine": {Result: prim(KindVoid), RtSymbol: "rt_text_file_write_line"},
	"write":    {Result: prim(KindVoid), RtSymbol: "rt_text_file_write"},
	"eof":      {Result: prim(KindBool), RtSymbol: "rt_text_file_eof"},
	"close":    {Result: prim(KindVoid), RtSymbol: "rt_text_file_close"},
}

var binaryFileMethods = map[string]methodBinding{
	"read":  {Result: prim(KindBytes), RtSymbol: "rt_binary_file_read", NeedsArg: true},
	"write": {Result: prim(KindLong), RtSymbol: "rt_binary_file_write"},
	"close": {Result: prim(KindVoid), RtSymbol: "rt_binary_file_close"},
}

var randomMethods = map[string]methodBinding{
	"nextInt":    {Result: prim(KindInt), RtSymbol: "rt_random_next_int"},
	"nextLong":   {Result: prim(KindLong), RtSymbol: "rt_random_next_long"},
	"nextDouble": {Result: prim(KindDouble), RtSymbol: "rt_random_next_double"},
	"nextBool":   {Result: prim(KindBool), RtSymbol: "rt_random_next_bool"},
}

var tcpMethods = map[string]methodBinding{
	"send":  {Result: prim(KindLong), RtSymbol: "rt_tcp_send"},
	"recv":  {Result: prim(KindString), RtSymbol: "rt_tcp_recv", NeedsArg: true},
	"close": {Result: prim(KindVoid), RtSymbol: "rt_tcp_close"},
}

var udpMethods = map[string]methodBinding{
	"send":  {Result: prim(KindLong), RtSymbol: "rt_udp_send"},
	"recv":  {Result: prim(KindString), RtSymbol: "rt_udp_recv", NeedsArg: true},
	"close": {Result: prim(KindVoid), RtSymbol: "rt_udp_close"},
}

// inferMethodResult resolves `obj.method(...)`'s return type for the
// checker, given the already-inferred receiver type.
func inferMethodResult(recv *Type, method string) *Type {
	if recv == nil {
		return prim(KindUnknown)
	}
	var table map[string]methodBinding
	switch recv.Kind {
	case KindArray:
		table = arrayMethods(recv.Elem)
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
	default:
		return prim(KindUnknown)
	}
	if b, ok := table[method]; ok {
		return b.Result
	}
	return prim(KindUnknown)
}

// staticBinding describes a `Type.method(...)` static call.
type staticBinding struct {
	Result   *Type
	RtSymbol string
}

var staticCallTable = map[string]map[string]staticBinding{
	"TextFile": {
		"open": {Result: prim(KindTextFile), RtSymbol: "rt_text_file_open"},
	},
	"BinaryFile": {
		"open": {Result: prim(KindBinaryFile), RtSymbol: "rt_binary_file_open"},
	},
	"Time": {
		"now":   {Result: prim(KindTime), RtSymbol: "rt_time_now"},
		"sleep": {Result: prim(KindVoid), RtSymbol: "rt_time_sleep_ms"},
	},
	"Random": {
		"seeded": {Result: prim(KindRandom), RtSymbol: "rt_random_new"},
	},
	"Uuid": {
		"v4": {Result: prim(KindUUID), RtSymbol: "rt_uuid_v4"},
	},
	"Tcp": {
		"connect": {Result: prim(KindTCPConn), RtSymbol: "rt_tcp_connect"},
		"listen":  {Result: prim(KindTCPConn), RtSymbol: "rt_tcp_listen"},
	},
	"Udp": {
		"bind": {Result: prim(KindUDPConn), RtSymbol: "rt_udp_bind"},
	},
	"Environment": {
		"get":      {Result: prim(KindString), RtSymbol: "rt_env_get"},
		"set":      {Result: prim(KindVoid), RtSymbol: "rt_env_set"},
		"has":      {Result: prim(KindBool), RtSymbol: "rt_env_has"},
		"remove":   {Result: prim(KindVoid), RtSymbol: "rt_env_remove"},
		"list":     {Result: &Type{Kind: KindArray, Elem: prim(KindString)}, RtSymbol: "rt_env_list"},
		"names":    {Result: &Type{Kind: KindArray, Elem: prim(KindString)}, RtSymbol: "rt_env_names"},
		"getInt":    {Result: prim(KindInt), RtSymbol: "rt_env_get_int"},
		"getLong":   {Result: prim(KindLong), RtSymbol: "rt_env_get_long"},
		"getDouble": {Result: prim(KindDouble), RtSymbol: "rt_env_get_double"},
		"getBool":   {Result: prim(KindBool), RtSymbol: "rt_env_get_bool"},
	},
}

func inferStaticResult(typeName, method string) *Type {
	if table, ok := staticCallTable[typeName]; ok {
		if b, ok := table[method]; ok {
			return b.Result
		}
	}
	return prim(KindUnknown)
}

// builtinFunctions are free functions available without a receiver:
// print(x), toString(x), length(x) (used by the for-each desugaring in
// §4.6 and by S6's toString(i) call).
var builtinFunctions = map[string]*Type{
	"print":    prim(KindVoid),
	"toString": prim(KindString),
	"length":   prim(KindLong),
	"sleep":    prim(KindVoid),
}
