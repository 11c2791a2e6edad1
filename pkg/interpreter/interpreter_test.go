package interpreter

import (
	"bytes"
	"testing"

	"github.com/Demindiro/ballscript/pkg/ast"
	"github.com/Demindiro/ballscript/pkg/runtime"
)

func evalModule(t *testing.T, module *ast.Module) runtime.Value {
	t.Helper()
	interp := New()
	result, err := interp.EvaluateModule(module)
	if err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	return result
}

func evalOutput(t *testing.T, module *ast.Module) string {
	t.Helper()
	var buf bytes.Buffer
	interp := New(WithStdout(&buf))
	if _, err := interp.EvaluateModule(module); err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	return buf.String()
}

func wantInt(t *testing.T, got runtime.Value, want int64) {
	t.Helper()
	iv, ok := got.(runtime.IntValue)
	if !ok {
		t.Fatalf("result = %v (%s), want int", got, got.Kind())
	}
	if iv.Val != want {
		t.Fatalf("result = %d, want %d", iv.Val, want)
	}
}

func wantString(t *testing.T, got runtime.Value, want string) {
	t.Helper()
	sv, ok := got.(runtime.StringValue)
	if !ok {
		t.Fatalf("result = %v (%s), want string", got, got.Kind())
	}
	if sv.Val != want {
		t.Fatalf("result = %q, want %q", sv.Val, want)
	}
}

func TestDictReadWriteAndConcat(t *testing.T) {
	// dict := {1: 2, 3: "dog", "cat": "chicken"}
	// dict[1] = "duck"
	// dict[3] + " is not a " + dict["cat"]
	result := evalModule(t, ast.Mod(
		ast.Decl("dict", ast.Dict(
			ast.Entry(ast.Int(1), ast.Int(2)),
			ast.Entry(ast.Int(3), ast.Str("dog")),
			ast.Entry(ast.Str("cat"), ast.Str("chicken")),
		)),
		ast.Assign(ast.Index(ast.ID("dict"), ast.Int(1)), ast.Str("duck")),
		ast.Bin("+",
			ast.Bin("+", ast.Index(ast.ID("dict"), ast.Int(3)), ast.Str(" is not a ")),
			ast.Index(ast.ID("dict"), ast.Str("cat")),
		),
	))
	wantString(t, result, "dog is not a chicken")
}

func TestArrayReadWrite(t *testing.T) {
	// arr := [1, 2, 3]
	// arr[1] = "duck"
	// arr[0] + arr[2]
	result := evalModule(t, ast.Mod(
		ast.Decl("arr", ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3))),
		ast.Assign(ast.Index(ast.ID("arr"), ast.Int(1)), ast.Str("duck")),
		ast.Bin("+", ast.Index(ast.ID("arr"), ast.Int(0)), ast.Index(ast.ID("arr"), ast.Int(2))),
	))
	wantInt(t, result, 4)
}

func TestIntStringCoercion(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Bin("+", ast.Int(5), ast.Str("x")),
	))
	wantString(t, result, "5x")

	result = evalModule(t, ast.Mod(
		ast.Bin("+", ast.Str("x"), ast.Int(5)),
	))
	wantString(t, result, "x5")
}

func TestContainerAliasing(t *testing.T) {
	// a := [1]
	// b := a
	// b[0] = 9
	// a[0]
	result := evalModule(t, ast.Mod(
		ast.Decl("a", ast.Arr(ast.Int(1))),
		ast.Decl("b", ast.ID("a")),
		ast.Assign(ast.Index(ast.ID("b"), ast.Int(0)), ast.Int(9)),
		ast.Index(ast.ID("a"), ast.Int(0)),
	))
	wantInt(t, result, 9)
}

func TestDeclareVersusAssign(t *testing.T) {
	// x := 1
	// x = 2 updates; a fresh := inside a block shadows without leaking.
	result := evalModule(t, ast.Mod(
		ast.Decl("x", ast.Int(1)),
		ast.Assign(ast.ID("x"), ast.Int(2)),
		ast.Block(
			ast.Decl("x", ast.Int(99)),
		),
		ast.ID("x"),
	))
	wantInt(t, result, 2)
}

func TestAssignUnboundFaults(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Assign(ast.ID("missing"), ast.Int(1)),
	))
	if !runtime.IsKind(err, runtime.UnboundVariable) {
		t.Fatalf("assigning unbound variable error = %v, want UnboundVariable", err)
	}
}

func TestIndexFaultPropagates(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Decl("arr", ast.Arr(ast.Int(1))),
		ast.Index(ast.ID("arr"), ast.Int(5)),
	))
	if !runtime.IsKind(err, runtime.IndexOutOfRange) {
		t.Fatalf("out-of-range read error = %v, want IndexOutOfRange", err)
	}
}

func TestFaultAbortsRemainingStatements(t *testing.T) {
	var buf bytes.Buffer
	interp := New(WithStdout(&buf))
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Call("print", ast.Str("before")),
		ast.Index(ast.Int(1), ast.Int(0)),
		ast.Call("print", ast.Str("after")),
	))
	if !runtime.IsKind(err, runtime.NotIndexable) {
		t.Fatalf("error = %v, want NotIndexable", err)
	}
	if buf.String() != "before\n" {
		t.Fatalf("output = %q, statements after the fault must not run", buf.String())
	}
}

func TestWhileLoop(t *testing.T) {
	// sum := 0; i := 0
	// while i < 5 { sum = sum + i; i = i + 1 }
	result := evalModule(t, ast.Mod(
		ast.Decl("sum", ast.Int(0)),
		ast.Decl("i", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(5)), ast.Block(
			ast.Assign(ast.ID("sum"), ast.Bin("+", ast.ID("sum"), ast.ID("i"))),
			ast.Assign(ast.ID("i"), ast.Bin("+", ast.ID("i"), ast.Int(1))),
		)),
		ast.ID("sum"),
	))
	wantInt(t, result, 10)
}

func TestBreakAndContinue(t *testing.T) {
	// Collect even numbers below 10, stop at 6.
	result := evalModule(t, ast.Mod(
		ast.Decl("sum", ast.Int(0)),
		ast.For("i", ast.Int(10), ast.Block(
			ast.If(ast.Bin("==", ast.Bin("%", ast.ID("i"), ast.Int(2)), ast.Int(1)),
				ast.Block(ast.NewContinueStatement())),
			ast.If(ast.Bin("==", ast.ID("i"), ast.Int(6)),
				ast.Block(ast.NewBreakStatement())),
			ast.Assign(ast.ID("sum"), ast.Bin("+", ast.ID("sum"), ast.ID("i"))),
		)),
		ast.ID("sum"),
	))
	wantInt(t, result, 6) // 0 + 2 + 4
}

func TestForOverArrayBindsElements(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Decl("total", ast.Int(0)),
		ast.Decl("arr", ast.Arr(ast.Int(10), ast.Int(20), ast.Int(30))),
		ast.For("el", ast.ID("arr"), ast.Block(
			ast.Assign(ast.ID("total"), ast.Bin("+", ast.ID("total"), ast.ID("el"))),
		)),
		ast.ID("total"),
	))
	wantInt(t, result, 60)
}

func TestForOverDictBindsKeys(t *testing.T) {
	out := evalOutput(t, ast.Mod(
		ast.Decl("dict", ast.Dict(
			ast.Entry(ast.Int(3), ast.Str("c")),
			ast.Entry(ast.Str("a"), ast.Str("x")),
			ast.Entry(ast.Int(1), ast.Str("b")),
		)),
		ast.For("k", ast.ID("dict"), ast.Block(
			ast.Call("print", ast.ID("k")),
		)),
	))
	if out != "3\na\n1\n" {
		t.Fatalf("dict key iteration output = %q, want keys in insertion order", out)
	}
}

func TestForKeyValueOverDict(t *testing.T) {
	out := evalOutput(t, ast.Mod(
		ast.Decl("dict", ast.Dict(
			ast.Entry(ast.Str("a"), ast.Int(1)),
			ast.Entry(ast.Str("b"), ast.Int(2)),
		)),
		ast.ForKV("k", "v", ast.ID("dict"), ast.Block(
			ast.Call("print", ast.ID("k"), ast.Str("="), ast.ID("v")),
		)),
	))
	if out != "a=1\nb=2\n" {
		t.Fatalf("dict kv iteration output = %q, want a=1 then b=2", out)
	}
}

func TestForKeyValueOverArray(t *testing.T) {
	out := evalOutput(t, ast.Mod(
		ast.Decl("arr", ast.Arr(ast.Str("x"), ast.Str("y"))),
		ast.ForKV("i", "el", ast.ID("arr"), ast.Block(
			ast.Call("print", ast.ID("i"), ast.Str(":"), ast.ID("el")),
		)),
	))
	if out != "0:x\n1:y\n" {
		t.Fatalf("array kv iteration output = %q, want indexed pairs", out)
	}
}

func TestForOverNonIterableFaults(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(
		ast.For("x", ast.Str("abc"), ast.Block()),
	))
	if !runtime.IsKind(err, runtime.NotIterable) {
		t.Fatalf("for over string error = %v, want NotIterable", err)
	}
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Fn("add", []string{"a", "b"}, ast.Block(
			ast.Ret(ast.Bin("+", ast.ID("a"), ast.ID("b"))),
		)),
		ast.Call("add", ast.Int(2), ast.Int(3)),
	))
	wantInt(t, result, 5)
}

func TestRecursion(t *testing.T) {
	// fib(10) == 55
	result := evalModule(t, ast.Mod(
		ast.Fn("fib", []string{"n"}, ast.Block(
			ast.If(ast.Bin("<", ast.ID("n"), ast.Int(2)), ast.Block(
				ast.Ret(ast.ID("n")),
			)),
			ast.Ret(ast.Bin("+",
				ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(1))),
				ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(2))),
			)),
		)),
		ast.Call("fib", ast.Int(10)),
	))
	wantInt(t, result, 55)
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Decl("base", ast.Int(100)),
		ast.Fn("bump", []string{"n"}, ast.Block(
			ast.Ret(ast.Bin("+", ast.ID("base"), ast.ID("n"))),
		)),
		ast.Call("bump", ast.Int(1)),
	))
	wantInt(t, result, 101)
}

func TestFunctionWithoutReturnYieldsNil(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Fn("noop", nil, ast.Block()),
		ast.Call("noop"),
	))
	if _, ok := result.(runtime.NilValue); !ok {
		t.Fatalf("result = %v, want nil", result)
	}
}

func TestBadArgumentCount(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Fn("one", []string{"a"}, ast.Block(ast.Ret(ast.ID("a")))),
		ast.Call("one", ast.Int(1), ast.Int(2)),
	))
	if !runtime.IsKind(err, runtime.BadArgumentCount) {
		t.Fatalf("over-application error = %v, want BadArgumentCount", err)
	}
}

func TestCallFunctionHostEntry(t *testing.T) {
	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Fn("double", []string{"n"}, ast.Block(
			ast.Ret(ast.Bin("*", ast.ID("n"), ast.Int(2))),
		)),
	))
	if err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	result, err := interp.CallFunction("double", []runtime.Value{runtime.IntValue{Val: 21}})
	if err != nil {
		t.Fatalf("CallFunction returned error: %v", err)
	}
	wantInt(t, result, 42)

	if _, err := interp.CallFunction("nope", nil); !runtime.IsKind(err, runtime.UndefinedFunction) {
		t.Fatalf("CallFunction(nope) error = %v, want UndefinedFunction", err)
	}
}

func TestIfElseChain(t *testing.T) {
	pick := func(n int64) runtime.Value {
		return evalModule(t, ast.Mod(
			ast.Decl("n", ast.Int(n)),
			ast.If(ast.Bin("<", ast.ID("n"), ast.Int(0)), ast.Block(ast.Str("neg")),
				ast.ElseIf(ast.Bin("==", ast.ID("n"), ast.Int(0)), ast.Block(ast.Str("zero"))),
				ast.Else(ast.Block(ast.Str("pos"))),
			),
		))
	}
	wantString(t, pick(-1), "neg")
	wantString(t, pick(0), "zero")
	wantString(t, pick(7), "pos")
}

func TestIfWithoutMatchYieldsNil(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.If(ast.Bool(false), ast.Block(ast.Str("unreached"))),
	))
	if _, ok := result.(runtime.NilValue); !ok {
		t.Fatalf("result = %v, want nil", result)
	}
}

func TestShortCircuitEvaluation(t *testing.T) {
	// The right side would fault; short-circuit must skip it.
	result := evalModule(t, ast.Mod(
		ast.Bin("&&", ast.Bool(false), ast.Index(ast.Int(1), ast.Int(0))),
	))
	if bv, ok := result.(runtime.BoolValue); !ok || bv.Val {
		t.Fatalf("false && fault = %v, want false", result)
	}
	result = evalModule(t, ast.Mod(
		ast.Bin("||", ast.Bool(true), ast.Index(ast.Int(1), ast.Int(0))),
	))
	if bv, ok := result.(runtime.BoolValue); !ok || !bv.Val {
		t.Fatalf("true || fault = %v, want true", result)
	}
}

func TestPrintRendersCanonicalText(t *testing.T) {
	out := evalOutput(t, ast.Mod(
		ast.Call("print", ast.Int(5), ast.Str("x")),
		ast.Call("print", ast.Arr(ast.Int(1), ast.Str("two"))),
		ast.Call("print", ast.Dict(ast.Entry(ast.Int(1), ast.Str("one")))),
		ast.Call("print", ast.Nil(), ast.Bool(true)),
	))
	want := "5x\n[1, two]\n{1: one}\nniltrue\n"
	if out != want {
		t.Fatalf("print output = %q, want %q", out, want)
	}
}

func TestLenBuiltin(t *testing.T) {
	result := evalModule(t, ast.Mod(
		ast.Call("len", ast.Arr(ast.Int(1), ast.Int(2))),
	))
	wantInt(t, result, 2)

	result = evalModule(t, ast.Mod(
		ast.Call("len", ast.Str("abc")),
	))
	wantInt(t, result, 3)

	result = evalModule(t, ast.Mod(
		ast.Call("len", ast.Dict(
			ast.Entry(ast.Int(1), ast.Int(1)),
			ast.Entry(ast.Int(1), ast.Int(2)),
		)),
	))
	wantInt(t, result, 1)

	interp := New()
	_, err := interp.EvaluateModule(ast.Mod(ast.Call("len", ast.Int(3))))
	if !runtime.IsKind(err, runtime.TypeMismatch) {
		t.Fatalf("len(int) error = %v, want TypeMismatch", err)
	}
}

func TestStrayControlFlowRejected(t *testing.T) {
	interp := New()
	if _, err := interp.EvaluateModule(ast.Mod(ast.NewBreakStatement())); err == nil {
		t.Fatal("top-level break accepted")
	}
	if _, err := interp.EvaluateModule(ast.Mod(ast.NewContinueStatement())); err == nil {
		t.Fatal("top-level continue accepted")
	}
	if _, err := interp.EvaluateModule(ast.Mod(ast.Ret(ast.Int(1)))); err == nil {
		t.Fatal("top-level return accepted")
	}
}

func TestDictLiteralDuplicateKeyKeepsPosition(t *testing.T) {
	out := evalOutput(t, ast.Mod(
		ast.Call("print", ast.Dict(
			ast.Entry(ast.Int(1), ast.Str("first")),
			ast.Entry(ast.Int(2), ast.Str("second")),
			ast.Entry(ast.Int(1), ast.Str("third")),
		)),
	))
	if out != "{1: third, 2: second}\n" {
		t.Fatalf("duplicate literal key output = %q, want first position with last value", out)
	}
}

func TestIndexedAssignmentEvaluationOrder(t *testing.T) {
	// getArr()[getKey()] = getVal() must run container, key, value in
	// that order, observable through side effects.
	var buf bytes.Buffer
	interp := New(WithStdout(&buf))
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Decl("arr", ast.Arr(ast.Int(0))),
		ast.Fn("getArr", nil, ast.Block(
			ast.Call("print", ast.Str("container")),
			ast.Ret(ast.ID("arr")),
		)),
		ast.Fn("getKey", nil, ast.Block(
			ast.Call("print", ast.Str("key")),
			ast.Ret(ast.Int(0)),
		)),
		ast.Fn("getVal", nil, ast.Block(
			ast.Call("print", ast.Str("value")),
			ast.Ret(ast.Int(9)),
		)),
		ast.Assign(ast.Index(ast.Call("getArr"), ast.Call("getKey")), ast.Call("getVal")),
	))
	if err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	if buf.String() != "container\nkey\nvalue\n" {
		t.Fatalf("side effect order = %q, want container then key then value", buf.String())
	}
	arr, _ := interp.GlobalEnvironment().Get("arr")
	got, _ := arr.(*runtime.ArrayValue).Get(0)
	if got.(runtime.IntValue).Val != 9 {
		t.Fatalf("arr[0] = %v after write, want 9", got)
	}
}

func TestIndexedAssignmentSkipsValueWhenContainerFaults(t *testing.T) {
	// A fault while resolving the target must prevent the right-hand
	// side from running at all.
	var buf bytes.Buffer
	interp := New(WithStdout(&buf))
	_, err := interp.EvaluateModule(ast.Mod(
		ast.Fn("getVal", nil, ast.Block(
			ast.Call("print", ast.Str("value")),
			ast.Ret(ast.Int(9)),
		)),
		ast.Assign(ast.Index(ast.ID("missing"), ast.Int(0)), ast.Call("getVal")),
	))
	if !runtime.IsKind(err, runtime.UnboundVariable) {
		t.Fatalf("error = %v, want UnboundVariable", err)
	}
	if buf.String() != "" {
		t.Fatalf("right-hand side ran despite target fault: %q", buf.String())
	}
}

func TestNestedContainers(t *testing.T) {
	// matrix := [[1, 2], [3, 4]]; matrix[1][0]
	result := evalModule(t, ast.Mod(
		ast.Decl("matrix", ast.Arr(
			ast.Arr(ast.Int(1), ast.Int(2)),
			ast.Arr(ast.Int(3), ast.Int(4)),
		)),
		ast.Index(ast.Index(ast.ID("matrix"), ast.Int(1)), ast.Int(0)),
	))
	wantInt(t, result, 3)
}
