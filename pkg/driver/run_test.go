package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Demindiro/ballscript/pkg/runtime"
)

const helloProgram = `{
  "type": "Module",
  "body": [
    {
      "type": "FunctionCall",
      "callee": {"type": "Identifier", "name": "print"},
      "arguments": [
        {
          "type": "BinaryExpression",
          "operator": "+",
          "left": {"type": "StringLiteral", "value": "hello "},
          "right": {"type": "Identifier", "name": "who"}
        }
      ]
    }
  ]
}`

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.json")
	if err := os.WriteFile(path, []byte(helloProgram), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}

	var buf bytes.Buffer
	err := RunFile(path, Options{
		Stdout: &buf,
		Globals: []Global{
			{Name: "who", Kind: "string", String: "world"},
		},
	})
	if err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if buf.String() != "hello world\n" {
		t.Fatalf("output = %q, want %q", buf.String(), "hello world\n")
	}
}

func TestRunFileSurfacesRuntimeFaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.json")
	if err := os.WriteFile(path, []byte(helloProgram), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}

	// Without the global binding, the identifier lookup must fault.
	var buf bytes.Buffer
	err := RunFile(path, Options{Stdout: &buf})
	if !runtime.IsKind(err, runtime.UnboundVariable) {
		t.Fatalf("RunFile error = %v, want UnboundVariable", err)
	}
}

func TestRunFileMissingProgram(t *testing.T) {
	if err := RunFile(filepath.Join(t.TempDir(), "absent.json"), Options{}); err == nil {
		t.Fatal("RunFile accepted a missing program file")
	}
}

func TestRunFileRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	var buf bytes.Buffer
	if err := RunFile(path, Options{Stdout: &buf}); err == nil {
		t.Fatal("RunFile accepted malformed JSON")
	}
}

func TestBindGlobals(t *testing.T) {
	env := runtime.NewEnvironment(nil)
	err := BindGlobals(env, []Global{
		{Name: "flag", Kind: "bool", Bool: true},
		{Name: "count", Kind: "int", Int: 7},
		{Name: "label", Kind: "string", String: "x"},
		{Name: "empty", Kind: "nil"},
	})
	if err != nil {
		t.Fatalf("BindGlobals returned error: %v", err)
	}

	v, _ := env.Get("flag")
	if !v.(runtime.BoolValue).Val {
		t.Fatalf("flag = %v, want true", v)
	}
	v, _ = env.Get("count")
	if v.(runtime.IntValue).Val != 7 {
		t.Fatalf("count = %v, want 7", v)
	}
	v, _ = env.Get("label")
	if v.(runtime.StringValue).Val != "x" {
		t.Fatalf("label = %v, want x", v)
	}
	v, _ = env.Get("empty")
	if _, ok := v.(runtime.NilValue); !ok {
		t.Fatalf("empty = %v, want nil", v)
	}
}

func TestBindGlobalsRejectsUnknownKind(t *testing.T) {
	env := runtime.NewEnvironment(nil)
	if err := BindGlobals(env, []Global{{Name: "x", Kind: "float"}}); err == nil {
		t.Fatal("BindGlobals accepted an unknown kind")
	}
}
