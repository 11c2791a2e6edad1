package interpreter

import (
	"fmt"
	"strings"

	"github.com/Demindiro/ballscript/pkg/runtime"
)

func (i *Interpreter) registerBuiltins() {
	i.global.Define("print", runtime.NativeFunctionValue{
		Name:  "print",
		Arity: -1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			var b strings.Builder
			for _, arg := range args {
				b.WriteString(runtime.DisplayText(arg))
			}
			b.WriteByte('\n')
			if _, err := fmt.Fprint(i.stdout, b.String()); err != nil {
				return nil, fmt.Errorf("print: %w", err)
			}
			return runtime.NilValue{}, nil
		},
	})

	i.global.Define("len", runtime.NativeFunctionValue{
		Name:  "len",
		Arity: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			switch v := args[0].(type) {
			case *runtime.ArrayValue:
				return runtime.IntValue{Val: int64(v.Len())}, nil
			case *runtime.DictValue:
				return runtime.IntValue{Val: int64(v.Len())}, nil
			case runtime.StringValue:
				return runtime.IntValue{Val: int64(len(v.Val))}, nil
			default:
				return nil, &runtime.Error{
					Kind:    runtime.TypeMismatch,
					Message: fmt.Sprintf("len expects array, dict, or string, got %s", args[0].Kind()),
					Operand: args[0].Kind(),
				}
			}
		},
	})
}
