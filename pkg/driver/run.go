package driver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Demindiro/ballscript/pkg/ast"
	"github.com/Demindiro/ballscript/pkg/interpreter"
	"github.com/Demindiro/ballscript/pkg/runtime"
)

// ErrManifestNotFound reports that no ballscript.yml exists between the
// starting directory and the filesystem root.
var ErrManifestNotFound = errors.New("ballscript.yml not found")

// FindManifest walks from start upwards looking for ballscript.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Options configures a program run.
type Options struct {
	// Stdout receives program output. Defaults to os.Stdout.
	Stdout io.Writer
	// Logger receives driver diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
	// Globals are bound in the interpreter's global environment before
	// the program body runs.
	Globals []Global
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// RunFile decodes the JSON-encoded program at path and evaluates it.
func RunFile(path string, opts Options) error {
	logger := opts.logger()
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open program %s: %w", path, err)
	}
	defer file.Close()

	logger.Debug("decoding program", "path", path)
	module, err := ast.DecodeModule(file)
	if err != nil {
		return fmt.Errorf("decode program %s: %w", path, err)
	}
	return RunModule(module, opts)
}

// RunModule evaluates an already-decoded program.
func RunModule(module *ast.Module, opts Options) error {
	logger := opts.logger()

	var interpOpts []interpreter.Option
	if opts.Stdout != nil {
		interpOpts = append(interpOpts, interpreter.WithStdout(opts.Stdout))
	}
	interp := interpreter.New(interpOpts...)

	if err := BindGlobals(interp.GlobalEnvironment(), opts.Globals); err != nil {
		return err
	}

	logger.Debug("evaluating program", "statements", len(module.Body))
	if _, err := interp.EvaluateModule(module); err != nil {
		return err
	}
	return nil
}

// BindGlobals installs manifest globals into an environment.
func BindGlobals(env *runtime.Environment, globals []Global) error {
	for _, global := range globals {
		value, err := globalValue(global)
		if err != nil {
			return err
		}
		env.Define(global.Name, value)
	}
	return nil
}

func globalValue(global Global) (runtime.Value, error) {
	switch global.Kind {
	case "nil":
		return runtime.NilValue{}, nil
	case "bool":
		return runtime.BoolValue{Val: global.Bool}, nil
	case "int":
		return runtime.IntValue{Val: global.Int}, nil
	case "string":
		return runtime.StringValue{Val: global.String}, nil
	default:
		return nil, fmt.Errorf("global %q has unsupported kind %q", global.Name, global.Kind)
	}
}
