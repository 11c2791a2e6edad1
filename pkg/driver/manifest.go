package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project file ballscript looks for.
const ManifestFileName = "ballscript.yml"

// Manifest represents the parsed contents of ballscript.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Authors     []string
	Targets     map[string]*TargetSpec
	TargetOrder []string
	Globals     []Global

	targetEntries []manifestTargetEntry
}

// TargetSpec describes a runnable target from the manifest. Main is the
// path of a JSON-encoded program, relative to the manifest directory.
type TargetSpec struct {
	Name         string
	OriginalName string
	Main         string
	Default      bool
}

type manifestTargetEntry struct {
	sanitized string
	spec      *TargetSpec
}

// Global is a scalar binding the driver installs into the interpreter's
// global environment before a target runs. Kind is one of "nil", "bool",
// "int", "string".
type Global struct {
	Name   string
	Kind   string
	Bool   bool
	Int    int64
	String string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses ballscript.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	manifest, err := ParseManifest(file)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: %s: %w", absPath, err)
	}
	manifest.Path = absPath
	return manifest, nil
}

// ParseManifest decodes and validates a manifest from a reader. The
// returned manifest has no Path; LoadManifest fills it in.
func ParseManifest(r io.Reader) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}

	manifest := raw.toManifest()
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	defaults := 0
	for _, entry := range m.targetEntries {
		target := entry.spec
		if target == nil {
			continue
		}
		if target.OriginalName == "" {
			errs.Issues = append(errs.Issues, "targets must not use empty keys")
			continue
		}
		if other, exists := targetNames[entry.sanitized]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, target.OriginalName))
		} else {
			targetNames[entry.sanitized] = target.OriginalName
		}
		if target.Main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q requires a main entrypoint", target.OriginalName))
		}
		if target.Default {
			defaults++
		}
	}
	if defaults > 1 {
		errs.Issues = append(errs.Issues, "at most one target may be marked default")
	}

	seenGlobals := make(map[string]struct{}, len(m.Globals))
	for _, global := range m.Globals {
		if global.Name == "" {
			errs.Issues = append(errs.Issues, "globals must not use empty keys")
			continue
		}
		if _, dup := seenGlobals[global.Name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("global %q declared more than once", global.Name))
		}
		seenGlobals[global.Name] = struct{}{}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoTargets = errors.New("manifest: no targets defined")

// DefaultTarget returns the target marked default, or the first target in
// manifest order when none is marked.
func (m *Manifest) DefaultTarget() (*TargetSpec, error) {
	if m == nil {
		return nil, ErrNoTargets
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil && entry.spec.Default {
			return entry.spec, nil
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec != nil {
			return entry.spec, nil
		}
	}
	return nil, ErrNoTargets
}

// FindTarget looks up a target by sanitized or original name.
func (m *Manifest) FindTarget(name string) (*TargetSpec, bool) {
	if m == nil {
		return nil, false
	}
	key := sanitizeSegment(name)
	if key != "" {
		if target, ok := m.Targets[key]; ok && target != nil {
			return target, true
		}
	}
	for _, entry := range m.targetEntries {
		if entry.spec == nil {
			continue
		}
		if strings.EqualFold(entry.spec.OriginalName, strings.TrimSpace(name)) {
			return entry.spec, true
		}
	}
	return nil, false
}

// ResolveMain returns the absolute path of a target's program file.
func (m *Manifest) ResolveMain(target *TargetSpec) (string, error) {
	if m == nil || target == nil {
		return "", fmt.Errorf("manifest: missing manifest or target")
	}
	main := strings.TrimSpace(target.Main)
	if main == "" {
		return "", fmt.Errorf("manifest: target %q missing main entrypoint", target.OriginalName)
	}
	if filepath.IsAbs(main) {
		return filepath.Clean(main), nil
	}
	base := filepath.Dir(m.Path)
	if base == "" || base == "." {
		return filepath.Clean(filepath.FromSlash(main)), nil
	}
	return filepath.Join(base, filepath.FromSlash(main)), nil
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

type manifestFile struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Authors stringList `yaml:"authors"`
	Targets targetMap  `yaml:"targets"`
	Globals globalMap  `yaml:"globals"`
}

type targetYAML struct {
	Main    string `yaml:"main"`
	Default bool   `yaml:"default"`
}

type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	spec *targetYAML
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: targets must not use empty keys")
		}
		entry := new(targetYAML)
		if valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!str" {
			// Shorthand: target name mapped directly to a program path.
			entry.Main = strings.TrimSpace(valueNode.Value)
		} else if err := valueNode.Decode(entry); err != nil {
			return fmt.Errorf("manifest: target %q: %w", key, err)
		}
		items = append(items, targetMapEntry{name: key, spec: entry})
	}
	tm.items = items
	return nil
}

// globalMap preserves declaration order so bindings install predictably.
type globalMap struct {
	items []Global
}

func (gm *globalMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		gm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: globals must be a mapping")
	}
	items := make([]Global, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)

		global := Global{Name: key}
		if valNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("manifest: global %q must be a scalar", key)
		}
		switch valNode.Tag {
		case "!!null":
			global.Kind = "nil"
		case "!!bool":
			if err := valNode.Decode(&global.Bool); err != nil {
				return fmt.Errorf("manifest: global %q: %w", key, err)
			}
			global.Kind = "bool"
		case "!!int":
			if err := valNode.Decode(&global.Int); err != nil {
				return fmt.Errorf("manifest: global %q: %w", key, err)
			}
			global.Kind = "int"
		case "!!str":
			global.Kind = "string"
			global.String = valNode.Value
		default:
			return fmt.Errorf("manifest: global %q has unsupported value tag %s", key, valNode.ShortTag())
		}
		items = append(items, global)
	}
	gm.items = items
	return nil
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest() *Manifest {
	targetCapacity := len(mf.Targets.items)
	result := &Manifest{
		Name:          sanitizeSegment(mf.Name),
		Version:       strings.TrimSpace(mf.Version),
		Authors:       mf.Authors.Clone(),
		Targets:       make(map[string]*TargetSpec, targetCapacity),
		TargetOrder:   make([]string, 0, targetCapacity),
		Globals:       mf.Globals.items,
		targetEntries: make([]manifestTargetEntry, 0, targetCapacity),
	}

	seenTargets := make(map[string]struct{}, targetCapacity)
	for _, item := range mf.Targets.items {
		target := item.spec
		if target == nil {
			continue
		}
		original := strings.TrimSpace(item.name)
		if original == "" {
			continue
		}
		sanitized := sanitizeSegment(original)
		spec := &TargetSpec{
			Name:         sanitized,
			OriginalName: original,
			Main:         strings.TrimSpace(target.Main),
			Default:      target.Default,
		}
		if _, exists := result.Targets[sanitized]; !exists {
			result.Targets[sanitized] = spec
		}
		if _, exists := seenTargets[sanitized]; !exists {
			result.TargetOrder = append(result.TargetOrder, sanitized)
			seenTargets[sanitized] = struct{}{}
		}
		result.targetEntries = append(result.targetEntries, manifestTargetEntry{
			sanitized: sanitized,
			spec:      spec,
		})
	}
	return result
}
