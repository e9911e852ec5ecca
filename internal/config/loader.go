package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch {
	case s.Kind == SourceFile && s.Line > 0:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case s.Kind == SourceFile:
		return s.File
	case s.Name != "":
		return string(s.Kind) + " (" + s.Name + ")"
	default:
		return string(s.Kind)
	}
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer source (file only)
	Files   []string          // all loaded files, in load order
}

const dropInDirName = "config.d"

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winplace", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location and returns an
// effective config ready for use by the daemon.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns file-level sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path together with the config.d directory next to it.
// Drop-in files are merged in name order first; the main file wins.
func LoadFromPath(path string) (*LoadResult, error) {
	raw := RawConfig{}
	sources := map[string]Source{}
	var files []string
	seen := make(map[string]struct{})

	apply := func(p string) error {
		fileRaw, fileSources, fileFiles, err := loadRawMerged(p, seen, nil)
		if err != nil {
			return err
		}
		raw = raw.merge(fileRaw)
		for key, src := range fileSources {
			sources[key] = src
		}
		files = append(files, fileFiles...)
		return nil
	}

	dropIns, err := dropInFiles(filepath.Join(filepath.Dir(path), dropInDirName))
	if err != nil {
		return nil, err
	}
	for _, p := range dropIns {
		if err := apply(p); err != nil {
			return nil, err
		}
	}

	if exists, err := fileExists(path); err != nil {
		return nil, err
	} else if exists {
		if err := apply(path); err != nil {
			return nil, err
		}
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err != nil {
		return nil, attachSourceContext(err, sources)
	}
	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// dropInFiles lists the YAML files of dir. A missing directory, or a regular
// file in its place, yields nothing.
func dropInFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, nil
	}
	return yamlFilesIn(dir)
}

// includeRef is one entry of a file's include key, with its position.
type includeRef struct {
	Value  string
	Source Source
}

// loadRawMerged decodes path after the files it includes, so that path
// overrides them. stack holds the chain of including files for cycle
// detection; seen makes every file load at most once per LoadFromPath.
func loadRawMerged(path string, seen map[string]struct{}, stack []string) (RawConfig, map[string]Source, []string, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, nil, nil, err
	}
	if slices.Contains(stack, canon) {
		chain := append(slices.Clone(stack), canon)
		return RawConfig{}, nil, nil, fmt.Errorf("include cycle detected: %s", strings.Join(chain, " -> "))
	}
	if _, dup := seen[canon]; dup {
		return RawConfig{}, map[string]Source{}, nil, nil
	}
	seen[canon] = struct{}{}

	data, err := os.ReadFile(canon)
	if err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var own RawConfig
	if err := decodeStrictYAML(data, &own); err != nil {
		return RawConfig{}, nil, nil, fmt.Errorf("%s: %w", canon, err)
	}

	var (
		merged  RawConfig
		sources = map[string]Source{}
		files   []string
	)
	for _, ref := range includeRefs(&doc, canon) {
		targets, err := resolveInclude(canon, ref.Value)
		if err != nil {
			return RawConfig{}, nil, nil, fmt.Errorf("%s: include %q: %w", ref.Source, ref.Value, err)
		}
		for _, target := range targets {
			incRaw, incSources, incFiles, err := loadRawMerged(target, seen, append(stack, canon))
			if err != nil {
				return RawConfig{}, nil, nil, err
			}
			merged = merged.merge(incRaw)
			maps.Copy(sources, incSources)
			files = append(files, incFiles...)
		}
	}

	merged = merged.merge(own)
	maps.Copy(sources, fileSources(&doc, canon))
	files = append(files, canon)
	return merged, sources, files, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// DecodeStrict decodes a single YAML document, rejecting unknown keys.
func DecodeStrict(data []byte, out any) error {
	return decodeStrictYAML(data, out)
}

// canonicalPath returns the absolute path with symlinks resolved where
// possible. A dangling path stays absolute so the read error names it.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// resolveInclude turns an include value into the files it names. Relative
// values are taken from the including file's directory, ~ is the home
// directory, and a directory expands to its YAML files in name order.
func resolveInclude(from, value string) ([]string, error) {
	if value == "" {
		return nil, errors.New("path is empty")
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		value = filepath.Join(home, strings.TrimPrefix(value[1:], "/"))
	}
	if !filepath.IsAbs(value) {
		value = filepath.Join(filepath.Dir(from), value)
	}

	info, err := os.Stat(value)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return yamlFilesIn(value)
	}
	return []string{value}, nil
}

func yamlFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			files = append(files, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// topMapping returns the root mapping of a parsed document, or nil.
func topMapping(doc *yaml.Node) *yaml.Node {
	if doc == nil {
		return nil
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	return doc
}

// fileSources maps every dotted key path set in doc to its position. Lists
// are recorded as a whole.
func fileSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	var walk func(m *yaml.Node, prefix string)
	walk = func(m *yaml.Node, prefix string) {
		for i := 0; i+1 < len(m.Content); i += 2 {
			key, val := m.Content[i].Value, m.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
			if val.Kind == yaml.MappingNode {
				walk(val, key)
			}
		}
	}
	if m := topMapping(doc); m != nil {
		walk(m, "")
	}
	return out
}

func includeRefs(doc *yaml.Node, file string) []includeRef {
	m := topMapping(doc)
	if m == nil {
		return nil
	}
	ref := func(n *yaml.Node) includeRef {
		return includeRef{Value: n.Value, Source: Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}}
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != "include" {
			continue
		}
		val := m.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []includeRef{ref(val)}
		case yaml.SequenceNode:
			var refs []includeRef
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					refs = append(refs, ref(item))
				}
			}
			return refs
		}
		return nil
	}
	return nil
}

// attachSourceContext points a ValidationError at the file position that set
// the offending key.
func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr == nil || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
