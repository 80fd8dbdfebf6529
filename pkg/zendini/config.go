package zendini

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const nestSeparator = "."

type (
	// Config is one resolved section of an ini file.
	Config struct {
		section string
		tree    map[string]any
	}

	// Option customizes how values are resolved.
	Option func(*options)

	options struct {
		constants map[string]string
	}

	section struct {
		name    string
		parent  string
		entries []*iniPair
	}
)

// WithConstants makes bare identifiers in values resolve to the given values.
// Identifiers without a constant are kept as literal text.
func WithConstants(constants map[string]string) Option {
	return func(o *options) {
		for k, v := range constants {
			o.constants[k] = v
		}
	}
}

// Load parses the ini document in r and resolves the named section,
// including everything inherited from its parents.
func Load(r io.Reader, name string, opts ...Option) (*Config, error) {
	return load("ini", r, name, opts...)
}

// LoadFile is like Load but reads the document from path.
func LoadFile(path, name string, opts ...Option) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return load(path, f, name, opts...)
}

func load(filename string, r io.Reader, name string, opts ...Option) (*Config, error) {
	o := &options{constants: map[string]string{}}
	for _, opt := range opts {
		opt(o)
	}

	file, err := parse(filename, r)
	if err != nil {
		return nil, err
	}

	sections, err := collectSections(file)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid ini file: %s", filename)
	}

	tree, err := resolve(sections, name, o, map[string]bool{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load section %q from %s", name, filename)
	}

	return &Config{section: name, tree: tree}, nil
}

func collectSections(file *iniFile) (map[string]*section, error) {
	sections := map[string]*section{}
	current := &section{} // keys before the first header are not reachable

	for _, entry := range file.Entries {
		switch {
		case entry.Section != nil:
			header := strings.TrimSpace(strings.Trim(*entry.Section, "[]"))
			pieces := strings.Split(header, ":")
			if len(pieces) > 2 {
				return nil, errors.Errorf("section %q may not extend multiple sections", header)
			}

			name := strings.TrimSpace(pieces[0])
			if _, dup := sections[name]; dup {
				return nil, errors.Errorf("section %q is defined more than once", name)
			}

			current = &section{name: name}
			if len(pieces) == 2 {
				current.parent = strings.TrimSpace(pieces[1])
			}
			sections[name] = current
		case entry.Pair != nil:
			current.entries = append(current.entries, entry.Pair)
		}
	}

	return sections, nil
}

func resolve(sections map[string]*section, name string, o *options, visiting map[string]bool) (map[string]any, error) {
	sec, ok := sections[name]
	if !ok {
		return nil, errors.Errorf("section %q cannot be found", name)
	}

	if visiting[name] {
		return nil, errors.Errorf("section %q extends itself", name)
	}
	visiting[name] = true

	own, err := sec.tree(o)
	if err != nil {
		return nil, err
	}

	if sec.parent == "" {
		return own, nil
	}

	inherited, err := resolve(sections, sec.parent, o, visiting)
	if err != nil {
		return nil, err
	}

	return merge(inherited, own), nil
}

func (s *section) tree(o *options) (map[string]any, error) {
	tree := map[string]any{}
	for _, pair := range s.entries {
		key := pair.Key
		value := o.value(pair.Parts)

		if strings.HasSuffix(key, "[]") {
			key = strings.TrimSuffix(key, "[]")
			node, err := subtree(tree, key, pair)
			if err != nil {
				return nil, err
			}
			node[strconv.Itoa(len(node))] = value
			continue
		}

		if err := set(tree, key, value, pair); err != nil {
			return nil, err
		}
	}

	return tree, nil
}

// subtree returns the map at the dotted path, creating it if needed.
func subtree(tree map[string]any, path string, pair *iniPair) (map[string]any, error) {
	node := tree
	for _, piece := range strings.Split(path, nestSeparator) {
		switch next := node[piece].(type) {
		case nil:
			child := map[string]any{}
			node[piece] = child
			node = child
		case map[string]any:
			node = next
		default:
			return nil, errors.Errorf("%s: cannot create sub-key for %q as key already exists", pair.Pos, piece)
		}
	}

	return node, nil
}

func set(tree map[string]any, key, value string, pair *iniPair) error {
	parent := tree
	leaf := key
	if i := strings.LastIndex(key, nestSeparator); i >= 0 {
		node, err := subtree(tree, key[:i], pair)
		if err != nil {
			return err
		}
		parent, leaf = node, key[i+1:]
	}

	if _, isMap := parent[leaf].(map[string]any); isMap {
		return errors.Errorf("%s: %q already has sub-keys", pair.Pos, key)
	}

	parent[leaf] = value
	return nil
}

// merge overlays b onto a. Nested maps are merged, anything else in b wins.
func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}

	for k, v := range b {
		am, aok := out[k].(map[string]any)
		bm, bok := v.(map[string]any)
		if aok && bok {
			out[k] = merge(am, bm)
			continue
		}
		out[k] = v
	}

	return out
}

func (o *options) value(parts []*iniValuePart) string {
	if len(parts) == 1 && parts[0].Bare != nil {
		word := strings.TrimSpace(*parts[0].Bare)
		switch strings.ToLower(word) {
		case "true", "on", "yes":
			return "1"
		case "false", "off", "no", "none", "null":
			return ""
		}
	}

	var sb strings.Builder
	for _, part := range parts {
		if part.Quoted != nil {
			q := *part.Quoted
			sb.WriteString(q[1 : len(q)-1])
			continue
		}

		word := strings.TrimSpace(*part.Bare)
		if c, ok := o.constants[word]; ok {
			sb.WriteString(c)
			continue
		}
		sb.WriteString(word)
	}

	return sb.String()
}

// Section returns the name of the section this config was resolved from.
func (c *Config) Section() string {
	return c.section
}

// Lookup returns the scalar value at the dotted path.
func (c *Config) Lookup(path string) (string, bool) {
	pieces := strings.Split(path, nestSeparator)
	node := c.tree
	for _, piece := range pieces[:len(pieces)-1] {
		next, ok := node[piece].(map[string]any)
		if !ok {
			return "", false
		}
		node = next
	}

	v, ok := node[pieces[len(pieces)-1]].(string)
	return v, ok
}

// String returns the scalar value at the dotted path, or "" when it is not set.
func (c *Config) String(path string) string {
	v, _ := c.Lookup(path)
	return v
}

// Sub returns the subtree rooted at the dotted path.
func (c *Config) Sub(path string) (*Config, bool) {
	node := c.tree
	for _, piece := range strings.Split(path, nestSeparator) {
		next, ok := node[piece].(map[string]any)
		if !ok {
			return nil, false
		}
		node = next
	}

	return &Config{section: c.section, tree: node}, true
}

// Keys returns the sorted top-level keys of the config.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.tree))
	for k := range c.tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
