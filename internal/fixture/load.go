package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/source"
)

// Program is one decoded document together with the unit its
// diagnostics go to.
type Program struct {
	Path   string
	File   ast.FileID
	Source source.FileID
	Unit   *diag.Unit
	// Expect lists the diagnostic codes the document declares under
	// "expect"; HasExpect distinguishes an empty list from no list.
	Expect    []diag.Code
	HasExpect bool
}

// Loader decodes program documents into one shared AST. Includes are
// resolved relative to the including document.
type Loader struct {
	fs     *source.FileSet
	b      *ast.Builder
	limit  int
	active map[string]bool
}

func NewLoader(fs *source.FileSet, b *ast.Builder, limit int) *Loader {
	return &Loader{fs: fs, b: b, limit: limit, active: make(map[string]bool)}
}

// Builder returns the AST the loader decodes into.
func (l *Loader) Builder() *ast.Builder { return l.b }

// Load reads and decodes the document at path. Malformed shapes are
// reported into the program's unit; only I/O and YAML syntax failures are
// returned as errors.
func (l *Loader) Load(path string) (*Program, error) {
	id, err := l.source(path)
	if err != nil {
		return nil, err
	}
	return l.decodeRoot(id)
}

// LoadBytes decodes an in-memory document registered under name.
func (l *Loader) LoadBytes(name string, content []byte) (*Program, error) {
	return l.decodeRoot(l.fs.AddVirtual(name, content))
}

func (l *Loader) source(path string) (source.FileID, error) {
	if f, ok := l.fs.GetByPath(path); ok {
		return f.ID, nil
	}
	return l.fs.Load(path)
}

func (l *Loader) decodeRoot(id source.FileID) (*Program, error) {
	f := l.fs.Get(id)
	unit := diag.NewUnit(f.Path, id, l.limit)
	root, err := parseYAML(f)
	if err != nil {
		return nil, err
	}
	p := &Program{Path: f.Path, Source: id, Unit: unit}
	l.active[f.Path] = true
	defer delete(l.active, f.Path)

	d := l.decoder(f, unit)
	p.File = d.file(root)
	p.Expect, p.HasExpect = d.expect, d.hasExpect
	return p, nil
}

// include decodes the document named by an include statement of the
// document in from. The included unit is registered under path so that
// the verifier reports into the same unit.
func (l *Loader) include(from *source.File, path string, parent *diag.Unit, sp source.Span) (ast.FileID, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(filepath.Dir(from.Path), path)
	}
	full = filepath.ToSlash(filepath.Clean(full))
	if l.active[full] {
		return ast.NoFileID, fmt.Errorf("include cycle through %s", path)
	}
	id, err := l.source(full)
	if err != nil {
		return ast.NoFileID, err
	}
	f := l.fs.Get(id)
	root, err := parseYAML(f)
	if err != nil {
		return ast.NoFileID, err
	}
	l.active[full] = true
	defer delete(l.active, full)

	unit := parent.Include(path, id)
	d := l.decoder(f, unit)
	file := d.file(root)
	if d.hasExpect {
		d.fail(sp, "expect is only allowed in the root document")
	}
	return file, nil
}

func (l *Loader) decoder(f *source.File, unit *diag.Unit) *decoder {
	return &decoder{l: l, b: l.b, src: f, rep: unit, unit: unit}
}

// parseYAML parses the document of f into its root node. An empty file is
// an empty program.
func parseYAML(f *source.File) (*yaml.Node, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(f.Content))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0], nil
	}
	return &doc, nil
}
