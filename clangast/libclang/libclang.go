// Package libclang implements clangast.Provider on top of libclang through
// github.com/go-clang/clang-v13.
package libclang

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-clang/clang-v13/clang"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

// ErrParse is returned when libclang cannot produce a translation unit.
var ErrParse = errors.New("libclang failed to parse translation unit")

// Provider owns one libclang index. Close it when done.
type Provider struct {
	idx clang.Index
}

// New creates a provider with a fresh index.
func New() *Provider {
	return &Provider{idx: clang.NewIndex(0, 0)}
}

// Close disposes the index. Units parsed from it must be closed first.
func (p *Provider) Close() {
	p.idx.Dispose()
}

// Parse parses a header as C, keeping macro definitions in the AST.
func (p *Provider) Parse(path string, args []string) (clangast.TranslationUnit, error) {
	cmdArgs := append([]string{"-x", "c-header"}, args...)
	tu := p.idx.ParseTranslationUnit(path, cmdArgs, nil, uint32(clang.TranslationUnit_DetailedPreprocessingRecord))
	if tu == (clang.TranslationUnit{}) {
		return nil, fmt.Errorf("%w: %s", ErrParse, path)
	}
	return newUnit(tu), nil
}

// ParseSource parses source as if it were stored in a file called name.
func (p *Provider) ParseSource(name, source string, args []string) (clangast.TranslationUnit, error) {
	unsaved := []clang.UnsavedFile{clang.NewUnsavedFile(name, source)}
	tu := p.idx.ParseTranslationUnit(name, args, unsaved, uint32(clang.TranslationUnit_DetailedPreprocessingRecord))
	if tu == (clang.TranslationUnit{}) {
		return nil, fmt.Errorf("%w: %s", ErrParse, name)
	}
	u := newUnit(tu)
	u.sources[name] = source
	return u, nil
}

type cursorKey struct {
	kind   clang.CursorKind
	hash   uint32
	file   string
	offset uint32
}

type unit struct {
	tu      clang.TranslationUnit
	ids     map[cursorKey]clangast.ID
	sources map[string]string
}

func newUnit(tu clang.TranslationUnit) *unit {
	return &unit{
		tu:      tu,
		ids:     make(map[cursorKey]clangast.ID),
		sources: make(map[string]string),
	}
}

func (u *unit) Root() clangast.Cursor {
	return u.wrapCursor(u.tu.TranslationUnitCursor())
}

func (u *unit) Diagnostics() []clangast.Diagnostic {
	n := u.tu.NumDiagnostics()
	diags := make([]clangast.Diagnostic, 0, n)
	for i := uint32(0); i < n; i++ {
		d := u.tu.Diagnostic(i)
		diags = append(diags, clangast.Diagnostic{
			Severity: severities[d.Severity()],
			Message:  d.Spelling(),
			Location: location(d.Location()),
		})
		d.Dispose()
	}
	return diags
}

func (u *unit) Source(file string) string {
	if src, ok := u.sources[file]; ok {
		return src
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return ""
	}
	u.sources[file] = string(data)
	return u.sources[file]
}

func (u *unit) Close() {
	u.tu.Dispose()
}

// id hands out identities keyed by what stays stable for a declaration no
// matter which path reached it.
func (u *unit) id(c clang.Cursor) clangast.ID {
	file, _, _, offset := c.Location().FileLocation()
	key := cursorKey{kind: c.Kind(), hash: c.HashCursor(), offset: offset}
	if file != (clang.File{}) {
		key.file = file.Name()
	}
	if id, ok := u.ids[key]; ok {
		return id
	}
	id := clangast.ID(len(u.ids) + 1)
	u.ids[key] = id
	return id
}

func (u *unit) wrapCursor(c clang.Cursor) clangast.Cursor {
	if c.IsNull() {
		return nil
	}
	return &cursor{u: u, c: c}
}

func (u *unit) wrapType(t clang.Type) clangast.Type {
	if t.Kind() == clang.Type_Elaborated {
		t = t.NamedType()
	}
	if t.Kind() == clang.Type_Invalid {
		return nil
	}
	return &ctype{u: u, t: t}
}

func location(loc clang.SourceLocation) clangast.Location {
	file, line, column, _ := loc.FileLocation()
	out := clangast.Location{
		Line:           int(line),
		Column:         int(column),
		InSystemHeader: loc.IsInSystemHeader(),
	}
	if file != (clang.File{}) {
		out.File = file.Name()
	}
	return out
}

var severities = map[clang.DiagnosticSeverity]clangast.Severity{
	clang.Diagnostic_Ignored: clangast.SeverityIgnored,
	clang.Diagnostic_Note:    clangast.SeverityNote,
	clang.Diagnostic_Warning: clangast.SeverityWarning,
	clang.Diagnostic_Error:   clangast.SeverityError,
	clang.Diagnostic_Fatal:   clangast.SeverityFatal,
}
