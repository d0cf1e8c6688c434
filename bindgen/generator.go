// Package bindgen turns the declarations of a parsed C header into Nature
// bindings: constants, enum values, union aliases, structs and functions.
package bindgen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
	orderedmap "github.com/OrtheSnowJames/naturebindgen/ordered_map"
)

var (
	// ErrHeaderNotFound is returned when the input header does not exist.
	ErrHeaderNotFound = errors.New("header file not found")
	// ErrTranslationUnit is returned when the header cannot be parsed at all.
	ErrTranslationUnit = errors.New("failed to parse translation unit")
)

// DefaultReservedKeywords are Nature keywords that cannot be used as field or
// parameter names. Colliding names get a trailing underscore.
var DefaultReservedKeywords = []string{"type", "ptr", "fn", "var", "as", "is", "import", "return"}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for progress and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithReservedKeywords replaces the reserved keyword list.
func WithReservedKeywords(words []string) Option {
	return func(g *Generator) {
		if len(words) == 0 {
			return
		}
		g.reserved = make(map[string]bool, len(words))
		for _, w := range words {
			g.reserved[w] = true
		}
	}
}

// Generator collects declarations from one header and emits Nature code.
// It is not safe for concurrent use.
type Generator struct {
	provider clangast.Provider
	logger   *slog.Logger
	reserved map[string]bool

	structs   *orderedmap.OrderedMap[string, *Struct]
	unions    *orderedmap.OrderedMap[string, *Union]
	enums     *orderedmap.OrderedMap[string, *Enum]
	functions *orderedmap.OrderedMap[string, *Function]
	constants *orderedmap.OrderedMap[string, *Constant]
	typedefs  map[string]string
	// unionSizes maps a union alias (Union_four_bytes) to its size.
	unionSizes map[string]int64

	anon    *anonResolver
	visited map[clangast.ID]bool
	macros  []clangast.Cursor
	// firstMacro holds the first macro defined in each file.
	firstMacro map[string]clangast.ID

	tu     clangast.TranslationUnit
	header string
	args   []string

	diagnostics int
}

// New creates a generator that parses headers with provider.
func New(provider clangast.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider:   provider,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		structs:    orderedmap.NewOrderedMap[string, *Struct](),
		unions:     orderedmap.NewOrderedMap[string, *Union](),
		enums:      orderedmap.NewOrderedMap[string, *Enum](),
		functions:  orderedmap.NewOrderedMap[string, *Function](),
		constants:  orderedmap.NewOrderedMap[string, *Constant](),
		typedefs:   make(map[string]string),
		unionSizes: make(map[string]int64),
		anon:       newAnonResolver(),
		visited:    make(map[clangast.ID]bool),
		firstMacro: make(map[string]clangast.ID),
	}
	WithReservedKeywords(DefaultReservedKeywords)(g)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ParseHeader parses the header at path and collects every declaration that
// is not in a system header. args are passed to the C front end unchanged.
// Diagnostics of error severity are logged and do not stop collection.
func (g *Generator) ParseHeader(path string, args []string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrHeaderNotFound, path)
	}

	g.logger.Info("parsing header", "path", path, "args", args)

	tu, err := g.provider.Parse(path, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTranslationUnit, err)
	}
	defer tu.Close()

	root := tu.Root()
	if root == nil {
		return fmt.Errorf("%w: %s has no root", ErrTranslationUnit, path)
	}

	g.tu = tu
	g.header = path
	g.args = args
	defer func() { g.tu = nil }()

	g.reportDiagnostics(tu)

	g.scanTypedefNames(root)
	g.visit(root)
	g.fixAnonymousTypes()
	g.evaluateMacros()
	g.normalizeConstants()

	g.logger.Debug("collected declarations",
		"structs", g.structs.Len(),
		"unions", g.unions.Len(),
		"enums", g.enums.Len(),
		"functions", g.functions.Len(),
		"constants", g.constants.Len())

	return nil
}

// Diagnostics is the number of error diagnostics seen by the last parse.
func (g *Generator) Diagnostics() int {
	return g.diagnostics
}

func (g *Generator) reportDiagnostics(tu clangast.TranslationUnit) {
	for _, d := range tu.Diagnostics() {
		if d.Severity < clangast.SeverityError {
			continue
		}
		g.diagnostics++
		g.logger.Warn("parse diagnostic", "location", d.Location.String(), "message", d.Message)
	}
}

// Struct returns a collected struct by name.
func (g *Generator) Struct(name string) (*Struct, bool) {
	return g.structs.Get(name)
}

// Union returns a collected union by name.
func (g *Generator) Union(name string) (*Union, bool) {
	return g.unions.Get(name)
}

// Function returns a collected function by name.
func (g *Generator) Function(name string) (*Function, bool) {
	return g.functions.Get(name)
}

// Constant returns a collected constant by name.
func (g *Generator) Constant(name string) (*Constant, bool) {
	return g.constants.Get(name)
}

// sanitize renames identifiers that collide with Nature keywords.
func (g *Generator) sanitize(name string) string {
	if g.reserved[name] {
		return name + "_"
	}
	return name
}

func (g *Generator) structFields(name string) ([]string, bool) {
	s, ok := g.structs.Get(name)
	if !ok {
		return nil, false
	}
	return s.FieldNames(), true
}

func (g *Generator) isUnionType(name string) bool {
	_, ok := g.unionSizes[name]
	return ok
}
