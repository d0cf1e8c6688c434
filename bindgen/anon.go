package bindgen

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

// anonKey identifies an anonymous record by where it is declared. Clang's
// raw spelling ("struct (unnamed at x.h:3:5)") and the cursor location both
// reduce to it, so the name stays stable across the run.
type anonKey struct {
	union bool
	file  string
	pos   string
}

// anonSpellingRe matches "struct (unnamed at f:1:2)" and "(unnamed union at f:1:2)".
var anonSpellingRe = regexp.MustCompile(`(?:(struct|union)\s+)?\((?:unnamed|anonymous)\s+(?:(struct|union)\s+)?at ([^)]+):(\d+):(\d+)\)`)

type anonResolver struct {
	names map[anonKey]string
	// hints are typedef names seen before the record itself is visited.
	hints map[anonKey]string
}

func newAnonResolver() *anonResolver {
	return &anonResolver{
		names: make(map[anonKey]string),
		hints: make(map[anonKey]string),
	}
}

// isAnonymous reports whether a record or enum spelling has no usable name.
func isAnonymous(spelling string) bool {
	return spelling == "" || strings.Contains(spelling, "(unnamed") || strings.Contains(spelling, "(anonymous")
}

func keyOf(c clangast.Cursor) anonKey {
	loc := c.Location()
	return anonKey{
		union: c.Kind() == clangast.KindUnionDecl,
		file:  filepath.Clean(loc.File),
		pos:   strconv.Itoa(loc.Line) + ":" + strconv.Itoa(loc.Column),
	}
}

func parseAnonSpelling(m []string) anonKey {
	return anonKey{
		union: m[1] == "union" || m[2] == "union",
		file:  filepath.Clean(m[3]),
		pos:   m[4] + ":" + m[5],
	}
}

// lookupSpelling resolves every anonymous spelling embedded in s, e.g. in
// "[struct (unnamed at x.h:3:5);4]". Unknown spellings are left alone.
func (r *anonResolver) lookupSpelling(s string, mapName func(string) string) string {
	return anonSpellingRe.ReplaceAllStringFunc(s, func(match string) string {
		m := anonSpellingRe.FindStringSubmatch(match)
		name, ok := r.names[parseAnonSpelling(m)]
		if !ok {
			return match
		}
		return mapName(name)
	})
}

// recordName returns the output name of a struct or union declaration,
// inventing one for anonymous records.
func (g *Generator) recordName(c clangast.Cursor) string {
	spelling := c.Spelling()
	if !isAnonymous(spelling) {
		return stripRecordKeyword(spelling)
	}
	key := keyOf(c)
	if name, ok := g.anon.names[key]; ok {
		return name
	}
	name := g.contextualName(c, key)
	g.anon.names[key] = name
	g.logger.Debug("named anonymous record", "name", name, "at", c.Location().String())
	return name
}

func (g *Generator) contextualName(c clangast.Cursor, key anonKey) string {
	suffix := "Struct"
	if key.union {
		suffix = "Union"
	}
	if hint, ok := g.anon.hints[key]; ok {
		return hint
	}

	parent := c.SemanticParent()
	if parent != nil && (parent.Kind() == clangast.KindStructDecl || parent.Kind() == clangast.KindUnionDecl) {
		parentName := g.recordName(parent)
		for _, child := range parent.Children() {
			if child.Kind() != clangast.KindFieldDecl || child.Spelling() == "" {
				continue
			}
			if decl := recordDecl(child.Type()); decl != nil && decl.ID() == c.ID() {
				return parentName + "_" + child.Spelling() + "_" + suffix
			}
		}
		if parent.Kind() == clangast.KindStructDecl {
			return parentName + "_nested_" + suffix
		}
	}

	return fmt.Sprintf("Anonymous_%s_%d", suffix, c.Hash())
}

// scanTypedefNames records `typedef struct { ... } Name;` so the anonymous
// record is named after its typedef even when something refers to it first.
func (g *Generator) scanTypedefNames(root clangast.Cursor) {
	for _, c := range root.Children() {
		if c.Kind() != clangast.KindTypedefDecl || c.Location().InSystemHeader {
			continue
		}
		decl := directRecordDecl(c.UnderlyingType())
		if decl == nil || !isAnonymous(decl.Spelling()) {
			continue
		}
		key := keyOf(decl)
		if _, taken := g.anon.hints[key]; !taken {
			g.anon.hints[key] = c.Spelling()
		}
	}
}

// renameRecord moves a record to a new name after the fact and rewrites
// every type that referred to the old one.
func (g *Generator) renameRecord(decl clangast.Cursor, from, to string) {
	if from == to {
		return
	}
	if decl.Kind() == clangast.KindUnionDecl {
		if !g.unions.Rename(from, to) {
			return
		}
		if u, ok := g.unions.Get(to); ok {
			u.Name = to
		}
	} else {
		if !g.structs.Rename(from, to) {
			return
		}
		if s, ok := g.structs.Get(to); ok {
			s.Name = to
		}
	}
	g.anon.names[keyOf(decl)] = to

	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(from) + `\b`)
	g.rewriteTypes(func(t string) string { return re.ReplaceAllString(t, to) })
	g.logger.Debug("renamed anonymous record", "from", from, "to", to)
}

// rewriteTypes applies fn to every collected type string.
func (g *Generator) rewriteTypes(fn func(string) string) {
	for _, s := range g.structs.Values() {
		for i := range s.Fields {
			s.Fields[i].Type = fn(s.Fields[i].Type)
		}
	}
	for _, u := range g.unions.Values() {
		for i := range u.Fields {
			u.Fields[i].Type = fn(u.Fields[i].Type)
		}
	}
	for _, f := range g.functions.Values() {
		f.ReturnType = fn(f.ReturnType)
		for i := range f.Parameters {
			f.Parameters[i].Type = fn(f.Parameters[i].Type)
		}
	}
	for name, t := range g.typedefs {
		g.typedefs[name] = fn(t)
	}
}

// fixAnonymousTypes replaces raw anonymous spellings that slipped into type
// strings with the names the records were given.
func (g *Generator) fixAnonymousTypes() {
	g.rewriteTypes(func(t string) string {
		if !strings.Contains(t, "(unnamed") && !strings.Contains(t, "(anonymous") {
			return t
		}
		return g.anon.lookupSpelling(t, g.unionAlias)
	})
}

// unionAlias maps a union name to its byte-array alias.
func (g *Generator) unionAlias(name string) string {
	if u, ok := g.unions.Get(name); ok {
		return u.TypeName()
	}
	return name
}

// recordDecl finds the record a field's type refers to, looking through
// arrays and pointers.
func recordDecl(t clangast.Type) clangast.Cursor {
	for t != nil {
		switch t.Kind() {
		case clangast.TypeConstantArray, clangast.TypeIncompleteArray:
			t = t.Element()
		case clangast.TypePointer:
			t = t.Pointee()
		case clangast.TypeRecord:
			return t.Declaration()
		default:
			return nil
		}
	}
	return nil
}

func directRecordDecl(t clangast.Type) clangast.Cursor {
	if t == nil || t.Kind() != clangast.TypeRecord {
		return nil
	}
	return t.Declaration()
}

func stripRecordKeyword(spelling string) string {
	spelling = strings.TrimSpace(spelling)
	for _, kw := range []string{"struct ", "union ", "enum "} {
		spelling = strings.TrimPrefix(spelling, kw)
	}
	return strings.TrimSpace(spelling)
}
