// Package source reads Go packages and lifts annotated type declarations out
// of their syntax trees.
package source

import (
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/simonhull/heron/internal/annotation"
	"github.com/simonhull/heron/internal/logger"
)

// DefaultTag is the annotation namespace used when none is configured.
const DefaultTag = "meili"

// ErrNoGoFiles is returned for a directory without buildable Go files.
var ErrNoGoFiles = errors.New("no Go files")

// Package is one parsed package directory.
type Package struct {
	Name  string
	Dir   string
	Files []string
	Types []annotation.TypeDecl

	// Declared holds the package-level identifiers of the parsed files.
	Declared map[string]token.Position
}

// Parser handles parsing Go source files
type Parser struct {
	fset   *token.FileSet
	build  build.Context
	tag    string
	skip   map[string]bool
	logger logger.Logger
}

// NewParser creates a Parser recognizing the given annotation tag.
func NewParser(tag string) *Parser {
	if tag == "" {
		tag = DefaultTag
	}
	return &Parser{
		fset:   token.NewFileSet(),
		build:  build.Default,
		tag:    tag,
		skip:   make(map[string]bool),
		logger: logger.NewSilentLogger(),
	}
}

// WithLogger sets the logger for the parser
func (p *Parser) WithLogger(l logger.Logger) *Parser {
	p.logger = l
	return p
}

// WithBuildContext sets the GOOS, GOARCH and build tags files are matched
// against. The default is build.Default.
func (p *Parser) WithBuildContext(ctxt build.Context) *Parser {
	p.build = ctxt
	return p
}

// Skip excludes files with the given base names, typically the generated
// output file.
func (p *Parser) Skip(names ...string) *Parser {
	for _, n := range names {
		p.skip[n] = true
	}
	return p
}

func (p *Parser) Tag() string { return p.tag }

// ParseDir parses the non-test Go files of dir that the build context
// selects. Files excluded by build constraints or file name suffixes,
// generated files and skipped names are ignored.
func (p *Parser) ParseDir(dir string) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read package directory: %w", err)
	}

	pkg := &Package{Dir: dir, Declared: make(map[string]token.Position)}
	methods := make(map[string]map[string]token.Position)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !p.wanted(name) {
			continue
		}

		path := filepath.Join(dir, name)
		match, err := p.build.MatchFile(dir, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !match {
			p.logger.Debug("skipping file excluded by build constraints", logger.F("file", path))
			continue
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		file, err := parser.ParseFile(p.fset, path, src, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if ast.IsGenerated(file) {
			p.logger.Debug("skipping generated file", logger.F("file", path))
			continue
		}

		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		} else if pkg.Name != file.Name.Name {
			return nil, fmt.Errorf("%s: found packages %s and %s", dir, pkg.Name, file.Name.Name)
		}

		pkg.Files = append(pkg.Files, path)
		pkg.Types = append(pkg.Types, p.collect(file)...)
		p.declarations(file, pkg.Declared, methods)
	}

	if len(pkg.Files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoGoFiles)
	}
	for i := range pkg.Types {
		pkg.Types[i].Methods = methods[pkg.Types[i].Name]
	}

	p.logger.Debug("parsed package",
		logger.F("dir", dir),
		logger.F("files", len(pkg.Files)),
		logger.F("annotated", len(pkg.Types)))
	return pkg, nil
}

// ParseFile parses a single file from memory and returns its annotated types.
func (p *Parser) ParseFile(filename string, src []byte) ([]annotation.TypeDecl, error) {
	file, err := parser.ParseFile(p.fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	decls := p.collect(file)
	methods := make(map[string]map[string]token.Position)
	p.declarations(file, make(map[string]token.Position), methods)
	for i := range decls {
		decls[i].Methods = methods[decls[i].Name]
	}
	return decls, nil
}

func (p *Parser) wanted(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, ".") &&
		!strings.HasPrefix(name, "_") &&
		!p.skip[name]
}

// collect returns the annotated types of a file in declaration order.
func (p *Parser) collect(file *ast.File) []annotation.TypeDecl {
	var decls []annotation.TypeDecl
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}

			blocks, marked := p.directives(doc, "index")
			if !marked {
				continue
			}
			decls = append(decls, p.typeDecl(ts, blocks))
		}
	}
	return decls
}

// declarations records the package-level names of file and the methods
// declared per receiver type.
func (p *Parser) declarations(file *ast.File, names map[string]token.Position, methods map[string]map[string]token.Position) {
	declare := func(id *ast.Ident) {
		if id.Name == "_" {
			return
		}
		if _, ok := names[id.Name]; !ok {
			names[id.Name] = p.fset.Position(id.Pos())
		}
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				if d.Name.Name != "init" {
					declare(d.Name)
				}
				continue
			}
			recv := receiverName(d.Recv)
			if recv == "" {
				continue
			}
			if methods[recv] == nil {
				methods[recv] = make(map[string]token.Position)
			}
			methods[recv][d.Name.Name] = p.fset.Position(d.Name.Pos())

		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					declare(s.Name)
				case *ast.ValueSpec:
					for _, id := range s.Names {
						declare(id)
					}
				}
			}
		}
	}
}

// receiverName returns the base type name of a method receiver: T for
// T, *T, T[K] and *T[K].
func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func (p *Parser) typeDecl(ts *ast.TypeSpec, blocks []annotation.Block) annotation.TypeDecl {
	decl := annotation.TypeDecl{
		Name:       ts.Name.Name,
		Pos:        p.fset.Position(ts.Name.Pos()),
		Kind:       kindOf(ts),
		TypeParams: ts.TypeParams != nil && len(ts.TypeParams.List) > 0,
		Blocks:     blocks,
	}

	st, ok := ts.Type.(*ast.StructType)
	if !ok || decl.Kind == annotation.KindAlias {
		return decl
	}
	for _, f := range st.Fields.List {
		decl.Fields = append(decl.Fields, p.fields(f)...)
	}
	return decl
}

// fields expands one field list entry; "A, B string" yields two fields.
func (p *Parser) fields(f *ast.Field) []annotation.FieldDecl {
	var (
		rawTag string
		blocks []annotation.Block
	)
	if f.Tag != nil {
		rawTag = unquoteTag(f.Tag.Value)
		tagPos := p.fset.Position(f.Tag.Pos())
		for _, value := range annotation.TagValues(rawTag, p.tag) {
			blocks = append(blocks, annotation.Block{Kind: annotation.BlockTag, Text: value, Pos: tagPos})
		}
	}
	for _, cg := range []*ast.CommentGroup{f.Doc, f.Comment} {
		fieldBlocks, _ := p.directives(cg, "field")
		blocks = append(blocks, fieldBlocks...)
	}

	if len(f.Names) == 0 {
		ident := types.ExprString(f.Type)
		return []annotation.FieldDecl{{
			Name:     ident,
			Ident:    ident,
			Pos:      p.fset.Position(f.Type.Pos()),
			Embedded: true,
			Blocks:   blocks,
		}}
	}

	out := make([]annotation.FieldDecl, 0, len(f.Names))
	for _, name := range f.Names {
		out = append(out, annotation.FieldDecl{
			Name:   attributeName(name.Name, rawTag),
			Ident:  name.Name,
			Pos:    p.fset.Position(name.Pos()),
			Blocks: blocks,
		})
	}
	return out
}

// directives returns the bodies of "//<tag>:<kind>" comments in cg and
// whether at least one was present.
func (p *Parser) directives(cg *ast.CommentGroup, kind string) ([]annotation.Block, bool) {
	if cg == nil {
		return nil, false
	}

	prefix := "//" + p.tag + ":" + kind
	var (
		blocks []annotation.Block
		found  bool
	)
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}
		rest := c.Text[len(prefix):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}

		found = true
		trimmed := strings.TrimLeft(rest, " \t")
		offset := len(c.Text) - len(trimmed)
		blocks = append(blocks, annotation.Block{
			Kind: annotation.BlockDirective,
			Text: strings.TrimRight(trimmed, " \t\r"),
			Pos:  p.fset.Position(c.Slash + token.Pos(offset)),
		})
	}
	return blocks, found
}

func kindOf(ts *ast.TypeSpec) string {
	if ts.Assign.IsValid() {
		return annotation.KindAlias
	}
	switch t := ts.Type.(type) {
	case *ast.StructType:
		return annotation.KindStruct
	case *ast.InterfaceType:
		return annotation.KindInterface
	case *ast.MapType:
		return "map"
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "channel"
	case *ast.StarExpr:
		return "pointer"
	case *ast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	default:
		return "named type"
	}
}

func unquoteTag(lit string) string {
	if len(lit) >= 2 && lit[0] == '`' {
		return lit[1 : len(lit)-1]
	}
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return ""
}

// attributeName is the JSON name of a field: the json tag name when
// present, otherwise the identifier.
func attributeName(ident, tag string) string {
	name, _, _ := strings.Cut(reflect.StructTag(tag).Get("json"), ",")
	if name == "" || name == "-" {
		return ident
	}
	return name
}
