package source

import (
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/heron/internal/annotation"
)

const modelsSrc = `package models

// Movie is a film.
//
//meili:index indexName="movies" maxTotalHits=500
type Movie struct {
	ID    string ` + "`json:\"id\" meili:\"primaryKey\"`" + `
	Title string ` + "`json:\"title,omitempty\" meili:\"displayed,searchable\"`" + `

	//meili:field filterable sortable
	Year int ` + "`json:\"year\"`" + `

	Genre, Studio string ` + "`meili:\"filterable\"`" + `
	Hidden        string ` + "`json:\"-\" meili:\"displayed\"`" + `
	notes         string
}

// Plain is not annotated.
type Plain struct {
	Name string ` + "`meili:\"displayed\"`" + `
}

type (
	//meili:index
	Status int

	// Tagged carries a line comment directive.
	//meili:index indexName="tags"
	Tagged struct {
		Label string //meili:field displayed
	}
)

//meili:indexes is a different directive
type Other struct{}

//meili:index
type Page[T any] struct {
	Items []T
}

//meili:index
type Wrapper struct {
	Base ` + "`meili:\"displayed\"`" + `
	*Plain
}

//meili:index
type Alias = Movie
`

func parseModels(t *testing.T) map[string]annotation.TypeDecl {
	t.Helper()

	decls, err := NewParser("").ParseFile("models.go", []byte(modelsSrc))
	require.NoError(t, err)

	byName := make(map[string]annotation.TypeDecl)
	for _, d := range decls {
		byName[d.Name] = d
	}
	return byName
}

func TestParseFileSelectsAnnotatedTypes(t *testing.T) {
	decls, err := NewParser("").ParseFile("models.go", []byte(modelsSrc))
	require.NoError(t, err)

	var names []string
	for _, d := range decls {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Movie", "Status", "Tagged", "Page", "Wrapper", "Alias"}, names)
}

func TestParseFileTypeBlocks(t *testing.T) {
	movie := parseModels(t)["Movie"]

	require.Len(t, movie.Blocks, 1)
	assert.Equal(t, `indexName="movies" maxTotalHits=500`, movie.Blocks[0].Text)
	assert.Equal(t, 5, movie.Blocks[0].Pos.Line)
	assert.Equal(t, len("//meili:index ")+1, movie.Blocks[0].Pos.Column)
	assert.Equal(t, "models.go", movie.Pos.Filename)
	assert.Equal(t, 6, movie.Pos.Line)
	assert.Equal(t, annotation.KindStruct, movie.Kind)
}

func TestParseFileFields(t *testing.T) {
	movie := parseModels(t)["Movie"]

	type fieldView struct {
		name, ident string
		blocks      []string
	}
	var got []fieldView
	for _, f := range movie.Fields {
		var texts []string
		for _, b := range f.Blocks {
			texts = append(texts, b.Text)
		}
		got = append(got, fieldView{f.Name, f.Ident, texts})
	}

	assert.Equal(t, []fieldView{
		{"id", "ID", []string{"primaryKey"}},
		{"title", "Title", []string{"displayed,searchable"}},
		{"year", "Year", []string{"filterable sortable"}},
		{"Genre", "Genre", []string{"filterable"}},
		{"Studio", "Studio", []string{"filterable"}},
		{"Hidden", "Hidden", []string{"displayed"}},
		{"notes", "notes", nil},
	}, got)
}

func TestParseFileKinds(t *testing.T) {
	decls := parseModels(t)

	assert.Equal(t, "named type", decls["Status"].Kind)
	assert.Equal(t, annotation.KindAlias, decls["Alias"].Kind)
	assert.True(t, decls["Page"].TypeParams)
	assert.False(t, decls["Movie"].TypeParams)
}

func TestParseFileGroupedAndLineComment(t *testing.T) {
	tagged := parseModels(t)["Tagged"]

	require.Len(t, tagged.Blocks, 1)
	assert.Equal(t, `indexName="tags"`, tagged.Blocks[0].Text)
	require.Len(t, tagged.Fields, 1)
	require.Len(t, tagged.Fields[0].Blocks, 1)
	assert.Equal(t, "displayed", tagged.Fields[0].Blocks[0].Text)
	assert.Equal(t, annotation.BlockDirective, tagged.Fields[0].Blocks[0].Kind)
}

func TestParseFileEmbedded(t *testing.T) {
	wrapper := parseModels(t)["Wrapper"]

	require.Len(t, wrapper.Fields, 2)
	assert.True(t, wrapper.Fields[0].Embedded)
	assert.Equal(t, "Base", wrapper.Fields[0].Ident)
	assert.Len(t, wrapper.Fields[0].Blocks, 1)
	assert.True(t, wrapper.Fields[1].Embedded)
	assert.Equal(t, "*Plain", wrapper.Fields[1].Ident)
	assert.Empty(t, wrapper.Fields[1].Blocks)
}

func TestParseFileCustomTag(t *testing.T) {
	src := `package search

//search:index
type Doc struct {
	ID string ` + "`search:\"primaryKey\" meili:\"displayed\"`" + `
}

//meili:index
type Ignored struct{}
`
	decls, err := NewParser("search").ParseFile("doc.go", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "Doc", decls[0].Name)
	require.Len(t, decls[0].Fields[0].Blocks, 1)
	assert.Equal(t, "primaryKey", decls[0].Fields[0].Blocks[0].Text)
}

func TestParseFileSyntaxError(t *testing.T) {
	_, err := NewParser("").ParseFile("broken.go", []byte("package broken\ntype X struct {"))
	assert.Error(t, err)
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.go":               "package store\n\n//meili:index\ntype B struct{}\n",
		"a.go":               "package store\n\n//meili:index\ntype A struct{}\n",
		"a_test.go":          "package store\n\n//meili:index\ntype T struct{}\n",
		"generated.go":       "// Code generated by heron. DO NOT EDIT.\n\npackage store\n\n//meili:index\ntype G struct{}\n",
		"meili_index_gen.go": "package store\n\n//meili:index\ntype Out struct{}\n",
		"notes.txt":          "not go",
	})

	pkg, err := NewParser("").Skip("meili_index_gen.go").ParseDir(dir)
	require.NoError(t, err)

	assert.Equal(t, "store", pkg.Name)
	assert.Equal(t, dir, pkg.Dir)
	assert.Equal(t, []string{filepath.Join(dir, "a.go"), filepath.Join(dir, "b.go")}, pkg.Files)

	var names []string
	for _, d := range pkg.Types {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestParseDirBuildConstraints(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"models.go":      "package models\n\n//go:generate go run gen.go\n\n//meili:index\ntype Movie struct{}\n",
		"gen.go":         "//go:build ignore\n\npackage main\n\nfunc main() {}\n",
		"tagged.go":      "//go:build enterprise\n\npackage models\n\n//meili:index\ntype Audit struct{}\n",
		"other_plan9.go": "package models\n\n//meili:index\ntype Plan9Only struct{}\n",
	})

	pkg, err := NewParser("").ParseDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "models", pkg.Name)
	assert.Equal(t, []string{filepath.Join(dir, "models.go")}, pkg.Files)
	require.Len(t, pkg.Types, 1)
	assert.Equal(t, "Movie", pkg.Types[0].Name)

	t.Run("custom build tags", func(t *testing.T) {
		ctxt := build.Default
		ctxt.BuildTags = []string{"enterprise"}

		pkg, err := NewParser("").WithBuildContext(ctxt).ParseDir(dir)
		require.NoError(t, err)
		names := make([]string, 0, len(pkg.Types))
		for _, typ := range pkg.Types {
			names = append(names, typ.Name)
		}
		assert.ElementsMatch(t, []string{"Movie", "Audit"}, names)
	})
}

func TestParseDirDeclarations(t *testing.T) {
	models := `package models

//meili:index
type Movie struct{}

func (Movie) IndexName() string { return "x" }
`
	more := `package models

const MovieIndexName = "movies"

var _ = 1

func init() {}

func (m *Movie) GenerateIndex() {}

type Pair[K any] struct{}

func (p *Pair[K]) Get() {}
`
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"models.go": models, "more.go": more})

	pkg, err := NewParser("").ParseDir(dir)
	require.NoError(t, err)

	assert.Contains(t, pkg.Declared, "Movie")
	assert.Contains(t, pkg.Declared, "Pair")
	assert.NotContains(t, pkg.Declared, "_")
	assert.NotContains(t, pkg.Declared, "init")
	assert.NotContains(t, pkg.Declared, "IndexName", "methods are not package-level names")
	require.Contains(t, pkg.Declared, "MovieIndexName")
	assert.Equal(t, filepath.Join(dir, "more.go"), pkg.Declared["MovieIndexName"].Filename)
	assert.Equal(t, 3, pkg.Declared["MovieIndexName"].Line)

	require.Len(t, pkg.Types, 1)
	methods := pkg.Types[0].Methods
	assert.Len(t, methods, 2)
	assert.Equal(t, 6, methods["IndexName"].Line)
	assert.Equal(t, 9, methods["GenerateIndex"].Line)
}

func TestReceiverName(t *testing.T) {
	tests := map[string]string{
		"func (Movie) M() {}":        "Movie",
		"func (m *Movie) M() {}":     "Movie",
		"func (p Pair[K]) M() {}":    "Pair",
		"func (p *Map[K, V]) M() {}": "Map",
	}
	for src, want := range tests {
		file, err := parser.ParseFile(token.NewFileSet(), "x.go", "package x\n"+src, 0)
		require.NoError(t, err)
		fn := file.Decls[0].(*ast.FuncDecl)
		assert.Equal(t, want, receiverName(fn.Recv), src)
	}
}

func TestParseDirErrors(t *testing.T) {
	t.Run("no go files", func(t *testing.T) {
		_, err := NewParser("").ParseDir(t.TempDir())
		assert.ErrorIs(t, err, ErrNoGoFiles)
	})

	t.Run("mixed packages", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, map[string]string{
			"a.go": "package one\n",
			"b.go": "package two\n",
		})
		_, err := NewParser("").ParseDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found packages one and two")
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewParser("").ParseDir(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
