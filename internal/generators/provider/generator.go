// Package provider emits the indexconfig.Provider implementation for the
// annotated types of a package.
package provider

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/schema"
	"github.com/simonhull/heron/internal/source"
)

const (
	// IndexconfigPath is the import path of the runtime contract.
	IndexconfigPath = "github.com/simonhull/heron/pkg/indexconfig"

	// DefaultOutput is the generated file name inside each package.
	DefaultOutput = "meili_index_gen.go"

	// Header marks generated files.
	Header = "Code generated by heron. DO NOT EDIT."
)

// Options configures the emitter.
type Options struct {
	Output   string // file name relative to the package directory
	Register bool   // emit an init function registering every provider
}

// Generator renders provider code for one package at a time.
type Generator struct {
	opts Options
}

// New creates a provider generator.
func New(opts Options) *Generator {
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}
	return &Generator{opts: opts}
}

// OutputPath returns where the generated file of pkg lives.
func (g *Generator) OutputPath(pkg *source.Package) string {
	return filepath.Join(pkg.Dir, g.opts.Output)
}

// Generate returns the operation writing the provider file of pkg.
func (g *Generator) Generate(pkg *source.Package, descriptors []*schema.Descriptor) ([]generator.Operation, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	src, err := g.Render(pkg.Name, descriptors)
	if err != nil {
		return nil, fmt.Errorf("generating providers for %s: %w", pkg.Dir, err)
	}
	return []generator.Operation{
		&generator.WriteFileOp{Path: g.OutputPath(pkg), Content: src, Mode: 0644},
	}, nil
}

// Cleanup returns the operation removing a generated file left behind in a
// package that no longer has annotated types.
func (g *Generator) Cleanup(pkg *source.Package) ([]generator.Operation, error) {
	path := g.OutputPath(pkg)
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !generator.IsGenerated(existing) {
		return nil, nil
	}
	return []generator.Operation{&generator.RemoveFileOp{Path: path}}, nil
}

// Render produces the formatted source of the provider file.
func (g *Generator) Render(pkgName string, descriptors []*schema.Descriptor) ([]byte, error) {
	f := jen.NewFile(pkgName)
	f.HeaderComment(Header)
	f.ImportName(IndexconfigPath, "indexconfig")

	data := make([]providerData, len(descriptors))
	for i, d := range descriptors {
		data[i] = prepareProviderData(d)
	}

	f.Var().DefsFunc(func(group *jen.Group) {
		for _, d := range data {
			group.Id("_").Qual(IndexconfigPath, "Provider").Op("=").Id(d.TypeName).Values()
		}
	})

	for _, d := range data {
		emitProvider(f, d)
	}

	if g.opts.Register {
		f.Func().Id("init").Params().BlockFunc(func(group *jen.Group) {
			for _, d := range data {
				group.Qual(IndexconfigPath, "MustRegister").Call(jen.Id(d.TypeName).Values())
			}
		})
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func emitProvider(f *jen.File, d providerData) {
	f.Commentf("%s is the search index holding %s documents.", d.ConstName, d.TypeName)
	f.Const().Id(d.ConstName).Op("=").Lit(d.IndexName)

	f.Commentf("IndexName returns %s.", d.ConstName)
	f.Func().Params(jen.Id(d.TypeName)).Id("IndexName").Params().String().Block(
		jen.Return(jen.Id(d.ConstName)),
	)

	f.Comment("GenerateSettings returns the complete settings of the index.")
	f.Func().Params(jen.Id(d.TypeName)).Id("GenerateSettings").Params().
		Op("*").Qual(IndexconfigPath, "Settings").
		Block(jen.Return(settingsChain(d.Calls)))

	primaryKey := jen.Nil()
	if d.PrimaryKey != "" {
		primaryKey = jen.Qual(IndexconfigPath, "PrimaryKey").Call(jen.Lit(d.PrimaryKey))
	}

	f.Comment("GenerateIndex creates the index and waits for the creation task.")
	f.Func().Params(jen.Id(d.TypeName)).Id("GenerateIndex").
		Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("client").Qual(IndexconfigPath, "Client"),
		).
		Params(jen.Op("*").Qual(IndexconfigPath, "Index"), jen.Error()).
		Block(
			jen.List(jen.Id("info"), jen.Err()).Op(":=").Id("client").Dot("CreateIndex").Call(
				jen.Id("ctx"), jen.Id(d.ConstName), primaryKey,
			),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.List(jen.Id("task"), jen.Err()).Op(":=").Id("client").Dot("WaitForTask").Call(
				jen.Id("ctx"), jen.Id("info").Dot("TaskUID"),
			),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Return(jen.Id("task").Dot("MakeIndex").Call(jen.Id("client"))),
		)
}

// settingsChain renders indexconfig.NewSettings().WithX(...).WithY(...),
// one call per line.
func settingsChain(calls []settingsCall) *jen.Statement {
	chain := jen.Qual(IndexconfigPath, "NewSettings").Call()
	for _, c := range calls {
		chain = chain.Op(".").Line().Id(c.method).Call(c.argument())
	}
	return chain
}

func (c settingsCall) argument() jen.Code {
	switch c.kind {
	case stringCall:
		return jen.Lit(c.value)
	case paginationCall:
		return jen.Qual(IndexconfigPath, "Pagination").Values(
			jen.Id("MaxTotalHits").Op(":").Id(c.value),
		)
	default:
		return jen.Index().String().ValuesFunc(func(group *jen.Group) {
			for _, name := range c.list {
				group.Lit(name)
			}
		})
	}
}
