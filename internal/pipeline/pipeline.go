// Package pipeline runs the full annotation-to-provider pipeline over a set
// of package directories.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/simonhull/heron/internal/generator"
	"github.com/simonhull/heron/internal/generators/provider"
	"github.com/simonhull/heron/internal/logger"
	"github.com/simonhull/heron/internal/schema"
	"github.com/simonhull/heron/internal/source"
)

// Options configures a Runner.
type Options struct {
	Tag      string
	Output   string
	Strict   bool
	Register bool
}

// PackageResult is the outcome for one package directory.
type PackageResult struct {
	Package     *source.Package
	Descriptors []*schema.Descriptor
	Diagnostics schema.Diagnostics
	Operations  []generator.Operation
}

// Result aggregates every processed package.
type Result struct {
	Packages []*PackageResult
}

// Operations returns the operations of all packages in order.
func (r *Result) Operations() []generator.Operation {
	var ops []generator.Operation
	for _, p := range r.Packages {
		ops = append(ops, p.Operations...)
	}
	return ops
}

// Diagnostics returns the diagnostics of all packages in order.
func (r *Result) Diagnostics() schema.Diagnostics {
	var diags schema.Diagnostics
	for _, p := range r.Packages {
		diags = append(diags, p.Diagnostics...)
	}
	return diags
}

// Descriptors counts the types that passed validation.
func (r *Result) Descriptors() int {
	n := 0
	for _, p := range r.Packages {
		n += len(p.Descriptors)
	}
	return n
}

// Runner parses packages, builds descriptors and prepares the generated
// files. It never writes to disk; callers execute the operations.
type Runner struct {
	opts      Options
	generator *provider.Generator
	logger    logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.Tag == "" {
		opts.Tag = source.DefaultTag
	}
	if opts.Output == "" {
		opts.Output = provider.DefaultOutput
	}
	return &Runner{
		opts:      opts,
		generator: provider.New(provider.Options{Output: opts.Output, Register: opts.Register}),
		logger:    logger.Default(),
	}
}

// WithLogger returns a new Runner with the specified logger
func (r *Runner) WithLogger(log logger.Logger) *Runner {
	return &Runner{
		opts:      r.opts,
		generator: r.generator,
		logger:    log,
	}
}

// Options returns the effective options.
func (r *Runner) Options() Options { return r.opts }

// Run processes dirs in order. Directories without Go files are skipped.
func (r *Runner) Run(ctx context.Context, dirs []string) (*Result, error) {
	result := &Result{}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pr, err := r.RunPackage(dir)
		if errors.Is(err, source.ErrNoGoFiles) {
			r.logger.Debug("skipping directory without Go files", logger.F("dir", dir))
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Packages = append(result.Packages, pr)
	}
	return result, nil
}

// RunPackage processes a single package directory.
func (r *Runner) RunPackage(dir string) (*PackageResult, error) {
	parser := source.NewParser(r.opts.Tag).WithLogger(r.logger).Skip(r.opts.Output)
	pkg, err := parser.ParseDir(dir)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithFields(logger.F("package", pkg.Name), logger.F("dir", dir))

	descriptors, diags := schema.BuildAll(pkg.Types, schema.Options{Strict: r.opts.Strict, Declared: pkg.Declared})
	diags.Sort()
	for _, d := range descriptors {
		log.Debug("built descriptor",
			logger.F("type", d.TypeName),
			logger.F("index", d.IndexName),
			logger.F("primaryKey", d.PrimaryKey))
	}
	for _, diag := range diags {
		log.Debug("type rejected", logger.F("error", diag))
	}

	var ops []generator.Operation
	if len(pkg.Types) == 0 {
		ops, err = r.generator.Cleanup(pkg)
	} else {
		ops, err = r.generator.Generate(pkg, descriptors)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	return &PackageResult{
		Package:     pkg,
		Descriptors: descriptors,
		Diagnostics: diags,
		Operations:  ops,
	}, nil
}
