package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Diff   bool      // Print a unified diff for every change
	Writer io.Writer // Where to write output (defaults to os.Stdout)

	// Resolver decides on files heron did not generate. Nil fails the
	// run on the first conflict unless Force is set.
	Resolver *Resolver
}

// Execute runs operations with validation
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: Validate all operations, resolving conflicts
	run := make([]Operation, 0, len(ops))
	for _, op := range ops {
		err := op.Validate(ctx, opts.Force)

		var conflict *ConflictError
		if errors.As(err, &conflict) && opts.Resolver != nil {
			resolution, rerr := opts.Resolver.ResolveConflict(conflict)
			if rerr != nil {
				return rerr
			}
			switch resolution {
			case Skip:
				fmt.Fprintf(opts.Writer, "⊘ Skip %s (not a generated file)\n", conflict.Path)
				continue
			case Overwrite:
				err = op.Validate(ctx, true)
			}
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		run = append(run, op)
	}

	// Phase 2: Execute or report
	for _, op := range run {
		if err := ctx.Err(); err != nil {
			return err
		}

		if change, ok := op.(Change); ok && opts.Diff && change.Changed() {
			if err := WriteDiff(opts.Writer, change.Diff()); err != nil {
				return err
			}
		}

		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
			continue
		}

		description := op.Description()
		if err := op.Execute(ctx); err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", description)
	}

	return nil
}

// Pending validates ops without executing them and returns those that
// would change the file system.
func Pending(ctx context.Context, ops []Operation) ([]Operation, error) {
	var pending []Operation
	for _, op := range ops {
		if err := op.Validate(ctx, true); err != nil {
			return nil, err
		}
		if change, ok := op.(Change); !ok || change.Changed() {
			pending = append(pending, op)
		}
	}
	return pending, nil
}
