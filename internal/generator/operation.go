package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrConflict matches every ConflictError.
var ErrConflict = errors.New("file conflict")

// ConflictError is returned when an operation would replace a file that was
// not generated.
type ConflictError struct {
	Path      string
	Existing  []byte // current content on disk
	Generated []byte // content the operation would write, nil for removals
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("refusing to overwrite %s: not a generated file (use --force)", e.Path)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// force=true skips conflict checks.
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create models/meili_index_gen.go (234 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Change is implemented by operations that can report what they would
// modify. It is only meaningful after Validate.
type Change interface {
	Changed() bool
	Diff() string
}

// WriteFileOp creates or replaces a file with content.
type WriteFileOp struct {
	Path    string      // File path to write
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)

	existing []byte
	exists   bool
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	existing, err := os.ReadFile(op.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		op.exists, op.existing = false, nil
		return nil
	case err != nil:
		return fmt.Errorf("cannot read %s: %w", op.Path, err)
	}

	op.exists, op.existing = true, existing
	if !force && !bytes.Equal(existing, op.Content) && !IsGenerated(existing) {
		return &ConflictError{Path: op.Path, Existing: existing, Generated: op.Content}
	}
	return nil
}

// Execute writes through a temporary file in the same directory and renames
// it into place.
func (op *WriteFileOp) Execute(ctx context.Context) error {
	if !op.Changed() {
		return nil
	}

	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(op.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(op.Content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), op.Path); err != nil {
		return err
	}

	op.exists, op.existing = true, op.Content
	return nil
}

func (op *WriteFileOp) Changed() bool {
	return !op.exists || !bytes.Equal(op.existing, op.Content)
}

func (op *WriteFileOp) Diff() string {
	return UnifiedDiff(op.Path, op.existing, op.Content)
}

func (op *WriteFileOp) Description() string {
	switch {
	case !op.exists:
		return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
	case op.Changed():
		return fmt.Sprintf("Update %s (%d bytes)", op.Path, len(op.Content))
	default:
		return fmt.Sprintf("Unchanged %s", op.Path)
	}
}

// RemoveFileOp deletes a previously generated file that no longer has any
// content to hold.
type RemoveFileOp struct {
	Path string

	existing []byte
}

func (op *RemoveFileOp) Validate(ctx context.Context, force bool) error {
	existing, err := os.ReadFile(op.Path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", op.Path, err)
	}
	if !force && !IsGenerated(existing) {
		return &ConflictError{Path: op.Path, Existing: existing}
	}
	op.existing = existing
	return nil
}

func (op *RemoveFileOp) Execute(ctx context.Context) error {
	return os.Remove(op.Path)
}

func (op *RemoveFileOp) Changed() bool { return true }

func (op *RemoveFileOp) Diff() string {
	return UnifiedDiff(op.Path, op.existing, []byte{})
}

func (op *RemoveFileOp) Description() string {
	return fmt.Sprintf("Remove %s", op.Path)
}
