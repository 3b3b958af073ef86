package annotation

import (
	"errors"
	"fmt"
	"go/token"
)

// ErrMalformedAnnotation matches every MalformedAnnotationError.
var ErrMalformedAnnotation = errors.New("malformed annotation")

// MalformedAnnotationError reports a recognized block that could not be
// parsed. It is only raised in strict mode; otherwise such blocks are
// skipped.
type MalformedAnnotationError struct {
	Pos    token.Position
	Text   string
	Reason string
}

func (e *MalformedAnnotationError) Error() string {
	return fmt.Sprintf("%s: malformed annotation %q: %s", e.Pos, e.Text, e.Reason)
}

func (e *MalformedAnnotationError) Is(target error) bool {
	return target == ErrMalformedAnnotation
}

func malformed(b Block, format string, args ...any) *MalformedAnnotationError {
	return &MalformedAnnotationError{
		Pos:    b.Pos,
		Text:   b.Text,
		Reason: fmt.Sprintf(format, args...),
	}
}
