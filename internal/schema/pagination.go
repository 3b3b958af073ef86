package schema

import "github.com/simonhull/heron/internal/annotation"

// Pagination carries the maxTotalHits value. Source is forwarded verbatim
// into generated code; no range check is applied.
type Pagination struct {
	MaxTotalHits string
}

// ResolvePagination returns nil when maxTotalHits was not provided.
func ResolvePagination(ann annotation.StructAnnotations) *Pagination {
	if ann.MaxTotalHits == nil {
		return nil
	}
	return &Pagination{MaxTotalHits: ann.MaxTotalHits.Source}
}
