// Package annotation parses the raw annotation blocks attached to Go type and
// field declarations into typed values.
//
// A type carries directive blocks such as
//
//	//meili:index indexName="products" maxTotalHits=500
//
// and each field carries role blocks taken from its struct tag or from a
// field directive:
//
//	Title string `json:"title" meili:"displayed,searchable"`
//
//	//meili:field filterable sortable
//	Price int `json:"price"`
//
// The package knows nothing about files. Callers hand it TypeDecl values with
// the blocks already lifted out of the source (see internal/source).
package annotation
