// Package schema turns annotated type declarations into validated index
// descriptors.
//
// Build runs the checks in a fixed order: structure, type-level annotations,
// index name, then the field walk. The first failure aborts the type and is
// returned as a single positioned error. BuildAll applies Build to every
// declaration of a package and collects the failures as Diagnostics so one
// bad type does not hide the others.
package schema
