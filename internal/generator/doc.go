// Package generator applies generated files to disk.
//
// Generators describe their output as Operations. Execute validates every
// operation before touching the file system, so a conflict in one package
// leaves all files untouched:
//
//	ops := []generator.Operation{
//	    &generator.WriteFileOp{Path: "models/meili_index_gen.go", Content: src, Mode: 0644},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: true})
//
// Existing files are only replaced when they carry a "Code generated ...
// DO NOT EDIT." header, unless Force is set. Writing identical content is a
// no-op, which keeps go generate runs from touching timestamps.
package generator
