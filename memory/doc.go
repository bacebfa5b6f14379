// Package memory evaluates specifications against in-process data: slices of
// arbitrary Go values and Arrow record batches.
//
// CompilePredicate and CompileComparator give filter and ordering trees the
// same compile-then-apply surface the other projections have; the compiled
// closures delegate to the tree's own evaluation. On top of them sit Select,
// Count and One for slices, Sort and Sorter for stable ordering, and
// MatchRecordBatch and FilterRecordBatch for Arrow batches:
//
//	matched, err := memory.Select(people, queryspec.Eq("address.city", "Berlin"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := memory.Sort(matched, queryspec.Desc("age")); err != nil {
//	    log.Fatal(err)
//	}
//
// Candidates expose attributes through struct fields, string-keyed maps or an
// AttributeSource implementation; record batch rows expose their cells by
// column name.
package memory
