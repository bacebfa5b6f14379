// Package queryspec provides immutable query specifications for filtering and
// ordering collections of resources, together with builders that assemble them
// from parsed query expressions.
//
// A filter specification is an expression tree over attribute criteria.
// Leaf criteria compare a (possibly dotted) attribute path against a value
// using one of the comparison operators; composite nodes combine subtrees
// with conjunction, disjunction and negation. An order specification is the
// analogous tree for sort directives: simple ascending/descending terms
// chained into lexicographic conjunctions.
//
// Specifications are built once and never mutated. Combinators (And, Or, Not,
// Reverse) return new trees sharing the existing nodes, so specifications are
// safe to cache and to share across goroutines.
//
// # Quick Start
//
// Build a filter directly with the convenience constructors:
//
//	spec := queryspec.Eq("status", "open").
//		And(queryspec.Gt("age", int64(21)))
//
//	ok, err := spec.IsSatisfiedBy(map[string]any{
//		"status": "open",
//		"age":    int64(42),
//	})
//
// Or assemble one from parsed criteria via the builder:
//
//	b := queryspec.NewFilterBuilder(queryspec.NewFilterFactory())
//	if err := b.BuildEqualTo("status", []any{"open"}); err != nil {
//		return err
//	}
//	if err := b.BuildGreaterThan("age", []any{int64(21)}); err != nil {
//		return err
//	}
//	spec := b.Specification()
//
// # Projections
//
// A specification is an abstract query. Subpackages compile it to concrete
// targets:
//
//   - cql: the textual wire format used in URL query parameters
//   - rdb: SQL WHERE/ORDER BY clauses executed through database/sql
//   - memory: in-process predicates, comparators and Arrow record filters
//   - codec: a binary MessagePack encoding for caching and transport
//
// All projections walk the same trees through CompileFilter and CompileOrder,
// which dispatch on the closed set of node types. Implement FilterCompiler or
// OrderCompiler to add a projection of your own.
//
// # Attribute Access
//
// Candidates inspected by IsSatisfiedBy may be maps with string keys, structs
// (fields matched by exact or snake_case name), or types implementing
// AttributeSource. Dotted paths traverse nested candidates one hop at a time;
// a nil value part way through the path yields a nil attribute value rather
// than an error, mirroring an absent optional relation.
//
// # Logging
//
// Directors log construction steps through log/slog. Pass a custom logger
// with WithLogger; the default is slog.Default().
package queryspec
