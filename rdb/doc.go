// Package rdb compiles specification trees into SQL and runs the result
// against DuckDB.
//
// A Schema maps entities onto tables and dotted attribute paths onto columns
// or relationship hops. FilterCompiler turns a filter tree into a WHERE
// condition, wrapping relationship paths in correlated EXISTS subqueries;
// OrderCompiler turns an ordering tree into ORDER BY terms plus the LEFT
// JOINs they need. Query assembles both with a column list and a result
// slice into a SELECT statement, and DB executes it:
//
//	schema := rdb.NewSchema()
//	schema.Register("person", rdb.Entity{
//		Table: "people",
//		Attributes: map[string]rdb.Attribute{
//			"name":    rdb.Column("name"),
//			"address": rdb.ToOne("address", "address_id", "id"),
//		},
//	})
//
//	q := rdb.NewQuery(schema, "person",
//		rdb.WithFilter(queryspec.Eq("address.city", "Berlin")),
//		rdb.WithOrder(queryspec.Asc("name")),
//		rdb.WithLimit(20),
//	)
//	rows, err := db.Select(ctx, q)
//
// Statements render with ? placeholders by default; WithFlavor switches the
// dialect.
package rdb
