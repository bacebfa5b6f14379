package rdb

import "fmt"

// UnknownEntityError reports an entity name the schema does not define.
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("rdb: unknown entity %q", e.Name)
}

// PathError reports a dotted attribute path that cannot be resolved against
// the schema, or one that resolves to something the SQL projection cannot
// use.
type PathError struct {
	Entity  string
	Path    string
	Segment string
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("rdb: invalid attribute path %q for entity %q: %s", e.Path, e.Entity, e.Reason)
}
