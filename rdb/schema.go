package rdb

import (
	"fmt"
	"strings"
	"sync"
)

// Kind classifies a schema attribute.
type Kind int

const (
	// KindTerminal is a plain column on the owning table.
	KindTerminal Kind = iota
	// KindToOne references a single row of another entity.
	KindToOne
	// KindToMany references a collection of rows of another entity.
	KindToMany
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindToOne:
		return "to-one"
	case KindToMany:
		return "to-many"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Attribute describes one named attribute of an entity: either a table
// column or a relationship to another entity. Use the Column, ToOne and
// ToMany constructors.
type Attribute struct {
	// Kind selects which of the remaining fields apply.
	Kind Kind

	// Column is the table column backing a terminal attribute.
	Column string

	// Target names the entity a relationship attribute points at.
	Target string

	// LocalColumn and TargetColumn form the join condition between the
	// owning table and the target table.
	LocalColumn  string
	TargetColumn string
}

// Column declares a terminal attribute backed by a table column.
func Column(column string) Attribute {
	return Attribute{Kind: KindTerminal, Column: column}
}

// ToOne declares a reference to a single row of the target entity. The join
// condition is target.targetColumn = owner.localColumn.
func ToOne(target, localColumn, targetColumn string) Attribute {
	return Attribute{Kind: KindToOne, Target: target, LocalColumn: localColumn, TargetColumn: targetColumn}
}

// ToMany declares a collection of rows of the target entity. The join
// condition is target.targetColumn = owner.localColumn.
func ToMany(target, localColumn, targetColumn string) Attribute {
	return Attribute{Kind: KindToMany, Target: target, LocalColumn: localColumn, TargetColumn: targetColumn}
}

// Entity maps a logical entity onto a table and names its attributes.
type Entity struct {
	Table      string
	Attributes map[string]Attribute
}

// Hop is one resolved segment of a dotted attribute path. Relationship hops
// carry the resolved target entity; the final hop of a compilable path is
// terminal.
type Hop struct {
	Name   string
	Kind   Kind
	Owner  Entity
	Attr   Attribute
	Target Entity
}

// Inspector resolves entity metadata for the SQL compilers. Schema is the
// implementation in this package; callers with their own metadata source can
// supply any Inspector.
type Inspector interface {
	// Table returns the table backing an entity.
	Table(entity string) (string, error)

	// Inspect resolves a dotted attribute path starting at entity into
	// ordered hops.
	Inspect(entity, path string) ([]Hop, error)
}

// Schema is a registry of entity descriptors with a path resolution cache.
// It is safe for concurrent use.
type Schema struct {
	mu       sync.RWMutex
	entities map[string]Entity
	cache    map[pathKey][]Hop
}

type pathKey struct {
	entity string
	path   string
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{
		entities: make(map[string]Entity),
		cache:    make(map[pathKey][]Hop),
	}
}

// Register adds an entity descriptor under a name. Registering validates the
// descriptor; incomplete attributes and duplicate names are rejected.
func (s *Schema) Register(name string, entity Entity) error {
	if name == "" {
		return fmt.Errorf("rdb: entity name must not be empty")
	}
	if entity.Table == "" {
		return fmt.Errorf("rdb: entity %q has no table", name)
	}
	for attrName, attr := range entity.Attributes {
		if err := validateAttribute(attr); err != nil {
			return fmt.Errorf("rdb: entity %q attribute %q: %w", name, attrName, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[name]; ok {
		return fmt.Errorf("rdb: entity %q already registered", name)
	}
	s.entities[name] = entity
	return nil
}

func validateAttribute(attr Attribute) error {
	switch attr.Kind {
	case KindTerminal:
		if attr.Column == "" {
			return fmt.Errorf("terminal attribute has no column")
		}
	case KindToOne, KindToMany:
		if attr.Target == "" || attr.LocalColumn == "" || attr.TargetColumn == "" {
			return fmt.Errorf("%s attribute needs a target and a join column pair", attr.Kind)
		}
	default:
		return fmt.Errorf("unknown attribute kind %v", attr.Kind)
	}
	return nil
}

// Entity returns a registered descriptor.
func (s *Schema) Entity(name string) (Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[name]
	return e, ok
}

// Table returns the table backing an entity.
func (s *Schema) Table(entity string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entity]
	if !ok {
		return "", &UnknownEntityError{Name: entity}
	}
	return e.Table, nil
}

// Inspect resolves a dotted attribute path starting at entity. Each segment
// must name an attribute of the entity reached so far; relationship segments
// move resolution to their target entity. A terminal segment anywhere but
// the end of the path is a *PathError. Resolved paths are cached.
func (s *Schema) Inspect(entity, path string) ([]Hop, error) {
	key := pathKey{entity: entity, path: path}
	s.mu.RLock()
	hops, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return hops, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hops, ok := s.cache[key]; ok {
		return hops, nil
	}
	hops, err := s.resolve(entity, path)
	if err != nil {
		return nil, err
	}
	s.cache[key] = hops
	return hops, nil
}

func (s *Schema) resolve(entity, path string) ([]Hop, error) {
	cur, ok := s.entities[entity]
	if !ok {
		return nil, &UnknownEntityError{Name: entity}
	}
	segs := strings.Split(path, ".")
	hops := make([]Hop, 0, len(segs))
	for i, seg := range segs {
		attr, ok := cur.Attributes[seg]
		if !ok {
			return nil, &PathError{
				Entity:  entity,
				Path:    path,
				Segment: seg,
				Reason:  fmt.Sprintf("attribute %q is not defined", seg),
			}
		}
		hop := Hop{Name: seg, Kind: attr.Kind, Owner: cur, Attr: attr}
		if attr.Kind == KindTerminal {
			if i < len(segs)-1 {
				return nil, &PathError{
					Entity:  entity,
					Path:    path,
					Segment: seg,
					Reason:  fmt.Sprintf("terminal attribute %q does not end the path", seg),
				}
			}
		} else {
			target, ok := s.entities[attr.Target]
			if !ok {
				return nil, &UnknownEntityError{Name: attr.Target}
			}
			hop.Target = target
			cur = target
		}
		hops = append(hops, hop)
	}
	return hops, nil
}

// terminalHop returns the final hop of a path, which must be terminal for
// any SQL projection of the path.
func terminalHop(entity, path string, hops []Hop) (Hop, error) {
	last := hops[len(hops)-1]
	if last.Kind != KindTerminal {
		return Hop{}, &PathError{
			Entity:  entity,
			Path:    path,
			Segment: last.Name,
			Reason:  fmt.Sprintf("path ends on %s attribute %q, not a column", last.Kind, last.Name),
		}
	}
	return last, nil
}
