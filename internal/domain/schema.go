package domain

import (
	"fmt"
	"sort"
	"strings"
)

type Kind string

const (
	KindPerformer   Kind = "Performer"
	KindPerformance Kind = "Performance"
	KindVenue       Kind = "Venue"
	KindLocation    Kind = "Location"
	KindGenre       Kind = "Genre"
	KindCountry     Kind = "Country"
)

type RelType string

const (
	RelPerformed RelType = "PERFORMED"  // Performer -> Performance
	RelPlays     RelType = "PLAYS"      // Performer -> Genre
	RelFrom      RelType = "FROM"       // Performer -> Country
	RelHeldAt    RelType = "HELD_AT"    // Performance -> Venue
	RelLocatedIn RelType = "LOCATED_IN" // Venue -> Location
	RelInCountry RelType = "IN_COUNTRY" // Location -> Country
)

// EntityKind declares one node label: which fields form its natural key, which
// attributes are first-write-wins and which last-write-wins on upsert.
type EntityKind struct {
	Kind            Kind
	KeyFields       []string
	ImmutableFields []string
	MutableFields   []string
}

// HasNaturalKey reports whether nodes of this kind are deduplicated by key.
// Performance is the one kind without a key: every ingestion creates a node.
func (e EntityKind) HasNaturalKey() bool { return len(e.KeyFields) > 0 }

type RelationshipKind struct {
	Type RelType
	From Kind
	To   Kind
}

// ViolationError reports an entity shape that fails schema validation.
type ViolationError struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("schema violation on %s.%s: %s", e.Kind, e.Field, e.Message)
}

// Registry is the fixed entity/relationship schema. It is immutable at
// runtime; both the graph writer and the query translator read from it.
type Registry struct {
	entities      map[Kind]EntityKind
	relationships []RelationshipKind
}

func NewRegistry() *Registry {
	entities := map[Kind]EntityKind{
		KindPerformer: {
			Kind:            KindPerformer,
			KeyFields:       []string{"name"},
			ImmutableFields: []string{"created_at"},
		},
		KindPerformance: {
			Kind:            KindPerformance,
			ImmutableFields: []string{"id", "date", "event_name", "source_ref", "extracted_at"},
		},
		KindVenue: {
			Kind:      KindVenue,
			KeyFields: []string{"name"},
		},
		KindLocation: {
			Kind:          KindLocation,
			KeyFields:     []string{"name"},
			MutableFields: []string{"latitude", "longitude"},
		},
		KindGenre: {
			Kind:      KindGenre,
			KeyFields: []string{"name"},
		},
		KindCountry: {
			Kind:          KindCountry,
			KeyFields:     []string{"name"},
			MutableFields: []string{"code"},
		},
	}
	relationships := []RelationshipKind{
		{Type: RelPerformed, From: KindPerformer, To: KindPerformance},
		{Type: RelPlays, From: KindPerformer, To: KindGenre},
		{Type: RelFrom, From: KindPerformer, To: KindCountry},
		{Type: RelHeldAt, From: KindPerformance, To: KindVenue},
		{Type: RelLocatedIn, From: KindVenue, To: KindLocation},
		{Type: RelInCountry, From: KindLocation, To: KindCountry},
	}
	return &Registry{entities: entities, relationships: relationships}
}

func (r *Registry) Entity(kind Kind) (EntityKind, bool) {
	e, ok := r.entities[kind]
	return e, ok
}

func (r *Registry) Entities() []EntityKind {
	out := make([]EntityKind, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func (r *Registry) Relationships() []RelationshipKind {
	out := make([]RelationshipKind, len(r.relationships))
	copy(out, r.relationships)
	return out
}

func (r *Registry) Relationship(t RelType) (RelationshipKind, bool) {
	for _, rel := range r.relationships {
		if rel.Type == t {
			return rel, true
		}
	}
	return RelationshipKind{}, false
}

// Validate checks that every natural-key field for the kind is present and
// non-empty in fields.
func (r *Registry) Validate(kind Kind, fields map[string]any) error {
	e, ok := r.entities[kind]
	if !ok {
		return &ViolationError{Kind: kind, Message: "unknown entity kind"}
	}
	for _, key := range e.KeyFields {
		v, present := fields[key]
		if !present {
			return &ViolationError{Kind: kind, Field: key, Message: "missing key field"}
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return &ViolationError{Kind: kind, Field: key, Message: "empty key field"}
		}
	}
	return nil
}

// Describe renders the schema as prompt text for the query translator, so the
// prompt can never drift from the schema the validator and writer enforce.
func (r *Registry) Describe() string {
	var b strings.Builder
	b.WriteString("Node labels and properties:\n")
	for _, e := range r.Entities() {
		b.WriteString("  (:" + string(e.Kind))
		props := append(append([]string{}, e.KeyFields...), e.ImmutableFields...)
		props = append(props, e.MutableFields...)
		if len(props) > 0 {
			b.WriteString(" {" + strings.Join(props, ", ") + "}")
		}
		b.WriteString(")")
		if e.HasNaturalKey() {
			b.WriteString("  // unique by " + strings.Join(e.KeyFields, "+"))
		}
		b.WriteString("\n")
	}
	b.WriteString("Relationships:\n")
	for _, rel := range r.relationships {
		fmt.Fprintf(&b, "  (:%s)-[:%s]->(:%s)\n", rel.From, rel.Type, rel.To)
	}
	return b.String()
}
