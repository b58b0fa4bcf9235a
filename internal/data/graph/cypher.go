package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/showgraph/showgraph-backend/internal/domain"
)

// Query parameters are always built from explicit, sorted field sets; nothing
// outside the declared key/attribute maps can leak into a parameter set.

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// keyPattern renders `(v:Label {f: $<prefix>_f, ...})` for the given key map.
func keyPattern(varName string, kind domain.Kind, key map[string]any, prefix string, params map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(%s:%s {", varName, kind)
	for i, f := range sortedKeys(key) {
		if i > 0 {
			b.WriteString(", ")
		}
		p := prefix + "_" + f
		fmt.Fprintf(&b, "%s: $%s", f, p)
		params[p] = key[f]
	}
	b.WriteString("})")
	return b.String()
}

// upsertEntityQuery builds the MERGE statement for one keyed entity kind.
// Immutable attributes go in ON CREATE SET (first-write-wins); mutable
// attributes in a plain SET (last-write-wins). Attributes not declared in the
// schema are dropped.
func upsertEntityQuery(e domain.EntityKind, key map[string]any, attrs map[string]any) (string, map[string]any) {
	params := map[string]any{}
	var b strings.Builder
	b.WriteString("MERGE " + keyPattern("n", e.Kind, key, "key", params))

	var onCreate, onMatch []string
	for _, f := range e.ImmutableFields {
		if v, ok := attrs[f]; ok {
			p := "set_" + f
			onCreate = append(onCreate, fmt.Sprintf("n.%s = $%s", f, p))
			params[p] = v
		}
	}
	for _, f := range e.MutableFields {
		if v, ok := attrs[f]; ok {
			p := "set_" + f
			onMatch = append(onMatch, fmt.Sprintf("n.%s = $%s", f, p))
			params[p] = v
		}
	}
	if len(onCreate) > 0 {
		b.WriteString("\nON CREATE SET " + strings.Join(onCreate, ", "))
	}
	if len(onMatch) > 0 {
		b.WriteString("\nSET " + strings.Join(onMatch, ", "))
	}
	b.WriteString("\nRETURN 1")
	return b.String(), params
}

// upsertRelationshipQuery builds the MATCH/MATCH/MERGE statement for one edge.
// The MATCHes make missing endpoints observable: zero result rows means a
// dangling reference, never an implicitly created node.
func upsertRelationshipQuery(rel domain.RelationshipKind, fromKey, toKey map[string]any) (string, map[string]any) {
	params := map[string]any{}
	var b strings.Builder
	b.WriteString("MATCH " + keyPattern("a", rel.From, fromKey, "from", params))
	b.WriteString("\nMATCH " + keyPattern("b", rel.To, toKey, "to", params))
	fmt.Fprintf(&b, "\nMERGE (a)-[r:%s]->(b)", rel.Type)
	b.WriteString("\nRETURN count(r) AS linked")
	return b.String(), params
}

// createPerformanceQuery is the single atomic bundle: upsert the surrounding
// keyed entities, create the new Performance node, and wire every edge. The
// country arm is only present when the location heuristic produced one.
func createPerformanceQuery(withCountry bool) string {
	var b strings.Builder
	b.WriteString(`MERGE (p:Performer {name: $performer_name})
ON CREATE SET p.created_at = $created_at
MERGE (v:Venue {name: $venue_name})
MERGE (l:Location {name: $location_name})
`)
	if withCountry {
		b.WriteString(`MERGE (c:Country {name: $country_name})
`)
	}
	b.WriteString(`CREATE (perf:Performance {id: $performance_id, date: $date, event_name: $event_name, source_ref: $source_ref, extracted_at: $extracted_at})
MERGE (p)-[:PERFORMED]->(perf)
MERGE (perf)-[:HELD_AT]->(v)
MERGE (v)-[:LOCATED_IN]->(l)
`)
	if withCountry {
		b.WriteString(`MERGE (l)-[:IN_COUNTRY]->(c)
`)
	}
	b.WriteString("RETURN perf.id AS id")
	return b.String()
}
