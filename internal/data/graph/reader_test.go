package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

func TestShapeRowPreservesColumnOrder(t *testing.T) {
	rec := &db.Record{
		Keys:   []string{"band", "venue", "date"},
		Values: []any{"BandX", "ClubY", "2024-05-01"},
	}

	row := shapeRow(rec)

	if len(row.Columns) != 3 || row.Columns[0] != "band" || row.Columns[2] != "date" {
		t.Fatalf("columns: got=%v", row.Columns)
	}
	if row.Values["venue"] != "ClubY" {
		t.Fatalf("venue value: got=%v", row.Values["venue"])
	}
}

func TestShapeRowShortValues(t *testing.T) {
	rec := &db.Record{
		Keys:   []string{"a", "b"},
		Values: []any{int64(1)},
	}

	row := shapeRow(rec)

	if row.Values["a"] != int64(1) {
		t.Fatalf("a value: got=%v", row.Values["a"])
	}
	if _, ok := row.Values["b"]; ok {
		t.Fatalf("b should be absent when the store returned no value")
	}
}
