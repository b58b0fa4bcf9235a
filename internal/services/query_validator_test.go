package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
)

func assertUnsafe(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected unsafe query error, got nil")
	}
	var opErr *graph.OperationError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected OperationError, got=%T", err)
	}
	if opErr.Code != graph.OperationErrorUnsafeQuery {
		t.Fatalf("error code: want=%q got=%q", graph.OperationErrorUnsafeQuery, opErr.Code)
	}
}

func TestValidateRejectsMutatingTokens(t *testing.T) {
	v := NewQueryValidator(50, 500)

	queries := []string{
		"CREATE (n:Performer {name: $name}) RETURN n",
		"match (p:Performer) create (p)-[:PLAYS]->(:Genre) return p",
		"MATCH (p) DELETE p",
		"MATCH (p) DETACH DELETE p RETURN count(p)",
		"MATCH (p:Performer) SET p.name = $name RETURN p",
		"MATCH (p) REMOVE p.name RETURN p",
		"MERGE (p:Performer {name: $name}) RETURN p",
		"DROP CONSTRAINT performer_name_unique",
		"CALL db.labels()",
		"MATCH (p) RETURN p LIMIT 10; cReAtE (x)",
	}
	for _, q := range queries {
		_, err := v.Validate(CandidateQuery{Query: q})
		assertUnsafe(t, err)
	}
}

func TestValidateAllowsDenylistSubstringsInsideWords(t *testing.T) {
	v := NewQueryValidator(50, 500)

	// created_at is a single token; the scan must not treat its "create"
	// substring as a mutating keyword.
	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer) WHERE p.created_at > $since RETURN p.name, p.created_at LIMIT 20",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if accepted.EffectiveLimit != 20 {
		t.Fatalf("effective limit: want=20 got=%d", accepted.EffectiveLimit)
	}
}

func TestValidateInjectsDefaultLimit(t *testing.T) {
	v := NewQueryValidator(50, 500)

	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer)-[:FROM]->(c:Country {name: $country}) RETURN p.name",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasSuffix(accepted.Query, "LIMIT 50") {
		t.Fatalf("default limit not injected:\n%s", accepted.Query)
	}
	if accepted.EffectiveLimit != 50 {
		t.Fatalf("effective limit: want=50 got=%d", accepted.EffectiveLimit)
	}
}

func TestValidateUsesFinalLimitClause(t *testing.T) {
	v := NewQueryValidator(50, 500)

	// An intermediate WITH ... LIMIT bounds a pipeline stage, not the result;
	// the final LIMIT is the one the executor must honor.
	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer) WITH p LIMIT 5 MATCH (p)-[:PERFORMED]->(perf:Performance) RETURN perf.date LIMIT 100",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if accepted.EffectiveLimit != 100 {
		t.Fatalf("effective limit: want=100 got=%d", accepted.EffectiveLimit)
	}
}

func TestValidateIntermediateLiteralFinalParamRejected(t *testing.T) {
	v := NewQueryValidator(50, 500)

	_, err := v.Validate(CandidateQuery{
		Query:  "MATCH (p:Performer) WITH p LIMIT 5 RETURN p.name LIMIT $n",
		Params: map[string]any{"n": 10},
	})
	assertUnsafe(t, err)
}

func TestValidateAllowsDigitBearingIdentifiers(t *testing.T) {
	v := NewQueryValidator(50, 500)

	// set1 and top40set must tokenize as whole identifiers, not as a
	// mutating SET keyword.
	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer) WHERE p.set1 = $x AND p.top40set = $y RETURN p.name LIMIT 10",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if accepted.EffectiveLimit != 10 {
		t.Fatalf("effective limit: want=10 got=%d", accepted.EffectiveLimit)
	}
}

func TestValidateTrimsTrailingSemicolonBeforeInjection(t *testing.T) {
	v := NewQueryValidator(50, 500)

	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer) RETURN p.name;",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if strings.Contains(accepted.Query, ";") {
		t.Fatalf("semicolon must be trimmed before limit injection:\n%s", accepted.Query)
	}
	if !strings.HasSuffix(accepted.Query, "LIMIT 50") {
		t.Fatalf("default limit not injected:\n%s", accepted.Query)
	}
}

func TestValidateClampsExplicitLimit(t *testing.T) {
	v := NewQueryValidator(50, 500)

	accepted, err := v.Validate(CandidateQuery{
		Query: "MATCH (p:Performer) RETURN p.name LIMIT 100000",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if accepted.EffectiveLimit != 500 {
		t.Fatalf("effective limit: want=500 got=%d", accepted.EffectiveLimit)
	}
}

func TestValidateEmptyQuery(t *testing.T) {
	v := NewQueryValidator(50, 500)
	_, err := v.Validate(CandidateQuery{Query: "   "})
	assertUnsafe(t, err)
}

func TestValidateParameterizedLimitRejected(t *testing.T) {
	v := NewQueryValidator(50, 500)
	_, err := v.Validate(CandidateQuery{
		Query:  "MATCH (p:Performer) RETURN p.name LIMIT $n",
		Params: map[string]any{"n": 10},
	})
	assertUnsafe(t, err)
}

func TestValidateDefaultsNilParams(t *testing.T) {
	v := NewQueryValidator(50, 500)
	accepted, err := v.Validate(CandidateQuery{Query: "MATCH (p) RETURN p LIMIT 1"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if accepted.Params == nil {
		t.Fatalf("params must never be nil")
	}
}
