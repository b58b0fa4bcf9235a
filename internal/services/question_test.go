package services

import (
	"context"
	"errors"
	"testing"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
)

type fakeTranslator struct {
	candidate CandidateQuery
	err       error
}

func (f *fakeTranslator) Translate(ctx context.Context, question string) (CandidateQuery, error) {
	return f.candidate, f.err
}

type fakeReader struct {
	rows  []graph.Row
	err   error
	calls int
	query string
	limit int
}

func (f *fakeReader) ReadQuery(ctx context.Context, query string, params map[string]any, limit int) ([]graph.Row, error) {
	f.calls++
	f.query = query
	f.limit = limit
	return f.rows, f.err
}

func TestAnswerQuestionBundlesResult(t *testing.T) {
	tr := &fakeTranslator{candidate: CandidateQuery{
		Query:       "MATCH (p:Performer) RETURN p.name LIMIT 10",
		Params:      map[string]any{},
		Explanation: "All performers.",
	}}
	rd := &fakeReader{rows: []graph.Row{
		{Columns: []string{"p.name"}, Values: map[string]any{"p.name": "BandX"}},
	}}
	svc := NewQuestionService(tr, NewQueryValidator(50, 500), rd, testLogger(t))

	answer, err := svc.AnswerQuestion(context.Background(), "who plays?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if answer.Question != "who plays?" || answer.Explanation != "All performers." {
		t.Fatalf("bundle: got=%+v", answer)
	}
	if len(answer.Rows) != 1 || answer.Rows[0].Values["p.name"] != "BandX" {
		t.Fatalf("rows: got=%+v", answer.Rows)
	}
	if rd.limit != 10 {
		t.Fatalf("reader limit: want=10 got=%d", rd.limit)
	}
}

func TestAnswerQuestionUnsafeQueryNeverExecutes(t *testing.T) {
	tr := &fakeTranslator{candidate: CandidateQuery{
		Query: "CREATE (n:Performer {name: $name}) RETURN n",
	}}
	rd := &fakeReader{}
	svc := NewQuestionService(tr, NewQueryValidator(50, 500), rd, testLogger(t))

	_, err := svc.AnswerQuestion(context.Background(), "add a band")
	assertUnsafe(t, err)
	if rd.calls != 0 {
		t.Fatalf("rejected query must never reach the executor")
	}
}

func TestAnswerQuestionTranslationFailureAborts(t *testing.T) {
	tr := &fakeTranslator{err: &graph.OperationError{
		Code:      graph.OperationErrorTranslationFailed,
		Operation: "TranslateQuestion",
	}}
	rd := &fakeReader{}
	svc := NewQuestionService(tr, NewQueryValidator(50, 500), rd, testLogger(t))

	_, err := svc.AnswerQuestion(context.Background(), "bands from Finland")
	assertTranslationFailed(t, err)
	if rd.calls != 0 {
		t.Fatalf("no execution after failed translation")
	}
}

func TestAnswerQuestionExecutionErrorSurfaces(t *testing.T) {
	tr := &fakeTranslator{candidate: CandidateQuery{
		Query: "MATCH (p:Performer) RETURN p.name LIMIT 5",
	}}
	rd := &fakeReader{err: &graph.OperationError{
		Code:      graph.OperationErrorExecutionFailed,
		Operation: "ReadQuery",
		Message:   "connection lost",
	}}
	svc := NewQuestionService(tr, NewQueryValidator(50, 500), rd, testLogger(t))

	_, err := svc.AnswerQuestion(context.Background(), "who plays?")
	var opErr *graph.OperationError
	if !errors.As(err, &opErr) || opErr.Code != graph.OperationErrorExecutionFailed {
		t.Fatalf("expected execution error, got=%v", err)
	}
	if rd.calls != 1 {
		t.Fatalf("execution errors are not retried: calls=%d", rd.calls)
	}
}
