package services

import (
	"context"
	"strings"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/platform/openai"
)

const translatorInstructions = `You translate natural-language questions about live-music data into Cypher read queries.
Rules:
- Use only MATCH, OPTIONAL MATCH, WHERE, WITH, RETURN, ORDER BY, SKIP and LIMIT clauses. Never use any clause that writes.
- Every user-supplied literal (names, dates, countries) must be a named parameter, never inlined into the query text.
- Always end the query with a LIMIT clause.
- Respond with a single JSON object: {"query": "<cypher>", "parameters": {<name>: <value>, ...}, "explanation": "<one sentence>"}.`

// QueryTranslator turns a question plus the schema description into a
// candidate Cypher query via one bounded language-model call. The candidate is
// untrusted and must pass the validator before execution; the translator never
// executes anything itself.
type QueryTranslator struct {
	llm      openai.Client
	registry *domain.Registry
	log      *logger.Logger
}

func NewQueryTranslator(llm openai.Client, registry *domain.Registry, log *logger.Logger) *QueryTranslator {
	return &QueryTranslator{
		llm:      llm,
		registry: registry,
		log:      log.With("service", "QueryTranslator"),
	}
}

func (t *QueryTranslator) Translate(ctx context.Context, question string) (CandidateQuery, error) {
	system := translatorInstructions + "\n\nGraph schema:\n" + t.registry.Describe()

	out, err := t.llm.GenerateJSON(ctx, system, question)
	if err != nil {
		return CandidateQuery{}, translationErr("language model call failed", err)
	}

	queryText, _ := out["query"].(string)
	if strings.TrimSpace(queryText) == "" {
		return CandidateQuery{}, translationErr("model output missing query text", nil)
	}
	explanation, _ := out["explanation"].(string)
	params, _ := out["parameters"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	t.log.Debug("question translated", "question", question, "query", queryText)
	return CandidateQuery{
		Query:       queryText,
		Params:      params,
		Explanation: explanation,
	}, nil
}

func translationErr(msg string, cause error) error {
	return &graph.OperationError{
		Code:      graph.OperationErrorTranslationFailed,
		Operation: "TranslateQuestion",
		Message:   msg,
		Cause:     cause,
	}
}
