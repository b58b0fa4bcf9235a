package services

import (
	"context"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
)

// Answer bundles the full outcome of one question: the original question, the
// validated query that ran, the translator's explanation, and the result rows.
type Answer struct {
	Question    string      `json:"question"`
	Query       string      `json:"query"`
	Explanation string      `json:"explanation"`
	Rows        []graph.Row `json:"rows"`
}

type Translator interface {
	Translate(ctx context.Context, question string) (CandidateQuery, error)
}

type RowReader interface {
	ReadQuery(ctx context.Context, query string, params map[string]any, limit int) ([]graph.Row, error)
}

// QuestionService runs the whole question-answering chain: translate,
// validate, execute. Any stage failing aborts the request with that stage's
// typed error; a partially-validated query is never executed.
type QuestionService struct {
	translator Translator
	validator  *QueryValidator
	reader     RowReader
	log        *logger.Logger
}

func NewQuestionService(translator Translator, validator *QueryValidator, reader RowReader, log *logger.Logger) *QuestionService {
	return &QuestionService{
		translator: translator,
		validator:  validator,
		reader:     reader,
		log:        log.With("service", "QuestionService"),
	}
}

func (s *QuestionService) AnswerQuestion(ctx context.Context, question string) (Answer, error) {
	candidate, err := s.translator.Translate(ctx, question)
	if err != nil {
		return Answer{}, err
	}

	accepted, err := s.validator.Validate(candidate)
	if err != nil {
		s.log.Warn("candidate query rejected", "question", question, "error", err)
		return Answer{}, err
	}

	rows, err := s.reader.ReadQuery(ctx, accepted.Query, accepted.Params, accepted.EffectiveLimit)
	if err != nil {
		return Answer{}, err
	}

	s.log.Info("question answered", "question", question, "rows", len(rows))
	return Answer{
		Question:    question,
		Query:       accepted.Query,
		Explanation: candidate.Explanation,
		Rows:        rows,
	}, nil
}
