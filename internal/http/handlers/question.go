package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
	"github.com/showgraph/showgraph-backend/internal/http/response"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/services"
)

type QuestionHandler struct {
	log       *logger.Logger
	questions *services.QuestionService
}

func NewQuestionHandler(log *logger.Logger, questions *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		log:       log.With("handler", "QuestionHandler"),
		questions: questions,
	}
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *QuestionHandler) AnswerQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_question", nil)
		return
	}

	answer, err := h.questions.AnswerQuestion(c.Request.Context(), req.Question)
	if err != nil {
		status, code := statusForError(err)
		h.log.Warn("question failed", "question", req.Question, "code", code, "error", err)
		response.RespondError(c, status, code, err)
		return
	}
	response.RespondOK(c, answer)
}

func statusForError(err error) (int, string) {
	var opErr *graph.OperationError
	if !errors.As(err, &opErr) {
		return http.StatusInternalServerError, "internal_error"
	}
	switch opErr.Code {
	case graph.OperationErrorUnsafeQuery:
		return http.StatusUnprocessableEntity, string(opErr.Code)
	case graph.OperationErrorTranslationFailed, graph.OperationErrorExecutionFailed:
		return http.StatusBadGateway, string(opErr.Code)
	default:
		return http.StatusInternalServerError, string(opErr.Code)
	}
}
