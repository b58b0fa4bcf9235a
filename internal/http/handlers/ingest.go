package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/http/response"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/services"
)

type IngestHandler struct {
	log       *logger.Logger
	ingestion *services.IngestionService
}

func NewIngestHandler(log *logger.Logger, ingestion *services.IngestionService) *IngestHandler {
	return &IngestHandler{
		log:       log.With("handler", "IngestHandler"),
		ingestion: ingestion,
	}
}

type ingestRequest struct {
	SourceID string                 `json:"source_id"`
	Facts    []domain.PerformerFact `json:"facts"`
}

func (h *IngestHandler) IngestBatch(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.SourceID) == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_source_id", nil)
		return
	}
	if len(req.Facts) == 0 {
		response.RespondError(c, http.StatusBadRequest, "no_facts", nil)
		return
	}

	report, err := h.ingestion.IngestBatch(c.Request.Context(), req.SourceID, req.Facts)
	if err != nil {
		h.log.Error("ingest batch failed", "source_id", req.SourceID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "ingest_failed", err)
		return
	}
	response.RespondOK(c, report)
}
