package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/showgraph/showgraph-backend/internal/http/handlers"
)

type RouterConfig struct {
	HealthHandler   *handlers.HealthHandler
	IngestHandler   *handlers.IngestHandler
	QuestionHandler *handlers.QuestionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", cfg.HealthHandler.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.POST("/ingest", cfg.IngestHandler.IngestBatch)
		v1.POST("/questions", cfg.QuestionHandler.AnswerQuestion)
	}

	return router
}
