package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/http/handlers"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/platform/neo4jdb"
	"github.com/showgraph/showgraph-backend/internal/platform/openai"
	"github.com/showgraph/showgraph-backend/internal/server"
	"github.com/showgraph/showgraph-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Neo4j  *neo4jdb.Client
	Router *gin.Engine

	httpServer *http.Server
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	neo4jClient, err := neo4jdb.New(cfg.Neo4j, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}

	registry := domain.NewRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := graph.EnsureConstraints(ctx, neo4jClient, registry, log); err != nil {
		_ = neo4jClient.Close(ctx)
		log.Sync()
		return nil, fmt.Errorf("ensure constraints: %w", err)
	}

	llm, err := openai.NewClient(cfg.OpenAI, log)
	if err != nil {
		_ = neo4jClient.Close(ctx)
		log.Sync()
		return nil, fmt.Errorf("init openai: %w", err)
	}

	writer := graph.NewWriter(neo4jClient, registry, log)
	reader := graph.NewReader(neo4jClient, log)

	ingestion := services.NewIngestionService(writer, log)
	translator := services.NewQueryTranslator(llm, registry, log)
	validator := services.NewQueryValidator(cfg.QueryDefaultLimit, cfg.QueryMaxLimit)
	questions := services.NewQuestionService(translator, validator, reader, log)

	router := server.NewRouter(server.RouterConfig{
		HealthHandler:   handlers.NewHealthHandler(),
		IngestHandler:   handlers.NewIngestHandler(log, ingestion),
		QuestionHandler: handlers.NewQuestionHandler(log, questions),
	})

	return &App{
		Log:    log,
		Cfg:    cfg,
		Neo4j:  neo4jClient,
		Router: router,
	}, nil
}

func (a *App) Run() error {
	a.httpServer = &http.Server{
		Addr:    ":" + a.Cfg.Port,
		Handler: a.Router,
	}
	a.Log.Info("server listening", "port", a.Cfg.Port)
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if err := a.Neo4j.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	a.Log.Sync()
	return firstErr
}
