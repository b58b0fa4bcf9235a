package app

import (
	"github.com/showgraph/showgraph-backend/internal/platform/envutil"
	"github.com/showgraph/showgraph-backend/internal/platform/neo4jdb"
	"github.com/showgraph/showgraph-backend/internal/platform/openai"
)

type Config struct {
	Port              string
	Neo4j             neo4jdb.Config
	OpenAI            openai.Config
	QueryDefaultLimit int
	QueryMaxLimit     int
}

func LoadConfig() Config {
	return Config{
		Port:              envutil.String("PORT", "8080"),
		Neo4j:             neo4jdb.ConfigFromEnv(),
		OpenAI:            openai.ConfigFromEnv(),
		QueryDefaultLimit: envutil.Int("QUERY_DEFAULT_LIMIT", 50),
		QueryMaxLimit:     envutil.Int("QUERY_MAX_LIMIT", 500),
	}
}
