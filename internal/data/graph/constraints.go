package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/platform/neo4jdb"
)

// EnsureConstraints creates a uniqueness constraint for every natural-keyed
// entity kind, plus one on Performance.id. The store's constraint check is the
// single source of truth for entity identity, so this runs before the app
// serves traffic rather than best-effort inline.
func EnsureConstraints(ctx context.Context, client *neo4jdb.Client, registry *domain.Registry, log *logger.Logger) error {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, e := range registry.Entities() {
		fields := e.KeyFields
		if !e.HasNaturalKey() {
			// Performance carries an app-assigned surrogate id instead.
			fields = []string{"id"}
		}
		for _, f := range fields {
			stmt := fmt.Sprintf(
				"CREATE CONSTRAINT %s_%s_unique IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
				strings.ToLower(string(e.Kind)), f, e.Kind, f,
			)
			res, err := session.Run(ctx, stmt, nil)
			if err != nil {
				return fmt.Errorf("ensure constraint on %s.%s: %w", e.Kind, f, err)
			}
			if _, err := res.Consume(ctx); err != nil {
				return fmt.Errorf("ensure constraint on %s.%s: %w", e.Kind, f, err)
			}
		}
	}
	log.Info("graph uniqueness constraints ensured")
	return nil
}
