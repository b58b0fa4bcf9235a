package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/platform/neo4jdb"
)

// Row is one result row: column names in the store's order plus the value per
// column.
type Row struct {
	Columns []string       `json:"columns"`
	Values  map[string]any `json:"values"`
}

// Reader executes validated read queries. Sessions are opened in read mode,
// which the store routes to a reader context that structurally rejects writes;
// that context, not the app-level denylist, is the authoritative safety
// boundary.
type Reader struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewReader(client *neo4jdb.Client, log *logger.Logger) *Reader {
	return &Reader{
		client: client,
		log:    log.With("component", "GraphReader"),
	}
}

// ReadQuery runs the query with the given bound parameters and materializes at
// most limit rows, preserving the store's row order. Failures are returned as
// execution errors and never retried here: aggregates over a moving graph are
// not assumed repeatable.
func (r *Reader) ReadQuery(ctx context.Context, query string, params map[string]any, limit int) ([]Row, error) {
	session := r.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.client.Database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, opErr("ReadQuery", OperationErrorExecutionFailed, "", err)
	}

	rows := make([]Row, 0)
	for len(rows) < limit && res.Next(ctx) {
		rows = append(rows, shapeRow(res.Record()))
	}
	if err := res.Err(); err != nil {
		return nil, opErr("ReadQuery", OperationErrorExecutionFailed, "", err)
	}
	return rows, nil
}

func shapeRow(rec *db.Record) Row {
	row := Row{
		Columns: append([]string{}, rec.Keys...),
		Values:  make(map[string]any, len(rec.Keys)),
	}
	for i, key := range rec.Keys {
		if i < len(rec.Values) {
			row.Values[key] = rec.Values[i]
		}
	}
	return row
}
