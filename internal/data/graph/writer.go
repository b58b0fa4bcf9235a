package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
	"github.com/showgraph/showgraph-backend/internal/platform/neo4jdb"
)

// EntityKey identifies one node by kind and natural-key (or surrogate-id)
// field values.
type EntityKey struct {
	Kind   domain.Kind
	Fields map[string]any
}

// PerformanceInput is everything CreatePerformance needs for one atomic
// bundle. Location is the extraction agent's free-text location string.
type PerformanceInput struct {
	Performer   string
	Venue       string
	Location    string
	Date        string
	EventName   string
	SourceRef   string
	ExtractedAt time.Time
}

// Writer is the sole write path into the graph. All uniqueness and idempotence
// guarantees are delegated to the store's constraint-checked MERGE; the writer
// holds no locks, caches, or counters of its own.
type Writer struct {
	client   *neo4jdb.Client
	registry *domain.Registry
	log      *logger.Logger
}

func NewWriter(client *neo4jdb.Client, registry *domain.Registry, log *logger.Logger) *Writer {
	return &Writer{
		client:   client,
		registry: registry,
		log:      log.With("component", "GraphWriter"),
	}
}

// CountryFromLocation derives a country name from a free-text location string
// by taking the component after the last comma ("Helsinki, Finland" ->
// "Finland"). No comma means no country: this is a narrow heuristic over the
// extraction agents' usual formatting, not geocoding.
func CountryFromLocation(location string) string {
	idx := strings.LastIndex(location, ",")
	if idx < 0 {
		return ""
	}
	country := strings.TrimSpace(location[idx+1:])
	if country == "" || strings.EqualFold(country, "Unknown") {
		return ""
	}
	return country
}

// UpsertEntity creates the node if absent by natural key, otherwise leaves the
// key fields untouched and merges attributes per the schema's first-write-wins
// / last-write-wins split. Safe to retry or duplicate-call.
func (w *Writer) UpsertEntity(ctx context.Context, kind domain.Kind, key map[string]any, attrs map[string]any) (EntityKey, error) {
	e, ok := w.registry.Entity(kind)
	if !ok || !e.HasNaturalKey() {
		return EntityKey{}, opErr("UpsertEntity", OperationErrorInvalidEntity, "kind has no natural key: "+string(kind), nil)
	}
	if err := w.registry.Validate(kind, key); err != nil {
		var viol *domain.ViolationError
		if errors.As(err, &viol) {
			return EntityKey{}, opErr("UpsertEntity", OperationErrorInvalidEntity, "", err)
		}
		return EntityKey{}, err
	}

	query, params := upsertEntityQuery(e, key, attrs)

	session := w.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: w.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return EntityKey{}, opErr("UpsertEntity", OperationErrorWriteFailed, "", err)
	}
	return EntityKey{Kind: kind, Fields: key}, nil
}

// UpsertRelationship creates the edge if absent, no-op if present. Endpoints
// are never auto-created here; a missing endpoint fails with a dangling
// reference.
func (w *Writer) UpsertRelationship(ctx context.Context, relType domain.RelType, from, to EntityKey) error {
	rel, ok := w.registry.Relationship(relType)
	if !ok {
		return opErr("UpsertRelationship", OperationErrorInvalidEntity, "unknown relationship kind: "+string(relType), nil)
	}
	if from.Kind != rel.From || to.Kind != rel.To {
		return opErr("UpsertRelationship", OperationErrorInvalidEntity,
			"endpoint kinds do not match relationship "+string(relType), nil)
	}
	if len(from.Fields) == 0 || len(to.Fields) == 0 {
		return opErr("UpsertRelationship", OperationErrorDanglingReference, "endpoint key missing", nil)
	}

	query, params := upsertRelationshipQuery(rel, from.Fields, to.Fields)

	session := w.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: w.client.Database,
	})
	defer session.Close(ctx)

	linked, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := rec.Get("linked")
		count, _ := n.(int64)
		return count, nil
	})
	if err != nil {
		return opErr("UpsertRelationship", OperationErrorWriteFailed, "", err)
	}
	if count, _ := linked.(int64); count == 0 {
		return opErr("UpsertRelationship", OperationErrorDanglingReference,
			"endpoint not found for "+string(relType), nil)
	}
	return nil
}

// CreatePerformance commits one atomic bundle: upsert Performer, Venue,
// Location (and Country when derivable from the location string), create a new
// Performance node, and link all of them. The whole bundle succeeds or leaves
// no state behind; a half-linked Performance is never observable.
//
// Performances are deliberately not deduplicated: each call records one
// extraction, so re-ingesting the same source yields a second Performance node
// with its own source_ref and extracted_at.
func (w *Writer) CreatePerformance(ctx context.Context, in PerformanceInput) (string, error) {
	if strings.TrimSpace(in.Performer) == "" {
		return "", opErr("CreatePerformance", OperationErrorInvalidEntity, "missing performer name", nil)
	}
	if err := w.registry.Validate(domain.KindVenue, map[string]any{"name": in.Venue}); err != nil {
		return "", opErr("CreatePerformance", OperationErrorInvalidEntity, "", err)
	}
	if err := w.registry.Validate(domain.KindLocation, map[string]any{"name": in.Location}); err != nil {
		return "", opErr("CreatePerformance", OperationErrorInvalidEntity, "", err)
	}

	extractedAt := in.ExtractedAt
	if extractedAt.IsZero() {
		extractedAt = time.Now().UTC()
	}
	performanceID := uuid.New().String()
	country := CountryFromLocation(in.Location)

	params := map[string]any{
		"performer_name": in.Performer,
		"created_at":     time.Now().UTC().Format(time.RFC3339Nano),
		"venue_name":     in.Venue,
		"location_name":  in.Location,
		"performance_id": performanceID,
		"date":           in.Date,
		"event_name":     in.EventName,
		"source_ref":     in.SourceRef,
		"extracted_at":   extractedAt.Format(time.RFC3339Nano),
	}
	if country != "" {
		params["country_name"] = country
	}
	query := createPerformanceQuery(country != "")

	session := w.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: w.client.Database,
	})
	defer session.Close(ctx)

	// ExecuteWrite retries the whole function on transient store errors, so
	// the bundle is only ever re-applied from scratch.
	id, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		v, _ := rec.Get("id")
		s, _ := v.(string)
		return s, nil
	})
	if err != nil {
		return "", opErr("CreatePerformance", OperationErrorWriteFailed, "", err)
	}

	w.log.Debug("performance created",
		"performance_id", id,
		"performer", in.Performer,
		"venue", in.Venue,
		"source_ref", in.SourceRef,
	)
	s, _ := id.(string)
	return s, nil
}
