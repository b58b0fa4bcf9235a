package services

import (
	"context"
	"strings"
	"time"

	"github.com/showgraph/showgraph-backend/internal/data/graph"
	"github.com/showgraph/showgraph-backend/internal/domain"
	"github.com/showgraph/showgraph-backend/internal/platform/logger"
)

// PerformanceWriter is the slice of the graph writer the coordinator needs.
type PerformanceWriter interface {
	UpsertEntity(ctx context.Context, kind domain.Kind, key map[string]any, attrs map[string]any) (graph.EntityKey, error)
	UpsertRelationship(ctx context.Context, relType domain.RelType, from, to graph.EntityKey) error
	CreatePerformance(ctx context.Context, in graph.PerformanceInput) (string, error)
}

// IngestionService coordinates one batch of extracted performer facts for a
// single source item. Facts are processed in order; a failing performance fact
// is skipped and reported while its siblings proceed. The service does not
// deduplicate repeated performer names within a batch: upserts are idempotent,
// so the redundant work is accepted over pre-deduplication.
type IngestionService struct {
	writer PerformanceWriter
	log    *logger.Logger
}

func NewIngestionService(writer PerformanceWriter, log *logger.Logger) *IngestionService {
	return &IngestionService{
		writer: writer,
		log:    log.With("service", "IngestionService"),
	}
}

// SplitGenres splits a delimiter-separated genre string into usable genre
// names, dropping empties and the extraction agents' "Unknown" placeholder.
func SplitGenres(genres string) []string {
	parts := strings.Split(genres, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" || strings.EqualFold(name, "Unknown") {
			continue
		}
		out = append(out, name)
	}
	return out
}

func usableName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.EqualFold(name, "Unknown")
}

func (s *IngestionService) IngestBatch(ctx context.Context, sourceID string, facts []domain.PerformerFact) (domain.IngestReport, error) {
	report := domain.IngestReport{
		SourceID: sourceID,
		Created:  []string{},
		Skipped:  []domain.SkippedFact{},
	}
	now := time.Now().UTC()

	for _, fact := range facts {
		band := strings.TrimSpace(fact.BandName)
		if !usableName(band) {
			for _, pf := range fact.Performances {
				report.Skipped = append(report.Skipped, domain.SkippedFact{
					BandName: fact.BandName,
					Fact:     pf,
					Reason:   "missing performer name",
				})
			}
			continue
		}

		performerKey, err := s.writer.UpsertEntity(ctx, domain.KindPerformer,
			map[string]any{"name": band},
			map[string]any{"created_at": now.Format(time.RFC3339Nano)},
		)
		if err != nil {
			s.log.Warn("performer upsert failed, fact skipped", "band", band, "error", err)
			for _, pf := range fact.Performances {
				report.Skipped = append(report.Skipped, domain.SkippedFact{
					BandName: fact.BandName,
					Fact:     pf,
					Reason:   err.Error(),
				})
			}
			continue
		}

		// Genre and country links are additive across ingestions; a failed
		// link is logged but does not sink the fact's performances.
		for _, genre := range SplitGenres(fact.Genres) {
			genreKey, err := s.writer.UpsertEntity(ctx, domain.KindGenre, map[string]any{"name": genre}, nil)
			if err != nil {
				s.log.Warn("genre upsert failed", "band", band, "genre", genre, "error", err)
				continue
			}
			if err := s.writer.UpsertRelationship(ctx, domain.RelPlays, performerKey, genreKey); err != nil {
				s.log.Warn("genre link failed", "band", band, "genre", genre, "error", err)
			}
		}

		if usableName(fact.Country) {
			country := strings.TrimSpace(fact.Country)
			countryKey, err := s.writer.UpsertEntity(ctx, domain.KindCountry, map[string]any{"name": country}, nil)
			if err != nil {
				s.log.Warn("country upsert failed", "band", band, "country", country, "error", err)
			} else if err := s.writer.UpsertRelationship(ctx, domain.RelFrom, performerKey, countryKey); err != nil {
				s.log.Warn("country link failed", "band", band, "country", country, "error", err)
			}
		}

		for _, pf := range fact.Performances {
			id, err := s.writer.CreatePerformance(ctx, graph.PerformanceInput{
				Performer:   band,
				Venue:       strings.TrimSpace(pf.Venue),
				Location:    strings.TrimSpace(pf.Location),
				Date:        strings.TrimSpace(pf.Date),
				EventName:   strings.TrimSpace(pf.EventName),
				SourceRef:   sourceID,
				ExtractedAt: now,
			})
			if err != nil {
				report.Skipped = append(report.Skipped, domain.SkippedFact{
					BandName: fact.BandName,
					Fact:     pf,
					Reason:   err.Error(),
				})
				continue
			}
			report.Created = append(report.Created, id)
		}
	}

	s.log.Info("batch ingested",
		"source_id", sourceID,
		"facts", len(facts),
		"created", len(report.Created),
		"skipped", len(report.Skipped),
	)
	return report, nil
}
