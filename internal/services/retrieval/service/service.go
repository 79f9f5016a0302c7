// Package service contains the chunk indexing and search workflows
package service

import (
	"context"
	"sort"

	"voxanote/internal/core/chunker"
	"voxanote/internal/core/fallback"
	"voxanote/internal/core/similarity"
	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/logger"
	recdomain "voxanote/internal/services/recordings/domain"
	"voxanote/internal/services/retrieval/domain"
	"voxanote/internal/services/retrieval/repo"
)

// DefaultLimit is how many chunks Search returns when the caller does not say
const DefaultLimit = 5

// Svc implements transcript indexing and best-first chunk search
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	embedder domain.Embedder
	log      logger.Logger
}

// New creates a retrieval service. A nil embedder disables vector ranking,
// leaving keyword search only
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], embedder domain.Embedder) *Svc {
	if db == nil {
		panic("retrieval.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("retrieval.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		embedder: embedder,
		log:      *logger.Named("retrieval"),
	}
}

// Index chunks the transcript and replaces the recording's chunk set.
// A transcript that yields no chunks clears the set and is not an error
func (s *Svc) Index(ctx context.Context, recordingID, transcript string, segments []recdomain.Segment) (int, int, error) {
	segs := make([]chunker.Segment, 0, len(segments))
	for _, sg := range segments {
		segs = append(segs, chunker.Segment{Start: sg.Start, End: sg.End, Text: sg.Text})
	}

	candidates := chunker.Split(transcript, segs)
	chunks := make([]domain.Chunk, 0, len(candidates))
	for i, c := range candidates {
		chunks = append(chunks, domain.Chunk{
			RecordingID: recordingID,
			Index:       i,
			Text:        c.Text,
			StartSec:    c.Start,
			EndSec:      c.End,
		})
	}

	report, err := s.Repo.ReplaceAll(ctx, recordingID, chunks)
	if err != nil {
		return 0, len(chunks), err
	}
	logger.C(ctx).Info().Int("indexed", report.Indexed).Int("total", report.Total).Msg("chunks indexed")
	return report.Indexed, report.Total, nil
}

// Search returns up to limit chunks best-first. Embedding rank is tried
// first; any embedding failure degrades to keyword matching rather than
// surfacing an error. A recording with no chunks yields an empty result
func (s *Svc) Search(ctx context.Context, recordingID, query string, limit int) ([]domain.Chunk, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	chunks, err := s.Repo.ListByRecording(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return []domain.Chunk{}, nil
	}

	policy := fallback.Policy{Classify: fallback.Always(fallback.ClassNext)}
	ranked, err := fallback.Run(ctx, policy,
		fallback.Strategy[[]domain.Chunk]{
			Name: "embedding",
			Run: func(ctx context.Context) ([]domain.Chunk, error) {
				return s.rankByEmbedding(ctx, query, chunks)
			},
		},
		fallback.Strategy[[]domain.Chunk]{
			Name: "keyword",
			Run: func(ctx context.Context) ([]domain.Chunk, error) {
				return rankByKeyword(query, chunks), nil
			},
		},
	)
	if err != nil {
		return nil, err
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// rankByEmbedding embeds the query and every chunk text in one batch and
// orders chunks by cosine distance to the query
func (s *Svc) rankByEmbedding(ctx context.Context, query string, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if s.embedder == nil {
		return nil, perr.Unavailablef("no embedder configured")
	}

	inputs := make([]string, 0, len(chunks)+1)
	inputs = append(inputs, query)
	for _, c := range chunks {
		inputs = append(inputs, c.Text)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, inputs)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("embedding search failed, falling back to keyword match")
		return nil, err
	}

	queryVec := vectors[0]
	scores := make([]float64, len(chunks))
	for i := range chunks {
		scores[i] = similarity.CosineDistance(queryVec, vectors[i+1])
	}
	return sortByScore(chunks, scores), nil
}

// rankByKeyword orders chunks by how few of the query's words they contain.
// A query with no usable words leaves the ordinal order untouched
func rankByKeyword(query string, chunks []domain.Chunk) []domain.Chunk {
	words := similarity.QueryWords(query)
	scores := make([]float64, len(chunks))
	for i, c := range chunks {
		scores[i] = similarity.KeywordScore(words, c.Text)
	}
	return sortByScore(chunks, scores)
}

// sortByScore orders ascending, ties kept in chunk order
func sortByScore(chunks []domain.Chunk, scores []float64) []domain.Chunk {
	idx := make([]int, len(chunks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	out := make([]domain.Chunk, len(chunks))
	for i, j := range idx {
		out[i] = chunks[j]
	}
	return out
}
