// Package repo provides postgres access for transcript chunks
package repo

import (
	"context"

	"voxanote/internal/core/fallback"
	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/logger"
	"voxanote/internal/services/retrieval/domain"
)

// Repo defines the repository contract for transcript chunks
type Repo interface {
	// ReplaceAll atomically-enough swaps a recording's chunks: delete
	// everything, then insert each chunk. Single-chunk failures are skipped,
	// not fatal, and show up in the report
	ReplaceAll(ctx context.Context, recordingID string, chunks []domain.Chunk) (domain.IndexReport, error)

	ListByRecording(ctx context.Context, recordingID string) ([]domain.Chunk, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Schemas in the wild differ on the optional embedding column: absent, or
// present with a type this session cannot write. Each insert walks down until
// a shape the schema accepts; only capability-class errors fall through
var insertLadder = []struct {
	name string
	sql  string
}{
	{
		name: "plain",
		sql: `insert into transcript_chunks (recording_id, chunk_index, text, start_sec, end_sec)
values ($1, $2, $3, $4, $5)`,
	},
	{
		name: "embedding-null",
		sql: `insert into transcript_chunks (recording_id, chunk_index, text, start_sec, end_sec, embedding)
values ($1, $2, $3, $4, $5, null)`,
	},
	{
		name: "embedding-empty",
		sql: `insert into transcript_chunks (recording_id, chunk_index, text, start_sec, end_sec, embedding)
values ($1, $2, $3, $4, $5, '')`,
	},
}

func (r *queries) ReplaceAll(ctx context.Context, recordingID string, chunks []domain.Chunk) (domain.IndexReport, error) {
	log := logger.C(ctx)

	if _, err := r.q.Exec(ctx, `delete from transcript_chunks where recording_id = $1`, recordingID); err != nil {
		return domain.IndexReport{}, perr.FromPostgres(err, "clear chunks")
	}

	policy := fallback.Policy{
		Classify: func(err error) fallback.Class {
			if perr.IsCapabilityMissing(err) {
				return fallback.ClassNext
			}
			return fallback.ClassAbort
		},
	}

	report := domain.IndexReport{Total: len(chunks)}
	for _, c := range chunks {
		strategies := make([]fallback.Strategy[struct{}], 0, len(insertLadder))
		for _, step := range insertLadder {
			sql := step.sql
			strategies = append(strategies, fallback.Strategy[struct{}]{
				Name: step.name,
				Run: func(ctx context.Context) (struct{}, error) {
					_, err := r.q.Exec(ctx, sql, recordingID, c.Index, c.Text, c.StartSec, c.EndSec)
					return struct{}{}, err
				},
			})
		}
		if _, err := fallback.Run(ctx, policy, strategies...); err != nil {
			log.Warn().Err(err).Int("chunk", c.Index).Msg("chunk insert skipped")
			continue
		}
		report.Indexed++
	}
	return report, nil
}

func (r *queries) ListByRecording(ctx context.Context, recordingID string) ([]domain.Chunk, error) {
	const sql = `
select id::text, recording_id::text, chunk_index, text, start_sec, end_sec
from transcript_chunks
where recording_id = $1
order by chunk_index
`
	rows, err := r.q.Query(ctx, sql, recordingID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list chunks")
	}
	defer rows.Close()

	out := make([]domain.Chunk, 0, 32)
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ID, &c.RecordingID, &c.Index, &c.Text, &c.StartSec, &c.EndSec); err != nil {
			return nil, perr.FromPostgres(err, "scan chunk")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list chunks")
	}
	return out, nil
}
