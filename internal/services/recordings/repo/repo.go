// Package repo provides postgres access for recordings
package repo

import (
	"context"
	"encoding/json"

	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/services/recordings/domain"
)

// Repo defines the repository contract for recordings
type Repo interface {
	Create(ctx context.Context, rec domain.Recording) error
	List(ctx context.Context) ([]domain.Recording, error)
	Get(ctx context.Context, id string) (domain.Recording, error)
	Delete(ctx context.Context, id string) error

	SetStatus(ctx context.Context, id string, st domain.Status) error
	SaveTranscript(ctx context.Context, id, text string, tr domain.Transcript, st domain.Status) error
	SaveSummary(ctx context.Context, id string, sum domain.Summary) error
	SetFailure(ctx context.Context, id, message string) error
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

const recordingCols = `
id::text, title, duration_sec, storage_url, transcript_text, transcript_json, summary_json,
status, error_message, created_at`

func (r *queries) Create(ctx context.Context, rec domain.Recording) error {
	const sql = `
insert into recordings (id, title, duration_sec, storage_url, transcript_text, transcript_json, status, created_at)
values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7, $8)
`
	var tr []byte
	if rec.Transcript != nil {
		b, err := json.Marshal(rec.Transcript)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode transcript")
		}
		tr = b
	}
	_, err := r.q.Exec(ctx, sql,
		rec.ID, rec.Title, rec.DurationSec, rec.StorageURL, rec.TranscriptText, tr, string(rec.Status), rec.CreatedAt,
	)
	return perr.FromPostgres(err, "insert recording")
}

func (r *queries) List(ctx context.Context) ([]domain.Recording, error) {
	rows, err := r.q.Query(ctx, `select `+recordingCols+` from recordings order by created_at desc`)
	if err != nil {
		return nil, perr.FromPostgres(err, "list recordings")
	}
	defer rows.Close()

	out := make([]domain.Recording, 0, 16)
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list recordings")
	}
	return out, nil
}

func (r *queries) Get(ctx context.Context, id string) (domain.Recording, error) {
	row := r.q.QueryRow(ctx, `select `+recordingCols+` from recordings where id = $1`, id)
	rec, err := scanRecording(row.Scan)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Recording{}, perr.NotFoundf("recording %s not found", id)
		}
		return domain.Recording{}, err
	}
	return rec, nil
}

func (r *queries) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `delete from recordings where id = $1`, id)
	return perr.FromPostgres(err, "delete recording")
}

func (r *queries) SetStatus(ctx context.Context, id string, st domain.Status) error {
	_, err := r.q.Exec(ctx, `update recordings set status = $2, error_message = null where id = $1`, id, string(st))
	return perr.FromPostgres(err, "update recording status")
}

// SaveTranscript checkpoints transcription output so a later pipeline stage
// failing does not lose the expensive part
func (r *queries) SaveTranscript(ctx context.Context, id, text string, tr domain.Transcript, st domain.Status) error {
	b, err := json.Marshal(tr)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode transcript")
	}
	const sql = `update recordings set transcript_text = $2, transcript_json = $3, status = $4 where id = $1`
	_, err = r.q.Exec(ctx, sql, id, text, b, string(st))
	return perr.FromPostgres(err, "save transcript")
}

func (r *queries) SaveSummary(ctx context.Context, id string, sum domain.Summary) error {
	b, err := json.Marshal(sum)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode summary")
	}
	_, err = r.q.Exec(ctx, `update recordings set summary_json = $2 where id = $1`, id, b)
	return perr.FromPostgres(err, "save summary")
}

func (r *queries) SetFailure(ctx context.Context, id, message string) error {
	const sql = `update recordings set status = $2, error_message = $3 where id = $1`
	_, err := r.q.Exec(ctx, sql, id, string(domain.StatusError), message)
	return perr.FromPostgres(err, "mark recording failed")
}

func scanRecording(scan func(dest ...any) error) (domain.Recording, error) {
	var (
		rec        domain.Recording
		storageURL *string
		text       *string
		trJSON     []byte
		sumJSON    []byte
		errMsg     *string
		status     string
	)
	err := scan(
		&rec.ID,
		&rec.Title,
		&rec.DurationSec,
		&storageURL,
		&text,
		&trJSON,
		&sumJSON,
		&status,
		&errMsg,
		&rec.CreatedAt,
	)
	if err != nil {
		return domain.Recording{}, perr.FromPostgres(err, "scan recording")
	}
	rec.Status = domain.Status(status)
	if storageURL != nil {
		rec.StorageURL = *storageURL
	}
	if text != nil {
		rec.TranscriptText = *text
	}
	if errMsg != nil {
		rec.ErrorMessage = *errMsg
	}
	if len(trJSON) > 0 {
		var tr domain.Transcript
		if err := json.Unmarshal(trJSON, &tr); err != nil {
			return domain.Recording{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode transcript")
		}
		rec.Transcript = &tr
	}
	if len(sumJSON) > 0 {
		var sum domain.Summary
		if err := json.Unmarshal(sumJSON, &sum); err != nil {
			return domain.Recording{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode summary")
		}
		rec.Summary = &sum
	}
	return rec, nil
}
