// Package repo provides postgres access for chat messages
package repo

import (
	"context"

	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/services/chat/domain"
)

// Repo defines the append-only message log contract
type Repo interface {
	ListMessages(ctx context.Context, recordingID string) ([]domain.Message, error)
	AddMessage(ctx context.Context, recordingID string, role domain.Role, content string) (domain.Message, error)
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

func (r *queries) ListMessages(ctx context.Context, recordingID string) ([]domain.Message, error) {
	const sql = `
select id::text, recording_id::text, role, content, created_at
from messages
where recording_id = $1
order by created_at asc
`
	rows, err := r.q.Query(ctx, sql, recordingID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list messages")
	}
	defer rows.Close()

	out := make([]domain.Message, 0, 16)
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&m.ID, &m.RecordingID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan message")
		}
		m.Role = domain.Role(role)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "list messages")
	}
	return out, nil
}

func (r *queries) AddMessage(ctx context.Context, recordingID string, role domain.Role, content string) (domain.Message, error) {
	const sql = `
insert into messages (recording_id, role, content)
values ($1, $2, $3)
returning id::text, recording_id::text, role, content, created_at
`
	var m domain.Message
	var roleOut string
	row := r.q.QueryRow(ctx, sql, recordingID, string(role), content)
	if err := row.Scan(&m.ID, &m.RecordingID, &roleOut, &m.Content, &m.CreatedAt); err != nil {
		return domain.Message{}, perr.FromPostgres(err, "insert message")
	}
	m.Role = domain.Role(roleOut)
	return m, nil
}
