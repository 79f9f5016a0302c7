package repo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"voxanote/internal/platform/store"
	"voxanote/internal/services/retrieval/domain"
	"voxanote/internal/services/retrieval/repo"
)

// scriptedQueryer routes Exec through a function so tests can fail specific
// statements
type scriptedQueryer struct {
	exec  func(sql string, args []any) error
	execs []string
}

func (s *scriptedQueryer) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	s.execs = append(s.execs, sql)
	if s.exec != nil {
		if err := s.exec(sql, args); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (s *scriptedQueryer) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return nil, errors.New("not scripted")
}

func (s *scriptedQueryer) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	return nil
}

func undefinedColumn() error {
	return &pgconn.PgError{Code: "42703", Message: `column "embedding" of relation "transcript_chunks" does not exist`}
}

func bind(q store.RowQuerier) repo.Repo { return repo.NewPG().Bind(q) }

func someChunks(n int) []domain.Chunk {
	out := make([]domain.Chunk, n)
	for i := range out {
		out[i] = domain.Chunk{RecordingID: "rec-1", Index: i, Text: "chunk"}
	}
	return out
}

func TestReplaceAll_DeletesThenInserts(t *testing.T) {
	t.Parallel()

	q := &scriptedQueryer{}
	report, err := bind(q).ReplaceAll(context.Background(), "rec-1", someChunks(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 2 || report.Total != 2 {
		t.Fatalf("expected 2/2 got %+v", report)
	}
	if len(q.execs) != 3 || !strings.HasPrefix(q.execs[0], "delete") {
		t.Fatalf("expected delete first then inserts, got %v", q.execs)
	}
}

func TestReplaceAll_LadderFallsToEmbeddingNull(t *testing.T) {
	t.Parallel()

	q := &scriptedQueryer{exec: func(sql string, args []any) error {
		if strings.HasPrefix(sql, "insert") && !strings.Contains(sql, "embedding") {
			// a schema that carries the optional column rejects the plain shape
			return undefinedColumn()
		}
		return nil
	}}
	report, err := bind(q).ReplaceAll(context.Background(), "rec-1", someChunks(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 1 {
		t.Fatalf("ladder should have recovered, got %+v", report)
	}

	var sawNull bool
	for _, sql := range q.execs {
		if strings.Contains(sql, "embedding") && strings.Contains(sql, "null") {
			sawNull = true
		}
	}
	if !sawNull {
		t.Fatalf("expected an embedding-null insert, got %v", q.execs)
	}
}

func TestReplaceAll_NonCapabilityErrorSkipsChunkOnly(t *testing.T) {
	t.Parallel()

	q := &scriptedQueryer{exec: func(sql string, args []any) error {
		if strings.HasPrefix(sql, "insert") && args[1].(int) == 1 {
			return &pgconn.PgError{Code: "23502", Message: "null value in column \"text\""}
		}
		return nil
	}}
	report, err := bind(q).ReplaceAll(context.Background(), "rec-1", someChunks(3))
	if err != nil {
		t.Fatalf("per-chunk failures must not fail the batch, got %v", err)
	}
	if report.Indexed != 2 || report.Total != 3 {
		t.Fatalf("expected 2/3 got %+v", report)
	}
}

func TestReplaceAll_DeleteFailureIsFatal(t *testing.T) {
	t.Parallel()

	q := &scriptedQueryer{exec: func(sql string, args []any) error {
		if strings.HasPrefix(sql, "delete") {
			return errors.New("connection lost")
		}
		return nil
	}}
	if _, err := bind(q).ReplaceAll(context.Background(), "rec-1", someChunks(1)); err == nil {
		t.Fatal("expected error when the delete fails")
	}
}

func TestReplaceAll_LadderExhaustedSkipsChunk(t *testing.T) {
	t.Parallel()

	q := &scriptedQueryer{exec: func(sql string, args []any) error {
		if strings.HasPrefix(sql, "insert") {
			return undefinedColumn()
		}
		return nil
	}}
	report, err := bind(q).ReplaceAll(context.Background(), "rec-1", someChunks(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 0 || report.Total != 2 {
		t.Fatalf("expected 0/2 got %+v", report)
	}
}
