package service_test

import (
	"context"
	"testing"

	"voxanote/internal/modkit/repokit"
	perr "voxanote/internal/platform/errors"
	"voxanote/internal/platform/store"
	"voxanote/internal/services/retrieval/domain"
	"voxanote/internal/services/retrieval/repo"
	"voxanote/internal/services/retrieval/service"
)

// stubDB satisfies the TxRunner seam; the fakes below never touch sql
type stubDB struct{}

func (stubDB) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	return nil, nil
}
func (stubDB) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return nil, nil
}
func (stubDB) QueryRow(ctx context.Context, sql string, args ...any) store.Row { return nil }
func (stubDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error { return fn(stubDB{}) }

type fakeRepo struct {
	chunks   []domain.Chunk
	listErr  error
	replaced []domain.Chunk
	report   domain.IndexReport
}

func (f *fakeRepo) ReplaceAll(ctx context.Context, recordingID string, chunks []domain.Chunk) (domain.IndexReport, error) {
	f.replaced = chunks
	if f.report == (domain.IndexReport{}) {
		return domain.IndexReport{Indexed: len(chunks), Total: len(chunks)}, nil
	}
	return f.report, nil
}

func (f *fakeRepo) ListByRecording(ctx context.Context, recordingID string) ([]domain.Chunk, error) {
	return f.chunks, f.listErr
}

type fakeEmbedder struct {
	calls   int
	vectors [][]float32
	err     error
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}

func newSvc(r repo.Repo, e domain.Embedder) *service.Svc {
	binder := repokit.BindFunc[repo.Repo](func(q repokit.Queryer) repo.Repo { return r })
	return service.New(stubDB{}, binder, e)
}

func chunkSet() []domain.Chunk {
	return []domain.Chunk{
		{Index: 0, Text: "we discussed the budget"},
		{Index: 1, Text: "lunch plans for friday"},
		{Index: 2, Text: "budget follow up actions"},
	}
}

func TestSearch_RanksByCosineDistance(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{vectors: [][]float32{
		{1, 0},      // query
		{0, 1},      // chunk 0: distance 1
		{1, 0},      // chunk 1: distance 0
		{0.9, 0.1},  // chunk 2: close
	}}
	svc := newSvc(&fakeRepo{chunks: chunkSet()}, embedder)

	got, err := svc.Search(context.Background(), "rec-1", "anything", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks got %d", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 2 || got[2].Index != 0 {
		t.Fatalf("wrong order: %d %d %d", got[0].Index, got[1].Index, got[2].Index)
	}
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{vectors: [][]float32{{1, 0}, {0, 1}, {1, 0}, {0.5, 0.5}}}
	svc := newSvc(&fakeRepo{chunks: chunkSet()}, embedder)

	got, err := svc.Search(context.Background(), "rec-1", "anything", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Index != 1 {
		t.Fatalf("expected only the best chunk, got %+v", got)
	}
}

func TestSearch_EmbeddingFailureFallsBackToKeywords(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{err: perr.UpstreamTransientf("openai http 503")}
	svc := newSvc(&fakeRepo{chunks: chunkSet()}, embedder)

	got, err := svc.Search(context.Background(), "rec-1", "budget", 10)
	if err != nil {
		t.Fatalf("keyword fallback must absorb embedding errors, got %v", err)
	}
	if embedder.calls != 1 {
		t.Fatalf("embedder should be tried once, got %d", embedder.calls)
	}
	// both budget chunks outrank the lunch chunk, ordinal order among ties
	if got[0].Index != 0 || got[1].Index != 2 || got[2].Index != 1 {
		t.Fatalf("wrong keyword order: %d %d %d", got[0].Index, got[1].Index, got[2].Index)
	}
}

func TestSearch_NoUsableQueryWordsKeepsOrdinalOrder(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{err: perr.Upstreamf("down")}
	svc := newSvc(&fakeRepo{chunks: chunkSet()}, embedder)

	// every word is at or under the length cutoff, all scores tie at 1
	got, err := svc.Search(context.Background(), "rec-1", "a is to", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range got {
		if c.Index != i {
			t.Fatalf("ordinal order broken at %d: %+v", i, got)
		}
	}
}

func TestSearch_NilEmbedderUsesKeywords(t *testing.T) {
	t.Parallel()

	svc := newSvc(&fakeRepo{chunks: chunkSet()}, nil)
	got, err := svc.Search(context.Background(), "rec-1", "lunch", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Index != 1 {
		t.Fatalf("expected the lunch chunk first, got %d", got[0].Index)
	}
}

func TestSearch_NoChunksIsEmptyNotError(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	svc := newSvc(&fakeRepo{}, embedder)

	got, err := svc.Search(context.Background(), "rec-1", "anything", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
	if embedder.calls != 0 {
		t.Fatal("no chunks means no embedding call")
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	t.Parallel()

	chunks := make([]domain.Chunk, 8)
	for i := range chunks {
		chunks[i] = domain.Chunk{Index: i, Text: "same text"}
	}
	svc := newSvc(&fakeRepo{chunks: chunks}, nil)

	got, err := svc.Search(context.Background(), "rec-1", "text", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != service.DefaultLimit {
		t.Fatalf("expected %d chunks got %d", service.DefaultLimit, len(got))
	}
}

func TestIndex_ChunksTranscriptAndReplaces(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{}
	svc := newSvc(r, nil)

	indexed, total, err := svc.Index(context.Background(), "rec-1", "Hello world.\n\nGoodbye.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if indexed != 2 || total != 2 {
		t.Fatalf("expected 2/2 got %d/%d", indexed, total)
	}
	if len(r.replaced) != 2 {
		t.Fatalf("expected 2 chunks written got %d", len(r.replaced))
	}
	if r.replaced[0].Index != 0 || r.replaced[1].Index != 1 {
		t.Fatalf("chunk indices wrong: %+v", r.replaced)
	}
	if r.replaced[0].Text != "Hello world." || r.replaced[1].Text != "Goodbye." {
		t.Fatalf("chunk texts wrong: %+v", r.replaced)
	}
}

func TestIndex_EmptyTranscriptClearsChunks(t *testing.T) {
	t.Parallel()

	r := &fakeRepo{}
	svc := newSvc(r, nil)

	indexed, total, err := svc.Index(context.Background(), "rec-1", "   ", nil)
	if err != nil {
		t.Fatalf("empty transcript must not error, got %v", err)
	}
	if indexed != 0 || total != 0 {
		t.Fatalf("expected 0/0 got %d/%d", indexed, total)
	}
	if r.replaced == nil {
		t.Fatal("ReplaceAll should still run to clear stale chunks")
	}
}
