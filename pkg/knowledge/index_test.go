package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workmate-bot/internal/pkg/logger"
	"workmate-bot/pkg/llm"
)

// --- fakes ---

type fakeDocStore struct {
	docs []Document
	err  error
}

func (f *fakeDocStore) Load() ([]Document, error) { return f.docs, f.err }

// fakeEmbedder maps known keywords to fixed axes so similarity is
// predictable.
type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(text string) ([]float32, error) {
	vecs, err := f.EmbedBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, 2)
		if strings.Contains(t, "vacation") {
			vec[0] = 1
		} else {
			vec[1] = 1
		}
		out[i] = vec
	}
	return out, nil
}

type fakeProvider struct {
	lastSystem string
	lastUser   string
	reply      string
	err        error
	calls      int
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeProvider) Generate(_ context.Context, system, user string, _ ...llm.Option) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

func newTestIndex(store DocumentStore, emb *fakeEmbedder, prov *fakeProvider) *Index {
	return NewIndex(store, emb, prov, Options{
		ChunkSize:     50,
		ChunkOverlap:  10,
		EmbedBatch:    2,
		TopK:          2,
		ContextBudget: 7000,
	}, logger.NewNopLogger())
}

// --- cosine ---

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{3, 2, 1}
	zero := []float32{0, 0, 0}

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
	})

	t.Run("self similarity is one", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-9)
	})

	t.Run("zero vector yields zero, not NaN", func(t *testing.T) {
		got := CosineSimilarity(a, zero)
		assert.Equal(t, 0.0, got)
		assert.False(t, got != got, "must not be NaN")
	})
}

// --- rebuild / query ---

func TestRebuildAndQuery(t *testing.T) {
	store := &fakeDocStore{docs: []Document{
		{Name: "vacation.txt", RawText: "vacation days are requested from the supervisor"},
		{Name: "parking.txt", RawText: "parking permits are issued at the front desk"},
	}}
	emb := &fakeEmbedder{}
	prov := &fakeProvider{reply: "grounded answer"}
	ix := newTestIndex(store, emb, prov)

	require.NoError(t, ix.Rebuild(context.Background()))

	docs, chunks, lastBuild := ix.Stats()
	assert.Equal(t, []string{"parking.txt", "vacation.txt"}, docs)
	assert.Equal(t, 2, chunks)
	assert.False(t, lastBuild.IsZero())

	answer := ix.Query(context.Background(), "how do I request vacation", "en")
	assert.Equal(t, "grounded answer", answer)

	// The grounding prompt pins the reply language and the context block
	// carries the source document name.
	assert.Contains(t, prov.lastSystem, `"en"`)
	assert.Contains(t, prov.lastUser, "vacation.txt")
}

func TestQuery_EmptyIndexShortCircuits(t *testing.T) {
	store := &fakeDocStore{}
	emb := &fakeEmbedder{}
	prov := &fakeProvider{reply: "should never be used"}
	ix := newTestIndex(store, emb, prov)

	require.NoError(t, ix.Rebuild(context.Background()))

	answer := ix.Query(context.Background(), "anything", "en")

	assert.Equal(t, NoDocumentsAnswer, answer)
	assert.Equal(t, 0, emb.calls, "embedding capability must not be called")
	assert.Equal(t, 0, prov.calls, "generation capability must not be called")
}

func TestRebuild_FailureRetainsPreviousIndex(t *testing.T) {
	store := &fakeDocStore{docs: []Document{
		{Name: "a.txt", RawText: "vacation policy text"},
	}}
	emb := &fakeEmbedder{}
	prov := &fakeProvider{reply: "ok"}
	ix := newTestIndex(store, emb, prov)

	require.NoError(t, ix.Rebuild(context.Background()))
	_, before, _ := ix.Stats()
	require.Equal(t, 1, before)

	emb.err = errors.New("embedding backend down")
	err := ix.Rebuild(context.Background())
	require.Error(t, err)

	_, after, _ := ix.Stats()
	assert.Equal(t, 1, after, "failed rebuild must keep the previous chunk set")
}

func TestQuery_GenerationFailureFallsBack(t *testing.T) {
	store := &fakeDocStore{docs: []Document{
		{Name: "a.txt", RawText: "some policy text"},
	}}
	emb := &fakeEmbedder{}
	prov := &fakeProvider{err: errors.New("model offline")}
	ix := newTestIndex(store, emb, prov)

	require.NoError(t, ix.Rebuild(context.Background()))

	answer := ix.Query(context.Background(), "anything", "en")
	assert.Equal(t, FallbackAnswer, answer)
}

// --- ranking / context assembly ---

func TestRank_StableTieOrder(t *testing.T) {
	query := []float32{1, 0}
	chunks := []*Chunk{
		{ID: 0, Text: "a", Embedding: []float32{0, 1}},
		{ID: 1, Text: "b", Embedding: []float32{1, 0}},
		{ID: 2, Text: "c", Embedding: []float32{1, 0}},
		{ID: 3, Text: "d", Embedding: []float32{1, 0}},
	}

	top := rank(chunks, query, 3)

	require.Len(t, top, 3)
	// All three winners tie at similarity 1.0; original order must hold.
	assert.Equal(t, []int{1, 2, 3}, []int{top[0].ID, top[1].ID, top[2].ID})
}

func TestBuildContext_BudgetDropsWholeChunks(t *testing.T) {
	big := strings.Repeat("x", 120)
	chunks := []*Chunk{
		{DocumentName: "a.txt", ChunkIndex: 0, Text: big},
		{DocumentName: "b.txt", ChunkIndex: 0, Text: big},
		{DocumentName: "c.txt", ChunkIndex: 0, Text: "tiny"},
	}

	out := buildContext(chunks, 150)

	// Only the first chunk fits; assembly stops at the first overflow and
	// never truncates mid-chunk.
	assert.Contains(t, out, "a.txt")
	assert.NotContains(t, out, "b.txt")
	assert.NotContains(t, out, "c.txt")
	assert.Equal(t, 1, strings.Count(out, fmt.Sprintf("[%s #0]", "a.txt")))
}
