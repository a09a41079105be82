package knowledge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"workmate-bot/internal/pkg/logger"
	"workmate-bot/pkg/embedding"
	"workmate-bot/pkg/llm"
)

// Chunk is the unit of retrieval: a bounded substring of a source document
// plus its embedding. Immutable after the build that produced it.
type Chunk struct {
	ID           int
	DocumentName string
	ChunkIndex   int
	Text         string
	Embedding    []float32
}

// Options fixes the build and query parameters of an index.
type Options struct {
	ChunkSize     int
	ChunkOverlap  int
	EmbedBatch    int
	TopK          int
	ContextBudget int
}

func (o *Options) defaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 1200
	}
	if o.ChunkOverlap <= 0 || o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = o.ChunkSize / 6
	}
	if o.EmbedBatch <= 0 {
		o.EmbedBatch = 32
	}
	if o.TopK <= 0 {
		o.TopK = 6
	}
	if o.ContextBudget <= 0 {
		o.ContextBudget = 7000
	}
}

// ErrRebuildInFlight is returned when a rebuild is requested while another
// one is still running. The index is replaced wholesale, so two concurrent
// rebuilds can never be allowed to interleave.
var ErrRebuildInFlight = errors.New("knowledge: rebuild already in flight")

// Canned fallbacks, written in the system's native language; callers translate
// them for the user.
const FallbackAnswer = "Sorry, I could not produce an answer right now. Please try again in a moment."
const NoDocumentsAnswer = "I have no documents loaded to answer from. Please ask your supervisor, or try again after the knowledge base has been updated."

// Index holds the chunk set and answers grounded questions over it.
// Reads are shared; the chunk set is swapped atomically on rebuild. A
// failed rebuild leaves the previous chunk set authoritative.
type Index struct {
	store    DocumentStore
	embedder embedding.Provider
	provider llm.LLMProvider
	opts     Options
	log      logger.ILogger

	mu         sync.RWMutex
	chunks     []*Chunk
	docNames   []string
	lastBuild  time.Time
	rebuilding sync.Mutex
}

func NewIndex(store DocumentStore, embedder embedding.Provider, provider llm.LLMProvider, opts Options, log logger.ILogger) *Index {
	opts.defaults()
	return &Index{
		store:    store,
		embedder: embedder,
		provider: provider,
		opts:     opts,
		log:      log,
	}
}

// Rebuild re-reads the document store, chunks and embeds everything, and
// swaps the whole chunk set in one step. All-or-nothing: any failure keeps
// the previous index intact.
func (ix *Index) Rebuild(ctx context.Context) error {
	if !ix.rebuilding.TryLock() {
		return ErrRebuildInFlight
	}
	defer ix.rebuilding.Unlock()

	docs, err := ix.store.Load()
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	var (
		texts []string
		metas []*Chunk
		names []string
	)
	for _, doc := range docs {
		names = append(names, doc.Name)
		for i, chunkText := range SplitText(doc.RawText, ix.opts.ChunkSize, ix.opts.ChunkOverlap) {
			texts = append(texts, chunkText)
			metas = append(metas, &Chunk{
				DocumentName: doc.Name,
				ChunkIndex:   i,
				Text:         chunkText,
			})
		}
	}

	// Embed in fixed-size batches across all documents.
	for start := 0; start < len(texts); start += ix.opts.EmbedBatch {
		end := start + ix.opts.EmbedBatch
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := ix.embedder.EmbedBatch(texts[start:end])
		if err != nil {
			return fmt.Errorf("embed batch %d: %w", start/ix.opts.EmbedBatch, err)
		}
		for i, vec := range vectors {
			metas[start+i].Embedding = vec
		}
	}

	for i, c := range metas {
		c.ID = i
	}

	ix.mu.Lock()
	ix.chunks = metas
	ix.docNames = names
	ix.lastBuild = time.Now()
	ix.mu.Unlock()

	ix.log.Info("knowledge", "index rebuilt", map[string]interface{}{
		"documents": len(docs), "chunks": len(metas),
	})
	return nil
}

// Query answers a question grounded in the indexed chunks, in the given
// language. Generation failures degrade to a fixed apology; an empty index
// short-circuits without touching the embedding or generation capabilities.
func (ix *Index) Query(ctx context.Context, question, langCode string) string {
	ix.mu.RLock()
	chunks := ix.chunks
	ix.mu.RUnlock()

	if len(chunks) == 0 {
		return NoDocumentsAnswer
	}

	queryVec, err := ix.embedder.Embed(question)
	if err != nil {
		ix.log.Error("knowledge", "query embedding failed", map[string]interface{}{"error": err.Error()})
		return FallbackAnswer
	}

	top := rank(chunks, queryVec, ix.opts.TopK)
	contextBlock := buildContext(top, ix.opts.ContextBudget)

	answer, err := ix.provider.Generate(ctx, groundingPrompt(langCode), userPrompt(contextBlock, question), llm.WithTemperature(0.2))
	if err != nil {
		ix.log.Error("knowledge", "grounded generation failed", map[string]interface{}{"error": err.Error()})
		return FallbackAnswer
	}
	return answer
}

// Stats reports the loaded documents and chunk counts for diagnostics.
func (ix *Index) Stats() (docs []string, chunkCount int, lastBuild time.Time) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]string(nil), ix.docNames...), len(ix.chunks), ix.lastBuild
}

// rank scores every chunk against the query vector and returns the top K.
// The sort is stable, so cosine ties keep original index order.
func rank(chunks []*Chunk, query []float32, k int) []*Chunk {
	type scored struct {
		chunk *Chunk
		score float64
	}

	all := make([]scored, len(chunks))
	for i, c := range chunks {
		all[i] = scored{chunk: c, score: CosineSimilarity(c.Embedding, query)}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if k > len(all) {
		k = len(all)
	}
	top := make([]*Chunk, k)
	for i := 0; i < k; i++ {
		top[i] = all[i].chunk
	}
	return top
}

// CosineSimilarity is the dot product over the product of L2 norms.
// Defined as 0 when either norm is 0, never NaN.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
