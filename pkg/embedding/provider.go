package embedding

// Provider defines the interface for generating text embeddings.
type Provider interface {
	// Embed returns one vector for a single input text.
	Embed(text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(texts []string) ([][]float32, error)
}
