package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_ShortInput(t *testing.T) {
	chunks := SplitText("hello world", 100, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestSplitText_EmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 100, 20))
	assert.Empty(t, SplitText("   \n\t  ", 100, 20))
}

func TestSplitText_Idempotent(t *testing.T) {
	text := strings.Repeat("abcdefghij ", 100)

	first := SplitText(text, 120, 20)
	second := SplitText(text, 120, 20)

	assert.Equal(t, first, second)
}

func TestSplitText_NonEmptyChunks(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 80)

	for i, c := range SplitText(text, 150, 30) {
		assert.NotEmpty(t, c, "chunk %d", i)
	}
}

func TestSplitText_OverlappingCoverage(t *testing.T) {
	// With step = chunkSize - overlap, every character position is covered
	// by at least one window. Rebuilding the source from the windows at
	// their step offsets must reproduce the original.
	text := "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	chunkSize, overlap := 20, 5
	step := chunkSize - overlap

	chunks := SplitText(text, chunkSize, overlap)
	require.NotEmpty(t, chunks)

	rebuilt := make([]byte, len(text))
	for i, c := range chunks {
		copy(rebuilt[i*step:], c)
	}
	assert.Equal(t, text, string(rebuilt))

	// Consecutive chunks share the overlap region.
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		assert.Equal(t, prev[len(prev)-overlap:], cur[:overlap], "overlap between chunk %d and %d", i-1, i)
	}
}
