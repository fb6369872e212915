package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestNew_Defaults(t *testing.T) {
	p := New()
	assert.Equal(t, DefaultChunkSize, p.chunkSize)
	assert.Equal(t, DefaultChunkOverlap, p.overlap)
}

func TestNew_OverlapClamped(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(150))
	assert.Equal(t, 25, p.overlap)
}

func TestProcess_EmptyContent(t *testing.T) {
	p := New()
	chunks, err := p.Process(context.Background(), &domain.Document{Content: ""}, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_WhitespaceOnlyContent(t *testing.T) {
	p := New()
	chunks, err := p.Process(context.Background(), &domain.Document{Content: "  \n\t  "}, nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestProcess_ShortTextSingleChunk(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(10))
	doc := &domain.Document{ID: "doc-1", Content: makeWords(30)}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, makeWords(30), chunks[0].Content)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Position)
}

func TestProcess_ChunkCountFormula(t *testing.T) {
	// For N words: count = ceil((N - overlap) / (size - overlap)),
	// bounded below by 1.
	tests := []struct {
		words   int
		size    int
		overlap int
		want    int
	}{
		{words: 10, size: 4, overlap: 1, want: 3},
		{words: 9, size: 4, overlap: 1, want: 3},
		{words: 500, size: 400, overlap: 50, want: 2},
		{words: 400, size: 400, overlap: 50, want: 1},
		{words: 401, size: 400, overlap: 50, want: 2},
		{words: 1, size: 400, overlap: 50, want: 1},
		{words: 1000, size: 100, overlap: 0, want: 10},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("n%d_s%d_o%d", tc.words, tc.size, tc.overlap), func(t *testing.T) {
			p := New(WithChunkSize(tc.size), WithOverlap(tc.overlap))
			doc := &domain.Document{Content: makeWords(tc.words)}

			chunks, err := p.Process(context.Background(), doc, nil)
			require.NoError(t, err)
			assert.Len(t, chunks, tc.want)

			step := tc.size - tc.overlap
			formula := ((tc.words - tc.overlap) + step - 1) / step
			if formula < 1 {
				formula = 1
			}
			assert.Equal(t, formula, len(chunks))
		})
	}
}

func TestProcess_ReconstructsWordSequence(t *testing.T) {
	// Concatenating the first chunk with each later chunk's
	// non-overlapping suffix must reproduce the original word sequence.
	cases := []struct {
		words   int
		size    int
		overlap int
	}{
		{words: 500, size: 120, overlap: 20},
		{words: 57, size: 10, overlap: 3},
		{words: 1000, size: 400, overlap: 50},
		{words: 33, size: 33, overlap: 5},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("n%d_s%d_o%d", tc.words, tc.size, tc.overlap), func(t *testing.T) {
			p := New(WithChunkSize(tc.size), WithOverlap(tc.overlap))
			original := makeWords(tc.words)
			doc := &domain.Document{Content: original}

			chunks, err := p.Process(context.Background(), doc, nil)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			var rebuilt []string
			for i, chunk := range chunks {
				words := strings.Fields(chunk.Content)
				if i > 0 {
					require.GreaterOrEqual(t, len(words), tc.overlap)
					words = words[tc.overlap:]
				}
				rebuilt = append(rebuilt, words...)
			}
			assert.Equal(t, original, strings.Join(rebuilt, " "))
		})
	}
}

func TestProcess_OverlapSharedBetweenChunks(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(4))
	doc := &domain.Document{Content: makeWords(20)}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	first := strings.Fields(chunks[0].Content)
	second := strings.Fields(chunks[1].Content)
	assert.Equal(t, first[len(first)-4:], second[:4])
}

func TestProcess_Positions(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(2))
	doc := &domain.Document{Content: makeWords(50)}

	chunks, err := p.Process(context.Background(), doc, nil)
	require.NoError(t, err)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Position)
		assert.NotEmpty(t, chunk.ID)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "chunker", New().Name())
}
