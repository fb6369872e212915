package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
)

// fakeProcessor appends one chunk per call and records invocation order.
type fakeProcessor struct {
	name   string
	err    error
	called *[]string
}

func (f *fakeProcessor) Name() string { return f.name }

func (f *fakeProcessor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	*f.called = append(*f.called, f.name)
	if f.err != nil {
		return nil, f.err
	}
	return append(chunks, domain.Chunk{DocumentID: doc.ID, Content: f.name}), nil
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var order []string
	p := NewPipeline(
		&fakeProcessor{name: "first", called: &order},
		&fakeProcessor{name: "second", called: &order},
	)

	chunks, err := p.Process(context.Background(), &domain.Document{ID: "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
}

func TestPipeline_NilDocument(t *testing.T) {
	p := NewPipeline()
	_, err := p.Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestPipeline_ProcessorError(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	p := NewPipeline(
		&fakeProcessor{name: "first", err: boom, called: &order},
		&fakeProcessor{name: "second", called: &order},
	)

	_, err := p.Process(context.Background(), &domain.Document{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "first")
	assert.Equal(t, []string{"first"}, order)
}

func TestPipeline_Add(t *testing.T) {
	var order []string
	p := NewPipeline()
	assert.Equal(t, 0, p.Len())
	p.Add(&fakeProcessor{name: "only", called: &order})
	assert.Equal(t, 1, p.Len())
}
