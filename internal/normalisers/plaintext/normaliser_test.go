package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedExtensions(t *testing.T) {
	normaliser := New()
	exts := normaliser.SupportedExtensions()

	require.NotEmpty(t, exts)
	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".md")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	normaliser := New()
	ctx := context.Background()

	raw := &domain.RawDocument{
		URI:     "/path/to/document.txt",
		Ext:     ".txt",
		Content: []byte("This is plain text content."),
	}

	result, err := normaliser.Normalise(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "document", doc.Title)
	assert.Equal(t, "This is plain text content.", doc.Content)
	assert.Equal(t, "plaintext", doc.Metadata["format"])
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	raw := &domain.RawDocument{URI: "/path/to/empty.txt", Ext: ".txt", Content: []byte("")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
}

func TestTitleFromURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		expectedTitle string
	}{
		{
			name:          "simple filename",
			uri:           "/path/to/document.txt",
			expectedTitle: "document",
		},
		{
			name:          "underscores to spaces",
			uri:           "/path/my_document_name.txt",
			expectedTitle: "my document name",
		},
		{
			name:          "dashes to spaces",
			uri:           "/path/my-document-name.txt",
			expectedTitle: "my document name",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedTitle, TitleFromURI(tc.uri))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
