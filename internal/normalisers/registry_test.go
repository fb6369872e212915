package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driven"
)

// fakeNormaliser records whether it was invoked.
type fakeNormaliser struct {
	exts     []string
	priority int
	called   bool
}

func (f *fakeNormaliser) SupportedExtensions() []string { return f.exts }
func (f *fakeNormaliser) Priority() int                 { return f.priority }

func (f *fakeNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	f.called = true
	return &driven.NormaliseResult{
		Document: domain.Document{URI: raw.URI, Content: "normalised"},
	}, nil
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	require.NotNil(t, registry)
	assert.Empty(t, registry.SupportedExtensions())
}

func TestRegistry_DispatchByExtension(t *testing.T) {
	registry := NewRegistry()
	txt := &fakeNormaliser{exts: []string{".txt"}, priority: 5}
	pdf := &fakeNormaliser{exts: []string{".pdf"}, priority: 50}
	registry.Register(txt)
	registry.Register(pdf)

	raw := &domain.RawDocument{URI: "/a/report.pdf", Ext: ".pdf", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "normalised", result.Document.Content)
	assert.True(t, pdf.called)
	assert.False(t, txt.called)
}

func TestRegistry_ExtensionCaseInsensitive(t *testing.T) {
	registry := NewRegistry()
	pdf := &fakeNormaliser{exts: []string{".pdf"}, priority: 50}
	registry.Register(pdf)

	raw := &domain.RawDocument{URI: "/a/REPORT.PDF", Ext: ".PDF", Content: []byte("x")}
	_, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, pdf.called)
}

func TestRegistry_HighestPriorityWins(t *testing.T) {
	registry := NewRegistry()
	generic := &fakeNormaliser{exts: []string{".xml"}, priority: 5}
	specific := &fakeNormaliser{exts: []string{".xml"}, priority: 50}
	registry.Register(generic)
	registry.Register(specific)

	raw := &domain.RawDocument{URI: "/a/data.xml", Ext: ".xml", Content: []byte("x")}
	_, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, specific.called)
	assert.False(t, generic.called)
}

func TestRegistry_UnsupportedExtension(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeNormaliser{exts: []string{".txt"}, priority: 5})

	raw := &domain.RawDocument{URI: "/a/image.png", Ext: ".png", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Nil(t, result)
}

func TestRegistry_NilDocument(t *testing.T) {
	registry := NewRegistry()
	result, err := registry.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestRegistry_SupportedExtensionsSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&fakeNormaliser{exts: []string{".xlsx", ".xls"}, priority: 50})
	registry.Register(&fakeNormaliser{exts: []string{".docx"}, priority: 50})
	registry.Register(&fakeNormaliser{exts: []string{".xlsx"}, priority: 5})

	assert.Equal(t, []string{".docx", ".xls", ".xlsx"}, registry.SupportedExtensions())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.NormaliserRegistry = (*Registry)(nil)
}
