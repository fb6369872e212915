package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equinox-labs/prospect-cli/internal/adapters/driven/storage/memory"
	"github.com/equinox-labs/prospect-cli/internal/core/domain"
	"github.com/equinox-labs/prospect-cli/internal/core/ports/driving"
)

func seedProjectStore(t *testing.T) *memory.ProjectStore {
	t.Helper()

	store := memory.NewProjectStore()
	ctx := context.Background()

	alphaID, err := store.AppendToProjectData(ctx, "Alpha Gas Plant", "Alpha details.")
	require.NoError(t, err)
	require.NoError(t, store.UpdateCategorisation(ctx, alphaID, domain.Classification{
		Category:    "Facilities",
		SubCategory: "Gas Processing",
		Scope:       "Brownfield",
	}))

	_, err = store.AppendToProjectData(ctx, "Beta Battery", "Beta details.")
	require.NoError(t, err)

	return store
}

func TestProjectService_Names(t *testing.T) {
	service := NewProjectService(seedProjectStore(t))

	names, err := service.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha Gas Plant", "Beta Battery"}, names)
}

func TestProjectService_Data(t *testing.T) {
	service := NewProjectService(seedProjectStore(t))

	data, err := service.Data(context.Background(), "Alpha Gas Plant")
	require.NoError(t, err)
	assert.Equal(t, "Alpha details.", data)

	_, err = service.Data(context.Background(), "Unknown Project")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectService_ExportJSON(t *testing.T) {
	service := NewProjectService(seedProjectStore(t))

	var buf bytes.Buffer
	require.NoError(t, service.Export(context.Background(), "json", &buf))

	var exported []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 2)

	assert.Equal(t, "Alpha Gas Plant", exported[0]["project_name"])
	assert.Equal(t, "Facilities", exported[0]["category"])
	assert.Equal(t, "Gas Processing", exported[0]["sub_category"])
	assert.Equal(t, "Brownfield", exported[0]["project_scope"])
	assert.Equal(t, "Alpha details.", exported[0]["aggregated_data"])
	assert.Equal(t, "Beta Battery", exported[1]["project_name"])
}

func TestProjectService_ExportCSV(t *testing.T) {
	service := NewProjectService(seedProjectStore(t))

	var buf bytes.Buffer
	require.NoError(t, service.Export(context.Background(), "csv", &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"project_name", "category", "sub_category", "project_scope", "aggregated_data"}, rows[0])
	assert.Equal(t, "Alpha Gas Plant", rows[1][0])
	assert.Equal(t, "Facilities", rows[1][1])
	assert.Equal(t, "Beta Battery", rows[2][0])
}

func TestProjectService_ExportUnknownFormat(t *testing.T) {
	service := NewProjectService(seedProjectStore(t))

	var buf bytes.Buffer
	err := service.Export(context.Background(), "xml", &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProjectService_ExportEmptyStore(t *testing.T) {
	service := NewProjectService(memory.NewProjectStore())

	var buf bytes.Buffer
	require.NoError(t, service.Export(context.Background(), "json", &buf))

	var exported []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	assert.Empty(t, exported)
}

func TestProjectService_InterfaceCompliance(t *testing.T) {
	var _ driving.ProjectReader = (*ProjectService)(nil)
}
