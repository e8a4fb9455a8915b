package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	panels "solarfarm/internal/panels/domain"
)

func TestPanelRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPanelRepository(
		panels.SolarPanel{Section: "Section One", Row: 1, Column: 2, YearInstalled: 2020, Material: panels.MaterialPolySi},
		panels.SolarPanel{Section: "Section One", Row: 1, Column: 1, YearInstalled: 2020, Material: panels.MaterialPolySi},
	)
	assert.Equal(t, 2, repo.Count())

	list, err := repo.FindBySection(ctx, "Section One")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Column)

	created, err := repo.Create(ctx, &panels.SolarPanel{Section: "Section Two", Row: 10, Column: 11, YearInstalled: 2000, Material: panels.MaterialASi})
	require.NoError(t, err)
	assert.Equal(t, 3, created.ID)

	found, err := repo.FindByKey(ctx, panels.NewKey("Section Two", 10, 11))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *created, *found)

	found.Tracking = true
	ok, err := repo.Update(ctx, found)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Update(ctx, &panels.SolarPanel{ID: 99})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DeleteByKey(ctx, panels.NewKey("Section Two", 10, 11))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DeleteByKey(ctx, panels.NewKey("Section Two", 10, 11))
	require.NoError(t, err)
	assert.False(t, ok)

	created, err = repo.Create(ctx, &panels.SolarPanel{Section: "Section Two", Row: 10, Column: 11, YearInstalled: 2000, Material: panels.MaterialASi})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID, "ids are never reused")
}

func TestStoredCopiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewPanelRepository()

	panel := &panels.SolarPanel{Section: "A", Row: 1, Column: 1, YearInstalled: 2020, Material: panels.MaterialCIGS}
	_, err := repo.Create(ctx, panel)
	require.NoError(t, err)
	panel.Section = "B"

	found, err := repo.FindByKey(ctx, panels.NewKey("A", 1, 1))
	require.NoError(t, err)
	require.NotNil(t, found)
	found.Row = 5

	again, err := repo.FindByKey(ctx, panels.NewKey("A", 1, 1))
	require.NoError(t, err)
	assert.NotNil(t, again)
}
