package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	panels "solarfarm/internal/panels/domain"
	"solarfarm/internal/storage"
)

func setupSQLite(t *testing.T) (*sqlx.DB, *PanelRepository) {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.Config{Driver: storage.DriverSQLite, DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPanelRepository(db)
	seed := []panels.SolarPanel{
		{Section: "The Ridge", Row: 1, Column: 1, YearInstalled: 2020, Material: panels.MaterialPolySi, Tracking: true},
		{Section: "The Ridge", Row: 1, Column: 2, YearInstalled: 2020, Material: panels.MaterialPolySi, Tracking: true},
		{Section: "Flats", Row: 3, Column: 7, YearInstalled: 2017, Material: panels.MaterialMonoSi},
		{Section: "Flats", Row: 1, Column: 1, YearInstalled: 2012, Material: panels.MaterialCIGS},
	}
	for i := range seed {
		created, err := repo.Create(context.Background(), &seed[i])
		require.NoError(t, err)
		require.NotNil(t, created)
	}
	return db, repo
}

func TestFindByKnownSection(t *testing.T) {
	_, repo := setupSQLite(t)

	list, err := repo.FindBySection(context.Background(), "The Ridge")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, panel := range list {
		assert.Equal(t, "The Ridge", panel.Section)
	}

	list, err = repo.FindBySection(context.Background(), "Flats")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Row, "ordered by row then column")
}

func TestFindBySectionMissingReturnsEmpty(t *testing.T) {
	_, repo := setupSQLite(t)

	list, err := repo.FindBySection(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestFindByKey(t *testing.T) {
	_, repo := setupSQLite(t)

	panel, err := repo.FindByKey(context.Background(), panels.NewKey("The Ridge", 1, 1))
	require.NoError(t, err)
	require.NotNil(t, panel)
	assert.Equal(t, 1, panel.ID)
	assert.Equal(t, 2020, panel.YearInstalled)
	assert.Equal(t, panels.MaterialPolySi, panel.Material)
	assert.True(t, panel.Tracking)
}

func TestFindByKeyMissing(t *testing.T) {
	_, repo := setupSQLite(t)

	panel, err := repo.FindByKey(context.Background(), panels.NewKey("Missing", 1, 1))
	require.NoError(t, err)
	assert.Nil(t, panel)
}

func TestCreateRoundTrip(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	panel := &panels.SolarPanel{Section: "The Ridge", Row: 10, Column: 10, YearInstalled: 2020, Material: panels.MaterialCdTe, Tracking: true}
	created, err := repo.Create(ctx, panel)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 5, created.ID)

	found, err := repo.FindByKey(ctx, created.Key())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, created.Equal(*found))
	assert.Equal(t, *created, *found)
}

func TestCreateDuplicateKeyIsDataAccessError(t *testing.T) {
	_, repo := setupSQLite(t)

	_, err := repo.Create(context.Background(), &panels.SolarPanel{Section: "Flats", Row: 3, Column: 7, YearInstalled: 2001, Material: panels.MaterialASi})
	require.Error(t, err)
	assert.True(t, errors.Is(err, panels.ErrDataAccess))
}

func TestUpdateExisting(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	panel := &panels.SolarPanel{ID: 3, Section: "New Flats", Row: 20, Column: 21, YearInstalled: 2000, Material: panels.MaterialASi}
	ok, err := repo.Update(ctx, panel)
	require.NoError(t, err)
	assert.True(t, ok)

	found, err := repo.FindByKey(ctx, panel.Key())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, *panel, *found)

	old, err := repo.FindByKey(ctx, panels.NewKey("Flats", 3, 7))
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestUpdateMissing(t *testing.T) {
	_, repo := setupSQLite(t)

	ok, err := repo.Update(context.Background(), &panels.SolarPanel{ID: -1, Section: "New Ridge", Row: 20, Column: 21, YearInstalled: 2000, Material: panels.MaterialASi})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteByKey(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	ok, err := repo.DeleteByKey(ctx, panels.NewKey("Flats", 3, 7))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteByKey(ctx, panels.NewKey("Missing", 1, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIDsAreNotReused(t *testing.T) {
	_, repo := setupSQLite(t)
	ctx := context.Background()

	ok, err := repo.DeleteByKey(ctx, panels.NewKey("Flats", 1, 1))
	require.NoError(t, err)
	require.True(t, ok)

	created, err := repo.Create(ctx, &panels.SolarPanel{Section: "Flats", Row: 1, Column: 1, YearInstalled: 2012, Material: panels.MaterialCIGS})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
}

func setupMock(t *testing.T) (sqlmock.Sqlmock, *PanelRepository) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return mock, NewPanelRepository(sqlx.NewDb(mockDB, "sqlmock"), WithPanelTable("panels_test"))
}

func TestFindBySectionUsesConfiguredTable(t *testing.T) {
	mock, repo := setupMock(t)

	rows := sqlmock.NewRows([]string{"solar_panel_id", "section", "row", "column", "year_installed", "material_id", "is_tracking"}).
		AddRow(1, "Section One", 1, 1, 2020, 1, true).
		AddRow(2, "Section One", 1, 2, 2020, 9, false)
	mock.ExpectQuery(`FROM panels_test\s+WHERE section = \?`).
		WithArgs("Section One").
		WillReturnRows(rows)

	list, err := repo.FindBySection(context.Background(), "Section One")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, panels.MaterialPolySi, list[0].Material)
	assert.Equal(t, panels.MaterialUnknown, list[1].Material)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFailureWrapsDataAccess(t *testing.T) {
	mock, repo := setupMock(t)
	dbErr := errors.New("connection refused")

	mock.ExpectQuery(`SELECT`).WillReturnError(dbErr)
	_, err := repo.FindByKey(context.Background(), panels.NewKey("A", 1, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, panels.ErrDataAccess)
	assert.ErrorIs(t, err, dbErr)

	mock.ExpectExec(`DELETE FROM panels_test`).WillReturnError(dbErr)
	_, err = repo.DeleteByKey(context.Background(), panels.NewKey("A", 1, 1))
	assert.ErrorIs(t, err, panels.ErrDataAccess)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithNoReturnedRow(t *testing.T) {
	mock, repo := setupMock(t)

	mock.ExpectQuery(`INSERT INTO panels_test`).
		WithArgs("A", 1, 1, 2020, 2, false).
		WillReturnRows(sqlmock.NewRows([]string{"solar_panel_id"}))

	created, err := repo.Create(context.Background(), &panels.SolarPanel{Section: "A", Row: 1, Column: 1, YearInstalled: 2020, Material: panels.MaterialMonoSi})
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateArgsOrder(t *testing.T) {
	mock, repo := setupMock(t)

	mock.ExpectExec(`UPDATE panels_test SET`).
		WithArgs("A", 2, 3, 2019, 5, true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Update(context.Background(), &panels.SolarPanel{ID: 7, Section: "A", Row: 2, Column: 3, YearInstalled: 2019, Material: panels.MaterialCIGS, Tracking: true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilGuards(t *testing.T) {
	ctx := context.Background()
	for _, repo := range []*PanelRepository{nil, NewPanelRepository(nil)} {
		_, err := repo.FindBySection(ctx, "x")
		assert.ErrorIs(t, err, panels.ErrDataAccess)
		_, err = repo.FindByKey(ctx, panels.NewKey("x", 1, 1))
		assert.ErrorIs(t, err, panels.ErrDataAccess)
		_, err = repo.Create(ctx, &panels.SolarPanel{})
		assert.ErrorIs(t, err, panels.ErrDataAccess)
		_, err = repo.Update(ctx, &panels.SolarPanel{ID: 1})
		assert.ErrorIs(t, err, panels.ErrDataAccess)
		_, err = repo.DeleteByKey(ctx, panels.NewKey("x", 1, 1))
		assert.ErrorIs(t, err, panels.ErrDataAccess)
		_, err = repo.Count(ctx)
		assert.ErrorIs(t, err, panels.ErrDataAccess)
	}

	_, repoWithMock := setupMock(t)
	_, err := repoWithMock.Create(ctx, nil)
	assert.ErrorIs(t, err, panels.ErrNilPanel)
}
