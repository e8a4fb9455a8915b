package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	panels "solarfarm/internal/panels/domain"
)

const defaultPanelTable = "solar_panel"

var errNilDB = fmt.Errorf("%w: panel repo: nil db", panels.ErrDataAccess)

const panelColumns = `solar_panel_id, section, "row", "column", year_installed, material_id, is_tracking`

// DBTX is satisfied by *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
}

// PanelRepository is a SQL implementation for solar panels.
// Queries are written with ? placeholders and rebound for the connection's driver.
type PanelRepository struct {
	db    DBTX
	table string
}

// NewPanelRepository constructs a repository.
func NewPanelRepository(db DBTX, opts ...PanelOption) *PanelRepository {
	repo := &PanelRepository{db: db, table: defaultPanelTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// PanelOption configures the repository.
type PanelOption func(*PanelRepository)

// WithPanelTable overrides the default table name.
func WithPanelTable(table string) PanelOption {
	return func(repo *PanelRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

type panelRow struct {
	ID            int    `db:"solar_panel_id"`
	Section       string `db:"section"`
	Row           int    `db:"row"`
	Column        int    `db:"column"`
	YearInstalled int    `db:"year_installed"`
	MaterialID    int    `db:"material_id"`
	IsTracking    bool   `db:"is_tracking"`
}

func (r panelRow) toDomain() panels.SolarPanel {
	return panels.SolarPanel{
		ID:            r.ID,
		Section:       r.Section,
		Row:           r.Row,
		Column:        r.Column,
		YearInstalled: r.YearInstalled,
		Material:      panels.MaterialByID(r.MaterialID),
		Tracking:      r.IsTracking,
	}
}

// FindBySection loads all panels in a section.
func (r *PanelRepository) FindBySection(ctx context.Context, section string) ([]panels.SolarPanel, error) {
	if r == nil || r.db == nil {
		return nil, errNilDB
	}

	query := r.db.Rebind(fmt.Sprintf(`
SELECT %s
FROM %s
WHERE section = ?
ORDER BY "row" ASC, "column" ASC`, panelColumns, r.table))

	var rows []panelRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, section); err != nil {
		return nil, dataAccess("find by section", err)
	}
	result := make([]panels.SolarPanel, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// FindByKey loads a panel by natural key. It returns nil when absent.
func (r *PanelRepository) FindByKey(ctx context.Context, key panels.Key) (*panels.SolarPanel, error) {
	if r == nil || r.db == nil {
		return nil, errNilDB
	}

	query := r.db.Rebind(fmt.Sprintf(`
SELECT %s
FROM %s
WHERE section = ? AND "row" = ? AND "column" = ?
LIMIT 1`, panelColumns, r.table))

	var row panelRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, key.Section, key.Row, key.Column); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccess("find by key", err)
	}
	panel := row.toDomain()
	return &panel, nil
}

// Create inserts a panel and sets its generated id.
// It returns nil when the insert produced no row.
func (r *PanelRepository) Create(ctx context.Context, panel *panels.SolarPanel) (*panels.SolarPanel, error) {
	if r == nil || r.db == nil {
		return nil, errNilDB
	}
	if panel == nil {
		return nil, panels.ErrNilPanel
	}

	query := r.db.Rebind(fmt.Sprintf(`
INSERT INTO %s (
	section,
	"row",
	"column",
	year_installed,
	material_id,
	is_tracking
) VALUES (
	?, ?, ?, ?, ?, ?
)
RETURNING solar_panel_id`, r.table))

	var id int
	err := r.db.QueryRowxContext(
		ctx,
		query,
		panel.Section,
		panel.Row,
		panel.Column,
		panel.YearInstalled,
		panel.Material.ID(),
		panel.Tracking,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccess("create", err)
	}
	panel.ID = id
	return panel, nil
}

// Update replaces every column of the panel with the same id.
func (r *PanelRepository) Update(ctx context.Context, panel *panels.SolarPanel) (bool, error) {
	if r == nil || r.db == nil {
		return false, errNilDB
	}
	if panel == nil {
		return false, panels.ErrNilPanel
	}

	query := r.db.Rebind(fmt.Sprintf(`
UPDATE %s SET
	section = ?,
	"row" = ?,
	"column" = ?,
	year_installed = ?,
	material_id = ?,
	is_tracking = ?
WHERE solar_panel_id = ?`, r.table))

	res, err := r.db.ExecContext(
		ctx,
		query,
		panel.Section,
		panel.Row,
		panel.Column,
		panel.YearInstalled,
		panel.Material.ID(),
		panel.Tracking,
		panel.ID,
	)
	if err != nil {
		return false, dataAccess("update", err)
	}
	return affected(res, "update")
}

// DeleteByKey removes the panel occupying key.
func (r *PanelRepository) DeleteByKey(ctx context.Context, key panels.Key) (bool, error) {
	if r == nil || r.db == nil {
		return false, errNilDB
	}

	query := r.db.Rebind(fmt.Sprintf(`
DELETE FROM %s
WHERE section = ? AND "row" = ? AND "column" = ?`, r.table))

	res, err := r.db.ExecContext(ctx, query, key.Section, key.Row, key.Column)
	if err != nil {
		return false, dataAccess("delete by key", err)
	}
	return affected(res, "delete by key")
}

// Count returns the number of stored panels.
func (r *PanelRepository) Count(ctx context.Context) (int, error) {
	if r == nil || r.db == nil {
		return 0, errNilDB
	}
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)); err != nil {
		return 0, dataAccess("count", err)
	}
	return count, nil
}

func affected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, dataAccess(op, err)
	}
	return n > 0, nil
}

func dataAccess(op string, err error) error {
	return fmt.Errorf("%w: panel repo %s: %w", panels.ErrDataAccess, op, err)
}
