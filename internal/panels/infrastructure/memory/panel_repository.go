package memory

import (
	"context"
	"sort"
	"sync"

	panels "solarfarm/internal/panels/domain"
)

// PanelRepository is an in-memory repository for demo/testing.
type PanelRepository struct {
	mu     sync.RWMutex
	nextID int
	data   map[int]panels.SolarPanel
}

// NewPanelRepository constructs a repository seeded with panels.
// Seeded panels without an id receive one.
func NewPanelRepository(seed ...panels.SolarPanel) *PanelRepository {
	repo := &PanelRepository{data: make(map[int]panels.SolarPanel)}
	for _, panel := range seed {
		if panel.ID == 0 {
			repo.nextID++
			panel.ID = repo.nextID
		} else if panel.ID > repo.nextID {
			repo.nextID = panel.ID
		}
		repo.data[panel.ID] = panel
	}
	return repo
}

// FindBySection returns panels in a section ordered by row and column.
func (r *PanelRepository) FindBySection(ctx context.Context, section string) ([]panels.SolarPanel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]panels.SolarPanel, 0)
	for _, panel := range r.data {
		if panel.Section == section {
			result = append(result, panel)
		}
	}
	sortPanels(result)
	return result, nil
}

// FindByKey returns nil when no panel occupies key.
func (r *PanelRepository) FindByKey(ctx context.Context, key panels.Key) (*panels.SolarPanel, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, panel := range r.data {
		if panel.IsMatch(key) {
			found := panel
			return &found, nil
		}
	}
	return nil, nil
}

// Create assigns the next id and stores a copy.
func (r *PanelRepository) Create(ctx context.Context, panel *panels.SolarPanel) (*panels.SolarPanel, error) {
	_ = ctx
	if panel == nil {
		return nil, panels.ErrNilPanel
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	panel.ID = r.nextID
	r.data[panel.ID] = *panel
	return panel, nil
}

// Update replaces the stored panel with the same id.
func (r *PanelRepository) Update(ctx context.Context, panel *panels.SolarPanel) (bool, error) {
	_ = ctx
	if panel == nil {
		return false, panels.ErrNilPanel
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[panel.ID]; !ok {
		return false, nil
	}
	r.data[panel.ID] = *panel
	return true, nil
}

// DeleteByKey removes the panel occupying key.
func (r *PanelRepository) DeleteByKey(ctx context.Context, key panels.Key) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, panel := range r.data {
		if panel.IsMatch(key) {
			delete(r.data, id)
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored panels.
func (r *PanelRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func sortPanels(list []panels.SolarPanel) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Row != list[j].Row {
			return list[i].Row < list[j].Row
		}
		return list[i].Column < list[j].Column
	})
}
