package panels

import (
	"context"
	"fmt"
)

// Key is the natural key of a panel's physical slot.
type Key struct {
	Section string `json:"section"`
	Row     int    `json:"row"`
	Column  int    `json:"column"`
}

// NewKey constructs a key.
func NewKey(section string, row, column int) Key {
	return Key{Section: section, Row: row, Column: column}
}

func (k Key) String() string {
	return fmt.Sprintf("%s-%d-%d", k.Section, k.Row, k.Column)
}

// SolarPanel is an installed panel. ID is zero until the store assigns one.
type SolarPanel struct {
	ID            int      `json:"id"`
	Section       string   `json:"section"`
	Row           int      `json:"row"`
	Column        int      `json:"column"`
	YearInstalled int      `json:"yearInstalled"`
	Material      Material `json:"material"`
	Tracking      bool     `json:"tracking"`
}

// Key derives the natural key from the current section, row and column.
func (p SolarPanel) Key() Key {
	return NewKey(p.Section, p.Row, p.Column)
}

// IsMatch reports whether the panel occupies key.
func (p SolarPanel) IsMatch(key Key) bool {
	return p.Key() == key
}

// Equal compares panels by natural key only.
func (p SolarPanel) Equal(other SolarPanel) bool {
	return p.Key() == other.Key()
}

// PanelRepository manages panel persistence.
type PanelRepository interface {
	FindBySection(ctx context.Context, section string) ([]SolarPanel, error)
	FindByKey(ctx context.Context, key Key) (*SolarPanel, error)
	Create(ctx context.Context, panel *SolarPanel) (*SolarPanel, error)
	Update(ctx context.Context, panel *SolarPanel) (bool, error)
	DeleteByKey(ctx context.Context, key Key) (bool, error)
}
