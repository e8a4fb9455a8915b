package console

import (
	"strings"

	"solarfarm/internal/panels/application"
	panels "solarfarm/internal/panels/domain"
)

// MenuOption is a main menu entry.
type MenuOption int

const (
	MenuExit MenuOption = iota
	MenuFindBySection
	MenuAdd
	MenuUpdate
	MenuRemove
)

// View renders screens and collects panel data.
type View struct {
	io *IO
}

// NewView constructs a View.
func NewView(io *IO) *View {
	return &View{io: io}
}

// ChooseMenuOption prints the main menu and reads a choice.
func (v *View) ChooseMenuOption() (MenuOption, error) {
	v.DisplayHeader("Main Menu")
	v.io.Println("0. Exit")
	v.io.Println("1. Find Panels by Section")
	v.io.Println("2. Add a Panel")
	v.io.Println("3. Update a Panel")
	v.io.Println("4. Remove a Panel")
	n, err := v.io.ReadInt("Choose [0-4]", int(MenuExit), int(MenuRemove))
	return MenuOption(n), err
}

// DisplayHeader prints message underlined with "=".
func (v *View) DisplayHeader(message string) {
	v.io.Println("")
	v.io.Println(message)
	v.io.Println(strings.Repeat("=", len(message)))
}

// DisplayMessage prints a formatted line after a blank line.
func (v *View) DisplayMessage(format string, args ...any) {
	v.io.Println("")
	v.io.Printf(format+"\n", args...)
}

// DisplayErrors prints an [Errors] block with one message per line.
func (v *View) DisplayErrors(messages []string) {
	v.DisplayMessage("[Errors]")
	for _, msg := range messages {
		v.io.Println(msg)
	}
}

// GetSection prompts for a non-empty section name.
func (v *View) GetSection() (string, error) {
	v.io.Println("")
	return v.io.ReadRequiredString("Section Name")
}

// GetKey prompts for section, row and column.
func (v *View) GetKey() (panels.Key, error) {
	v.io.Println("")
	section, err := v.io.ReadRequiredString("Section Name")
	if err != nil {
		return panels.Key{}, err
	}
	row, err := v.io.ReadInt("Row", 1, application.MaxRowColumn)
	if err != nil {
		return panels.Key{}, err
	}
	column, err := v.io.ReadInt("Column", 1, application.MaxRowColumn)
	if err != nil {
		return panels.Key{}, err
	}
	return panels.NewKey(section, row, column), nil
}

// DisplayPanels lists the panels of a section, or a notice when there are none.
func (v *View) DisplayPanels(section string, list []panels.SolarPanel) {
	v.io.Println("")
	v.io.Printf("Panels in %s\n", section)
	if len(list) == 0 {
		v.io.Println("No panels found.")
		return
	}
	v.io.Println("Row Col Year Material Tracking")
	for _, p := range list {
		v.io.Printf("%3d %3d %4d %8s %8s\n", p.Row, p.Column, p.YearInstalled, p.Material.Abbreviation(), yesNo(p.Tracking))
	}
}

// AddPanel collects the fields of a new panel.
func (v *View) AddPanel(maxYear int) (*panels.SolarPanel, error) {
	v.io.Println("")

	var p panels.SolarPanel
	var err error
	if p.Section, err = v.io.ReadRequiredString("Section"); err != nil {
		return nil, err
	}
	if p.Row, err = v.io.ReadInt("Row", 1, application.MaxRowColumn); err != nil {
		return nil, err
	}
	if p.Column, err = v.io.ReadInt("Column", 1, application.MaxRowColumn); err != nil {
		return nil, err
	}
	if p.Material, err = v.io.SelectMaterial(); err != nil {
		return nil, err
	}
	if p.YearInstalled, err = v.io.ReadInt("Installation Year", 1, maxYear); err != nil {
		return nil, err
	}
	if p.Tracking, err = v.io.ReadBoolean("Tracked [y/n]"); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePanel prompts for every field using the current values as defaults.
func (v *View) UpdatePanel(current panels.SolarPanel, maxYear int) (*panels.SolarPanel, error) {
	v.io.Println("")
	v.io.Printf("Editing %s\n", current.Key())
	v.io.Println("Press [Enter] to keep original value.")
	v.io.Println("")

	p := panels.SolarPanel{ID: current.ID}
	var err error
	if p.Section, err = v.io.ReadStringWithFallback("Section", current.Section); err != nil {
		return nil, err
	}
	if p.Row, err = v.io.ReadIntWithFallback("Row", 1, application.MaxRowColumn, current.Row); err != nil {
		return nil, err
	}
	if p.Column, err = v.io.ReadIntWithFallback("Column", 1, application.MaxRowColumn, current.Column); err != nil {
		return nil, err
	}
	if p.Material, err = v.io.SelectMaterialWithFallback(current.Material); err != nil {
		return nil, err
	}
	if p.YearInstalled, err = v.io.ReadIntWithFallback("Installation Year", 1, maxYear, current.YearInstalled); err != nil {
		return nil, err
	}
	if p.Tracking, err = v.io.ReadBooleanWithFallback("Tracked [y/n]", current.Tracking); err != nil {
		return nil, err
	}
	return &p, nil
}
