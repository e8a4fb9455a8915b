package panels

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Material is a panel substrate type. Values are persisted by id.
type Material int

const (
	MaterialUnknown Material = iota
	MaterialPolySi
	MaterialMonoSi
	MaterialASi
	MaterialCdTe
	MaterialCIGS
)

type materialInfo struct {
	name         string
	abbreviation string
	displayText  string
}

var materialTable = map[Material]materialInfo{
	MaterialPolySi: {name: "POLY_SI", abbreviation: "poly-Si", displayText: "Multicrystalline Silicon"},
	MaterialMonoSi: {name: "MONO_SI", abbreviation: "mono-Si", displayText: "Monocrystalline Silicon"},
	MaterialASi:    {name: "A_SI", abbreviation: "a-Si", displayText: "Amorphous Silicon"},
	MaterialCdTe:   {name: "CD_TE", abbreviation: "CdTe", displayText: "Cadmium Telluride"},
	MaterialCIGS:   {name: "CIGS", abbreviation: "CIGS", displayText: "Copper Indium Gallium Selenide"},
}

// Materials returns every known material in id order.
func Materials() []Material {
	return []Material{MaterialPolySi, MaterialMonoSi, MaterialASi, MaterialCdTe, MaterialCIGS}
}

// MaterialByID resolves a persisted id. Unknown ids resolve to MaterialUnknown.
func MaterialByID(id int) Material {
	m := Material(id)
	if _, ok := materialTable[m]; ok {
		return m
	}
	return MaterialUnknown
}

// ParseMaterial resolves a material from its name (case-insensitive) or numeric id.
func ParseMaterial(value string) (Material, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return MaterialUnknown, fmt.Errorf("material: empty value")
	}
	if id, err := strconv.Atoi(value); err == nil {
		if m := MaterialByID(id); m.IsValid() {
			return m, nil
		}
		return MaterialUnknown, fmt.Errorf("material: unknown id %d", id)
	}
	for _, m := range Materials() {
		if strings.EqualFold(materialTable[m].name, value) {
			return m, nil
		}
	}
	return MaterialUnknown, fmt.Errorf("material: unknown value %q", value)
}

// ID returns the persisted id.
func (m Material) ID() int { return int(m) }

// IsValid reports whether m is a known material.
func (m Material) IsValid() bool {
	_, ok := materialTable[m]
	return ok
}

// Name returns the stable enum name, e.g. POLY_SI.
func (m Material) Name() string {
	if info, ok := materialTable[m]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// Abbreviation returns the short label used in tables.
func (m Material) Abbreviation() string {
	if info, ok := materialTable[m]; ok {
		return info.abbreviation
	}
	return "?"
}

// DisplayText returns the label used in selection menus.
func (m Material) DisplayText() string {
	if info, ok := materialTable[m]; ok {
		return info.displayText
	}
	return "Unknown"
}

func (m Material) String() string { return m.Name() }

// MarshalJSON encodes the material by name.
func (m Material) MarshalJSON() ([]byte, error) {
	if !m.IsValid() {
		return []byte("null"), nil
	}
	return json.Marshal(m.Name())
}

// UnmarshalJSON accepts a name, a numeric id, or null. Null and id 0 decode to
// MaterialUnknown so validation reports the missing material.
func (m *Material) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = MaterialUnknown
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		parsed, err := ParseMaterial(name)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	if id == int(MaterialUnknown) {
		*m = MaterialUnknown
		return nil
	}
	parsed := MaterialByID(id)
	if !parsed.IsValid() {
		return fmt.Errorf("material: unknown id %d", id)
	}
	*m = parsed
	return nil
}
