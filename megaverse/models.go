package megaverse

import (
	"strings"

	"megaverse-client/shared/errors"
)

type ObjectKind string

const (
	KindPolyanet ObjectKind = "polyanets"
	KindSoloon   ObjectKind = "soloons"
	KindCometh   ObjectKind = "comeths"
)

type SoloonColor string

const (
	ColorBlue   SoloonColor = "blue"
	ColorRed    SoloonColor = "red"
	ColorPurple SoloonColor = "purple"
	ColorWhite  SoloonColor = "white"
)

type ComethDirection string

const (
	DirectionUp    ComethDirection = "up"
	DirectionDown  ComethDirection = "down"
	DirectionRight ComethDirection = "right"
	DirectionLeft  ComethDirection = "left"
)

// AstralObject is a single entity at a grid position. Color is only
// meaningful for soloons and Direction only for comeths.
type AstralObject struct {
	Kind      ObjectKind      `json:"kind"`
	Row       int             `json:"row"`
	Column    int             `json:"column"`
	Color     SoloonColor     `json:"color,omitempty"`
	Direction ComethDirection `json:"direction,omitempty"`
}

// validateIdentity checks the part of the object that identifies it on the
// grid: kind and non-negative coordinates. Deletes need nothing more.
func (o AstralObject) validateIdentity() error {
	if o.Row < 0 || o.Column < 0 {
		return errors.Validationf("coordinates must not be negative, got (%d, %d)", o.Row, o.Column)
	}
	switch o.Kind {
	case KindPolyanet, KindSoloon, KindCometh:
		return nil
	default:
		return errors.Validationf("unsupported astral object kind %q", o.Kind)
	}
}

// Validate rejects objects that must never reach the wire: negative
// coordinates, unknown kinds, or attributes that do not belong to the kind.
func (o AstralObject) Validate() error {
	if err := o.validateIdentity(); err != nil {
		return err
	}

	switch o.Kind {
	case KindPolyanet:
		if o.Color != "" || o.Direction != "" {
			return errors.Validation("polyanets carry no color or direction")
		}
	case KindSoloon:
		if o.Direction != "" {
			return errors.Validation("soloons carry no direction")
		}
		switch o.Color {
		case ColorBlue, ColorRed, ColorPurple, ColorWhite:
		default:
			return errors.Validationf("unsupported soloon color %q", o.Color)
		}
	case KindCometh:
		if o.Color != "" {
			return errors.Validation("comeths carry no color")
		}
		switch o.Direction {
		case DirectionUp, DirectionDown, DirectionRight, DirectionLeft:
		default:
			return errors.Validationf("unsupported cometh direction %q", o.Direction)
		}
	}

	return nil
}

// GridBounds is the grid size reported by the upstream. The zero value
// means the bounds are not known yet and only negative coordinates are
// rejected.
type GridBounds struct {
	Rows    int
	Columns int
}

func (b GridBounds) Known() bool {
	return b.Rows > 0 && b.Columns > 0
}

func (b GridBounds) Contains(row, column int) bool {
	if !b.Known() {
		return row >= 0 && column >= 0
	}
	return row >= 0 && row < b.Rows && column >= 0 && column < b.Columns
}

// GoalMap is the target grid for the candidate, as returned by the
// upstream. Cell names follow the goal grammar: SPACE, POLYANET,
// <COLOR>_SOLOON, <DIRECTION>_COMETH.
type GoalMap struct {
	Goal [][]string `json:"goal"`
}

func (m *GoalMap) Bounds() GridBounds {
	if m == nil || len(m.Goal) == 0 {
		return GridBounds{}
	}
	return GridBounds{Rows: len(m.Goal), Columns: len(m.Goal[0])}
}

// ParseGoalCell converts a goal-map cell name into the astral object it
// describes. The second return is false for SPACE cells.
func ParseGoalCell(name string, row, column int) (AstralObject, bool, error) {
	switch {
	case name == "SPACE":
		return AstralObject{}, false, nil
	case name == "POLYANET":
		return AstralObject{Kind: KindPolyanet, Row: row, Column: column}, true, nil
	}

	prefix, suffix, found := strings.Cut(name, "_")
	if !found {
		return AstralObject{}, false, errors.Validationf("unknown goal cell %q at (%d, %d)", name, row, column)
	}

	var obj AstralObject
	switch suffix {
	case "SOLOON":
		obj = AstralObject{Kind: KindSoloon, Row: row, Column: column, Color: SoloonColor(strings.ToLower(prefix))}
	case "COMETH":
		obj = AstralObject{Kind: KindCometh, Row: row, Column: column, Direction: ComethDirection(strings.ToLower(prefix))}
	default:
		return AstralObject{}, false, errors.Validationf("unknown goal cell %q at (%d, %d)", name, row, column)
	}

	if err := obj.Validate(); err != nil {
		return AstralObject{}, false, err
	}
	return obj, true, nil
}
