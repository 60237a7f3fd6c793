// Package variables holds the indexed entities: custom properties and
// custom media queries, each with the location that defined it.
package variables

import (
	"strings"

	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/position"
)

// Location is a range within a file or fetched stylesheet
type Location struct {
	URI   string         `json:"uri"`
	Range position.Range `json:"range"`
}

// Symbol is a custom property name and its value exactly as written
type Symbol struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variable is an indexed custom property declaration
type Variable struct {
	Symbol     Symbol       `json:"symbol"`
	Definition Location     `json:"definition"`
	Color      *color.Color `json:"color,omitempty"`
}

// Name returns the custom property name, including the leading dashes
func (v *Variable) Name() string {
	return v.Symbol.Name
}

// Value returns the raw declared value
func (v *Variable) Value() string {
	return v.Symbol.Value
}

// IsColor reports whether a color has been attached to the variable
func (v *Variable) IsColor() bool {
	return v.Color != nil
}

// Clone returns a copy that shares nothing with v
func (v *Variable) Clone() *Variable {
	if v == nil {
		return nil
	}
	c := *v
	if v.Color != nil {
		col := *v.Color
		c.Color = &col
	}
	return &c
}

// CustomMedia is an indexed @custom-media rule
type CustomMedia struct {
	Name       string   `json:"name"`
	Params     string   `json:"params"`
	Definition Location `json:"definition"`
}

// Clone returns a copy of m
func (m *CustomMedia) Clone() *CustomMedia {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// IsCustomPropertyName reports whether name is a custom property identifier
func IsCustomPropertyName(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "--")
}
