package css

import "bennypowers.dev/cssvls/internal/position"

// Declaration is a custom property declaration (--name: value)
type Declaration struct {
	Name string
	// Value is the raw value text, trimmed, without the terminating
	// semicolon or a trailing !important
	Value string
	Range position.Range
}

// VarCall is a var() function call
type VarCall struct {
	Name     string
	Fallback *string // Optional fallback value
	Range    position.Range
}

// AtRule is an at-rule statement such as @import or @custom-media.
// Range spans from the @ through the terminating semicolon when present.
type AtRule struct {
	// Name is the lowercased keyword without the @
	Name   string
	Params string
	Range  position.Range
}

// ParseResult contains the results of parsing CSS
type ParseResult struct {
	Declarations []*Declaration
	VarCalls     []*VarCall
	AtRules      []*AtRule
}

// AtRulesNamed returns the at-rules with the given keyword
func (r *ParseResult) AtRulesNamed(name string) []*AtRule {
	var rules []*AtRule
	for _, rule := range r.AtRules {
		if rule.Name == name {
			rules = append(rules, rule)
		}
	}
	return rules
}
