package indexer

import (
	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/resolver"
	"bennypowers.dev/cssvls/internal/variables"
)

// ResolveVariableReferences attaches a color to every variable whose value
// becomes a color once its var() references are substituted from the
// current table. Substitution is one level deep, and declared values are
// never changed, so a second call on an unchanged table does nothing.
// Returns the number of variables that gained a color.
func (e *Engine) ResolveVariableReferences() int {
	table := e.variables.GetAll()

	resolved := 0
	for name, v := range table {
		if v == nil || v.Color != nil {
			continue
		}
		if e.resolveOne(name, v, table) {
			resolved++
		}
	}

	if resolved > 0 {
		log.Debug("Resolved %d variable colors", resolved)
	}
	return resolved
}

func (e *Engine) resolveOne(name string, v *variables.Variable, table map[string]*variables.Variable) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("Failed to resolve %s: %v", name, r)
			ok = false
		}
	}()

	raw := v.Symbol.Value
	out := resolver.Resolve(raw, table)
	if out == raw {
		return false
	}

	c, isColor := color.Parse(out)
	if !isColor {
		return false
	}

	applied := false
	e.variables.Update(name, func(cur *variables.Variable) *variables.Variable {
		// the variable was re-indexed since the snapshot
		if cur != v {
			return cur
		}
		next := cur.Clone()
		next.Color = &c
		applied = true
		return next
	})
	return applied
}
