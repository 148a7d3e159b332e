// Package catalog assembles the built-in rule families (spec §4.F) into
// the ordered pattern list the driver in pkg/peephole runs per method.
package catalog

import (
	"fmt"

	"github.com/dexpeep/dexpeep/pkg/ir"
	"github.com/dexpeep/dexpeep/pkg/pattern"
)

// disabledByDefault names rules that ship built but inactive, per spec §9
// (Open Question: "Remove_AppendEmptyString" shipped disabled upstream
// over a verification concern and we preserve that default here).
var disabledByDefault = map[string]bool{
	"Remove_AppendEmptyString": true,
}

// Catalog holds every known rule, indexed by name, plus the subset active
// by default.
type Catalog struct {
	all     []*pattern.Pattern
	byName  map[string]*pattern.Pattern
	enabled []*pattern.Pattern
}

// New builds the full built-in catalog. methods is the MethodPool the
// module under optimization uses; String/Func family rules intern their
// method handles from it so identity comparisons against the module's own
// invoke instructions succeed.
func New(methods *ir.MethodPool) *Catalog {
	var all []*pattern.Pattern
	all = append(all, nopRules()...)
	all = append(all, arithRules()...)
	all = append(all, stringRules(methods)...)
	all = append(all, funcRules(methods)...)

	c := &Catalog{all: all, byName: make(map[string]*pattern.Pattern, len(all))}
	for _, p := range all {
		if _, dup := c.byName[p.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate rule name %q", p.Name))
		}
		c.byName[p.Name] = p
		if !disabledByDefault[p.Name] {
			c.enabled = append(c.enabled, p)
		}
	}
	return c
}

// AllRules returns every built-in rule, including those disabled by
// default.
func (c *Catalog) AllRules() []*pattern.Pattern {
	return c.all
}

// DefaultRules returns the rules active out of the box.
func (c *Catalog) DefaultRules() []*pattern.Pattern {
	return c.enabled
}

// ByName looks up a rule by its declared name.
func (c *Catalog) ByName(name string) (*pattern.Pattern, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Names returns every known rule name, for config validation.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.all))
	for _, p := range c.all {
		names = append(names, p.Name)
	}
	return names
}
