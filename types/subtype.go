package types

import (
	"errors"
	"sync"

	"github.com/miren-lang/miren/internal/log"
	"github.com/miren-lang/miren/tyerr"
	"github.com/miren-lang/miren/util"
)

var subtypeLogger = log.DefaultLogger.With("section", "subtype")

// Checker answers subtype queries against a frozen registry. A query is a
// pure function of its two types, so results are memoized; the cache is the
// only shared state and is lock-guarded, making concurrent queries safe.
type Checker struct {
	reg *Registry

	mu   sync.RWMutex
	memo map[util.Pair[uint64, uint64]][]memoEntry
}

// memoEntry keeps the queried pair alongside its judgment so that hash
// buckets can be disambiguated structurally.
type memoEntry struct {
	sub, super Type
	result     bool
}

func NewChecker(r *Registry) (*Checker, error) {
	if !r.Frozen() {
		return nil, errors.New("registry must be frozen before subtype checking")
	}
	return &Checker{
		reg:  r,
		memo: make(map[util.Pair[uint64, uint64]][]memoEntry),
	}, nil
}

// IsSubtype reports whether a is a subtype of b.
//
// Both types must be fully applied and variable-free; a query over an
// unregistered name or a mis-applied generic is a contract violation and is
// returned as an error rather than coerced to false. Reflexivity and
// transitivity are emergent properties of the recursion, not special cases.
func (c *Checker) IsSubtype(a, b Type) (bool, error) {
	if err := c.checkWellFormed(a); err != nil {
		return false, err
	}
	if err := c.checkWellFormed(b); err != nil {
		return false, err
	}
	key := util.NewPair(a.Hash(), b.Hash())
	c.mu.RLock()
	bucket := c.memo[key]
	c.mu.RUnlock()
	for _, entry := range bucket {
		if TypesEqual(entry.sub, a) && TypesEqual(entry.super, b) {
			return entry.result, nil
		}
	}
	result := c.solve(a, b)
	subtypeLogger.Debug("subtype query", "sub", a, "super", b, "result", result)
	c.mu.Lock()
	c.memo[key] = append(c.memo[key], memoEntry{sub: a, super: b, result: result})
	c.mu.Unlock()
	return result, nil
}

// checkWellFormed rejects query types that mention unregistered names or
// apply a declaration to the wrong number of arguments.
func (c *Checker) checkWellFormed(t Type) error {
	errs := c.reg.checkExpr(t, &Declaration{})
	if len(errs) != 0 {
		return errs[0]
	}
	return nil
}

// solve is the recursive decision procedure. Its inputs are well-formed
// against the frozen registry, so it cannot fail; termination is bounded by
// the (acyclic) ancestry depth and the nesting depth of the query types.
func (c *Checker) solve(a, b Type) bool {
	// the extremes absorb everything
	if TypesEqual(b, Top) || TypesEqual(a, Bottom) {
		return true
	}
	switch a := a.(type) {
	case BaseType:
		b, ok := b.(BaseType)
		if !ok {
			return false
		}
		return a.Name == b.Name || c.reg.allAncestors(a.Name).Has(b.Name)
	case GenericType:
		bg, ok := b.(GenericType)
		if !ok {
			return false
		}
		if a.Name == bg.Name {
			return c.solveArgs(a, bg)
		}
		ancestor, ok := c.ancestorInstantiation(a, bg.Name)
		return ok && c.solveArgs(ancestor, bg)
	default:
		// a is Top and b is not
		return false
	}
}

// solveArgs compares two instantiations of one declaration argument by
// argument, each in the direction its declared variance dictates. Invariant
// parameters demand structural equality, with no recursive subtype call and
// no exception for Bottom.
func (c *Checker) solveArgs(a, b GenericType) bool {
	d, err := c.reg.Lookup(a.Name)
	if err != nil {
		return false
	}
	for i, p := range d.Params {
		switch p.Variance {
		case Covariant:
			if !c.solve(a.Args[i], b.Args[i]) {
				return false
			}
		case Contravariant:
			if !c.solve(b.Args[i], a.Args[i]) {
				return false
			}
		default:
			if !TypesEqual(a.Args[i], b.Args[i]) {
				return false
			}
		}
	}
	return true
}

// ancestorInstantiation substitutes t's arguments through its declaration's
// supertype chain and returns the first ancestor instantiation whose head is
// target.
func (c *Checker) ancestorInstantiation(t GenericType, target typeName) (GenericType, bool) {
	var cur Type = t
	for {
		head, ok := headName(cur)
		if !ok {
			return GenericType{}, false
		}
		d, err := c.reg.Lookup(head)
		if err != nil || d.Supertype == nil {
			return GenericType{}, false
		}
		super := d.Supertype
		if applied, ok := cur.(GenericType); ok {
			super = super.substitute(d.binding(applied.Args))
		}
		if generic, ok := super.(GenericType); ok && generic.Name == target {
			return generic, true
		}
		cur = super
	}
}

// CheckBounds walks every instantiation inside t and reports each argument
// that is not a subtype of its parameter's declared upper bound. Bounds may
// mention sibling parameters; the instantiation's own arguments are
// substituted into them first. This check is advisory and host-driven:
// IsSubtype never enforces bounds.
func (c *Checker) CheckBounds(t Type) ([]tyerr.TypeError, error) {
	if err := c.checkWellFormed(t); err != nil {
		return nil, err
	}
	var errs []tyerr.TypeError
	c.collectBoundViolations(t, &errs)
	return errs, nil
}

func (c *Checker) collectBoundViolations(t Type, errs *[]tyerr.TypeError) {
	applied, ok := t.(GenericType)
	if !ok {
		return
	}
	d, err := c.reg.Lookup(applied.Name)
	if err != nil {
		return
	}
	binding := d.binding(applied.Args)
	for i, p := range d.Params {
		if p.Bound != nil {
			bound := p.Bound.substitute(binding)
			if !c.solve(applied.Args[i], bound) {
				*errs = append(*errs, tyerr.New(tyerr.NewBoundViolation{
					TypeName: applied.Name,
					Param:    p.Name,
					Argument: applied.Args[i].String(),
					Bound:    bound.String(),
				}))
			}
		}
		c.collectBoundViolations(applied.Args[i], errs)
	}
}
