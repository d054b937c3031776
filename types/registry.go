package types

import (
	"github.com/benbjohnson/immutable"
	set "github.com/hashicorp/go-set/v3"
	"github.com/miren-lang/miren/internal/log"
	"github.com/miren-lang/miren/tyerr"
	"github.com/miren-lang/miren/util"
)

var registryLogger = log.DefaultLogger.With("section", "registry")

type phase uint8

const (
	phaseOpen phase = iota
	phaseFrozen
)

// Registry holds every nominal declaration of a checking session. It is
// append-only while open, and read-only once frozen; Freeze is the barrier
// the host must pass before building a Checker or Validator. There is no
// way to remove a declaration and no transition back to the open phase.
type Registry struct {
	decls map[typeName]*Declaration
	order []typeName
	phase phase
}

func NewRegistry() *Registry {
	return &Registry{
		decls: make(map[typeName]*Declaration),
	}
}

// Register adds a declaration to an open registry. It fails on a name
// collision or when the registry is already frozen; it does not yet resolve
// the names the declaration mentions, which may be registered later and are
// checked at Freeze.
func (r *Registry) Register(d Declaration) error {
	if r.phase != phaseOpen {
		return tyerr.New(tyerr.NewRegistryFrozen{Name: d.Name})
	}
	if _, exists := r.decls[d.Name]; exists {
		return tyerr.New(tyerr.NewDuplicateDeclaration{Name: d.Name})
	}
	registryLogger.Debug("registering declaration", "name", d.Name, "params", len(d.Params), "members", len(d.Members))
	r.decls[d.Name] = &d
	r.order = append(r.order, d.Name)
	return nil
}

func (r *Registry) Lookup(name typeName) (*Declaration, error) {
	d, ok := r.decls[name]
	if !ok {
		return nil, tyerr.New(tyerr.NewUnknownType{Name: name})
	}
	return d, nil
}

func (r *Registry) Frozen() bool {
	return r.phase == phaseFrozen
}

// AncestorsOf returns the ordered chain of supertype head names reachable
// from name, nearest first. The chain is linear because declarations carry
// at most one direct supertype.
func (r *Registry) AncestorsOf(name typeName) ([]typeName, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	var chain []typeName
	// the visited guard only matters before Freeze has rejected cycles
	visited := util.NewSetOf([]typeName{name})
	for d.Supertype != nil {
		head, ok := headName(d.Supertype)
		if !ok || visited.Contains(head) {
			break
		}
		chain = append(chain, head)
		visited.Add(head)
		d, ok = r.decls[head]
		if !ok {
			break
		}
	}
	return chain, nil
}

// allAncestors is AncestorsOf as a membership set.
func (r *Registry) allAncestors(name typeName) immutable.Set[typeName] {
	chain, err := r.AncestorsOf(name)
	if err != nil {
		return immutable.NewSet[typeName](nil)
	}
	return immutable.NewSet[typeName](nil, chain...)
}

// Freeze transitions the registry from open to frozen, after which queries
// may run concurrently. It verifies what Register deferred: every name a
// declaration mentions resolves, every generic application has the right
// arity, and the supertype graph is acyclic. All problems found are
// reported together.
func (r *Registry) Freeze() []tyerr.TypeError {
	if r.phase == phaseFrozen {
		return nil
	}
	var errs []tyerr.TypeError
	for _, name := range r.order {
		errs = append(errs, r.checkDeclaration(r.decls[name])...)
	}
	errs = append(errs, r.checkAcyclic()...)
	if len(errs) != 0 {
		return errs
	}
	r.phase = phaseFrozen
	registryLogger.Debug("registry frozen", "declarations", len(r.order))
	return nil
}

func (r *Registry) checkDeclaration(d *Declaration) []tyerr.TypeError {
	var errs []tyerr.TypeError
	if d.Supertype != nil {
		// a bare parameter cannot be extended
		if base, ok := d.Supertype.(BaseType); ok {
			if _, isParam := d.paramIndex(base.Name); isParam {
				errs = append(errs, tyerr.New(tyerr.NewUnknownType{Name: base.Name}))
			}
		}
		errs = append(errs, r.checkExpr(d.Supertype, d)...)
	}
	for _, p := range d.Params {
		if p.Bound != nil {
			errs = append(errs, r.checkExpr(p.Bound, d)...)
		}
	}
	for _, m := range d.Members {
		for _, param := range m.Params {
			errs = append(errs, r.checkExpr(param, d)...)
		}
		errs = append(errs, r.checkExpr(m.Result, d)...)
	}
	return errs
}

// checkExpr resolves every name in t, treating owner's parameters as bound
// names. Parameters are not higher-kinded: applying one to arguments is
// reported as unknown.
func (r *Registry) checkExpr(t Type, owner *Declaration) []tyerr.TypeError {
	switch t := t.(type) {
	case BaseType:
		if _, isParam := owner.paramIndex(t.Name); isParam {
			return nil
		}
		d, ok := r.decls[t.Name]
		if !ok {
			return []tyerr.TypeError{tyerr.New(tyerr.NewUnknownType{Name: t.Name})}
		}
		if len(d.Params) != 0 {
			return []tyerr.TypeError{tyerr.New(tyerr.NewBadArity{Name: t.Name, Want: len(d.Params), Got: 0})}
		}
		return nil
	case GenericType:
		if _, isParam := owner.paramIndex(t.Name); isParam {
			return []tyerr.TypeError{tyerr.New(tyerr.NewUnknownType{Name: t.Name})}
		}
		var errs []tyerr.TypeError
		d, ok := r.decls[t.Name]
		if !ok {
			errs = append(errs, tyerr.New(tyerr.NewUnknownType{Name: t.Name}))
		} else if len(d.Params) != len(t.Args) {
			errs = append(errs, tyerr.New(tyerr.NewBadArity{Name: t.Name, Want: len(d.Params), Got: len(t.Args)}))
		}
		for _, arg := range t.Args {
			errs = append(errs, r.checkExpr(arg, owner)...)
		}
		return errs
	default:
		return nil
	}
}

// checkAcyclic walks every supertype chain and rejects any that revisits a
// declaration.
func (r *Registry) checkAcyclic() []tyerr.TypeError {
	var errs []tyerr.TypeError
	reported := set.New[typeName](len(r.order))
	for _, name := range r.order {
		onPath := set.New[typeName](4)
		chain := []typeName{name}
		onPath.Insert(name)
		d := r.decls[name]
		for d != nil && d.Supertype != nil {
			head, ok := headName(d.Supertype)
			if !ok {
				break
			}
			chain = append(chain, head)
			if onPath.Contains(head) {
				if !reported.Contains(head) {
					reported.Insert(head)
					errs = append(errs, tyerr.New(tyerr.NewCyclicAncestry{Chain: chain}))
				}
				break
			}
			onPath.Insert(head)
			d = r.decls[head]
		}
	}
	return errs
}
