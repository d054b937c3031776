package types

import (
	"errors"
	"fmt"
	"sort"

	"github.com/miren-lang/miren/internal/log"
	"github.com/miren-lang/miren/tyerr"
	"github.com/xtgo/set"
)

var varianceLogger = log.DefaultLogger.With("section", "variance")

// Validator checks, once per generic declaration, that member signatures
// respect the declared parameter variances: a covariant parameter may not
// occur in a negative position, a contravariant one may not occur in a
// positive position. It holds no state beyond the frozen registry.
type Validator struct {
	reg *Registry
}

func NewValidator(r *Registry) (*Validator, error) {
	if !r.Frozen() {
		return nil, errors.New("registry must be frozen before variance validation")
	}
	return &Validator{reg: r}, nil
}

// Validate scans every member signature of the named declaration and
// returns all variance violations found, never stopping at the first.
// Formal parameters are scanned starting in negative position, results in
// positive position; nested occurrences compose through the nested
// declaration's own variances, which is what rejects a mutable covariant
// container: its write member puts the covariant parameter in a negative
// position.
func (v *Validator) Validate(name typeName) ([]tyerr.TypeError, error) {
	d, err := v.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	var violations []tyerr.TypeError
	for _, m := range d.Members {
		for i, param := range m.Params {
			site := fmt.Sprintf("parameter %d", i)
			if err := v.walk(d, param, positionNegative, m.Name, site, &violations); err != nil {
				return nil, err
			}
		}
		if err := v.walk(d, m.Result, positionPositive, m.Name, "result", &violations); err != nil {
			return nil, err
		}
	}
	if len(violations) != 0 {
		varianceLogger.Debug("variance violations found", "type", name, "params", offendingParams(violations))
	}
	return violations, nil
}

// ValidateAll runs Validate over every generic declaration in registration
// order and returns the combined violations.
func (v *Validator) ValidateAll() ([]tyerr.TypeError, error) {
	var violations []tyerr.TypeError
	for _, name := range v.reg.order {
		if len(v.reg.decls[name].Params) == 0 {
			continue
		}
		found, err := v.Validate(name)
		if err != nil {
			return nil, err
		}
		violations = append(violations, found...)
	}
	return violations, nil
}

// walk visits every type-parameter occurrence in t, composing pos at each
// generic-argument step, and records an occurrence at a position its
// declared variance does not permit.
func (v *Validator) walk(owner *Declaration, t Type, pos position, member, site string, violations *[]tyerr.TypeError) error {
	switch t := t.(type) {
	case BaseType:
		i, isParam := owner.paramIndex(t.Name)
		if !isParam {
			return nil
		}
		declared := owner.Params[i].Variance
		if !pos.permits(declared) {
			*violations = append(*violations, tyerr.New(tyerr.NewVarianceViolation{
				TypeName: owner.Name,
				Param:    t.Name,
				Member:   member,
				Site:     site,
				Declared: declared.String(),
				Position: pos.String(),
			}))
		}
		return nil
	case GenericType:
		d, err := v.reg.Lookup(t.Name)
		if err != nil {
			return err
		}
		for i, arg := range t.Args {
			if err := v.walk(owner, arg, pos.compose(d.Params[i].Variance), member, site, violations); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

// offendingParams extracts the distinct parameter names named by violations.
func offendingParams(violations []tyerr.TypeError) []string {
	var names []string
	for _, violation := range violations {
		if v, ok := violation.(tyerr.NewVarianceViolation); ok {
			names = append(names, v.Param)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return names[:set.Uniq(sort.StringSlice(names))]
}
