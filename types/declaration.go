package types

// Declaration is a nominal type declaration: a base type when Params is
// empty, a generic type otherwise. Supertype is the optional single direct
// supertype expression; within it (and within bounds and member signatures)
// the declaration's own parameters occur as BaseTypes named after them.
type Declaration struct {
	Name      typeName
	Supertype Type // can be nil
	Params    []TypeParam
	Members   []Member
}

type TypeParam struct {
	Name     typeName
	Variance Variance
	Bound    Type // can be nil
}

// Member is a member signature: input parameter types and one result type.
// Members take part in variance validation only; subtype checking never
// looks at them.
type Member struct {
	Name   string
	Params []Type
	Result Type
}

// paramIndex resolves name against the declaration's parameter list.
func (d *Declaration) paramIndex(name typeName) (int, bool) {
	for i, p := range d.Params {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// binding maps the declaration's parameter names to args, which must have
// already been arity-checked against Params.
func (d *Declaration) binding(args []Type) map[typeName]Type {
	binding := make(map[typeName]Type, len(d.Params))
	for i, p := range d.Params {
		binding[p.Name] = args[i]
	}
	return binding
}
