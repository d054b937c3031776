package types

import (
	"hash/fnv"
	"slices"
	"strings"
)

type typeName = string

// Type is a fully evaluated type expression: a named base type, a generic
// type applied to arguments, or one of the two extremes. Inside a
// Declaration, an occurrence of a type parameter is written as a BaseType
// carrying the parameter's name; substitution resolves it. Types are
// immutable and compared structurally.
type Type interface {
	String() string
	Hash() uint64

	// substitute replaces parameter occurrences (BaseTypes named in binding)
	// and returns the resulting type. Types with no occurrences return
	// themselves.
	substitute(binding map[typeName]Type) Type
}

type BaseType struct {
	Name typeName
}

func (t BaseType) String() string { return t.Name }

func (t BaseType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.Name))
	return h.Sum64()
}

func (t BaseType) substitute(binding map[typeName]Type) Type {
	if bound, ok := binding[t.Name]; ok {
		return bound
	}
	return t
}

type GenericType struct {
	Name typeName
	Args []Type
}

func (t GenericType) String() string {
	sb := &strings.Builder{}
	sb.WriteString(t.Name)
	sb.WriteString("[")
	for i, arg := range t.Args {
		if i != 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString("]")
	return sb.String()
}

func (t GenericType) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(t.Name))
	hash := h.Sum64()
	for _, arg := range t.Args {
		hash = 31*hash ^ arg.Hash()
	}
	return hash
}

func (t GenericType) substitute(binding map[typeName]Type) Type {
	args := make([]Type, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.substitute(binding)
	}
	return GenericType{Name: t.Name, Args: args}
}

// extremeType is Bottom when polarity is true, Top otherwise.
type extremeType struct {
	polarity bool
}

var (
	Bottom Type = extremeType{polarity: true}
	Top    Type = extremeType{polarity: false}
)

func (t extremeType) String() string {
	if t.polarity {
		return "Bottom"
	}
	return "Top"
}

// Hash for extremeType uses fixed FNV primes per polarity
func (t extremeType) Hash() uint64 {
	if t.polarity {
		return 16777619
	}
	return 1099511628211
}

func (t extremeType) substitute(binding map[typeName]Type) Type { return t }

// TypesEqual is structural equality over Types.
func TypesEqual(this, that Type) bool {
	switch this := this.(type) {
	case BaseType:
		that, ok := that.(BaseType)
		return ok && this.Name == that.Name
	case GenericType:
		that, ok := that.(GenericType)
		return ok && this.Name == that.Name && slices.EqualFunc(this.Args, that.Args, TypesEqual)
	case extremeType:
		that, ok := that.(extremeType)
		return ok && this.polarity == that.polarity
	default:
		return false
	}
}

// headName is the declared name a type resolves through, if it has one.
func headName(t Type) (typeName, bool) {
	switch t := t.(type) {
	case BaseType:
		return t.Name, true
	case GenericType:
		return t.Name, true
	default:
		return "", false
	}
}
