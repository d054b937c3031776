package types_test

import (
	"fmt"
	"testing"

	"github.com/miren-lang/miren/tyerr"
	"github.com/miren-lang/miren/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base(name string) types.Type { return types.BaseType{Name: name} }

func generic(name string, args ...types.Type) types.Type {
	return types.GenericType{Name: name, Args: args}
}

// fixtureDeclarations is a small world of shapes plus the classic variance
// suspects: a contravariant writer, a covariant reader, an invariant mutable
// box, and a covariant list with a covariant subtype.
func fixtureDeclarations() []types.Declaration {
	return []types.Declaration{
		{Name: "Shape"},
		{Name: "Circle", Supertype: base("Shape")},
		{Name: "Rectangle", Supertype: base("Shape")},
		{Name: "Square", Supertype: base("Rectangle")},
		{Name: "String"},
		{Name: "Unit"},
		{Name: "Number"},
		{Name: "Int", Supertype: base("Number")},
		{
			Name:   "Writer",
			Params: []types.TypeParam{{Name: "T", Variance: types.Contravariant}},
			Members: []types.Member{
				{Name: "write", Params: []types.Type{base("T")}, Result: base("String")},
			},
		},
		{
			Name:   "Reader",
			Params: []types.TypeParam{{Name: "T", Variance: types.Covariant}},
			Members: []types.Member{
				{Name: "read", Params: []types.Type{base("String")}, Result: base("T")},
			},
		},
		{
			Name:   "MutableBox",
			Params: []types.TypeParam{{Name: "T", Variance: types.Invariant}},
			Members: []types.Member{
				{Name: "get", Result: base("T")},
				{Name: "set", Params: []types.Type{base("T")}, Result: base("Unit")},
			},
		},
		{
			Name:   "ImmutableList",
			Params: []types.TypeParam{{Name: "T", Variance: types.Covariant}},
			Members: []types.Member{
				{Name: "head", Result: base("T")},
			},
		},
		{
			Name:      "ListView",
			Supertype: generic("ImmutableList", base("T")),
			Params:    []types.TypeParam{{Name: "T", Variance: types.Covariant}},
		},
		{
			Name:   "NumberBox",
			Params: []types.TypeParam{{Name: "T", Variance: types.Invariant, Bound: base("Number")}},
		},
	}
}

func newTestChecker(t *testing.T) *types.Checker {
	t.Helper()
	registry := types.NewRegistry()
	for _, d := range fixtureDeclarations() {
		require.NoError(t, registry.Register(d))
	}
	require.Empty(t, registry.Freeze())
	checker, err := types.NewChecker(registry)
	require.NoError(t, err)
	return checker
}

func assertSubtype(t *testing.T, checker *types.Checker, sub, super types.Type, expected bool) {
	t.Helper()
	t.Run(fmt.Sprintf("%s<:%s", sub, super), func(t *testing.T) {
		result, err := checker.IsSubtype(sub, super)
		require.NoError(t, err)
		assert.Equal(t, expected, result, "unexpected judgment for %s <: %s", sub, super)
	})
}

func TestReflexivity(t *testing.T) {
	checker := newTestChecker(t)
	for _, typ := range []types.Type{
		base("Shape"),
		base("Circle"),
		types.Bottom,
		types.Top,
		generic("Reader", base("Circle")),
		generic("Writer", generic("Reader", base("Shape"))),
		generic("MutableBox", base("Rectangle")),
	} {
		assertSubtype(t, checker, typ, typ, true)
	}
}

func TestExtremes(t *testing.T) {
	checker := newTestChecker(t)
	for _, typ := range []types.Type{
		base("Shape"),
		generic("Reader", base("Circle")),
		types.Bottom,
		types.Top,
	} {
		assertSubtype(t, checker, types.Bottom, typ, true)
		assertSubtype(t, checker, typ, types.Top, true)
	}
	// and the extremes do not flip around
	assertSubtype(t, checker, types.Top, base("Shape"), false)
	assertSubtype(t, checker, base("Shape"), types.Bottom, false)
}

func TestBaseTypeAncestry(t *testing.T) {
	checker := newTestChecker(t)
	assertSubtype(t, checker, base("Circle"), base("Shape"), true)
	assertSubtype(t, checker, base("Shape"), base("Circle"), false)
	assertSubtype(t, checker, base("Circle"), base("Rectangle"), false)
	// transitively through Rectangle
	assertSubtype(t, checker, base("Square"), base("Shape"), true)
}

func TestTransitivity(t *testing.T) {
	checker := newTestChecker(t)
	triples := [][3]types.Type{
		{base("Square"), base("Rectangle"), base("Shape")},
		{generic("Reader", base("Square")), generic("Reader", base("Rectangle")), generic("Reader", base("Shape"))},
		{generic("Writer", base("Shape")), generic("Writer", base("Rectangle")), generic("Writer", base("Square"))},
	}
	for _, triple := range triples {
		a, b, c := triple[0], triple[1], triple[2]
		assertSubtype(t, checker, a, b, true)
		assertSubtype(t, checker, b, c, true)
		assertSubtype(t, checker, a, c, true)
	}
}

func TestWriterContravariance(t *testing.T) {
	checker := newTestChecker(t)
	// Circle <: Shape, so a writer of any shape can stand in for a writer of circles
	assertSubtype(t, checker, generic("Writer", base("Shape")), generic("Writer", base("Circle")), true)
	assertSubtype(t, checker, generic("Writer", base("Circle")), generic("Writer", base("Shape")), false)
}

func TestReaderCovariance(t *testing.T) {
	checker := newTestChecker(t)
	assertSubtype(t, checker, generic("Reader", base("Rectangle")), generic("Reader", base("Shape")), true)
	assertSubtype(t, checker, generic("Reader", base("Shape")), generic("Reader", base("Rectangle")), false)
}

func TestMutableBoxInvariance(t *testing.T) {
	checker := newTestChecker(t)
	// no induced subtyping despite Rectangle <: Shape
	assertSubtype(t, checker, generic("MutableBox", base("Rectangle")), generic("MutableBox", base("Shape")), false)
	assertSubtype(t, checker, generic("MutableBox", base("Shape")), generic("MutableBox", base("Rectangle")), false)
	assertSubtype(t, checker, generic("MutableBox", base("Rectangle")), generic("MutableBox", base("Rectangle")), true)
}

func TestInvariantArgumentBottomIsNotSpecial(t *testing.T) {
	checker := newTestChecker(t)
	// invariance demands structural equality, and Bottom gets no exemption
	assertSubtype(t, checker, generic("MutableBox", types.Bottom), generic("MutableBox", base("Circle")), false)
	assertSubtype(t, checker, generic("MutableBox", base("Circle")), generic("MutableBox", types.Bottom), false)
	assertSubtype(t, checker, generic("MutableBox", types.Bottom), generic("MutableBox", types.Bottom), true)
}

func TestNestedVarianceFlips(t *testing.T) {
	checker := newTestChecker(t)
	// two contravariant hops compose back to covariant
	assertSubtype(t, checker,
		generic("Writer", generic("Writer", base("Circle"))),
		generic("Writer", generic("Writer", base("Shape"))),
		true)
	// a reader of writers flips once
	assertSubtype(t, checker,
		generic("Reader", generic("Writer", base("Shape"))),
		generic("Reader", generic("Writer", base("Circle"))),
		true)
	assertSubtype(t, checker,
		generic("Reader", generic("Writer", base("Circle"))),
		generic("Reader", generic("Writer", base("Shape"))),
		false)
}

func TestGenericAncestorInstantiation(t *testing.T) {
	checker := newTestChecker(t)
	// ListView[T] declares ImmutableList[T] as its supertype
	assertSubtype(t, checker, generic("ListView", base("Circle")), generic("ImmutableList", base("Circle")), true)
	assertSubtype(t, checker, generic("ListView", base("Circle")), generic("ImmutableList", base("Shape")), true)
	assertSubtype(t, checker, generic("ImmutableList", base("Circle")), generic("ListView", base("Circle")), false)
	assertSubtype(t, checker, generic("ListView", base("Shape")), generic("ImmutableList", base("Circle")), false)
}

func TestMixedShapesAreNotSubtypes(t *testing.T) {
	checker := newTestChecker(t)
	assertSubtype(t, checker, base("Shape"), generic("Reader", base("Shape")), false)
	assertSubtype(t, checker, generic("Reader", base("Shape")), base("Shape"), false)
}

func TestMalformedQueriesAreContractViolations(t *testing.T) {
	checker := newTestChecker(t)

	_, err := checker.IsSubtype(base("Ghost"), base("Shape"))
	require.Error(t, err)
	var typeErr tyerr.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, tyerr.UnknownType, typeErr.Code())

	_, err = checker.IsSubtype(generic("Reader", base("Shape"), base("Shape")), generic("Reader", base("Shape")))
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, tyerr.BadArity, typeErr.Code())

	// a generic declaration used without arguments is just as malformed
	_, err = checker.IsSubtype(base("Reader"), base("Shape"))
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, tyerr.BadArity, typeErr.Code())
}

func TestIdenticallyRenderedTypesAreDistinguished(t *testing.T) {
	// a base type whose name renders exactly like an instantiation must not
	// share a cached judgment with it
	registry := types.NewRegistry()
	for _, d := range append(fixtureDeclarations(), types.Declaration{Name: "Reader[Circle]"}) {
		require.NoError(t, registry.Register(d))
	}
	require.Empty(t, registry.Freeze())
	checker, err := types.NewChecker(registry)
	require.NoError(t, err)

	oddBase := base("Reader[Circle]")
	applied := generic("Reader", base("Circle"))
	assert.Equal(t, oddBase.String(), applied.String())

	result, err := checker.IsSubtype(oddBase, generic("Reader", base("Shape")))
	require.NoError(t, err)
	assert.False(t, result)

	result, err = checker.IsSubtype(applied, generic("Reader", base("Shape")))
	require.NoError(t, err)
	assert.True(t, result, "the judgment for %s must not leak to the applied type", oddBase)
}

func TestRepeatedQueriesAreStable(t *testing.T) {
	checker := newTestChecker(t)
	sub, super := generic("Writer", base("Shape")), generic("Writer", base("Circle"))
	for range 3 {
		result, err := checker.IsSubtype(sub, super)
		require.NoError(t, err)
		assert.True(t, result)
	}
}

func TestCheckBounds(t *testing.T) {
	checker := newTestChecker(t)

	violations, err := checker.CheckBounds(generic("NumberBox", base("Int")))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = checker.CheckBounds(generic("NumberBox", base("String")))
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, tyerr.BoundViolation, violations[0].Code())

	// nested instantiations are walked too
	violations, err = checker.CheckBounds(generic("Reader", generic("NumberBox", base("String"))))
	require.NoError(t, err)
	assert.Len(t, violations, 1)
}

func TestCheckerRequiresFrozenRegistry(t *testing.T) {
	registry := types.NewRegistry()
	require.NoError(t, registry.Register(types.Declaration{Name: "Shape"}))
	_, err := types.NewChecker(registry)
	assert.Error(t, err)
}
