package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionComposition(t *testing.T) {
	assert.Equal(t, positionNegative, positionNegative.compose(Covariant))
	assert.Equal(t, positionPositive, positionNegative.compose(Contravariant))
	assert.Equal(t, positionBoth, positionNegative.compose(Invariant))

	assert.Equal(t, positionPositive, positionPositive.compose(Covariant))
	assert.Equal(t, positionNegative, positionPositive.compose(Contravariant))

	// flipping twice restores the position
	assert.Equal(t, positionNegative, positionNegative.compose(Contravariant).compose(Contravariant))
	// once collapsed, a position stays collapsed under flips
	assert.Equal(t, positionBoth, positionBoth.compose(Contravariant))
	assert.Equal(t, positionBoth, positionBoth.compose(Covariant))
}

func TestPositionPermits(t *testing.T) {
	assert.True(t, positionPositive.permits(Covariant))
	assert.False(t, positionNegative.permits(Covariant))
	assert.False(t, positionBoth.permits(Covariant))

	assert.True(t, positionNegative.permits(Contravariant))
	assert.False(t, positionPositive.permits(Contravariant))
	assert.False(t, positionBoth.permits(Contravariant))

	for _, pos := range []position{positionPositive, positionNegative, positionBoth} {
		assert.True(t, pos.permits(Invariant))
	}
}

func TestSubstitute(t *testing.T) {
	binding := map[typeName]Type{"T": BaseType{Name: "Circle"}}

	assert.True(t, TypesEqual(BaseType{Name: "Circle"}, BaseType{Name: "T"}.substitute(binding)))
	assert.True(t, TypesEqual(BaseType{Name: "Shape"}, BaseType{Name: "Shape"}.substitute(binding)))
	assert.True(t, TypesEqual(
		GenericType{Name: "Reader", Args: []Type{BaseType{Name: "Circle"}}},
		GenericType{Name: "Reader", Args: []Type{BaseType{Name: "T"}}}.substitute(binding)))
	assert.True(t, TypesEqual(Bottom, Bottom.substitute(binding)))
}
