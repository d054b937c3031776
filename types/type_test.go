package types_test

import (
	"testing"

	"github.com/miren-lang/miren/types"
	"github.com/stretchr/testify/assert"
)

func TestTypeStrings(t *testing.T) {
	assert.Equal(t, "Shape", base("Shape").String())
	assert.Equal(t, "Reader[Circle]", generic("Reader", base("Circle")).String())
	assert.Equal(t, "Map[String, Reader[Circle]]",
		generic("Map", base("String"), generic("Reader", base("Circle"))).String())
	assert.Equal(t, "Bottom", types.Bottom.String())
	assert.Equal(t, "Top", types.Top.String())
}

func TestTypesEqual(t *testing.T) {
	assert.True(t, types.TypesEqual(base("Shape"), base("Shape")))
	assert.False(t, types.TypesEqual(base("Shape"), base("Circle")))
	assert.True(t, types.TypesEqual(
		generic("Reader", base("Circle")),
		generic("Reader", base("Circle"))))
	assert.False(t, types.TypesEqual(
		generic("Reader", base("Circle")),
		generic("Reader", base("Shape"))))
	assert.False(t, types.TypesEqual(base("Reader"), generic("Reader", base("Circle"))))
	assert.True(t, types.TypesEqual(types.Bottom, types.Bottom))
	assert.False(t, types.TypesEqual(types.Bottom, types.Top))
	assert.False(t, types.TypesEqual(types.Bottom, base("Bottom")))
}

func TestTypeHashesAgreeWithEquality(t *testing.T) {
	distinct := []types.Type{
		base("Shape"),
		base("Circle"),
		generic("Reader", base("Circle")),
		generic("Writer", base("Circle")),
		generic("Reader", base("Shape")),
		types.Bottom,
		types.Top,
	}
	seen := make(map[uint64]types.Type, len(distinct))
	for _, typ := range distinct {
		if prev, dup := seen[typ.Hash()]; dup {
			t.Errorf("hash collision between %s and %s", prev, typ)
		}
		seen[typ.Hash()] = typ
		assert.Equal(t, typ.Hash(), typ.Hash())
	}
}
