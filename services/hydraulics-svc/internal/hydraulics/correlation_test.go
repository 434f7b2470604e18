package hydraulics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethods_StableOrder(t *testing.T) {
	infos := Methods()
	require.GreaterOrEqual(t, len(infos), len(AllMethods()))

	for i, m := range AllMethods() {
		assert.Equal(t, m, infos[i].ID)
		assert.NotEmpty(t, infos[i].Name)
		assert.NotEmpty(t, infos[i].Description)
	}
	assert.Equal(t, "Hagedorn-Brown", infos[0].Name)

	// повторный вызов даёт тот же порядок
	assert.Equal(t, infos, Methods())
}

func TestLookup(t *testing.T) {
	for _, m := range AllMethods() {
		c, ok := Lookup(m)
		require.True(t, ok, m)
		assert.Equal(t, m, c.Name())
	}

	_, ok := Lookup("unknown")
	assert.False(t, ok)
}

func TestClampHoldup(t *testing.T) {
	assert.Equal(t, MinHoldup, clampHoldup(-1))
	assert.Equal(t, MaxHoldup, clampHoldup(1.5))
	assert.Equal(t, 0.4, clampHoldup(0.4))
}
