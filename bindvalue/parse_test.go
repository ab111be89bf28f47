package bindvalue

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestParseSimpleNamedSet(t *testing.T) {
	bindings, err := Parse("[name: ['Steven'], data: [null]]")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(bindings["name"]))
	assert.Equal(t, "Steven", bindings["name"][0])
	assert.Equal(t, 1, len(bindings["data"]))
	assert.Equal(t, nil, bindings["data"][0])
}

func TestParseBareValueAndParenList(t *testing.T) {
	bindings, err := Parse("[a: 'b_value', c: (1, 2, 3)]")
	assert.NoError(t, err)
	assert.Equal(t, "b_value", bindings["a"][0])
	assert.Equal(t, any([]int64{1, 2, 3}[0]), bindings["c"][0])
	assert.Equal(t, 3, len(bindings["c"]))
}

func TestParseRealNumberUsesDecimal(t *testing.T) {
	bindings, err := Parse("[x: 1.5]")
	assert.NoError(t, err)
	d, ok := bindings["x"][0].(decimal.Decimal)
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("1.5")))
}

func TestParseRepeatedKeyAcrossGroupsAppends(t *testing.T) {
	bindings, err := Parse("[xs: [1]][xs: [2]]")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(bindings["xs"]))
}

func TestParseCommaJoinedNamedSets(t *testing.T) {
	bindings, err := Parse("[a: 1], [b: 2]")
	assert.NoError(t, err)
	assert.Equal(t, any(int64(1)), bindings["a"][0])
	assert.Equal(t, any(int64(2)), bindings["b"][0])
}

func TestParseUnterminatedStringFails(t *testing.T) {
	_, err := Parse("[name: ['Steven]]")
	assert.Error(t, err)
}
