package tqlerrors

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/soulstompp/tqlcompose/position"
)

func TestErrorUnwrapsToKind(t *testing.T) {
	err := New(ErrCompositionAliasUnknown, position.Generated("test"), "missing.tql")

	assert.True(t, errors.Is(err, ErrCompositionAliasUnknown))
	assert.False(t, errors.Is(err, ErrAliasConflict))
}

func TestNewfFormatsDetail(t *testing.T) {
	err := Newf(ErrCompositionBindingValueCount, position.Generated("test"), "found %d < min %d", 1, 2)
	assert.Equal(t, "invalid binding value count: found 1 < min 2 at command test", err.Error())
}

func TestErrorWithoutDetail(t *testing.T) {
	err := New(ErrCompositionIncomplete, position.Generated("test"), "")
	assert.Equal(t, "composition incomplete at command test", err.Error())
}
