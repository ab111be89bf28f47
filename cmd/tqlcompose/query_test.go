package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/soulstompp/tqlcompose/alias"
)

func TestLoadBindingsMergesRepeatedFlagOccurrences(t *testing.T) {
	q := &QueryCmd{Bind: []string{"[id: [1]]", "[id: [2]]", "[name: 'a']"}}

	bindings, err := q.loadBindings()
	assert.NoError(t, err)
	assert.Equal(t, 2, len(bindings["id"]))
	assert.Equal(t, any(int64(1)), bindings["id"][0])
	assert.Equal(t, any(int64(2)), bindings["id"][1])
	assert.Equal(t, "a", bindings["name"][0])
}

func TestLoadBindingsPropagatesParseError(t *testing.T) {
	q := &QueryCmd{Bind: []string{"not a bind value"}}

	_, err := q.loadBindings()
	assert.Error(t, err)
}

// TestLoadMocksRoundTripsPathFixture exercises SPEC_FULL.md's mock fixture
// round trip against testdata/mocks/address_mocks.yaml, whose rows are keyed
// by the path alias address.tql.
func TestLoadMocksRoundTripsPathFixture(t *testing.T) {
	q := &QueryCmd{MockPath: "../../testdata/mocks/address_mocks.yaml"}

	mocks, err := q.loadMocks()
	assert.NoError(t, err)

	rows, ok := mocks.Path[alias.NewPath("address.tql")]
	assert.True(t, ok)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, "1 Main St", rows[0]["street"])
	assert.Equal(t, "Shelbyville", rows[1]["city"])
}

func TestLoadMocksMissingFileFails(t *testing.T) {
	q := &QueryCmd{MockObject: "../../testdata/mocks/does-not-exist.yaml"}

	_, err := q.loadMocks()
	assert.Error(t, err)
}
