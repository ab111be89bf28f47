package alias

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAliasEqualityIsStructural(t *testing.T) {
	a1 := NewPath("a/b.tql")
	a2 := NewPath("a/b.tql")
	a3 := NewPath("a/c.tql")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, a3)

	m := map[Alias]int{a1: 1}
	_, ok := m[a2]
	assert.True(t, ok)
}

func TestAliasAsMapKeyDistinguishesKind(t *testing.T) {
	path := NewPath("orders")
	dbObject := NewDbObject("orders", "")

	assert.NotEqual(t, path, dbObject)
}

func TestReadRawSQLPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "include.tql")
	assert.NoError(t, os.WriteFile(file, []byte("SELECT 1;"), 0o644))

	a := NewPath(file)
	src, err := a.ReadRawSQL()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT 1;", src)
}

func TestReadRawSQLDbObjectAndLiteral(t *testing.T) {
	db := NewDbObject("orders", "o")
	src, err := db.ReadRawSQL()
	assert.NoError(t, err)
	assert.Equal(t, "orders", src)

	lit := NewLiteral("SELECT 1;")
	src, err = lit.ReadRawSQL()
	assert.NoError(t, err)
	assert.Equal(t, "SELECT 1;", src)
}

func TestStringRendersDbObjectRename(t *testing.T) {
	assert.Equal(t, "orders AS o", NewDbObject("orders", "o").String())
	assert.Equal(t, "orders", NewDbObject("orders", "").String())
}
