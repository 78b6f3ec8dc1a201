package db

import (
	"testing"

	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectSelection(t *testing.T) {
	for _, dbType := range []string{"sqlite", "", "sqlite-pure", "postgres", "mysql"} {
		d, err := Dialect(config.Config{DBType: dbType, DBPath: "test.db"})
		require.NoError(t, err, dbType)
		assert.NotNil(t, d, dbType)
	}

	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestIsSQLite(t *testing.T) {
	assert.True(t, isSQLite("sqlite"))
	assert.True(t, isSQLite("sqlite-pure"))
	assert.False(t, isSQLite("postgres"))
}
