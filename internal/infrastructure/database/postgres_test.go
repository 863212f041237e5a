package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgreSQLClientRequiresCredentials(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_DB_PASSWORD", "")

	_, err := NewPostgreSQLClient()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
}

func TestPostgresHealthCheckRequiresConnection(t *testing.T) {
	empty := &PostgreSQLClient{}

	require.Error(t, empty.HealthCheck())
	assert.NoError(t, empty.Close())
}
