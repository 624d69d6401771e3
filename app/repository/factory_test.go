package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalRepositories(t *testing.T) {
	resetGlobalRepositories()
	t.Cleanup(resetGlobalRepositories)

	_, err := GetGlobalRepositories()
	assert.ErrorIs(t, err, ErrNotInitialized)

	InitializeRepositories(nil)
	_, err = GetGlobalRepositories()
	assert.ErrorIs(t, err, ErrNotInitialized)

	InitializeRepositories(newTestDB(t))
	first, err := GetGlobalRepositories()
	require.NoError(t, err)
	require.NotNil(t, first.Usage)

	// a second database does not replace the first set
	InitializeRepositories(newTestDB(t))
	second, err := GetGlobalRepositories()
	require.NoError(t, err)
	assert.Same(t, first, second)
}
