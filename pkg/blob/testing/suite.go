// Package testing provides a reusable test suite for blob.Store
// implementations.
//
// The suite tests the interface contract, not implementation details, so it
// runs unchanged against the memory, badger and s3 stores.
package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymtools/ivrdir/pkg/blob"
)

// StoreTestSuite is a test suite for blob.Store implementations.
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, ensuring isolation.
	NewStore func(t *testing.T) blob.Store
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("LoadMissing", suite.testLoadMissing)
	t.Run("SaveLoad", suite.testSaveLoad)
	t.Run("Overwrite", suite.testOverwrite)
	t.Run("Delete", suite.testDelete)
	t.Run("DeleteMissing", suite.testDeleteMissing)
	t.Run("IndependentKeys", suite.testIndependentKeys)
}

func (suite *StoreTestSuite) testLoadMissing(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	_, err := store.Load(context.Background(), "overlay/deleted")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func (suite *StoreTestSuite) testSaveLoad(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	ctx := context.Background()
	data := []byte(`["1/M0000.wav","3/001.wav"]`)

	require.NoError(t, store.Save(ctx, "overlay/deleted", data))

	loaded, err := store.Load(ctx, "overlay/deleted")
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func (suite *StoreTestSuite) testOverwrite(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "users", []byte("first")))
	require.NoError(t, store.Save(ctx, "users", []byte("second")))

	loaded, err := store.Load(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), loaded)
}

func (suite *StoreTestSuite) testDelete(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "credential", []byte("tok")))
	require.NoError(t, store.Delete(ctx, "credential"))

	_, err := store.Load(ctx, "credential")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func (suite *StoreTestSuite) testDeleteMissing(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	assert.NoError(t, store.Delete(context.Background(), "never-saved"))
}

func (suite *StoreTestSuite) testIndependentKeys(t *testing.T) {
	store := suite.NewStore(t)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "overlay/deleted", []byte("a")))
	require.NoError(t, store.Save(ctx, "overlay/metadata", []byte("b")))
	require.NoError(t, store.Delete(ctx, "overlay/deleted"))

	loaded, err := store.Load(ctx, "overlay/metadata")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), loaded)
}
