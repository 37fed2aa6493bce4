package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringCredentialStore(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringCredentialStore()

	require.NoError(t, store.Set(APITokenKey, "sekrit"))

	value, err := store.Get(APITokenKey)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", value)

	assert.Equal(t, "sekrit", LoadAPIToken())

	require.NoError(t, store.Delete(APITokenKey))

	_, err = store.Get(APITokenKey)
	assert.Error(t, err)

	// A missing token is treated as absence, not an error
	assert.Empty(t, LoadAPIToken())
}

func TestKeyringCredentialStoreRejectsEmptyKey(t *testing.T) {
	keyring.MockInit()

	store := NewKeyringCredentialStore()

	assert.Error(t, store.Set("", "value"))

	_, err := store.Get("")
	assert.Error(t, err)

	assert.Error(t, store.Delete(""))
}
