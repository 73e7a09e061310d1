package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
)

func TestStore(t *testing.T) {
	store := NewStore(fixtureLoader(), Options{}, logger.NewNoOpLogger())

	a := store.Create()
	b := store.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, store.Len())
	assert.ElementsMatch(t, []string{a.ID, b.ID}, store.IDs())

	got, err := store.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	store.Delete(a.ID)
	_, err = store.Get(a.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
}
