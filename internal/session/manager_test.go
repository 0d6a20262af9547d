package session_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-search/backend/internal/domain"
	"github.com/pkordes/flight-search/backend/internal/session"
)

func newManager(favs *fakeFavorites) *session.Manager {
	if favs == nil {
		favs = &fakeFavorites{}
	}
	return session.NewManager(&fakeRoutes{}, favs, &fakeQueries{}, discardLogger())
}

func TestManager_CreateGetDelete(t *testing.T) {
	m := newManager(nil)
	defer m.Close()

	id, c, err := m.Create()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Same(t, c, got)

	require.NoError(t, m.Delete(id))
	assert.Zero(t, m.Len())
	_, err = m.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	m := newManager(nil)
	defer m.Close()

	id1, _, err := m.Create()
	require.NoError(t, err)
	id2, _, err := m.Create()
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	c1, err := m.Get(id1)
	require.NoError(t, err)
	c1.OnQueryChange("   ")
	c1.Wait()

	c2, err := m.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, "", c2.State().Query)
}

func TestManager_GetUnknown(t *testing.T) {
	m := newManager(nil)
	defer m.Close()

	_, err := m.Get(uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManager_DeleteUnknown(t *testing.T) {
	m := newManager(nil)
	defer m.Close()

	assert.ErrorIs(t, m.Delete(uuid.New()), domain.ErrNotFound)
}

func TestManager_CreateFailsWhenStartFails(t *testing.T) {
	storeErr := errors.New("connection refused")
	m := newManager(&fakeFavorites{subscribeErr: storeErr})
	defer m.Close()

	_, _, err := m.Create()

	assert.ErrorIs(t, err, storeErr)
	assert.Zero(t, m.Len())
}

func TestManager_Close(t *testing.T) {
	m := newManager(nil)
	_, _, err := m.Create()
	require.NoError(t, err)

	m.Close()

	assert.Zero(t, m.Len())
	_, _, err = m.Create()
	assert.ErrorIs(t, err, session.ErrClosed)
}
