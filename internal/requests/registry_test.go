package requests

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survilav/entity"
	"survilav/internal/storage"
	"survilav/lib/clock"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user_request.json")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(storage.New[entity.Request](path, log), log)
}

func testRequest(nickname, identity string) entity.Request {
	return entity.Request{
		Nickname:       nickname,
		ClientIdentity: identity,
		CreatedAt:      clock.Now(),
	}
}

func TestCreateAndList(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Create(testRequest("alice", "10.0.0.1")))
	require.NoError(t, reg.Create(testRequest("bob", "10.0.0.2")))

	records, err := reg.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Nickname)
	assert.Equal(t, "bob", records[1].Nickname)
}

func TestCreateDuplicateIdentity(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Create(testRequest("alice", "10.0.0.1")))
	err := reg.Create(testRequest("other", "10.0.0.1"))
	require.ErrorIs(t, err, entity.ErrDuplicateIdentity)

	records, err := reg.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestHasIdentity(t *testing.T) {
	reg := newTestRegistry(t)

	assert.False(t, reg.HasIdentity("10.0.0.1"))
	require.NoError(t, reg.Create(testRequest("alice", "10.0.0.1")))
	assert.True(t, reg.HasIdentity("10.0.0.1"))
	assert.False(t, reg.HasIdentity("10.0.0.2"))
}

func TestCancel(t *testing.T) {
	reg := newTestRegistry(t)

	require.NoError(t, reg.Create(testRequest("alice", "10.0.0.1")))
	require.NoError(t, reg.Cancel("alice"))

	records, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCancelUnknownNickname(t *testing.T) {
	reg := newTestRegistry(t)

	assert.ErrorIs(t, reg.Cancel("ghost"), entity.ErrRequestNotFound)
}
