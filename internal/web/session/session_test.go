package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

func TestWriteReadDelete(t *testing.T) {
	InitMemory(time.Hour)

	id, err := GenerateSessionID()
	require.NoError(t, err)
	assert.Len(t, id, 64)

	data := &Data{User: models.User{ID: 7, Username: "alice", Password: "hash"}}
	require.NoError(t, data.Write(id, time.Hour))

	got := new(Data)
	require.NoError(t, got.Read(id))
	assert.Equal(t, uint64(7), got.User.ID)
	assert.Equal(t, "alice", got.User.Username)
	assert.Empty(t, got.User.Password, "password hash is not serialised")

	require.NoError(t, Delete(id))
	require.ErrorIs(t, new(Data).Read(id), ErrNoSession)
}

func TestReadUnknown(t *testing.T) {
	InitMemory(time.Hour)

	require.ErrorIs(t, new(Data).Read("does-not-exist"), ErrNoSession)
}

func TestInitNilStorage(t *testing.T) {
	assert.Panics(t, func() { Init(nil, time.Hour) })
}
