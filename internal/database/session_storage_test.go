package database

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestSessionStorageRoundTrip(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	storage := NewSessionStorage(client)

	value, err := storage.Get("missing")
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, storage.Set("abc", []byte("payload"), time.Minute))
	value, err = storage.Get("abc")
	require.NoError(t, err)
	require.Equal(t, "payload", string(value))
	require.True(t, server.Exists("session:abc"))

	server.FastForward(2 * time.Minute)
	value, err = storage.Get("abc")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestSessionStorageDeleteAndReset(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	storage := NewSessionStorage(client)
	require.NoError(t, storage.Set("a", []byte("1"), 0))
	require.NoError(t, storage.Set("b", []byte("2"), 0))
	require.NoError(t, server.Set("public:v1:home", "keep"))

	require.NoError(t, storage.Delete("a"))
	require.False(t, server.Exists("session:a"))

	require.NoError(t, storage.Reset())
	require.False(t, server.Exists("session:b"))
	require.True(t, server.Exists("public:v1:home"))
	require.NoError(t, storage.Close())
}

func TestNewSessionStorageWithoutClient(t *testing.T) {
	require.Nil(t, NewSessionStorage(nil))
}
