// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the TTL cache

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGet(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("q:hello", []byte(`{"results":[]}`), time.Minute))
	got, err := s.Get("q:hello")
	require.NoError(t, err)
	assert.Equal(t, `{"results":[]}`, string(got))
}

func TestStore_MissingKey(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_TTLExpiry(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("short", []byte("v"), time.Second))
	_, err := s.Get("short")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = s.Get("short")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_NoTTL(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("forever", []byte("v"), 0))
	got, err := s.Get("forever")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestStore_Overwrite(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set("k", []byte("one"), time.Minute))
	require.NoError(t, s.Set("k", []byte("two"), time.Minute))
	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}
