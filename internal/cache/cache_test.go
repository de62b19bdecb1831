package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReadThrough(t *testing.T) {
	s := New[uint, string](time.Minute)
	calls := 0
	load := func(k uint) (string, error) {
		calls++
		return "deger", nil
	}

	v, stale, err := s.Get(1, load)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, "deger", v)
	assert.Equal(t, 1, calls)

	// İkinci çağrı önbellekten gelir
	v, stale, err = s.Get(1, load)
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, "deger", v)
	assert.Equal(t, 1, calls)
}

func TestGetStaleFallbackWhenLoaderFails(t *testing.T) {
	s := New[uint, string](time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	_, _, err := s.Get(1, func(uint) (string, error) { return "eski", nil })
	require.NoError(t, err)

	// TTL geçti, loader da hata veriyor
	now = now.Add(2 * time.Minute)
	v, stale, err := s.Get(1, func(uint) (string, error) { return "", errors.New("bağlantı yok") })
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "eski", v)
}

func TestGetErrorWhenNoCachedCopy(t *testing.T) {
	s := New[uint, string](time.Minute)
	_, _, err := s.Get(1, func(uint) (string, error) { return "", errors.New("bağlantı yok") })
	require.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	s := New[uint, string](time.Minute)
	calls := 0
	load := func(uint) (string, error) {
		calls++
		return "v", nil
	}

	_, _, _ = s.Get(1, load)
	s.Invalidate(1)
	_, _, _ = s.Get(1, load)
	assert.Equal(t, 2, calls)
}
