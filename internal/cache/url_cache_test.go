package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrSignCachesUntilMargin(t *testing.T) {
	c := NewURLCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int32
	sign := func(context.Context) (string, error) {
		n := atomic.AddInt32(&calls, 1)
		return "https://signed/" + string(rune('0'+n)), nil
	}

	first, _, err := c.GetOrSign(context.Background(), "k", time.Hour, sign)
	require.NoError(t, err)
	second, _, err := c.GetOrSign(context.Background(), "k", time.Hour, sign)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(time.Hour - defaultRefreshMargin)
	third, _, err := c.GetOrSign(context.Background(), "k", time.Hour, sign)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetOrSignDoesNotCacheFailures(t *testing.T) {
	c := NewURLCache()
	boom := errors.New("boom")

	_, _, err := c.GetOrSign(context.Background(), "k", time.Hour, func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestGetOrSignCoalescesConcurrentMisses(t *testing.T) {
	c := NewURLCache()
	release := make(chan struct{})
	var calls int32

	sign := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "https://signed/k", nil
	}

	const workers = 8
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	results := make([]string, workers)

	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], _, _ = c.GetOrSign(context.Background(), "k", time.Hour, sign)
		}(i)
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(workers))
	for _, r := range results {
		assert.Equal(t, "https://signed/k", r)
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := NewURLCache()
	now := time.Now()
	c.Set("live", "u1", now.Add(time.Hour))
	c.Set("stale", "u2", now.Add(-time.Second))

	c.Clear()
	_, found := c.Get("stale")
	assert.False(t, found)

	c.Delete("live")
	_, found = c.Get("live")
	assert.False(t, found)
}

func TestGetOrSignReportsLinkExpiryOnHit(t *testing.T) {
	c := NewURLCache()
	signedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := signedAt
	c.now = func() time.Time { return now }

	sign := func(context.Context) (string, error) { return "https://signed/k", nil }

	_, expiry, err := c.GetOrSign(context.Background(), "k", time.Hour, sign)
	require.NoError(t, err)
	assert.Equal(t, signedAt.Add(time.Hour), expiry)

	now = signedAt.Add(58 * time.Minute)
	url, expiry, err := c.GetOrSign(context.Background(), "k", time.Hour, sign)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/k", url)
	assert.Equal(t, signedAt.Add(time.Hour), expiry)
	assert.Equal(t, 2*time.Minute, expiry.Sub(now))
}

func TestGetOrSignShortTTLIsNotCached(t *testing.T) {
	c := NewURLCache()
	var calls int32
	sign := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "https://signed/k", nil
	}

	for i := 0; i < 2; i++ {
		_, _, err := c.GetOrSign(context.Background(), "k", 30*time.Second, sign)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
