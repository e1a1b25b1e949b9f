package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLauncher stands in for the real browser launch so pool lifecycle can
// be exercised without Chrome
type stubLauncher struct {
	mu       sync.Mutex
	launches int
	closes   int
	err      error
}

func (s *stubLauncher) launch() (context.Context, []context.CancelFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, nil, s.err
	}
	s.launches++
	ctx, cancel := context.WithCancel(context.Background())
	closer := func() {
		s.mu.Lock()
		s.closes++
		s.mu.Unlock()
		cancel()
	}
	return ctx, []context.CancelFunc{closer}, nil
}

func (s *stubLauncher) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.launches, s.closes
}

func newTestPool(launcher *stubLauncher, now *time.Time) *BrowserPool {
	pool := NewBrowserPool(0)
	pool.launch = launcher.launch
	pool.now = func() time.Time { return *now }
	return pool
}

func TestPoolLaunchesLazilyAndReusesInstance(t *testing.T) {
	launcher := &stubLauncher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	launches, _ := launcher.counts()
	assert.Equal(t, 0, launches, "no launch before first use")

	_, cancel1, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel1()

	// second call within the staleness window reuses the instance
	now = now.Add(30 * time.Minute)
	_, cancel2, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel2()

	launches, closes := launcher.counts()
	assert.Equal(t, 1, launches)
	assert.Equal(t, 0, closes)
}

func TestPoolRelaunchesStaleInstance(t *testing.T) {
	launcher := &stubLauncher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	_, cancel, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel()

	// past the staleness threshold: exactly one close-and-relaunch
	now = now.Add(engineMaxAge + time.Minute)
	_, cancel2, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel2()

	launches, closes := launcher.counts()
	assert.Equal(t, 2, launches)
	assert.Equal(t, 1, closes)
}

func TestPoolExactlyAtThresholdIsNotStale(t *testing.T) {
	launcher := &stubLauncher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	_, cancel, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel()

	now = now.Add(engineMaxAge)
	_, cancel2, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel2()

	launches, _ := launcher.counts()
	assert.Equal(t, 1, launches)
}

func TestPoolConcurrentFirstUseLaunchesOnce(t *testing.T) {
	launcher := &stubLauncher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, cancel, err := pool.Page(context.Background())
			if assert.NoError(t, err) {
				cancel()
			}
		}()
	}
	wg.Wait()

	launches, _ := launcher.counts()
	assert.Equal(t, 1, launches, "concurrent first requests must not race two browsers into existence")
}

func TestPoolPropagatesLaunchFailure(t *testing.T) {
	launcher := &stubLauncher{err: fmt.Errorf("no chrome binary")}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	_, _, err := pool.Page(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chrome binary")
}

func TestPoolClose(t *testing.T) {
	launcher := &stubLauncher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pool := newTestPool(launcher, &now)

	_, cancel, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel()

	pool.Close()
	_, closes := launcher.counts()
	assert.Equal(t, 1, closes)

	// pool relaunches after an explicit close
	_, cancel2, err := pool.Page(context.Background())
	require.NoError(t, err)
	cancel2()
	launches, _ := launcher.counts()
	assert.Equal(t, 2, launches)
}
