package counts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/favorites"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

type testEnv struct {
	service     *Service
	bus         *events.Bus
	redis       *miniredis.Miniredis
	backendHits *int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var hits int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if strings.HasSuffix(r.URL.Path, "/favorites") {
			w.Write([]byte(`{"success":true,"favorites":[{"productId":"p1"},{"productId":"p2"}]}`))
			return
		}
		w.Write([]byte(`{"success":true,"cart":[{"productId":"p1","quantity":3,"price":10}]}`))
	}))
	t.Cleanup(backend.Close)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := upstream.NewClientWithBaseURL(backend.URL, logger)
	cartService := cart.NewService(client, logger)
	favoritesService := favorites.NewService(client, logger)

	cfg := &config.Config{
		Counts: config.CountsConfig{
			RefreshInterval: 30 * time.Second,
			CacheTTL:        5 * time.Minute,
		},
	}

	bus := events.NewBus()
	service := NewService(cartService, favoritesService, redisClient, bus, cfg, logger)

	return &testEnv{service: service, bus: bus, redis: mr, backendHits: &hits}
}

func guestDescriptor() session.Descriptor {
	return session.Descriptor{Kind: session.KindGuest, ID: "g1"}
}

func TestGetComputesSnapshot(t *testing.T) {
	env := newTestEnv(t)

	snapshot := env.service.Get(context.Background(), guestDescriptor(), "device-1")

	assert.Equal(t, "device-1", snapshot.DeviceID)
	assert.Equal(t, 3, snapshot.CartCount)
	assert.Equal(t, 2, snapshot.FavoritesCount)
	assert.False(t, snapshot.RefreshedAt.IsZero())
}

func TestGetServesCachedSnapshotWithinInterval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.service.Get(ctx, guestDescriptor(), "device-1")
	hitsAfterFirst := atomic.LoadInt64(env.backendHits)

	snapshot := env.service.Get(ctx, guestDescriptor(), "device-1")

	assert.Equal(t, 3, snapshot.CartCount)
	assert.Equal(t, hitsAfterFirst, atomic.LoadInt64(env.backendHits),
		"a cached snapshot younger than the refresh interval must not hit the backend")
}

func TestGetRecomputesAfterCacheExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.service.Get(ctx, guestDescriptor(), "device-1")
	hitsAfterFirst := atomic.LoadInt64(env.backendHits)

	// Expire the cached snapshot.
	env.redis.FastForward(6 * time.Minute)

	env.service.Get(ctx, guestDescriptor(), "device-1")
	assert.Greater(t, atomic.LoadInt64(env.backendHits), hitsAfterFirst)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.service.Get(ctx, guestDescriptor(), "device-1")
	hitsAfterFirst := atomic.LoadInt64(env.backendHits)

	env.service.Invalidate(ctx, "device-1")

	env.service.Get(ctx, guestDescriptor(), "device-1")
	assert.Greater(t, atomic.LoadInt64(env.backendHits), hitsAfterFirst)
}

func TestStartInvalidatesOnCartEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stop := env.service.Start()
	defer stop()

	env.service.Get(ctx, guestDescriptor(), "device-1")
	require.True(t, env.redis.Exists("counts:device:device-1"))

	env.bus.Publish(events.TopicCartChanged, "device-1")

	require.Eventually(t, func() bool {
		return !env.redis.Exists("counts:device:device-1")
	}, 2*time.Second, 10*time.Millisecond, "cart mutation must invalidate the cached snapshot")
}

func TestStartInvalidatesOnSessionEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stop := env.service.Start()
	defer stop()

	env.service.Get(ctx, guestDescriptor(), "device-1")
	require.True(t, env.redis.Exists("counts:device:device-1"))

	env.bus.Publish(events.TopicSessionChanged, "device-1")

	require.Eventually(t, func() bool {
		return !env.redis.Exists("counts:device:device-1")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	env := newTestEnv(t)

	ch, teardown := env.bus.Subscribe(events.TopicCountsRefreshed)
	defer teardown()

	env.service.Refresh(context.Background(), guestDescriptor(), "device-1")

	select {
	case evt := <-ch:
		snapshot, ok := evt.Payload.(*Snapshot)
		require.True(t, ok)
		assert.Equal(t, "device-1", snapshot.DeviceID)
		assert.Equal(t, 3, snapshot.CartCount)
	case <-time.After(time.Second):
		t.Fatal("refresh did not publish a snapshot")
	}
}
