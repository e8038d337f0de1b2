package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// memStore is an in-memory Store for tests
type memStore struct {
	mu      sync.Mutex
	records map[string]*Record
	failing bool
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*Record)}
}

func (s *memStore) Get(ctx context.Context, deviceID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, fmt.Errorf("store down")
	}
	record, ok := s.records[deviceID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (s *memStore) Save(ctx context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return fmt.Errorf("store down")
	}
	copied := *record
	s.records[record.DeviceID] = &copied
	return nil
}

func (s *memStore) Delete(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, deviceID)
	return nil
}

func (s *memStore) record(deviceID string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[deviceID]
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Storefront Gateway"},
		Session: config.SessionConfig{
			UserTokenTTL: 15 * 24 * time.Hour,
		},
	}
}

func newTestService(t *testing.T, store Store, handler http.HandlerFunc) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	baseURL := "http://127.0.0.1:0"
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		baseURL = server.URL
	}

	return NewService(store, upstream.NewClientWithBaseURL(baseURL, logger), testConfig(), logger)
}

func TestResolveNewDeviceBecomesGuest(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sessions/guest", r.URL.Path)
		w.Write([]byte(`{"sessionId":"guest-xyz"}`))
	})

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Equal(t, "guest-xyz", descriptor.ID)
	assert.False(t, descriptor.IsUser())

	record := store.record("device-1")
	require.NotNil(t, record)
	assert.Equal(t, "guest-xyz", record.GuestToken)
}

func TestResolveReusesPersistedGuestToken(t *testing.T) {
	var calls int
	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"sessionId":"guest-xyz"}`))
	})

	first := service.Resolve(context.Background(), "device-1")
	second := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, calls)
}

func TestResolveFallsBackWhenBackendUnreachable(t *testing.T) {
	service := newTestService(t, newMemStore(), nil)

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Contains(t, descriptor.ID, "guest-")
}

func TestFallbackGuestTokenDeterministic(t *testing.T) {
	// Two independent stores, same device: the derived token must match.
	serviceA := newTestService(t, newMemStore(), nil)
	serviceB := newTestService(t, newMemStore(), nil)

	a := serviceA.Resolve(context.Background(), "device-1")
	b := serviceB.Resolve(context.Background(), "device-1")
	other := serviceB.Resolve(context.Background(), "device-2")

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, other.ID)
}

func TestResolveStoreFailureYieldsFallbackGuest(t *testing.T) {
	store := newMemStore()
	store.failing = true
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be reached when the store is down")
	})

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Contains(t, descriptor.ID, "guest-")
}

func TestResolveVerifiedTokenYieldsUser(t *testing.T) {
	store := newMemStore()
	expiry := time.Now().UTC().Add(time.Hour)
	store.records["device-1"] = &Record{
		DeviceID:    "device-1",
		AuthToken:   "valid-token",
		TokenExpiry: &expiry,
		UserID:      "u1",
	}

	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify", r.URL.Path)
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindUser, descriptor.Kind)
	assert.Equal(t, "u1", descriptor.ID)
	assert.Equal(t, "valid-token", descriptor.Token)
}

func TestResolveDemotesWhenVerificationFails(t *testing.T) {
	store := newMemStore()
	expiry := time.Now().UTC().Add(time.Hour)
	store.records["device-1"] = &Record{
		DeviceID:    "device-1",
		AuthToken:   "rejected-token",
		TokenExpiry: &expiry,
		UserID:      "u1",
	}

	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/verify" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"sessionId":"guest-after-demotion"}`))
	})

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Equal(t, "guest-after-demotion", descriptor.ID)

	record := store.record("device-1")
	require.NotNil(t, record)
	assert.Empty(t, record.AuthToken)
	assert.Empty(t, record.UserID)
	assert.Empty(t, record.ProfileJSON)
}

func TestResolveExpiredTokenSkipsVerification(t *testing.T) {
	store := newMemStore()
	expiry := time.Now().UTC().Add(-time.Hour)
	store.records["device-1"] = &Record{
		DeviceID:    "device-1",
		AuthToken:   "expired-token",
		TokenExpiry: &expiry,
		UserID:      "u1",
	}

	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		require.NotEqual(t, "/auth/verify", r.URL.Path, "expired tokens must not reach the backend")
		w.Write([]byte(`{"sessionId":"guest-fresh"}`))
	})

	descriptor := service.Resolve(context.Background(), "device-1")

	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Empty(t, store.record("device-1").AuthToken)
}

func TestLoginDiscardsGuestToken(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions/guest":
			w.Write([]byte(`{"sessionId":"guest-before-login"}`))
		case "/auth/login":
			w.Write([]byte(`{"token":"user-token","user":{"id":"u1","email":"a@b.c"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	guest := service.Resolve(context.Background(), "device-1")
	require.Equal(t, KindGuest, guest.Kind)

	descriptor, user, err := service.Login(context.Background(), "device-1", "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, KindUser, descriptor.Kind)
	assert.Equal(t, "u1", descriptor.ID)
	assert.Equal(t, "a@b.c", user.Email)

	record := store.record("device-1")
	require.NotNil(t, record)
	assert.Empty(t, record.GuestToken, "guest identity must not survive login")
	assert.Equal(t, "user-token", record.AuthToken)
}

func TestLoginHonorsEarlierExpClaim(t *testing.T) {
	claimed := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(claimed),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"token":%q,"user":{"id":"u1"}}`, token)
	})

	_, _, err = service.Login(context.Background(), "device-1", "a@b.c", "pw")
	require.NoError(t, err)

	record := store.record("device-1")
	require.NotNil(t, record.TokenExpiry)
	assert.WithinDuration(t, claimed, *record.TokenExpiry, time.Second)
}

func TestLoginFailurePropagates(t *testing.T) {
	service := newTestService(t, newMemStore(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, _, err := service.Login(context.Background(), "device-1", "a@b.c", "wrong")
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)
}

func TestLogoutClearsEverything(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"token":"user-token","user":{"id":"u1"}}`))
		case "/sessions/guest":
			w.Write([]byte(`{"sessionId":"guest-after-logout"}`))
		}
	})

	_, _, err := service.Login(context.Background(), "device-1", "a@b.c", "pw")
	require.NoError(t, err)

	descriptor, err := service.Logout(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, KindGuest, descriptor.Kind)
	assert.Equal(t, "guest-after-logout", descriptor.ID)

	record := store.record("device-1")
	require.NotNil(t, record)
	assert.Empty(t, record.AuthToken)
}

func TestProfileRoundTrip(t *testing.T) {
	store := newMemStore()
	service := newTestService(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"user-token","user":{"id":"u1","email":"a@b.c","first_name":"Ada"}}`))
	})

	_, _, err := service.Login(context.Background(), "device-1", "a@b.c", "pw")
	require.NoError(t, err)

	profile, err := service.Profile(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "a@b.c", profile.Email)
}
