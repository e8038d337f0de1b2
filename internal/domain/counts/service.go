// internal/domain/counts/service.go
package counts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/domain/cart"
	"github.com/your-org/storefront-gateway/internal/domain/favorites"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/pkg/events"
)

// Snapshot is a point-in-time cart/favorites badge count for a device
type Snapshot struct {
	DeviceID       string    `json:"device_id"`
	CartCount      int       `json:"cart_count"`
	FavoritesCount int       `json:"favorites_count"`
	RefreshedAt    time.Time `json:"refreshed_at"`
}

// Service maintains badge count snapshots. Counts are recomputed at most
// once per configured refresh interval and cached in Redis; confirmed
// cart/favorites mutations invalidate the cache through the event bus.
type Service struct {
	cartService      *cart.Service
	favoritesService *favorites.Service
	redisClient      *redis.Client
	bus              *events.Bus
	config           *config.Config
	logger           *logrus.Logger
}

// NewService creates a new counts service
func NewService(cartService *cart.Service, favoritesService *favorites.Service,
	redisClient *redis.Client, bus *events.Bus, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		cartService:      cartService,
		favoritesService: favoritesService,
		redisClient:      redisClient,
		bus:              bus,
		config:           cfg,
		logger:           logger,
	}
}

// Start subscribes to mutation events so snapshots are invalidated as soon
// as a cart or favorites write is confirmed. The returned function tears the
// subscriptions down.
func (s *Service) Start() func() {
	cartCh, cartStop := s.bus.Subscribe(events.TopicCartChanged)
	favCh, favStop := s.bus.Subscribe(events.TopicFavoritesChanged)
	sessCh, sessStop := s.bus.Subscribe(events.TopicSessionChanged)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case evt, ok := <-cartCh:
				if !ok {
					return
				}
				s.invalidate(evt)
			case evt, ok := <-favCh:
				if !ok {
					return
				}
				s.invalidate(evt)
			case evt, ok := <-sessCh:
				if !ok {
					return
				}
				s.invalidate(evt)
			case <-done:
				return
			}
		}
	}()

	return func() {
		cartStop()
		favStop()
		sessStop()
		close(done)
	}
}

// Get returns the badge counts for a device, serving the cached snapshot
// while it is younger than the refresh interval
func (s *Service) Get(ctx context.Context, desc session.Descriptor, deviceID string) *Snapshot {
	if snapshot, ok := s.cached(ctx, deviceID); ok {
		if time.Since(snapshot.RefreshedAt) < s.config.Counts.RefreshInterval {
			return snapshot
		}
	}
	return s.Refresh(ctx, desc, deviceID)
}

// Refresh recomputes the counts from the backend, caches the snapshot, and
// publishes it on the bus
func (s *Service) Refresh(ctx context.Context, desc session.Descriptor, deviceID string) *Snapshot {
	snapshot := &Snapshot{
		DeviceID:       deviceID,
		CartCount:      s.cartService.Count(ctx, desc),
		FavoritesCount: s.favoritesService.Count(ctx, desc),
		RefreshedAt:    time.Now().UTC(),
	}

	s.cache(ctx, snapshot)
	s.bus.Publish(events.TopicCountsRefreshed, snapshot)

	return snapshot
}

// Invalidate drops the cached snapshot for a device
func (s *Service) Invalidate(ctx context.Context, deviceID string) {
	if err := s.redisClient.Del(ctx, cacheKey(deviceID)).Err(); err != nil {
		s.logger.WithError(err).WithField("device_id", deviceID).Warn("Count cache invalidation failed")
	}
}

func (s *Service) invalidate(evt events.Event) {
	deviceID, ok := evt.Payload.(string)
	if !ok || deviceID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	s.Invalidate(ctx, deviceID)
}

func (s *Service) cached(ctx context.Context, deviceID string) (*Snapshot, bool) {
	data, err := s.redisClient.Get(ctx, cacheKey(deviceID)).Result()
	if err != nil {
		return nil, false
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, false
	}
	return &snapshot, true
}

func (s *Service) cache(ctx context.Context, snapshot *Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, cacheKey(snapshot.DeviceID), data, s.config.Counts.CacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Count cache write failed")
	}
}

func cacheKey(deviceID string) string {
	return "counts:device:" + deviceID
}
