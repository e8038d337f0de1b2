// internal/domain/session/service.go
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Service resolves and maintains the per-device session descriptor
type Service struct {
	store  Store
	client *upstream.Client
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new session service
func NewService(store Store, client *upstream.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Resolve determines the active session for a device. Authenticated state is
// honored only when the stored token is unexpired and the backend verifies
// it; every failure mode degrades to a guest descriptor, never to an error
// surfaced to the caller.
func (s *Service) Resolve(ctx context.Context, deviceID string) Descriptor {
	record, err := s.store.Get(ctx, deviceID)
	if err == ErrNotFound {
		record = &Record{DeviceID: deviceID}
	} else if err != nil {
		s.logger.WithError(err).WithField("device_id", deviceID).
			Warn("Session store unavailable, using fallback guest identity")
		return Descriptor{Kind: KindGuest, ID: s.fallbackGuestToken(deviceID)}
	}

	now := time.Now().UTC()

	if record.HasValidToken(now) {
		if err := s.client.VerifyToken(ctx, record.AuthToken); err == nil {
			return Descriptor{Kind: KindUser, ID: record.UserID, Token: record.AuthToken}
		}
		// Verification failure or network error both demote to guest.
		s.logger.WithField("device_id", deviceID).Info("Session token rejected, demoting to guest")
		record.ClearAuth()
		if err := s.store.Save(ctx, record); err != nil {
			s.logger.WithError(err).Warn("Failed to persist cleared auth state")
		}
	} else if record.AuthToken != "" {
		// Expired token: clear all persisted auth state before guest resolution.
		record.ClearAuth()
		if err := s.store.Save(ctx, record); err != nil {
			s.logger.WithError(err).Warn("Failed to persist cleared auth state")
		}
	}

	return s.resolveGuest(ctx, record)
}

// resolveGuest yields a guest descriptor, reusing the persisted guest token
// when present
func (s *Service) resolveGuest(ctx context.Context, record *Record) Descriptor {
	if record.GuestToken != "" {
		return Descriptor{Kind: KindGuest, ID: record.GuestToken}
	}

	token, err := s.client.CreateGuestSession(ctx)
	if err != nil {
		// Degraded fallback: deterministic, not an identity guarantee.
		token = s.fallbackGuestToken(record.DeviceID)
		s.logger.WithError(err).WithField("device_id", record.DeviceID).
			Warn("Guest session creation failed, using fallback token")
	}

	record.GuestToken = token
	if err := s.store.Save(ctx, record); err != nil {
		s.logger.WithError(err).Warn("Failed to persist guest token")
	}

	return Descriptor{Kind: KindGuest, ID: token}
}

// Login authenticates against the backend and switches the device to a user
// descriptor. The previous guest token is discarded.
func (s *Service) Login(ctx context.Context, deviceID, email, password string) (Descriptor, *upstream.User, error) {
	auth, err := s.client.Login(ctx, email, password)
	if err != nil {
		return Descriptor{}, nil, err
	}
	return s.adoptAuth(ctx, deviceID, auth)
}

// Register creates an account and switches the device to a user descriptor
func (s *Service) Register(ctx context.Context, deviceID string, req *upstream.RegisterRequest) (Descriptor, *upstream.User, error) {
	auth, err := s.client.Register(ctx, req)
	if err != nil {
		return Descriptor{}, nil, err
	}
	return s.adoptAuth(ctx, deviceID, auth)
}

// Logout clears all persisted auth and guest state for the device and
// resolves a fresh guest descriptor
func (s *Service) Logout(ctx context.Context, deviceID string) (Descriptor, error) {
	if err := s.store.Delete(ctx, deviceID); err != nil {
		return Descriptor{}, fmt.Errorf("failed to clear session state: %w", err)
	}
	return s.Resolve(ctx, deviceID), nil
}

// Profile returns the stored user profile for an authenticated device
func (s *Service) Profile(ctx context.Context, deviceID string) (*upstream.User, error) {
	record, err := s.store.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if record.ProfileJSON == "" {
		return nil, ErrNotFound
	}

	var user upstream.User
	if err := json.Unmarshal([]byte(record.ProfileJSON), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	return &user, nil
}

// adoptAuth persists a fresh authenticated session for the device
func (s *Service) adoptAuth(ctx context.Context, deviceID string, auth *upstream.AuthResponse) (Descriptor, *upstream.User, error) {
	now := time.Now().UTC()
	expiry := now.Add(s.config.Session.UserTokenTTL)

	// The backend token may expire sooner than our fixed TTL; honor the
	// earlier of the two when the token carries an exp claim.
	if claimed, ok := tokenExpiry(auth.Token); ok && claimed.Before(expiry) {
		expiry = claimed
	}

	profile, err := json.Marshal(auth.User)
	if err != nil {
		return Descriptor{}, nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	record := &Record{
		DeviceID:    deviceID,
		AuthToken:   auth.Token,
		TokenExpiry: &expiry,
		UserID:      auth.User.ID,
		ProfileJSON: string(profile),
		GuestToken:  "", // guest identity is discarded on login
	}

	if err := s.store.Save(ctx, record); err != nil {
		return Descriptor{}, nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return Descriptor{Kind: KindUser, ID: auth.User.ID, Token: auth.Token}, &auth.User, nil
}

// fallbackGuestToken derives a deterministic guest token from device signals.
// Not cryptographically meaningful; only keeps the storefront usable while
// the backend is unreachable.
func (s *Service) fallbackGuestToken(deviceID string) string {
	sum := sha256.Sum256([]byte(s.config.App.Name + ":" + deviceID))
	return "guest-" + hex.EncodeToString(sum[:])[:32]
}

// tokenExpiry extracts the exp claim from a backend token without verifying
// the signature. The backend owns the signing key; we only read the claim.
func tokenExpiry(tokenString string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
