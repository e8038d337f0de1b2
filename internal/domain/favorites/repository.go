// internal/domain/favorites/repository.go
package favorites

import (
	"context"

	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Repository abstracts the user-scoped and guest-scoped backend favorites
// endpoints, selected once per session descriptor
type Repository interface {
	Get(ctx context.Context) (*upstream.FavoritesResponse, error)
	Add(ctx context.Context, productID string) (*upstream.FavoritesResponse, error)
	Remove(ctx context.Context, productID string) (*upstream.FavoritesResponse, error)
	Check(ctx context.Context, productID string) (bool, error)
}

// RepositoryFor selects the repository implementation for a session
func RepositoryFor(client *upstream.Client, desc session.Descriptor) Repository {
	if desc.IsUser() {
		return &userRepository{client: client, token: desc.Token}
	}
	return &guestRepository{client: client, sessionID: desc.ID}
}

type userRepository struct {
	client *upstream.Client
	token  string
}

func (r *userRepository) Get(ctx context.Context) (*upstream.FavoritesResponse, error) {
	return r.client.UserFavorites(ctx, r.token)
}

func (r *userRepository) Add(ctx context.Context, productID string) (*upstream.FavoritesResponse, error) {
	return r.client.AddUserFavorite(ctx, r.token, productID)
}

func (r *userRepository) Remove(ctx context.Context, productID string) (*upstream.FavoritesResponse, error) {
	return r.client.RemoveUserFavorite(ctx, r.token, productID)
}

func (r *userRepository) Check(ctx context.Context, productID string) (bool, error) {
	return r.client.CheckUserFavorite(ctx, r.token, productID)
}

type guestRepository struct {
	client    *upstream.Client
	sessionID string
}

func (r *guestRepository) Get(ctx context.Context) (*upstream.FavoritesResponse, error) {
	return r.client.GuestFavorites(ctx, r.sessionID)
}

func (r *guestRepository) Add(ctx context.Context, productID string) (*upstream.FavoritesResponse, error) {
	return r.client.AddGuestFavorite(ctx, r.sessionID, productID)
}

func (r *guestRepository) Remove(ctx context.Context, productID string) (*upstream.FavoritesResponse, error) {
	return r.client.RemoveGuestFavorite(ctx, r.sessionID, productID)
}

func (r *guestRepository) Check(ctx context.Context, productID string) (bool, error) {
	return r.client.CheckGuestFavorite(ctx, r.sessionID, productID)
}
