// internal/domain/cart/repository.go
package cart

import (
	"context"

	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Repository abstracts the user-scoped and guest-scoped backend cart
// endpoints. An implementation is selected once per session descriptor so
// call sites never branch on session kind.
type Repository interface {
	Get(ctx context.Context) (*upstream.CartResponse, error)
	AddItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error)
	RemoveItem(ctx context.Context, productID string) (*upstream.CartResponse, error)
}

// RepositoryFor selects the repository implementation for a session
func RepositoryFor(client *upstream.Client, desc session.Descriptor) Repository {
	if desc.IsUser() {
		return &userRepository{client: client, token: desc.Token}
	}
	return &guestRepository{client: client, sessionID: desc.ID}
}

// userRepository routes to the authenticated cart endpoints
type userRepository struct {
	client *upstream.Client
	token  string
}

func (r *userRepository) Get(ctx context.Context) (*upstream.CartResponse, error) {
	return r.client.UserCart(ctx, r.token)
}

func (r *userRepository) AddItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error) {
	return r.client.AddUserCartItem(ctx, r.token, productID, quantity)
}

func (r *userRepository) UpdateItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error) {
	return r.client.UpdateUserCartItem(ctx, r.token, productID, quantity)
}

func (r *userRepository) RemoveItem(ctx context.Context, productID string) (*upstream.CartResponse, error) {
	return r.client.RemoveUserCartItem(ctx, r.token, productID)
}

// guestRepository routes to the guest-session cart endpoints
type guestRepository struct {
	client    *upstream.Client
	sessionID string
}

func (r *guestRepository) Get(ctx context.Context) (*upstream.CartResponse, error) {
	return r.client.GuestCart(ctx, r.sessionID)
}

func (r *guestRepository) AddItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error) {
	return r.client.AddGuestCartItem(ctx, r.sessionID, productID, quantity)
}

func (r *guestRepository) UpdateItem(ctx context.Context, productID string, quantity int) (*upstream.CartResponse, error) {
	return r.client.UpdateGuestCartItem(ctx, r.sessionID, productID, quantity)
}

func (r *guestRepository) RemoveItem(ctx context.Context, productID string) (*upstream.CartResponse, error) {
	return r.client.RemoveGuestCartItem(ctx, r.sessionID, productID)
}
