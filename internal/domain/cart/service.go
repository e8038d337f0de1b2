// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Service handles cart operations against the commerce backend. The local
// mirror follows a confirm-then-update policy: it is only refreshed from the
// backend after a confirmed mutation, never mutated optimistically.
type Service struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(client *upstream.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Get retrieves the cart for a session. The returned cart is always
// well-formed; any failure yields an empty cart alongside the error.
func (s *Service) Get(ctx context.Context, desc session.Descriptor) (*Cart, error) {
	repo := RepositoryFor(s.client, desc)

	resp, err := repo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("session_kind", desc.Kind).Warn("Cart fetch failed")
		return Empty(), err
	}
	if !resp.Success {
		return Empty(), fmt.Errorf("cart fetch unsuccessful: %s", resp.Message)
	}

	return fromResponse(resp), nil
}

// AddItem adds quantity of a product to the cart. The backend accumulates
// quantity on repeated adds. On success the mirror is refreshed from the
// backend; on failure the cart is re-fetched to resynchronize rather than
// guessing the corrected state.
func (s *Service) AddItem(ctx context.Context, desc session.Descriptor, productID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return Empty(), fmt.Errorf("quantity must be at least 1")
	}

	repo := RepositoryFor(s.client, desc)

	if _, err := repo.AddItem(ctx, productID, quantity); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Add to cart failed")
		return s.resync(ctx, repo), err
	}

	return s.refresh(ctx, repo), nil
}

// UpdateQuantity sets the quantity of a cart line. Quantity validation is
// the caller's responsibility; an invalid value surfaces from the backend
// and the cart is re-fetched to resynchronize.
func (s *Service) UpdateQuantity(ctx context.Context, desc session.Descriptor, productID string, quantity int) (*Cart, error) {
	repo := RepositoryFor(s.client, desc)

	if _, err := repo.UpdateItem(ctx, productID, quantity); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"product_id": productID,
			"quantity":   quantity,
		}).Warn("Cart quantity update failed")
		return s.resync(ctx, repo), err
	}

	return s.refresh(ctx, repo), nil
}

// RemoveItem removes a cart line. Removing an absent item is not an error.
func (s *Service) RemoveItem(ctx context.Context, desc session.Descriptor, productID string) (*Cart, error) {
	repo := RepositoryFor(s.client, desc)

	if _, err := repo.RemoveItem(ctx, productID); err != nil && !isNotFound(err) {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Remove from cart failed")
		return s.resync(ctx, repo), err
	}

	return s.refresh(ctx, repo), nil
}

// Count returns the total quantity across all cart lines
func (s *Service) Count(ctx context.Context, desc session.Descriptor) int {
	cart, err := s.Get(ctx, desc)
	if err != nil {
		return 0
	}
	return cart.Totals.TotalQuantity
}

// refresh re-fetches the cart after a confirmed mutation. The backend is the
// source of truth; a failed refresh degrades to an empty mirror.
func (s *Service) refresh(ctx context.Context, repo Repository) *Cart {
	resp, err := repo.Get(ctx)
	if err != nil || !resp.Success {
		return Empty()
	}
	return fromResponse(resp)
}

// resync re-fetches after a failed mutation so the caller renders backend
// state instead of an optimistic guess
func (s *Service) resync(ctx context.Context, repo Repository) *Cart {
	return s.refresh(ctx, repo)
}

// isNotFound reports whether the backend said the item does not exist
func isNotFound(err error) bool {
	var statusErr *upstream.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
