// internal/domain/favorites/service.go
package favorites

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/domain/session"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Favorites is the transient local mirror of the backend favorites set.
// Set semantics: a product id appears at most once.
type Favorites struct {
	ProductIDs []string `json:"product_ids"`
	Count      int      `json:"count"`
}

// Empty returns a well-formed empty favorites set
func Empty() *Favorites {
	return &Favorites{ProductIDs: []string{}}
}

// Contains reports membership of a product id
func (f *Favorites) Contains(productID string) bool {
	for _, id := range f.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Membership is the result of a favorite-status check. When the check was
// made without a product id, ProductIDs carries the full favorites set for
// membership testing and Favorite is unset.
type Membership struct {
	Checked    bool     `json:"checked"`
	Favorite   bool     `json:"is_favorite"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// Service handles favorites operations against the commerce backend
type Service struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewService creates a new favorites service
func NewService(client *upstream.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// Get retrieves the favorites set for a session. The result is always
// well-formed; any failure yields an empty set alongside the error.
func (s *Service) Get(ctx context.Context, desc session.Descriptor) (*Favorites, error) {
	repo := RepositoryFor(s.client, desc)
	return s.fetch(ctx, repo)
}

// Add adds a product to the favorites set. Adding an already-favorited
// product is a no-op success; the set never holds duplicates.
func (s *Service) Add(ctx context.Context, desc session.Descriptor, productID string) (*Favorites, error) {
	repo := RepositoryFor(s.client, desc)

	current, err := s.fetch(ctx, repo)
	if err == nil && current.Contains(productID) {
		return current, nil
	}

	if _, err := repo.Add(ctx, productID); err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Add to favorites failed")
		return s.resync(ctx, repo), err
	}

	return s.resync(ctx, repo), nil
}

// Remove removes a product from the favorites set. Removing an absent
// product is not an error.
func (s *Service) Remove(ctx context.Context, desc session.Descriptor, productID string) (*Favorites, error) {
	repo := RepositoryFor(s.client, desc)

	if _, err := repo.Remove(ctx, productID); err != nil && !isNotFound(err) {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Remove from favorites failed")
		return s.resync(ctx, repo), err
	}

	return s.resync(ctx, repo), nil
}

// IsInFavorites checks favorite status. With a product id it routes to the
// per-item check endpoint. With an empty product id the caller's intent is
// "fetch the whole set for membership testing", so it routes to the full
// favorites listing instead of a per-item check.
func (s *Service) IsInFavorites(ctx context.Context, desc session.Descriptor, productID string) (*Membership, error) {
	repo := RepositoryFor(s.client, desc)

	if productID == "" {
		favorites, err := s.fetch(ctx, repo)
		if err != nil {
			return &Membership{ProductIDs: []string{}}, err
		}
		return &Membership{ProductIDs: favorites.ProductIDs}, nil
	}

	isFavorite, err := repo.Check(ctx, productID)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", productID).Warn("Favorite check failed")
		return &Membership{Checked: true}, err
	}

	return &Membership{Checked: true, Favorite: isFavorite}, nil
}

// Count returns the size of the favorites set
func (s *Service) Count(ctx context.Context, desc session.Descriptor) int {
	favorites, err := s.Get(ctx, desc)
	if err != nil {
		return 0
	}
	return favorites.Count
}

func (s *Service) fetch(ctx context.Context, repo Repository) (*Favorites, error) {
	resp, err := repo.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Favorites fetch failed")
		return Empty(), err
	}
	if !resp.Success {
		return Empty(), fmt.Errorf("favorites fetch unsuccessful: %s", resp.Message)
	}

	return fromResponse(resp), nil
}

// resync re-fetches the set after a mutation; the backend is the source of
// truth and a failed refresh degrades to an empty mirror
func (s *Service) resync(ctx context.Context, repo Repository) *Favorites {
	favorites, err := s.fetch(ctx, repo)
	if err != nil {
		return Empty()
	}
	return favorites
}

// fromResponse converts a backend favorites envelope into the local mirror.
// Duplicate entries collapse to preserve set semantics.
func fromResponse(resp *upstream.FavoritesResponse) *Favorites {
	f := &Favorites{ProductIDs: make([]string, 0, len(resp.Favorites))}
	seen := make(map[string]bool, len(resp.Favorites))
	for _, entry := range resp.Favorites {
		if entry.ProductID == "" || seen[entry.ProductID] {
			continue
		}
		seen[entry.ProductID] = true
		f.ProductIDs = append(f.ProductIDs, entry.ProductID)
	}
	f.Count = len(f.ProductIDs)
	return f
}

func isNotFound(err error) bool {
	var statusErr *upstream.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}
