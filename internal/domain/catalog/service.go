// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
	"github.com/your-org/storefront-gateway/internal/upstream"
)

// Service fetches products from the commerce backend and normalizes them
// into presentation-ready records
type Service struct {
	client *upstream.Client
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(client *upstream.Client, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// FetchCatalog retrieves and normalizes the product collection. The returned
// slice is always non-nil; an empty slice with a nil error is a successful
// empty catalog, an empty slice with a non-nil error is a fetch failure.
func (s *Service) FetchCatalog(ctx context.Context, limit int) ([]Product, error) {
	resp, err := s.client.ListProducts(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Catalog fetch failed")
		return []Product{}, err
	}

	if !resp.Success {
		s.logger.WithField("message", resp.Message).Warn("Catalog fetch rejected by backend")
		return []Product{}, fmt.Errorf("catalog fetch unsuccessful: %s", resp.Message)
	}

	products := make([]Product, 0, len(resp.Products))
	seen := make(map[string]bool, len(resp.Products))
	for i := range resp.Products {
		raw := &resp.Products[i]
		// The raw feed can repeat a product; first occurrence wins.
		if raw.ID == "" || seen[raw.ID] {
			continue
		}
		seen[raw.ID] = true
		products = append(products, s.normalize(raw))
	}

	return products, nil
}

// FetchProduct retrieves and normalizes a single product
func (s *Service) FetchProduct(ctx context.Context, id string) (*Product, error) {
	resp, err := s.client.GetProduct(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("Product fetch failed")
		return nil, err
	}

	if !resp.Success || resp.Product == nil {
		return nil, fmt.Errorf("product %s not found: %s", id, resp.Message)
	}

	product := s.normalize(resp.Product)
	return &product, nil
}

// normalize reshapes a raw feed item into a presentation-ready record
func (s *Service) normalize(raw *upstream.RawProduct) Product {
	price := float64(raw.Price)
	discount := float64(raw.Discount)

	product := Product{
		ID:              raw.ID,
		Name:            raw.Name,
		Description:     raw.Description,
		Category:        raw.Category,
		Gender:          raw.Gender,
		Price:           price,
		DiscountPercent: discount,
		Stock:           raw.Stock,
		Sizes:           raw.Sizes,
		Image:           s.normalizeImageURL(raw.Image),
	}

	// The feed stores the already-discounted price; back-compute what the
	// customer would have paid without the discount.
	if discount > 0 && discount < 100 {
		original := price / (1 - discount/100)
		product.OriginalPrice = &original
	}

	if len(raw.Images) > 0 {
		product.Images = make([]string, 0, len(raw.Images))
		for _, img := range raw.Images {
			product.Images = append(product.Images, s.normalizeImageURL(img))
		}
	}

	return product
}

// normalizeImageURL resolves a stored image path to a servable URL. Missing
// paths fall back to the configured placeholder so Image is never empty.
func (s *Service) normalizeImageURL(path string) string {
	if path == "" {
		return s.config.Media.PlaceholderImage
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(s.config.Media.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
