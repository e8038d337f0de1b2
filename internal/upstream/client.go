// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-gateway/internal/config"
)

// ErrUnauthorized indicates the backend rejected the presented credentials
// or session token
var ErrUnauthorized = errors.New("upstream: unauthorized")

// StatusError is a non-2xx backend response that is not an auth failure
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.Code, e.Message)
}

// Client talks to the commerce backend REST API. It performs one request per
// call with no retries, queuing, or de-duplication; callers own any
// resynchronization after failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new commerce backend client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.Upstream.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Upstream.Timeout},
		logger:     logger,
	}
}

// NewClientWithBaseURL creates a client against an explicit base URL.
// Used by tests to point at a stub backend.
func NewClientWithBaseURL(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// do executes a single request against the backend and decodes the JSON
// response into out (when out is non-nil). 401/403 map to ErrUnauthorized,
// other non-2xx statuses map to StatusError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure errorBody
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return &StatusError{Code: resp.StatusCode, Message: failure.text()}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode response: %w", err)
	}

	return nil
}

// ListProducts retrieves the product collection, optionally limited
func (c *Client) ListProducts(ctx context.Context, limit int) (*ProductsResponse, error) {
	path := "/products"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp ProductsResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProduct retrieves a single product by id
func (c *Client) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	var resp ProductResponse
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyToken checks a session token against the backend. A nil error means
// the token is valid.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/auth/verify", token, nil, nil)
}

// Login authenticates with the backend and returns the issued token and user
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &StatusError{Code: http.StatusOK, Message: "login response missing token"}
	}
	return &resp, nil
}

// Register creates a new account and returns the issued token and user
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &StatusError{Code: http.StatusOK, Message: "register response missing token"}
	}
	return &resp, nil
}

// CreateGuestSession requests a new guest session token from the backend
func (c *Client) CreateGuestSession(ctx context.Context) (string, error) {
	var resp GuestSessionResponse
	if err := c.do(ctx, http.MethodPost, "/sessions/guest", "", nil, &resp); err != nil {
		return "", err
	}
	if resp.SessionID == "" {
		return "", &StatusError{Code: http.StatusOK, Message: "guest session response missing sessionId"}
	}
	return resp.SessionID, nil
}

// User-scoped cart operations. All take the account's session token.

// UserCart retrieves the authenticated user's cart
func (c *Client) UserCart(ctx context.Context, token string) (*CartResponse, error) {
	var resp CartResponse
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUserCartItem adds quantity of a product to the user's cart.
// Repeated calls accumulate quantity.
func (c *Client) AddUserCartItem(ctx context.Context, token, productID string, quantity int) (*CartResponse, error) {
	payload := map[string]interface{}{"productId": productID, "quantity": quantity}

	var resp CartResponse
	if err := c.do(ctx, http.MethodPost, "/cart/items", token, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUserCartItem sets the quantity of a cart line
func (c *Client) UpdateUserCartItem(ctx context.Context, token, productID string, quantity int) (*CartResponse, error) {
	payload := map[string]interface{}{"quantity": quantity}

	var resp CartResponse
	if err := c.do(ctx, http.MethodPut, "/cart/items/"+url.PathEscape(productID), token, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveUserCartItem removes a cart line
func (c *Client) RemoveUserCartItem(ctx context.Context, token, productID string) (*CartResponse, error) {
	var resp CartResponse
	if err := c.do(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Guest-scoped cart operations. All take the guest session id.

// GuestCart retrieves a guest cart
func (c *Client) GuestCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	var resp CartResponse
	if err := c.do(ctx, http.MethodGet, "/guest/"+url.PathEscape(sessionID)+"/cart", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddGuestCartItem adds quantity of a product to a guest cart
func (c *Client) AddGuestCartItem(ctx context.Context, sessionID, productID string, quantity int) (*CartResponse, error) {
	payload := map[string]interface{}{"productId": productID, "quantity": quantity}

	var resp CartResponse
	if err := c.do(ctx, http.MethodPost, "/guest/"+url.PathEscape(sessionID)+"/cart/items", "", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateGuestCartItem sets the quantity of a guest cart line
func (c *Client) UpdateGuestCartItem(ctx context.Context, sessionID, productID string, quantity int) (*CartResponse, error) {
	payload := map[string]interface{}{"quantity": quantity}

	var resp CartResponse
	path := "/guest/" + url.PathEscape(sessionID) + "/cart/items/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodPut, path, "", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveGuestCartItem removes a guest cart line
func (c *Client) RemoveGuestCartItem(ctx context.Context, sessionID, productID string) (*CartResponse, error) {
	var resp CartResponse
	path := "/guest/" + url.PathEscape(sessionID) + "/cart/items/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodDelete, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// User-scoped favorites operations.

// UserFavorites retrieves the authenticated user's favorites
func (c *Client) UserFavorites(ctx context.Context, token string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	if err := c.do(ctx, http.MethodGet, "/favorites", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUserFavorite adds a product to the user's favorites
func (c *Client) AddUserFavorite(ctx context.Context, token, productID string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	if err := c.do(ctx, http.MethodPost, "/favorites/"+url.PathEscape(productID), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveUserFavorite removes a product from the user's favorites
func (c *Client) RemoveUserFavorite(ctx context.Context, token, productID string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	if err := c.do(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(productID), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckUserFavorite checks membership of one product in the user's favorites
func (c *Client) CheckUserFavorite(ctx context.Context, token, productID string) (bool, error) {
	var resp FavoriteCheckResponse
	if err := c.do(ctx, http.MethodGet, "/favorites/check/"+url.PathEscape(productID), token, nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}

// Guest-scoped favorites operations.

// GuestFavorites retrieves a guest's favorites
func (c *Client) GuestFavorites(ctx context.Context, sessionID string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	if err := c.do(ctx, http.MethodGet, "/guest/"+url.PathEscape(sessionID)+"/favorites", "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddGuestFavorite adds a product to a guest's favorites
func (c *Client) AddGuestFavorite(ctx context.Context, sessionID, productID string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	path := "/guest/" + url.PathEscape(sessionID) + "/favorites/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodPost, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveGuestFavorite removes a product from a guest's favorites
func (c *Client) RemoveGuestFavorite(ctx context.Context, sessionID, productID string) (*FavoritesResponse, error) {
	var resp FavoritesResponse
	path := "/guest/" + url.PathEscape(sessionID) + "/favorites/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodDelete, path, "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckGuestFavorite checks membership of one product in a guest's favorites
func (c *Client) CheckGuestFavorite(ctx context.Context, sessionID, productID string) (bool, error) {
	var resp FavoriteCheckResponse
	path := "/guest/" + url.PathEscape(sessionID) + "/favorites/check/" + url.PathEscape(productID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}
