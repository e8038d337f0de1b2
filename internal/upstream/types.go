// internal/upstream/types.go
package upstream

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates JSON numbers arriving as quoted strings.
// The commerce feed is not consistent about numeric typing.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(value)
	return nil
}

// RawProduct represents a product as delivered by the commerce backend,
// before any normalization
type RawProduct struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Gender      string   `json:"gender"`
	Price       Number   `json:"price"`
	Discount    Number   `json:"discount"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
}

// User represents the authenticated account returned by the backend
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProductsResponse is the list-products envelope
type ProductsResponse struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Products []RawProduct `json:"products"`
}

// ProductResponse is the single-product envelope
type ProductResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Product *RawProduct `json:"product"`
}

// AuthResponse is the login/register envelope
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// GuestSessionResponse is the guest session creation envelope
type GuestSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// CartEntry is a single cart line as stored by the backend
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     Number `json:"price"`
}

// CartResponse is the cart envelope shared by all cart operations
type CartResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Cart    []CartEntry `json:"cart"`
}

// FavoriteEntry is a single favorites line as stored by the backend
type FavoriteEntry struct {
	ProductID string `json:"productId"`
}

// FavoritesResponse is the favorites envelope shared by all favorites operations
type FavoritesResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Favorites []FavoriteEntry `json:"favorites"`
}

// FavoriteCheckResponse is the per-item favorite membership envelope
type FavoriteCheckResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// errorBody is the backend's failure payload
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *errorBody) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

var _ json.Unmarshaler = (*Number)(nil)
