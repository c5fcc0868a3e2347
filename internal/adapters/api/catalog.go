// internal/adapters/api/catalog.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/candyline/sweetshop/internal/core/domain"
	"github.com/candyline/sweetshop/internal/core/ports"
)

// CatalogClient implements ports.CatalogClient against the /sweets
// endpoints. It performs no caching: callers reload the catalog after every
// mutation.
type CatalogClient struct {
	client *Client
}

// Statically assert that *CatalogClient implements the CatalogClient port.
var _ ports.CatalogClient = (*CatalogClient)(nil)

// NewCatalogClient creates a catalog client over the shared HTTP client
func NewCatalogClient(client *Client) *CatalogClient {
	return &CatalogClient{client: client}
}

// ListAll fetches the full catalog
func (c *CatalogClient) ListAll(ctx context.Context) ([]domain.Sweet, error) {
	var sweets []domain.Sweet
	if err := c.client.do(ctx, http.MethodGet, "/sweets", nil, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// Search queries the server-side search endpoint. Entirely empty criteria
// behave identically to ListAll.
func (c *CatalogClient) Search(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Sweet, error) {
	if criteria.IsEmpty() {
		return c.ListAll(ctx)
	}

	query := url.Values{}
	if criteria.Name != "" {
		query.Set("name", criteria.Name)
	}
	if criteria.Category != "" {
		query.Set("category", criteria.Category)
	}
	if criteria.MinPrice != nil {
		query.Set("minPrice", criteria.MinPrice.String())
	}
	if criteria.MaxPrice != nil {
		query.Set("maxPrice", criteria.MaxPrice.String())
	}

	var sweets []domain.Sweet
	if err := c.client.do(ctx, http.MethodGet, "/sweets/search", query, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

// Create adds a new sweet to the catalog
func (c *CatalogClient) Create(ctx context.Context, input domain.SweetInput) (*domain.Sweet, error) {
	var sweet domain.Sweet
	if err := c.client.do(ctx, http.MethodPost, "/sweets", nil, input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// Update replaces an existing sweet's fields
func (c *CatalogClient) Update(ctx context.Context, id int64, input domain.SweetInput) (*domain.Sweet, error) {
	var sweet domain.Sweet
	path := fmt.Sprintf("/sweets/%d", id)
	if err := c.client.do(ctx, http.MethodPut, path, nil, input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// Delete removes a sweet from the catalog
func (c *CatalogClient) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/sweets/%d", id)
	return c.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Purchase decrements the remote stock by exactly one. The server rejects
// the purchase when the sweet is out of stock.
func (c *CatalogClient) Purchase(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/sweets/%d/purchase", id)
	return c.client.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// Restock increments the remote stock by quantity
func (c *CatalogClient) Restock(ctx context.Context, id int64, quantity int) error {
	path := fmt.Sprintf("/sweets/%d/restock", id)
	body := map[string]int{"quantity": quantity}
	return c.client.do(ctx, http.MethodPost, path, nil, body, nil)
}
