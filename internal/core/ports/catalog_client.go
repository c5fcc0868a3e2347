// internal/core/ports/catalog_client.go
package ports

import (
	"context"

	"github.com/candyline/sweetshop/internal/core/domain"
)

// CatalogClient defines the remote inventory API port.
// This interface is implemented by the HTTP adapter.
//
// The client never predicts or locally patches stock counts: every mutation
// is followed, by contract, by the caller re-fetching the full catalog.
type CatalogClient interface {
	ListAll(ctx context.Context) ([]domain.Sweet, error)
	// Search with entirely empty criteria behaves identically to ListAll.
	Search(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Sweet, error)
	Create(ctx context.Context, input domain.SweetInput) (*domain.Sweet, error)
	Update(ctx context.Context, id int64, input domain.SweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id int64) error
	// Purchase decrements the remote stock by exactly 1 and fails when the
	// sweet is out of stock.
	Purchase(ctx context.Context, id int64) error
	// Restock increments the remote stock by quantity.
	Restock(ctx context.Context, id int64, quantity int) error
}
