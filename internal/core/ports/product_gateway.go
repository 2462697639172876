package ports

import (
	"context"

	"github.com/trendora/storefront-client/internal/core/domain"
)

// ProductQuery is the optional filter set serialised onto the listing URL.
// Zero values are omitted from the query string.
type ProductQuery struct {
	Category string
	Search   string
	Sort     string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// ProductForm is the plain field map a create/update request is built from.
// Every entry in Fields becomes a scalar multipart field; Images become
// repeated file parts under the "images" key.
type ProductForm struct {
	Fields map[string]string
	Images []Upload
}

// ProductGateway is the client side of the catalog endpoints.
type ProductGateway interface {
	List(ctx context.Context, query ProductQuery) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	HotDeals(ctx context.Context) ([]domain.Product, error)
	ByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Related(ctx context.Context, id string) ([]domain.Product, error)

	Create(ctx context.Context, form ProductForm) (*domain.Product, error)
	Update(ctx context.Context, id string, form ProductForm) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
