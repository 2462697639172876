package api

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
)

// ProductGateway talks to the catalog endpoints.
type ProductGateway struct {
	client *Client
}

func NewProductGateway(client *Client) *ProductGateway {
	return &ProductGateway{client: client}
}

func queryValues(q ports.ProductQuery) url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	if q.MinPrice > 0 {
		v.Set("minPrice", fmt.Sprintf("%g", q.MinPrice))
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", fmt.Sprintf("%g", q.MaxPrice))
	}
	if q.Page > 0 {
		v.Set("page", fmt.Sprintf("%d", q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	if len(v) == 0 {
		return nil
	}
	return v
}

func (g *ProductGateway) List(ctx context.Context, query ports.ProductQuery) ([]domain.Product, error) {
	var products []domain.Product
	if err := g.client.get(ctx, "/api/v1/products/", "/api/v1/products/", queryValues(query), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *ProductGateway) Get(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	path := "/api/v1/product/" + id
	if err := g.client.get(ctx, "/api/v1/product/:id", path, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (g *ProductGateway) HotDeals(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := g.client.get(ctx, "/api/v1/products/hot-deals", "/api/v1/products/hot-deals", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *ProductGateway) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/api/v1/products/category/" + category
	if err := g.client.get(ctx, "/api/v1/products/category/:category", path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *ProductGateway) Related(ctx context.Context, id string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/api/v1/products/" + id + "/related"
	if err := g.client.get(ctx, "/api/v1/products/:id/related", path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (g *ProductGateway) Create(ctx context.Context, form ports.ProductForm) (*domain.Product, error) {
	var product domain.Product
	err := g.client.sendMultipart(ctx, http.MethodPost, "/api/v1/product/create", "/api/v1/product/create",
		func(w *multipart.Writer) error { return writeProductForm(w, form) }, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (g *ProductGateway) Update(ctx context.Context, id string, form ports.ProductForm) (*domain.Product, error) {
	var product domain.Product
	path := "/api/v1/product/update/" + id
	err := g.client.sendMultipart(ctx, http.MethodPut, "/api/v1/product/update/:id", path,
		func(w *multipart.Writer) error { return writeProductForm(w, form) }, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (g *ProductGateway) Delete(ctx context.Context, id string) error {
	path := "/api/v1/product/delete/" + id
	return g.client.delete(ctx, "/api/v1/product/delete/:id", path, nil)
}
