package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
	"github.com/trendora/storefront-client/internal/core/state"
)

// ProductActions builds the catalog tasks. Every task here swallows its
// failure after dispatching it; callers observe errors only through state.
type ProductActions struct {
	gateway ports.ProductGateway
	logger  zerolog.Logger
}

func NewProductActions(gateway ports.ProductGateway, logger zerolog.Logger) *ProductActions {
	return &ProductActions{gateway: gateway, logger: logger}
}

// listTask factors the four listing reads: same contract, different slot.
func (a *ProductActions) listTask(op state.ProductOp, fetch func(context.Context) ([]domain.Product, error)) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.ProductRequested{Op: op, ID: id})

		products, err := fetch(ctx)
		if err != nil {
			dispatch(state.ProductFailed{Op: op, ID: id, Message: err.Error()})
			return nil
		}
		if products == nil {
			products = []domain.Product{}
		}
		dispatch(state.ProductsLoaded{Op: op, ID: id, Products: products})
		return nil
	}
}

// List refreshes the unfiltered listing slot, optionally narrowed by query.
func (a *ProductActions) List(query ports.ProductQuery) state.Task {
	return a.listTask(state.ProductOpList, func(ctx context.Context) ([]domain.Product, error) {
		return a.gateway.List(ctx, query)
	})
}

// HotDeals refreshes the promoted-products slot.
func (a *ProductActions) HotDeals() state.Task {
	return a.listTask(state.ProductOpHotDeals, a.gateway.HotDeals)
}

// ByCategory refreshes the category-scoped slot.
func (a *ProductActions) ByCategory(category string) state.Task {
	return a.listTask(state.ProductOpCategory, func(ctx context.Context) ([]domain.Product, error) {
		return a.gateway.ByCategory(ctx, category)
	})
}

// Related refreshes the related-products slot for the given product.
func (a *ProductActions) Related(id string) state.Task {
	return a.listTask(state.ProductOpRelated, func(ctx context.Context) ([]domain.Product, error) {
		return a.gateway.Related(ctx, id)
	})
}

// Get fetches one product into the detail slot.
func (a *ProductActions) Get(productID string) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.ProductRequested{Op: state.ProductOpGet, ID: id})

		product, err := a.gateway.Get(ctx, productID)
		if err != nil {
			dispatch(state.ProductFailed{Op: state.ProductOpGet, ID: id, Message: err.Error()})
			return nil
		}
		dispatch(state.ProductLoaded{ID: id, Product: product})
		return nil
	}
}

// Create adds a product and prepends it to the cached listing, without a
// refetch.
func (a *ProductActions) Create(form ports.ProductForm) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.ProductRequested{Op: state.ProductOpCreate, ID: id})

		product, err := a.gateway.Create(ctx, form)
		if err != nil {
			dispatch(state.ProductFailed{Op: state.ProductOpCreate, ID: id, Message: err.Error()})
			return nil
		}
		a.logger.Info().Str("product_id", product.ID).Msg("product created")
		dispatch(state.ProductCreated{ID: id, Product: *product})
		return nil
	}
}

// Update saves a product and replaces it in the cached listing by id.
func (a *ProductActions) Update(productID string, form ports.ProductForm) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.ProductRequested{Op: state.ProductOpUpdate, ID: id})

		product, err := a.gateway.Update(ctx, productID, form)
		if err != nil {
			dispatch(state.ProductFailed{Op: state.ProductOpUpdate, ID: id, Message: err.Error()})
			return nil
		}
		dispatch(state.ProductUpdated{ID: id, Product: *product})
		return nil
	}
}

// Delete removes a product; success carries only the identifier so the fold
// can filter the cached listing instead of refetching it.
func (a *ProductActions) Delete(productID string) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.ProductRequested{Op: state.ProductOpDelete, ID: id})

		if err := a.gateway.Delete(ctx, productID); err != nil {
			dispatch(state.ProductFailed{Op: state.ProductOpDelete, ID: id, Message: err.Error()})
			return nil
		}
		a.logger.Info().Str("product_id", productID).Msg("product deleted")
		dispatch(state.ProductDeleted{ID: id, ProductID: productID})
		return nil
	}
}

// ClearErrors resets the catalog error field. Synchronous, cannot fail.
func (a *ProductActions) ClearErrors() state.Task {
	return func(_ context.Context, dispatch state.Dispatch) error {
		dispatch(state.ProductErrorsCleared{})
		return nil
	}
}
