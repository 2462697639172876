package state

import "github.com/trendora/storefront-client/internal/core/domain"

// ProductOp identifies which catalog flow a request or failure belongs to.
// The four listing ops double as slot selectors for ProductsLoaded.
type ProductOp int

const (
	ProductOpList ProductOp = iota
	ProductOpGet
	ProductOpHotDeals
	ProductOpCategory
	ProductOpRelated
	ProductOpCreate
	ProductOpUpdate
	ProductOpDelete
)

func (op ProductOp) String() string {
	switch op {
	case ProductOpList:
		return "list"
	case ProductOpGet:
		return "get"
	case ProductOpHotDeals:
		return "hot_deals"
	case ProductOpCategory:
		return "category"
	case ProductOpRelated:
		return "related"
	case ProductOpCreate:
		return "create"
	case ProductOpUpdate:
		return "update"
	case ProductOpDelete:
		return "delete"
	}
	return "unknown"
}

// Product events.

type ProductRequested struct {
	Op ProductOp
	ID uint64
}

type ProductFailed struct {
	Op      ProductOp
	ID      uint64
	Message string
}

// ProductsLoaded is the success completion of the four listing reads. Op
// selects the slot that is overwritten; the other slots keep their data.
type ProductsLoaded struct {
	Op       ProductOp
	ID       uint64
	Products []domain.Product
}

// ProductLoaded is the success completion of a detail fetch.
type ProductLoaded struct {
	ID      uint64
	Product *domain.Product
}

// ProductCreated prepends the new record to the cached listing instead of
// refetching it.
type ProductCreated struct {
	ID      uint64
	Product domain.Product
}

// ProductUpdated replaces the matching record in the cached listing and the
// detail slot.
type ProductUpdated struct {
	ID      uint64
	Product domain.Product
}

// ProductDeleted removes the record with the given identifier from the
// cached listing.
type ProductDeleted struct {
	ID        uint64
	ProductID string
}

// ProductErrorsCleared resets the error field and nothing else.
type ProductErrorsCleared struct{}

func (ProductRequested) event()     {}
func (ProductFailed) event()        {}
func (ProductsLoaded) event()       {}
func (ProductLoaded) event()        {}
func (ProductCreated) event()       {}
func (ProductUpdated) event()       {}
func (ProductDeleted) event()       {}
func (ProductErrorsCleared) event() {}

// ProductState is the catalog slice of the state tree. Each result field is
// an independent slot, overwritten wholesale by its own success event.
type ProductState struct {
	Products         []domain.Product `json:"products"`
	Product          *domain.Product  `json:"product,omitempty"`
	HotDeals         []domain.Product `json:"hotDeals"`
	CategoryProducts []domain.Product `json:"categoryProducts"`
	RelatedProducts  []domain.Product `json:"relatedProducts"`
	Loading          bool             `json:"loading"`
	Error            string           `json:"error,omitempty"`

	// one-shot write flags, reset by the corresponding request
	CreateSuccess bool `json:"createSuccess"`
	UpdateSuccess bool `json:"updateSuccess"`
	DeleteSuccess bool `json:"deleteSuccess"`

	seq uint64
}

// FoldProduct applies one event to the catalog slice. Listings are replaced
// with freshly built slices; cached collections are never edited in place.
func FoldProduct(s ProductState, evt Event) ProductState {
	switch e := evt.(type) {
	case ProductRequested:
		s.seq = e.ID
		s.Loading = true
		s.Error = ""
		switch e.Op {
		case ProductOpGet:
			s.Product = nil
		case ProductOpCreate:
			s.CreateSuccess = false
		case ProductOpUpdate:
			s.UpdateSuccess = false
		case ProductOpDelete:
			s.DeleteSuccess = false
		}
		return s

	case ProductsLoaded:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		switch e.Op {
		case ProductOpHotDeals:
			s.HotDeals = e.Products
		case ProductOpCategory:
			s.CategoryProducts = e.Products
		case ProductOpRelated:
			s.RelatedProducts = e.Products
		default:
			s.Products = e.Products
		}
		return s

	case ProductLoaded:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.Product = e.Product
		return s

	case ProductCreated:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.CreateSuccess = true
		next := make([]domain.Product, 0, len(s.Products)+1)
		next = append(next, e.Product)
		next = append(next, s.Products...)
		s.Products = next
		return s

	case ProductUpdated:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.UpdateSuccess = true
		next := make([]domain.Product, len(s.Products))
		for i, p := range s.Products {
			if p.ID == e.Product.ID {
				next[i] = e.Product
			} else {
				next[i] = p
			}
		}
		s.Products = next
		p := e.Product
		s.Product = &p
		return s

	case ProductDeleted:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.DeleteSuccess = true
		next := make([]domain.Product, 0, len(s.Products))
		for _, p := range s.Products {
			if p.ID != e.ProductID {
				next = append(next, p)
			}
		}
		s.Products = next
		return s

	case ProductFailed:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = e.Message
		if e.Op == ProductOpGet {
			s.Product = nil
		}
		return s

	case ProductErrorsCleared:
		s.Error = ""
		return s
	}
	return s
}
