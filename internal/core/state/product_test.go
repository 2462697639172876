package state

import (
	"testing"

	"github.com/trendora/storefront-client/internal/core/domain"
)

func catalog(ids ...string) []domain.Product {
	out := make([]domain.Product, len(ids))
	for i, id := range ids {
		out[i] = domain.Product{ID: id, Title: "product " + id}
	}
	return out
}

func TestFoldProduct_SlotsAreIndependent(t *testing.T) {
	s := FoldProduct(ProductState{}, ProductRequested{Op: ProductOpList, ID: 1})
	s = FoldProduct(s, ProductsLoaded{Op: ProductOpList, ID: 1, Products: catalog("a", "b")})

	s = FoldProduct(s, ProductRequested{Op: ProductOpHotDeals, ID: 2})
	s = FoldProduct(s, ProductsLoaded{Op: ProductOpHotDeals, ID: 2, Products: catalog("c")})

	s = FoldProduct(s, ProductRequested{Op: ProductOpCategory, ID: 3})
	s = FoldProduct(s, ProductsLoaded{Op: ProductOpCategory, ID: 3, Products: catalog("d")})

	s = FoldProduct(s, ProductRequested{Op: ProductOpRelated, ID: 4})
	s = FoldProduct(s, ProductsLoaded{Op: ProductOpRelated, ID: 4, Products: catalog("e", "f")})

	if len(s.Products) != 2 || len(s.HotDeals) != 1 || len(s.CategoryProducts) != 1 || len(s.RelatedProducts) != 2 {
		t.Fatalf("fetching one slot must not clear another: %+v", s)
	}
}

func TestFoldProduct_EmptyListing(t *testing.T) {
	s := FoldProduct(ProductState{}, ProductRequested{Op: ProductOpList, ID: 1})
	s = FoldProduct(s, ProductsLoaded{Op: ProductOpList, ID: 1, Products: []domain.Product{}})

	if s.Products == nil || len(s.Products) != 0 {
		t.Fatalf("expected empty listing, got %+v", s.Products)
	}
	if s.Loading || s.Error != "" {
		t.Fatalf("expected settled state with no error")
	}
}

func TestFoldProduct_GetClearsDetailSlot(t *testing.T) {
	p := domain.Product{ID: "x"}
	s := ProductState{Product: &p}

	s = FoldProduct(s, ProductRequested{Op: ProductOpGet, ID: 1})
	if s.Product != nil {
		t.Fatalf("detail request must clear the previous detail")
	}

	s = FoldProduct(s, ProductFailed{Op: ProductOpGet, ID: 1, Message: "not found"})
	if s.Product != nil {
		t.Fatalf("detail failure must leave the slot empty")
	}
	if s.Error != "not found" {
		t.Fatalf("unexpected error: %q", s.Error)
	}
}

func TestFoldProduct_CreatePrependsOnce(t *testing.T) {
	s := ProductState{Products: catalog("a", "b")}
	s = FoldProduct(s, ProductRequested{Op: ProductOpCreate, ID: 1})
	s = FoldProduct(s, ProductCreated{ID: 1, Product: domain.Product{ID: "new"}})

	matches := 0
	for _, p := range s.Products {
		if p.ID == "new" {
			matches++
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one match, got %d", matches)
	}
	if s.Products[0].ID != "new" {
		t.Fatalf("created product must sit at the head, got %q", s.Products[0].ID)
	}
	if !s.CreateSuccess {
		t.Fatalf("expected createSuccess flag set")
	}
}

func TestFoldProduct_UpdateReplacesByID(t *testing.T) {
	s := ProductState{Products: catalog("a", "b", "c")}
	updated := domain.Product{ID: "b", Title: "renamed"}

	s = FoldProduct(s, ProductRequested{Op: ProductOpUpdate, ID: 1})
	s = FoldProduct(s, ProductUpdated{ID: 1, Product: updated})

	if s.Products[1].Title != "renamed" {
		t.Fatalf("expected record replaced in listing: %+v", s.Products)
	}
	if s.Product == nil || s.Product.ID != "b" {
		t.Fatalf("expected detail slot set: %+v", s.Product)
	}
	if !s.UpdateSuccess {
		t.Fatalf("expected updateSuccess flag set")
	}
}

func TestFoldProduct_UpdateWithoutMatchStillSetsDetail(t *testing.T) {
	s := ProductState{Products: catalog("a")}
	ghost := domain.Product{ID: "ghost"}

	s = FoldProduct(s, ProductRequested{Op: ProductOpUpdate, ID: 1})
	s = FoldProduct(s, ProductUpdated{ID: 1, Product: ghost})

	if len(s.Products) != 1 || s.Products[0].ID != "a" {
		t.Fatalf("listing must be unchanged when no record matches: %+v", s.Products)
	}
	if s.Product == nil || s.Product.ID != "ghost" {
		t.Fatalf("detail slot must still update: %+v", s.Product)
	}
}

func TestFoldProduct_DeleteRemovesExactlyMatching(t *testing.T) {
	s := ProductState{Products: catalog("a", "b", "c")}

	s = FoldProduct(s, ProductRequested{Op: ProductOpDelete, ID: 1})
	s = FoldProduct(s, ProductDeleted{ID: 1, ProductID: "b"})

	if len(s.Products) != 2 || s.Products[0].ID != "a" || s.Products[1].ID != "c" {
		t.Fatalf("expected b removed: %+v", s.Products)
	}
	if !s.DeleteSuccess {
		t.Fatalf("expected deleteSuccess flag set")
	}
}

func TestFoldProduct_DeleteMissingIsNoop(t *testing.T) {
	s := ProductState{Products: catalog("a")}

	s = FoldProduct(s, ProductRequested{Op: ProductOpDelete, ID: 1})
	s = FoldProduct(s, ProductDeleted{ID: 1, ProductID: "zzz"})

	if len(s.Products) != 1 {
		t.Fatalf("deleting an absent id must leave the listing intact: %+v", s.Products)
	}
}

func TestFoldProduct_OneShotFlagsResetOnOwnRequest(t *testing.T) {
	s := ProductState{}
	s = FoldProduct(s, ProductRequested{Op: ProductOpCreate, ID: 1})
	s = FoldProduct(s, ProductCreated{ID: 1, Product: domain.Product{ID: "n"}})
	if !s.CreateSuccess {
		t.Fatalf("expected createSuccess true after success")
	}

	s = FoldProduct(s, ProductRequested{Op: ProductOpCreate, ID: 2})
	if s.CreateSuccess {
		t.Fatalf("expected createSuccess reset by the next create request")
	}
}

func TestFoldProduct_FailedLeavesCachesUntouched(t *testing.T) {
	s := ProductState{Products: catalog("a"), HotDeals: catalog("h")}
	s = FoldProduct(s, ProductRequested{Op: ProductOpList, ID: 1})
	s = FoldProduct(s, ProductFailed{Op: ProductOpList, ID: 1, Message: "backend down"})

	if len(s.Products) != 1 || len(s.HotDeals) != 1 {
		t.Fatalf("failure must only change loading and error: %+v", s)
	}
	if s.Error != "backend down" || s.Loading {
		t.Fatalf("unexpected flags: error=%q loading=%v", s.Error, s.Loading)
	}
}

func TestFoldProduct_StaleListingDropped(t *testing.T) {
	s := FoldProduct(ProductState{}, ProductRequested{Op: ProductOpList, ID: 1})
	s = FoldProduct(s, ProductRequested{Op: ProductOpList, ID: 2})

	s = FoldProduct(s, ProductsLoaded{Op: ProductOpList, ID: 1, Products: catalog("stale")})
	if len(s.Products) != 0 || !s.Loading {
		t.Fatalf("stale listing must be dropped: %+v", s)
	}

	s = FoldProduct(s, ProductsLoaded{Op: ProductOpList, ID: 2, Products: catalog("fresh")})
	if len(s.Products) != 1 || s.Products[0].ID != "fresh" {
		t.Fatalf("newest listing must win: %+v", s.Products)
	}
}

func TestFoldProduct_ClearErrorsOnlyResetsError(t *testing.T) {
	s := ProductState{Products: catalog("a"), Error: "boom", DeleteSuccess: true}
	s = FoldProduct(s, ProductErrorsCleared{})

	if s.Error != "" {
		t.Fatalf("expected error cleared")
	}
	if len(s.Products) != 1 || !s.DeleteSuccess {
		t.Fatalf("clear errors must not touch anything else: %+v", s)
	}
}
