package domain

import (
	"errors"
	"testing"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name string
		p    Product
		want float64
	}{
		{"no discount", Product{Price: 100}, 100},
		{"ten percent", Product{Price: 100, DiscountPercent: 10}, 90},
		{"negative ignored", Product{Price: 50, DiscountPercent: -5}, 50},
	}
	for _, tc := range cases {
		if got := tc.p.DiscountedPrice(); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	var nobody *User
	if nobody.IsAdmin() {
		t.Fatalf("nil user must not be admin")
	}
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Fatalf("USER role must not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("ADMIN role must be admin")
	}
}

func TestIsUnauthorized(t *testing.T) {
	if !IsUnauthorized(&APIError{Status: 401, Message: "nope"}) {
		t.Fatalf("401 APIError must be unauthorized")
	}
	if IsUnauthorized(&APIError{Status: 403, Message: "forbidden"}) {
		t.Fatalf("403 is not unauthorized")
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Fatalf("plain errors are not unauthorized")
	}
	wrapped := &DecodeError{Endpoint: "auth", Err: errors.New("bad json")}
	if IsUnauthorized(wrapped) {
		t.Fatalf("decode errors are not unauthorized")
	}
}
