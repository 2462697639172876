package ports

import (
	"context"

	"github.com/trendora/storefront-client/internal/core/domain"
)

// Upload is a file part attached to a multipart request.
type Upload struct {
	Filename string
	Content  []byte
}

// RegisterInput is the signup form. Photo, when present, is sent as a file
// part; everything else travels as scalar form fields.
type RegisterInput struct {
	Name     string `validate:"required"`
	Surname  string `validate:"required"`
	Email    string `validate:"required,email"`
	Mobile   string `validate:"omitempty,min=7"`
	Password string `validate:"required,min=6"`
	Photo    *Upload
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate carries the editable profile fields. When Photo is set the
// payload goes out as multipart, otherwise as plain JSON.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
	Photo   *Upload
}

// AuthPayload is the normalised signup/login response. Gateways fold
// backends that reply with a bare user record (no "user" envelope) into the
// same shape, so User is never nil on success.
type AuthPayload struct {
	JWT  string
	User *domain.User
}

// AuthGateway is the client side of the auth and user endpoints.
type AuthGateway interface {
	Register(ctx context.Context, input RegisterInput) (*AuthPayload, error)
	Login(ctx context.Context, creds Credentials) (*AuthPayload, error)

	// Profile uses the ambient persisted token; ProfileWithToken presents an
	// explicit bearer token instead (session resumption).
	Profile(ctx context.Context) (*domain.User, error)
	ProfileWithToken(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error)

	Users(ctx context.Context) ([]domain.User, error)

	// ForgotPassword and ResetPassword return the server's informational
	// message ("" when the body carries none).
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) (string, error)
}
