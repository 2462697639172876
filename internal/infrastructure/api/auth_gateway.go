package api

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
)

// AuthGateway talks to the auth and user endpoints.
type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

// authResponse mirrors the signup/login body. Some deployments reply with a
// bare user record instead of the {jwt, user} envelope; decodeAuth folds
// both into an AuthPayload with a non-nil User.
type authResponse struct {
	JWT  string       `json:"jwt"`
	User *domain.User `json:"user"`
}

func decodeAuth(raw json.RawMessage) (*ports.AuthPayload, error) {
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &domain.DecodeError{Endpoint: "auth", Err: err}
	}
	if resp.User != nil {
		return &ports.AuthPayload{JWT: resp.JWT, User: resp.User}, nil
	}
	var bare domain.User
	if err := json.Unmarshal(raw, &bare); err != nil {
		return nil, &domain.DecodeError{Endpoint: "auth", Err: err}
	}
	return &ports.AuthPayload{JWT: resp.JWT, User: &bare}, nil
}

func (g *AuthGateway) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthPayload, error) {
	var raw json.RawMessage
	err := g.client.sendMultipart(ctx, http.MethodPost, "/api/v1/auth/signup", "/api/v1/auth/signup",
		func(w *multipart.Writer) error {
			fields := map[string]string{
				"name":     input.Name,
				"surname":  input.Surname,
				"email":    input.Email,
				"mobile":   input.Mobile,
				"password": input.Password,
			}
			if err := writeFields(w, fields); err != nil {
				return err
			}
			if input.Photo != nil {
				return writeFile(w, "photo", *input.Photo)
			}
			return nil
		}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeAuth(raw)
}

func (g *AuthGateway) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthPayload, error) {
	var raw json.RawMessage
	if err := g.client.postJSON(ctx, "/api/v1/auth/login", "/api/v1/auth/login", creds, &raw); err != nil {
		return nil, err
	}
	return decodeAuth(raw)
}

func (g *AuthGateway) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := g.client.get(ctx, "/api/v1/user/profile", "/api/v1/user/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *AuthGateway) ProfileWithToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := g.client.getWithToken(ctx, "/api/v1/user/profile", "/api/v1/user/profile", token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *AuthGateway) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (*domain.User, error) {
	var user domain.User

	if update.Photo == nil {
		if err := g.client.putJSON(ctx, "/api/v1/user/update", "/api/v1/user/update", update, &user); err != nil {
			return nil, err
		}
		return &user, nil
	}

	err := g.client.sendMultipart(ctx, http.MethodPut, "/api/v1/user/update", "/api/v1/user/update",
		func(w *multipart.Writer) error {
			fields := map[string]string{
				"name":    update.Name,
				"surname": update.Surname,
				"mobile":  update.Mobile,
			}
			if err := writeFields(w, fields); err != nil {
				return err
			}
			return writeFile(w, "photo", *update.Photo)
		}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *AuthGateway) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := g.client.get(ctx, "/api/v1/users/users", "/api/v1/users/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func (g *AuthGateway) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	body := map[string]string{"email": email}
	if err := g.client.postJSON(ctx, "/api/v1/auth/forgot-password", "/api/v1/auth/forgot-password", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (g *AuthGateway) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) (string, error) {
	var resp messageResponse
	body := map[string]string{
		"token":           token,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	}
	if err := g.client.postJSON(ctx, "/api/v1/auth/reset-password", "/api/v1/auth/reset-password", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
