// Package service implements the action layer: each operation returns a
// state.Task that emits a request event, performs at most one API call, and
// completes with a success or failure event. Unless documented otherwise a
// task swallows its failure after dispatching it, so callers observe errors
// only through state.
package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/trendora/storefront-client/internal/core/domain"
	"github.com/trendora/storefront-client/internal/core/ports"
	"github.com/trendora/storefront-client/internal/core/state"
	"github.com/trendora/storefront-client/internal/metrics"
)

// AuthActions builds the authentication and user tasks.
type AuthActions struct {
	gateway  ports.AuthGateway
	tokens   ports.TokenStore
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewAuthActions(gateway ports.AuthGateway, tokens ports.TokenStore, logger zerolog.Logger) *AuthActions {
	return &AuthActions{
		gateway:  gateway,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

// persistToken saves a fresh token, logging rather than failing the flow
// when the store is unavailable: the session still works in memory.
func (a *AuthActions) persistToken(token string) {
	if token == "" {
		return
	}
	if err := a.tokens.Save(token); err != nil {
		a.logger.Warn().Err(err).Msg("failed to persist token")
	}
}

// Register signs up a new account. The returned error is nil unless the
// input fails validation; API failures are dispatched, not returned.
func (a *AuthActions) Register(input ports.RegisterInput) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		if err := validate(a.validate, input); err != nil {
			return err
		}

		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpRegister, ID: id})

		payload, err := a.gateway.Register(ctx, input)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpRegister, ID: id, Message: err.Error()})
			return nil
		}

		a.persistToken(payload.JWT)
		dispatch(state.SessionEstablished{ID: id, User: payload.User, Token: payload.JWT})
		a.logger.Info().Str("email", input.Email).Msg("account registered")
		return nil
	}
}

// Login authenticates with email and password. Same contract as Register.
func (a *AuthActions) Login(creds ports.Credentials) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		if err := validate(a.validate, creds); err != nil {
			return err
		}

		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpLogin, ID: id})

		payload, err := a.gateway.Login(ctx, creds)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpLogin, ID: id, Message: err.Error()})
			return nil
		}

		a.persistToken(payload.JWT)
		dispatch(state.SessionEstablished{ID: id, User: payload.User, Token: payload.JWT})
		return nil
	}
}

// Logout clears the persisted token and resets the session. It makes no
// network call and cannot fail.
func (a *AuthActions) Logout() state.Task {
	return func(_ context.Context, dispatch state.Dispatch) error {
		if err := a.tokens.Clear(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to clear persisted token")
		}
		dispatch(state.LoggedOut{})
		return nil
	}
}

// GetProfile fetches the authenticated account using the ambient token.
func (a *AuthActions) GetProfile() state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpProfile, ID: id})

		user, err := a.gateway.Profile(ctx)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpProfile, ID: id, Message: err.Error()})
			return nil
		}
		dispatch(state.ProfileLoaded{ID: id, User: user})
		return nil
	}
}

// UpdateProfile saves profile changes. Unlike the fetch tasks it returns the
// failure in addition to dispatching it, so callers can branch on the raw
// error. A failed update never logs the user out.
func (a *AuthActions) UpdateProfile(update ports.ProfileUpdate) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpProfileUpdate, ID: id})

		user, err := a.gateway.UpdateProfile(ctx, update)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpProfileUpdate, ID: id, Message: err.Error()})
			return err
		}
		dispatch(state.ProfileLoaded{ID: id, User: user})
		return nil
	}
}

// GetAllUsers fetches the admin account listing.
func (a *AuthActions) GetAllUsers() state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpUsers, ID: id})

		users, err := a.gateway.Users(ctx)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpUsers, ID: id, Message: err.Error()})
			return nil
		}
		dispatch(state.UsersLoaded{ID: id, Users: users})
		return nil
	}
}

// ForgotPassword requests a reset email. The confirmation lands in its own
// message field, not in the user slot.
func (a *AuthActions) ForgotPassword(email string) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpForgotPassword, ID: id})

		msg, err := a.gateway.ForgotPassword(ctx, email)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpForgotPassword, ID: id, Message: err.Error()})
			return nil
		}
		if msg == "" {
			msg = "Reset email sent"
		}
		dispatch(state.PasswordEmailSent{ID: id, Message: msg})
		return nil
	}
}

// resetPasswordForm exists only to run the confirmation check before any
// event or network traffic.
type resetPasswordForm struct {
	Token           string `validate:"required"`
	NewPassword     string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

// ResetPassword completes a recovery flow with the emailed token. A
// password/confirmation mismatch is returned directly without touching
// state.
func (a *AuthActions) ResetPassword(token, newPassword, confirmPassword string) state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		form := resetPasswordForm{Token: token, NewPassword: newPassword, ConfirmPassword: confirmPassword}
		if err := validate(a.validate, form); err != nil {
			return err
		}

		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpResetPassword, ID: id})

		msg, err := a.gateway.ResetPassword(ctx, token, newPassword, confirmPassword)
		if err != nil {
			dispatch(state.AuthFailed{Op: state.AuthOpResetPassword, ID: id, Message: err.Error()})
			return nil
		}
		if msg == "" {
			msg = "Password reset successful"
		}
		dispatch(state.PasswordResetDone{ID: id, Message: msg})
		return nil
	}
}

// RestoreSession resumes a session from the persisted token. With no saved
// token it fails fast without a network call. Any failure past that point
// (expired exp claim, server rejection, network error) clears the token
// before LoggedOut is dispatched, so no later request can race ahead with a
// dead credential.
func (a *AuthActions) RestoreSession() state.Task {
	return func(ctx context.Context, dispatch state.Dispatch) error {
		id := state.NextRequestID()
		dispatch(state.AuthRequested{Op: state.AuthOpLogin, ID: id})

		token, err := a.tokens.Load()
		if err != nil || token == "" {
			metrics.SessionRestoresTotal.WithLabelValues("no_session").Inc()
			a.logger.Debug().Err(domain.ErrNoSavedSession).Msg("session restore skipped")
			dispatch(state.AuthFailed{Op: state.AuthOpLogin, ID: id, Message: "No saved session"})
			return nil
		}

		if tokenExpired(token, time.Now()) {
			metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
			a.logger.Debug().Err(domain.ErrSessionExpired).Msg("session restore skipped")
			if err := a.tokens.Clear(); err != nil {
				a.logger.Warn().Err(err).Msg("failed to clear expired token")
			}
			dispatch(state.LoggedOut{})
			return nil
		}

		user, err := a.gateway.ProfileWithToken(ctx, token)
		if err != nil {
			metrics.SessionRestoresTotal.WithLabelValues("rejected").Inc()
			if err := a.tokens.Clear(); err != nil {
				a.logger.Warn().Err(err).Msg("failed to clear rejected token")
			}
			dispatch(state.LoggedOut{})
			return nil
		}

		metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
		a.logger.Info().Str("email", user.Email).Msg("session restored")
		dispatch(state.SessionEstablished{ID: id, User: user, Token: token})
		return nil
	}
}

// tokenExpired inspects the token's exp claim without verifying the
// signature. Only a well-formed, already-expired claim short-circuits the
// restore; anything unreadable is left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
