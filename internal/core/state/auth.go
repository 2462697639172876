package state

import "github.com/trendora/storefront-client/internal/core/domain"

// AuthOp identifies which auth flow a request or failure event belongs to.
type AuthOp int

const (
	AuthOpRegister AuthOp = iota
	AuthOpLogin
	AuthOpProfile
	AuthOpProfileUpdate
	AuthOpUsers
	AuthOpForgotPassword
	AuthOpResetPassword
)

func (op AuthOp) String() string {
	switch op {
	case AuthOpRegister:
		return "register"
	case AuthOpLogin:
		return "login"
	case AuthOpProfile:
		return "profile"
	case AuthOpProfileUpdate:
		return "profile_update"
	case AuthOpUsers:
		return "users"
	case AuthOpForgotPassword:
		return "forgot_password"
	case AuthOpResetPassword:
		return "reset_password"
	}
	return "unknown"
}

// Auth events.

// AuthRequested marks the start of any auth flow.
type AuthRequested struct {
	Op AuthOp
	ID uint64
}

// AuthFailed carries the extracted error message for a failed flow. Data
// fields are never touched by a failure.
type AuthFailed struct {
	Op      AuthOp
	ID      uint64
	Message string
}

// SessionEstablished is the success completion of register, login, or
// session restore. Token is empty when the backend returned no fresh token,
// in which case the previous one is kept.
type SessionEstablished struct {
	ID    uint64
	User  *domain.User
	Token string
}

// ProfileLoaded is the success completion of a profile fetch or update.
type ProfileLoaded struct {
	ID   uint64
	User *domain.User
}

// UsersLoaded is the success completion of the admin user listing.
type UsersLoaded struct {
	ID    uint64
	Users []domain.User
}

// PasswordEmailSent carries the confirmation message of the forgot-password
// flow; PasswordResetDone the one of the reset flow. Both are informational
// and distinct from Error.
type PasswordEmailSent struct {
	ID      uint64
	Message string
}

type PasswordResetDone struct {
	ID      uint64
	Message string
}

// LoggedOut resets the session unconditionally. It has no request id: it
// applies regardless of any in-flight request.
type LoggedOut struct{}

func (AuthRequested) event()      {}
func (AuthFailed) event()         {}
func (SessionEstablished) event() {}
func (ProfileLoaded) event()      {}
func (UsersLoaded) event()        {}
func (PasswordEmailSent) event()  {}
func (PasswordResetDone) event()  {}
func (LoggedOut) event()          {}

// AuthState is the session slice of the state tree. The zero value is the
// unauthenticated default.
type AuthState struct {
	User                  *domain.User  `json:"user,omitempty"`
	Users                 []domain.User `json:"users,omitempty"`
	Token                 string        `json:"jwt,omitempty"`
	Loading               bool          `json:"loading"`
	Error                 string        `json:"error,omitempty"`
	ForgotPasswordMessage string        `json:"forgotPasswordMessage,omitempty"`
	ResetPasswordMessage  string        `json:"resetPasswordMessage,omitempty"`

	// id of the newest request; completions for older ids are dropped
	seq uint64
}

// FoldAuth applies one event to the auth slice. It is pure: the input state
// is returned unchanged for events it does not recognise, and collection
// fields are replaced, never mutated in place.
func FoldAuth(s AuthState, evt Event) AuthState {
	switch e := evt.(type) {
	case AuthRequested:
		s.seq = e.ID
		s.Loading = true
		s.Error = ""
		switch e.Op {
		case AuthOpForgotPassword:
			s.ForgotPasswordMessage = ""
		case AuthOpResetPassword:
			s.ResetPasswordMessage = ""
		}
		return s

	case SessionEstablished:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.User = e.User
		if e.Token != "" {
			s.Token = e.Token
		}
		return s

	case ProfileLoaded:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.User = e.User
		return s

	case UsersLoaded:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = ""
		s.Users = e.Users
		return s

	case PasswordEmailSent:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.ForgotPasswordMessage = e.Message
		return s

	case PasswordResetDone:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.ResetPasswordMessage = e.Message
		return s

	case AuthFailed:
		if e.ID != s.seq {
			return s
		}
		s.Loading = false
		s.Error = e.Message
		return s

	case LoggedOut:
		return AuthState{}
	}
	return s
}
