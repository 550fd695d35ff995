package screen

import (
	"context"
	"errors"

	"netcheck/pkg/authgw"
)

// Outcome of a login attempt.
type Outcome int

const (
	Authenticated Outcome = iota
	Invalid
	Rejected
	TransportFailure
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	case Rejected:
		return "rejected"
	case TransportFailure:
		return "transport-failure"
	default:
		return "failed"
	}
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (authgw.Result, error)
}

// LoginResult is what the login screen reports to its host.
type LoginResult struct {
	Outcome Outcome
	Token   string
	Alert   Alert
}

// LoginScreen drives the credential form.
type LoginScreen struct {
	gw Authenticator
	// OnAuthenticated runs only after a successful login; hosts use it to
	// navigate to the form.
	OnAuthenticated func(LoginResult)
}

func NewLoginScreen(gw Authenticator, onAuthenticated func(LoginResult)) *LoginScreen {
	return &LoginScreen{gw: gw, OnAuthenticated: onAuthenticated}
}

// Submit attempts one login.
func (l *LoginScreen) Submit(ctx context.Context, username, password string) LoginResult {
	res, err := l.gw.Authenticate(ctx, username, password)
	if err == nil && res.Authenticated {
		out := LoginResult{Outcome: Authenticated, Token: res.Token, Alert: Alert{Title: "Success", Message: "Login successful!"}}
		if l.OnAuthenticated != nil {
			l.OnAuthenticated(out)
		}
		return out
	}
	var (
		lerr *authgw.LocalValidationError
		rerr *authgw.AuthRejectedError
		terr *authgw.TransportError
	)
	switch {
	case errors.As(err, &lerr):
		return LoginResult{Outcome: Invalid, Alert: AlertFor(err)}
	case errors.As(err, &rerr):
		return LoginResult{Outcome: Rejected, Alert: AlertFor(err)}
	case errors.As(err, &terr):
		return LoginResult{Outcome: TransportFailure, Alert: AlertFor(err)}
	case err != nil:
		return LoginResult{Outcome: Failed, Alert: AlertFor(err)}
	default:
		return LoginResult{Outcome: Rejected, Alert: Alert{Title: "Login Failed", Message: authgw.DefaultRejectMessage}}
	}
}
