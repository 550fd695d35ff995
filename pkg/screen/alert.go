// Package screen is the contract between the checklist core and whatever
// host renders it. Every failure is returned as an Alert the host can show;
// nothing here terminates the process.
package screen

import (
	"errors"

	"netcheck/pkg/authgw"
	"netcheck/pkg/form"
	"netcheck/pkg/localdb"
	"netcheck/pkg/relay"
)

// Alert is a user-facing message.
type Alert struct {
	Title   string
	Message string
}

func (a Alert) String() string {
	if a.Title == "" {
		return a.Message
	}
	return a.Title + ": " + a.Message
}

// AlertFor maps a core error to the message shown to the technician.
func AlertFor(err error) Alert {
	var (
		verr   *form.ValidationError
		lerr   *authgw.LocalValidationError
		rerr   *authgw.AuthRejectedError
		terr   *authgw.TransportError
		serr   *localdb.SchemaError
		werr   *localdb.WriteError
		ferr   *localdb.FetchError
		relErr *relay.Error
	)
	switch {
	case err == nil:
		return Alert{}
	case errors.As(err, &verr):
		return Alert{Title: "Validation Error", Message: "Please fill out all comments before submitting. First missing: " + verr.System + " / " + verr.Service}
	case errors.As(err, &lerr):
		return Alert{Title: "Error", Message: lerr.Field + " cannot be empty or whitespace."}
	case errors.As(err, &rerr):
		return Alert{Title: "Login Failed", Message: rerr.Message}
	case errors.As(err, &terr):
		return Alert{Title: "Error", Message: "Something went wrong. Please try again."}
	case errors.As(err, &serr):
		return Alert{Title: "Storage Error", Message: "The local database could not be prepared."}
	case errors.As(err, &werr):
		return Alert{Title: "Storage Error", Message: "The form could not be saved. Nothing was written."}
	case errors.As(err, &ferr):
		return Alert{Title: "Storage Error", Message: "Saved data could not be read."}
	case errors.As(err, &relErr):
		return Alert{Title: "Sync Warning", Message: "Saved locally but not sent to the controller."}
	default:
		return Alert{Title: "Error", Message: err.Error()}
	}
}
