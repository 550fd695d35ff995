// Package authgw verifies technician credentials against the remote login
// endpoint.
package authgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"netcheck/pkg/version"
)

// DefaultRejectMessage is used when a rejection carries no message.
const DefaultRejectMessage = "Incorrect username or password."

// Doer sends one HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Result is the outcome of a completed exchange with the authority.
type Result struct {
	Authenticated bool
	Status        int
	Message       string
	Token         string
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Gateway posts credentials to a fixed endpoint.
type Gateway struct {
	url    string
	client Doer
	log    *zap.Logger
}

// New returns a gateway for url. A nil client uses http.DefaultClient and a
// nil logger discards.
func New(url string, client Doer, log *zap.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{url: url, client: client, log: log}
}

// Authenticate makes a single attempt to log in. A rejection returns the
// populated Result together with *AuthRejectedError.
func (g *Gateway) Authenticate(ctx context.Context, username, password string) (Result, error) {
	creds := Credentials{Username: strings.TrimSpace(username), Password: strings.TrimSpace(password)}
	if creds.Username == "" {
		return Result{}, &LocalValidationError{Field: "Username"}
	}
	if creds.Password == "" {
		return Result{}, &LocalValidationError{Field: "Password"}
	}

	body, err := json.Marshal(creds)
	if err != nil {
		return Result{}, fmt.Errorf("marshal credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("auth transport failure", zap.String("url", g.url), zap.Error(err))
		return Result{}, &TransportError{URL: g.url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, &TransportError{URL: g.url, Err: fmt.Errorf("read body: %w", err)}
	}
	var decoded loginResponse
	_ = json.Unmarshal(raw, &decoded)

	res := Result{Status: resp.StatusCode, Message: decoded.Message, Token: decoded.Token}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		res.Authenticated = true
		g.log.Info("login accepted", zap.String("user", creds.Username), zap.Int("status", resp.StatusCode))
		return res, nil
	}
	if res.Message == "" {
		res.Message = DefaultRejectMessage
	}
	g.log.Info("login rejected", zap.String("user", creds.Username), zap.Int("status", resp.StatusCode))
	return res, &AuthRejectedError{Status: resp.StatusCode, Message: res.Message}
}
