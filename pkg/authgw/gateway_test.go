package authgw

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDoer struct {
	calls []*http.Request
	body  []byte
	resp  *http.Response
	err   error
}

func (d *recordingDoer) Do(r *http.Request) (*http.Response, error) {
	d.calls = append(d.calls, r)
	if r.Body != nil {
		d.body, _ = io.ReadAll(r.Body)
	}
	return d.resp, d.err
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestAuthenticate_BlankFieldsNeverHitTransport(t *testing.T) {
	cases := []struct {
		user, pass, field string
	}{
		{"", "x", "Username"},
		{"   ", "x", "Username"},
		{"user", "", "Password"},
		{"user", "\t ", "Password"},
	}
	for _, tc := range cases {
		d := &recordingDoer{}
		g := New("http://auth.invalid/login", d, nil)
		res, err := g.Authenticate(context.Background(), tc.user, tc.pass)
		var lerr *LocalValidationError
		require.True(t, errors.As(err, &lerr), "user=%q pass=%q err=%v", tc.user, tc.pass, err)
		assert.Equal(t, tc.field, lerr.Field)
		assert.False(t, res.Authenticated)
		assert.Empty(t, d.calls)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	d := &recordingDoer{resp: jsonResponse(http.StatusOK, `{"token":"abc"}`)}
	g := New("http://auth.example/login", d, nil)

	res, err := g.Authenticate(context.Background(), "  user ", " pass ")
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, "abc", res.Token)

	require.Len(t, d.calls, 1)
	req := d.calls[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	var sent Credentials
	require.NoError(t, json.Unmarshal(d.body, &sent))
	assert.Equal(t, Credentials{Username: "user", Password: "pass"}, sent)
}

func TestAuthenticate_AnyTwoHundredIsSuccess(t *testing.T) {
	d := &recordingDoer{resp: jsonResponse(http.StatusNoContent, ``)}
	res, err := New("http://auth.example/login", d, nil).Authenticate(context.Background(), "u", "p")
	require.NoError(t, err)
	assert.True(t, res.Authenticated)
	assert.Equal(t, http.StatusNoContent, res.Status)
}

func TestAuthenticate_RejectedCarriesMessage(t *testing.T) {
	d := &recordingDoer{resp: jsonResponse(http.StatusUnauthorized, `{"message":"bad creds"}`)}
	res, err := New("http://auth.example/login", d, nil).Authenticate(context.Background(), "user", "pass")
	var rerr *AuthRejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusUnauthorized, rerr.Status)
	assert.Equal(t, "bad creds", rerr.Message)
	assert.False(t, res.Authenticated)
	assert.Equal(t, "bad creds", res.Message)
	assert.Len(t, d.calls, 1)
}

func TestAuthenticate_RejectedWithoutMessageUsesDefault(t *testing.T) {
	d := &recordingDoer{resp: jsonResponse(http.StatusForbidden, `<html>nope</html>`)}
	res, err := New("http://auth.example/login", d, nil).Authenticate(context.Background(), "user", "pass")
	var rerr *AuthRejectedError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, DefaultRejectMessage, res.Message)
}

func TestAuthenticate_TransportErrorIsDistinct(t *testing.T) {
	cause := &dialError{syscall.ECONNREFUSED}
	d := &recordingDoer{err: cause}
	_, err := New("http://auth.example/login", d, nil).Authenticate(context.Background(), "user", "pass")
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.ErrorIs(t, err, syscall.ECONNREFUSED)
	var rerr *AuthRejectedError
	assert.False(t, errors.As(err, &rerr))
	assert.Len(t, d.calls, 1, "no retries")
}

type dialError struct{ err error }

func (e *dialError) Error() string { return "dial tcp: " + e.err.Error() }
func (e *dialError) Unwrap() error { return e.err }

func TestAuthenticate_AgainstHTTPServer(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		var c Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Username == "tech" && c.Password == "secret" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"token":"t1","message":"Login successful!"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient("", false, 2*time.Second)
	require.NoError(t, err)
	g := New(srv.URL, client, nil)

	res, err := g.Authenticate(context.Background(), "tech", "secret")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)

	res, err = g.Authenticate(context.Background(), "tech", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", res.Message)
	assert.Equal(t, 2, hits)
}

func TestAuthenticate_ClosedServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, &http.Client{Timeout: time.Second}, nil).Authenticate(context.Background(), "u", "p")
	var terr *TransportError
	require.True(t, errors.As(err, &terr), "got %v", err)
}
