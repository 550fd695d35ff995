package screen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/pkg/authgw"
	"netcheck/pkg/form"
	"netcheck/pkg/localdb"
	"netcheck/pkg/model"
	"netcheck/pkg/relay"
)

func openDB(t *testing.T) *localdb.Store {
	t.Helper()
	db, err := localdb.Open(context.Background(), filepath.Join(t.TempDir(), "form_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func completeAll(f *FormScreen) {
	for _, task := range f.Snapshot().Tasks() {
		for _, svc := range task.Services {
			f.Toggle(task.ID, svc.Name)
		}
	}
}

type fakePublisher struct {
	got [][]model.Entry
	err error
}

func (p *fakePublisher) Publish(_ context.Context, entries []model.Entry) (string, error) {
	p.got = append(p.got, entries)
	if p.err != nil {
		return "", p.err
	}
	return "sub-1", nil
}

func TestFormScreen_SubmitValidatesFirst(t *testing.T) {
	db := openDB(t)
	f := NewFormScreen(db)
	f.Toggle("1", "Services: External")

	_, err := f.Submit(context.Background())
	var verr *form.ValidationError
	require.True(t, errors.As(err, &verr))

	rows, _, err := f.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFormScreen_RepeatedSubmitAccumulates(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	pub := &fakePublisher{}
	f := NewFormScreen(db, WithPublisher(pub))
	completeAll(f)
	f.EditComment("2", "Services: Ping Response Range", "7ms")

	res, err := f.Submit(ctx)
	require.NoError(t, err)
	n := len(f.Snapshot().Entries())
	assert.Equal(t, n, res.Saved)
	assert.Equal(t, "sub-1", res.SubmissionID)
	assert.Equal(t, "Success", res.Alert.Title)

	f.EditComment("2", "Services: Ping Response Range", "11ms")
	_, err = f.Submit(ctx)
	require.NoError(t, err)

	rows, alert, err := f.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fetched Data", alert.Title)
	require.Len(t, rows, 2*n)
	var pings []string
	for _, r := range rows {
		if r.TaskID == "2" && r.ServiceName == "Services: Ping Response Range" {
			pings = append(pings, r.Comment)
		}
	}
	assert.Equal(t, []string{"7ms", "11ms"}, pings)
	assert.Len(t, pub.got, 2)
}

func TestFormScreen_RelayFailureKeepsLocalSave(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	pub := &fakePublisher{err: &relay.Error{Op: "dial", Err: errors.New("refused")}}
	f := NewFormScreen(db, WithPublisher(pub))
	completeAll(f)

	res, err := f.Submit(ctx)
	require.NoError(t, err)
	require.Error(t, res.RelayErr)
	assert.Equal(t, "Sync Warning", res.Alert.Title)

	rows, _, err := f.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, res.Saved)
}

func TestFormScreen_StorageFailuresAreAlerts(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	f := NewFormScreen(db)
	completeAll(f)
	require.NoError(t, db.Close())

	res, err := f.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, "Storage Error", res.Alert.Title)

	_, alert, err := f.FetchAll(ctx)
	require.Error(t, err)
	assert.Equal(t, "Saved data could not be read.", alert.Message)
}

func TestAlertFor_UnreachableStorage(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := localdb.Open(context.Background(), filepath.Join(blocker, "form_data.db"))
	require.Error(t, err)
	assert.Equal(t, Alert{Title: "Storage Error", Message: "The local database could not be prepared."}, AlertFor(err))
}

func TestFormScreen_TasksFilter(t *testing.T) {
	f := NewFormScreen(openDB(t))
	var got []string
	for task := range f.Tasks("vpn") {
		got = append(got, task.ID)
	}
	assert.Equal(t, []string{"6", "7"}, got)
}

type fakeAuth struct {
	res   authgw.Result
	err   error
	calls int
}

func (a *fakeAuth) Authenticate(context.Context, string, string) (authgw.Result, error) {
	a.calls++
	return a.res, a.err
}

func TestLoginScreen_Outcomes(t *testing.T) {
	cases := []struct {
		name     string
		auth     *fakeAuth
		want     Outcome
		title    string
		navigate bool
	}{
		{"ok", &fakeAuth{res: authgw.Result{Authenticated: true, Token: "t"}}, Authenticated, "Success", true},
		{"blank", &fakeAuth{err: &authgw.LocalValidationError{Field: "Username"}}, Invalid, "Error", false},
		{"rejected", &fakeAuth{err: &authgw.AuthRejectedError{Status: 401, Message: "bad creds"}}, Rejected, "Login Failed", false},
		{"transport", &fakeAuth{err: &authgw.TransportError{URL: "x", Err: errors.New("dns")}}, TransportFailure, "Error", false},
		{"other", &fakeAuth{err: errors.New("boom")}, Failed, "Error", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			navigated := false
			l := NewLoginScreen(tc.auth, func(LoginResult) { navigated = true })
			got := l.Submit(context.Background(), "u", "p")
			assert.Equal(t, tc.want, got.Outcome)
			assert.Equal(t, tc.title, got.Alert.Title)
			assert.Equal(t, tc.navigate, navigated)
		})
	}
}

func TestLoginScreen_ThroughGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad creds"}`))
	}))
	defer srv.Close()

	l := NewLoginScreen(authgw.New(srv.URL, srv.Client(), nil), nil)
	got := l.Submit(context.Background(), "user", "pass")
	assert.Equal(t, Rejected, got.Outcome)
	assert.Equal(t, "bad creds", got.Alert.Message)
	assert.Equal(t, "rejected", got.Outcome.String())
}
