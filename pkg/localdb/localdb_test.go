package localdb

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcheck/pkg/form"
	"netcheck/pkg/model"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "form_data.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func tuple(e model.Entry) [5]string {
	return [5]string{e.TaskID, e.System, e.ServiceName, e.State, e.Comment}
}

func TestInsertBatch_FetchAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	snap := form.New()
	for _, task := range snap.Tasks() {
		for _, svc := range task.Services {
			snap = snap.Toggle(task.ID, svc.Name)
		}
	}
	snap = snap.SetComment("2", "Services: Ping Response Range", "8ms")
	entries := snap.Entries()
	require.NoError(t, s.InsertBatch(ctx, entries))

	got, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(entries))

	want := map[[5]string]int{}
	for _, e := range entries {
		want[tuple(e)]++
	}
	for _, e := range got {
		assert.NotZero(t, e.ID)
		want[tuple(e)]--
	}
	for k, n := range want {
		assert.Zero(t, n, "unmatched tuple %v", k)
	}
}

func TestInsertEntry_DuplicatesAccumulate(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	e := model.Entry{TaskID: "1", System: "Internet Services", ServiceName: "Services: External", State: "OK", Comment: "Connected"}

	id1, err := s.InsertEntry(ctx, e)
	require.NoError(t, err)
	id2, err := s.InsertEntry(ctx, e)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	rows, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, id1, rows[0].ID)
	assert.Equal(t, tuple(e), tuple(rows[1]))
}

func TestEnsureSchema_IdempotentAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	_, err := s.InsertEntry(ctx, model.Entry{TaskID: "5", System: "Trust School", ServiceName: "Service: Connectivity", State: "Not OK", Comment: "down"})
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Close())

	again, err := Open(ctx, path)
	require.NoError(t, err)
	defer again.Close()
	require.NoError(t, again.EnsureSchema(ctx))
	rows, err := again.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "down", rows[0].Comment)
}

func TestInsertBatch_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	_, err := s.db.ExecContext(ctx, `CREATE TRIGGER reject_boom BEFORE INSERT ON form_data
		WHEN NEW.comment = 'boom' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	batch := []model.Entry{
		{TaskID: "1", ServiceName: "a", Comment: "fine"},
		{TaskID: "1", ServiceName: "b", Comment: "fine"},
		{TaskID: "1", ServiceName: "c", Comment: "boom"},
	}
	err = s.InsertBatch(ctx, batch)
	var werr *WriteError
	require.True(t, errors.As(err, &werr), "got %v", err)
	assert.Equal(t, 2, werr.Index)

	rows, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClosedStoreReportsTypedErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	var serr *SchemaError
	require.True(t, errors.As(s.EnsureSchema(ctx), &serr))
	assert.ErrorIs(t, serr, ErrClosed)

	_, err := s.InsertEntry(ctx, model.Entry{})
	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, -1, werr.Index)

	err = s.InsertBatch(ctx, nil)
	require.True(t, errors.As(err, &werr))

	_, err = s.FetchAll(ctx)
	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpen_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "form_data.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 512), 0o600))
	s, err := Open(context.Background(), path)
	if s != nil {
		defer s.Close()
	}
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
}

func TestOpen_UnreachableDirIsSchemaError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	s, err := Open(context.Background(), filepath.Join(blocker, "sub", "form_data.db"))
	assert.Nil(t, s)
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, err.Error(), "create data dir")
}

func TestOpen_InMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.InsertBatch(ctx, form.New().Entries()))
	rows, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, len(form.New().Entries()))
}
