package screen

import (
	"context"
	"iter"

	"go.uber.org/zap"

	"netcheck/pkg/form"
	"netcheck/pkg/model"
)

// EntryStore is the local persistence the form screen writes to.
type EntryStore interface {
	InsertBatch(ctx context.Context, entries []model.Entry) error
	FetchAll(ctx context.Context) ([]model.Entry, error)
}

// Publisher forwards a saved batch to the controller.
type Publisher interface {
	Publish(ctx context.Context, entries []model.Entry) (string, error)
}

// SubmitResult describes a successful local save.
type SubmitResult struct {
	Saved        int
	SubmissionID string
	// RelayErr is set when the local save succeeded but the controller
	// could not be reached; the saved rows are kept.
	RelayErr error
	Alert    Alert
}

// FormScreen holds the current checklist snapshot for a host.
type FormScreen struct {
	snap  *form.Store
	db    EntryStore
	relay Publisher
	log   *zap.Logger
}

// FormOption configures a FormScreen.
type FormOption func(*FormScreen)

// WithPublisher relays every successful save.
func WithPublisher(p Publisher) FormOption {
	return func(f *FormScreen) { f.relay = p }
}

// WithFormLogger sets the logger.
func WithFormLogger(l *zap.Logger) FormOption {
	return func(f *FormScreen) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFormScreen mounts the form with a fresh catalog snapshot.
func NewFormScreen(db EntryStore, opts ...FormOption) *FormScreen {
	f := &FormScreen{snap: form.New(), db: db, log: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Snapshot is the current immutable state.
func (f *FormScreen) Snapshot() *form.Store { return f.snap }

// Tasks yields the tasks matching search.
func (f *FormScreen) Tasks(search string) iter.Seq[model.Task] {
	return f.snap.Filter(search)
}

// Toggle flips a service state.
func (f *FormScreen) Toggle(taskID, serviceName string) *form.Store {
	f.snap = f.snap.Toggle(taskID, serviceName)
	return f.snap
}

// EditComment replaces a service comment.
func (f *FormScreen) EditComment(taskID, serviceName, text string) *form.Store {
	f.snap = f.snap.SetComment(taskID, serviceName, text)
	return f.snap
}

// Submit validates the snapshot and appends every pair to the local store.
// The snapshot is kept afterwards, so submitting again appends again.
func (f *FormScreen) Submit(ctx context.Context) (SubmitResult, error) {
	if err := f.snap.Validate(); err != nil {
		return SubmitResult{Alert: AlertFor(err)}, err
	}
	entries := f.snap.Entries()
	if err := f.db.InsertBatch(ctx, entries); err != nil {
		f.log.Error("save failed", zap.Error(err))
		return SubmitResult{Alert: AlertFor(err)}, err
	}
	res := SubmitResult{Saved: len(entries), Alert: Alert{Title: "Success", Message: "Data saved locally."}}
	if f.relay == nil {
		return res, nil
	}
	id, err := f.relay.Publish(ctx, entries)
	if err != nil {
		f.log.Warn("relay failed", zap.Error(err))
		res.RelayErr = err
		res.Alert = AlertFor(err)
		return res, nil
	}
	res.SubmissionID = id
	res.Alert.Message = "Data saved locally and sent to the controller."
	return res, nil
}

// FetchAll returns every saved row.
func (f *FormScreen) FetchAll(ctx context.Context) ([]model.Entry, Alert, error) {
	rows, err := f.db.FetchAll(ctx)
	if err != nil {
		return nil, AlertFor(err), err
	}
	return rows, Alert{Title: "Fetched Data"}, nil
}
