package localdb

import "fmt"

// SchemaError reports that the storage is unreachable or the form_data table
// could not be created.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return fmt.Sprintf("local store schema: %v", e.Err) }
func (e *SchemaError) Unwrap() error { return e.Err }

// WriteError reports a failed insert. Index is the position of the failing
// entry within a batch, or -1 for a single insert or a commit failure.
type WriteError struct {
	Index int
	Err   error
}

func (e *WriteError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("local store write (entry %d): %v", e.Index, e.Err)
	}
	return fmt.Sprintf("local store write: %v", e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FetchError reports a failed read of saved entries.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("local store fetch: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
