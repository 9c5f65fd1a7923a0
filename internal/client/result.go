package client

import "github.com/AnshRaj112/mindtrack/internal/models"

// Source says which store produced a result.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Result carries an operation's value and where it came from. RemoteErr is
// the availability failure that caused a local fallback, nil otherwise.
type Result[T any] struct {
	Value     T
	Source    Source
	RemoteErr error
}

// FromFallback reports whether the value came from the local store.
func (r Result[T]) FromFallback() bool {
	return r.Source == SourceLocal
}

type (
	Entry   = models.EntryRecord
	Contact = models.ContactRecord
)
