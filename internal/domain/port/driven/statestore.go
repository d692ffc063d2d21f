package driven

import "github.com/reviewinator/reviewinator/internal/domain/model"

// StateStore defines the driven port for the durable poll cache.
type StateStore interface {
	// Load returns the persisted state. A missing or corrupt cache yields an
	// empty State, never an error.
	Load() *model.State

	// Save persists the state. Failures are reported but callers treat them
	// as recoverable: the next poll simply rewrites the cache.
	Save(st *model.State) error
}
