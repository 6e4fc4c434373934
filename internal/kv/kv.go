// Package kv provides a durable collection-oriented key-value store.
// Each collection holds the serialized list of records for one entity
// and is read and written as a whole, with writers serialized per
// collection.
package kv

// Store abstracts collection access so repositories can run against a
// file on disk or plain memory.
type Store interface {
	// Get returns the raw contents of the named collection, or nil if
	// the collection has never been written.
	Get(collection string) ([]byte, error)

	// Put atomically replaces the contents of the named collection.
	Put(collection string, data []byte) error

	// Update applies fn to the current contents of the collection and
	// writes back its result, holding the collection's write lock for
	// the whole read-modify-write. Two interleaved writers can never
	// lose an update.
	Update(collection string, fn func(current []byte) ([]byte, error)) error

	// UpdateMany applies fn to the current contents of several
	// collections under all of their locks at once, so cross-collection
	// invariants (an item delete cascading to its comments) cannot be
	// interleaved or half-applied by a failing fn. Only collections
	// present in fn's result are written. Writes happen in sorted
	// collection name order.
	UpdateMany(collections []string, fn func(current map[string][]byte) (map[string][]byte, error)) error
}
