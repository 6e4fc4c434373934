// Package local implements the repositories on top of a kv.Store.
// It is the single canonical replacement for the browser-local-storage
// shim the frontends used to ship in triplicate: the same three
// collections, the same whole-collection read-modify-write, but
// serialized per collection and shared by every caller.
package local

import (
	"encoding/json"

	"github.com/super-gamer/apiserver/internal/kv"
)

// Collection names, matching the original localStorage keys.
const (
	usersCollection    = "users"
	itemsCollection    = "items"
	commentsCollection = "comments"
)

func decodeList[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func encodeList[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(records)
}

func readList[T any](store kv.Store, collection string) ([]T, error) {
	data, err := store.Get(collection)
	if err != nil {
		return nil, err
	}
	return decodeList[T](data)
}
