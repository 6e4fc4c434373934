package local

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/super-gamer/apiserver/internal/kv"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

// ItemRepository handles persistence for items in the local store.
type ItemRepository struct {
	store kv.Store
}

func NewItemRepository(kvStore kv.Store) *ItemRepository {
	return &ItemRepository{store: kvStore}
}

// ListByCategory returns the items in one category in insertion order.
func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]types.Item, error) {
	items, err := readList[types.Item](r.store, itemsCollection)
	if err != nil {
		return nil, err
	}
	filtered := make([]types.Item, 0)
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (types.Item, error) {
	items, err := readList[types.Item](r.store, itemsCollection)
	if err != nil {
		return types.Item{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return types.Item{}, store.ErrNotFound
}

func (r *ItemRepository) Create(ctx context.Context, item types.Item) (types.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now()

	err := r.store.Update(itemsCollection, func(current []byte) ([]byte, error) {
		items, err := decodeList[types.Item](current)
		if err != nil {
			return nil, err
		}
		return encodeList(append(items, item))
	})
	if err != nil {
		return types.Item{}, err
	}
	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item types.Item) (types.Item, error) {
	err := r.store.Update(itemsCollection, func(current []byte) ([]byte, error) {
		items, err := decodeList[types.Item](current)
		if err != nil {
			return nil, err
		}
		for i, existing := range items {
			if existing.ID == item.ID {
				item.CreatedAt = existing.CreatedAt
				items[i] = item
				return encodeList(items)
			}
		}
		return nil, store.ErrNotFound
	})
	if err != nil {
		return types.Item{}, err
	}
	return item, nil
}

// Delete removes the item and every comment referencing it in one
// read-modify-write over both collections. The store must never leave
// orphaned comments behind, so the cascade cannot be half-applied.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.store.UpdateMany([]string{itemsCollection, commentsCollection}, func(current map[string][]byte) (map[string][]byte, error) {
		items, err := decodeList[types.Item](current[itemsCollection])
		if err != nil {
			return nil, err
		}
		keptItems := items[:0]
		found := false
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			keptItems = append(keptItems, item)
		}
		if !found {
			return nil, store.ErrNotFound
		}

		comments, err := decodeList[types.Comment](current[commentsCollection])
		if err != nil {
			return nil, err
		}
		keptComments := comments[:0]
		for _, comment := range comments {
			if comment.ItemID == id {
				continue
			}
			keptComments = append(keptComments, comment)
		}

		encodedItems, err := encodeList(keptItems)
		if err != nil {
			return nil, err
		}
		encodedComments, err := encodeList(keptComments)
		if err != nil {
			return nil, err
		}
		return map[string][]byte{
			itemsCollection:    encodedItems,
			commentsCollection: encodedComments,
		}, nil
	})
}
