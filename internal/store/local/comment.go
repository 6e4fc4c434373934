package local

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/super-gamer/apiserver/internal/kv"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

// CommentRepository handles persistence for comments in the local store.
type CommentRepository struct {
	store kv.Store
}

func NewCommentRepository(kvStore kv.Store) *CommentRepository {
	return &CommentRepository{store: kvStore}
}

// ListForItem returns the comments for one item in one category,
// newest first.
func (r *CommentRepository) ListForItem(ctx context.Context, itemID, category string) ([]types.Comment, error) {
	comments, err := readList[types.Comment](r.store, commentsCollection)
	if err != nil {
		return nil, err
	}
	filtered := make([]types.Comment, 0)
	for _, comment := range comments {
		if comment.ItemID == itemID && comment.Category == category {
			filtered = append(filtered, comment)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})
	return filtered, nil
}

// Create appends the comment while holding the item collection lock
// too, so a concurrent item delete cannot slip between the existence
// check and the append.
func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now()

	err := r.store.UpdateMany([]string{itemsCollection, commentsCollection}, func(current map[string][]byte) (map[string][]byte, error) {
		items, err := decodeList[types.Item](current[itemsCollection])
		if err != nil {
			return nil, err
		}
		exists := false
		for _, item := range items {
			if item.ID == comment.ItemID {
				exists = true
				break
			}
		}
		if !exists {
			return nil, store.ErrNotFound
		}

		comments, err := decodeList[types.Comment](current[commentsCollection])
		if err != nil {
			return nil, err
		}
		encoded, err := encodeList(append(comments, comment))
		if err != nil {
			return nil, err
		}
		return map[string][]byte{commentsCollection: encoded}, nil
	})
	if err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}
