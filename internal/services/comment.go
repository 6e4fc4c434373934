package services

import (
	"context"
	"strings"

	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListForItem(ctx context.Context, itemID, category string) ([]types.Comment, error)
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// ItemGetter is the slice of the item repository the comment service
// needs to verify an item exists.
type ItemGetter interface {
	Get(ctx context.Context, id string) (types.Item, error)
}

// CommentService encapsulates comment use-cases.
type CommentService struct {
	repo  CommentRepository
	items ItemGetter
}

func NewCommentService(repo CommentRepository, items ItemGetter) *CommentService {
	return &CommentService{repo: repo, items: items}
}

// List returns the comments for one item in one category, newest
// first.
func (s *CommentService) List(ctx context.Context, itemID, category string) ([]types.Comment, error) {
	if !types.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.repo.ListForItem(ctx, itemID, category)
}

// Create posts a comment as the given author. The text is validated
// here rather than trusted to the UI, and the category is stamped from
// the owning item so a listing filter can never miss it.
func (s *CommentService) Create(ctx context.Context, itemID, text string, author types.User) (types.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Comment{}, store.ErrEmptyText
	}

	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return types.Comment{}, err
	}

	return s.repo.Create(ctx, types.Comment{
		ItemID:   item.ID,
		Category: item.Category,
		Text:     text,
		UserID:   author.ID,
		UserName: author.Name,
	})
}
