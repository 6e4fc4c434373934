package services

import (
	"context"
	"errors"

	"github.com/super-gamer/apiserver/types"
)

// ErrInvalidCategory is returned when a category is neither "games"
// nor "heroes".
var ErrInvalidCategory = errors.New("invalid category")

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	ListByCategory(ctx context.Context, category string) ([]types.Item, error)
	Get(ctx context.Context, id string) (types.Item, error)
	Create(ctx context.Context, item types.Item) (types.Item, error)
	Update(ctx context.Context, item types.Item) (types.Item, error)
	Delete(ctx context.Context, id string) error
}

// ItemService encapsulates catalog use-cases.
type ItemService struct {
	repo ItemRepository
}

func NewItemService(repo ItemRepository) *ItemService {
	return &ItemService{repo: repo}
}

// List returns every item in the category, in insertion order.
func (s *ItemService) List(ctx context.Context, category string) ([]types.Item, error) {
	if !types.ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.repo.ListByCategory(ctx, category)
}

func (s *ItemService) Get(ctx context.Context, id string) (types.Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *ItemService) Create(ctx context.Context, item types.Item) (types.Item, error) {
	if !types.ValidCategory(item.Category) {
		return types.Item{}, ErrInvalidCategory
	}
	return s.repo.Create(ctx, item)
}

// Patch applies a shallow merge onto the stored item: fields absent
// from the patch keep their current values.
func (s *ItemService) Patch(ctx context.Context, id string, patch types.ItemPatch) (types.Item, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Item{}, err
	}

	merged := patch.Apply(current)
	if !types.ValidCategory(merged.Category) {
		return types.Item{}, ErrInvalidCategory
	}
	return s.repo.Update(ctx, merged)
}

// Delete removes the item together with all of its comments.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetImageURL records the public URL of an uploaded item image.
func (s *ItemService) SetImageURL(ctx context.Context, id, url string) (types.Item, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Item{}, err
	}
	current.ImageURL = url
	return s.repo.Update(ctx, current)
}
