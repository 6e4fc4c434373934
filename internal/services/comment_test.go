package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/super-gamer/apiserver/internal/store"
	"github.com/super-gamer/apiserver/types"
)

type fakeComments struct {
	created []types.Comment
}

var _ CommentRepository = (*fakeComments)(nil)

func (f *fakeComments) ListForItem(_ context.Context, itemID, category string) ([]types.Comment, error) {
	var out []types.Comment
	for _, c := range f.created {
		if c.ItemID == itemID && c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	comment.ID = "c1"
	f.created = append(f.created, comment)
	return comment, nil
}

type fakeItems struct {
	byID map[string]types.Item
}

var _ ItemGetter = (*fakeItems)(nil)

func (f *fakeItems) Get(_ context.Context, id string) (types.Item, error) {
	item, ok := f.byID[id]
	if !ok {
		return types.Item{}, store.ErrNotFound
	}
	return item, nil
}

func TestCommentCreateRejectsEmptyText(t *testing.T) {
	svc := NewCommentService(&fakeComments{}, &fakeItems{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Create(context.Background(), "i1", text, types.User{ID: "u1"})
		require.ErrorIs(t, err, store.ErrEmptyText)
	}
}

func TestCommentCreateMissingItem(t *testing.T) {
	svc := NewCommentService(&fakeComments{}, &fakeItems{byID: map[string]types.Item{}})

	_, err := svc.Create(context.Background(), "nope", "hello", types.User{ID: "u1"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCommentCreateStampsAuthorAndCategory(t *testing.T) {
	repo := &fakeComments{}
	items := &fakeItems{byID: map[string]types.Item{
		"i1": {ID: "i1", Category: types.CategoryGames},
	}}
	svc := NewCommentService(repo, items)

	created, err := svc.Create(context.Background(), "i1", "  Great game  ", types.User{ID: "u1", Name: "Alex"})
	require.NoError(t, err)
	require.Equal(t, "Great game", created.Text)
	require.Equal(t, types.CategoryGames, created.Category)
	require.Equal(t, "u1", created.UserID)
	require.Equal(t, "Alex", created.UserName)
}

func TestCommentListValidatesCategory(t *testing.T) {
	svc := NewCommentService(&fakeComments{}, &fakeItems{})

	_, err := svc.List(context.Background(), "i1", "movies")
	require.ErrorIs(t, err, ErrInvalidCategory)
}
