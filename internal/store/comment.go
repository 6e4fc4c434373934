package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/super-gamer/apiserver/types"
)

// CommentRepository handles persistence for comments.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListForItem returns the comments for one item in one category,
// newest first.
func (r *CommentRepository) ListForItem(ctx context.Context, itemID, category string) ([]types.Comment, error) {
	const query = `
		SELECT id, item_id, category, text, user_id, user_name, created_at
		FROM comments
		WHERE item_id = $1 AND category = $2
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, itemID, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var comment types.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.ItemID,
			&comment.Category,
			&comment.Text,
			&comment.UserID,
			&comment.UserName,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now()

	const query = `
		INSERT INTO comments (id, item_id, category, text, user_id, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.ItemID,
		comment.Category,
		comment.Text,
		comment.UserID,
		comment.UserName,
		comment.CreatedAt,
	); err != nil {
		return types.Comment{}, err
	}
	return comment, nil
}
