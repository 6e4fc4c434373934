package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/super-gamer/apiserver/types"
)

// ItemRepository handles persistence for items.
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]types.Item, error) {
	const query = `
		SELECT id, title, description, image_url, official_link, category, created_at
		FROM items
		WHERE category = $1
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]types.Item, 0)
	for rows.Next() {
		var item types.Item
		if err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Description,
			&item.ImageURL,
			&item.OfficialLink,
			&item.Category,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) Get(ctx context.Context, id string) (types.Item, error) {
	const query = `
		SELECT id, title, description, image_url, official_link, category, created_at
		FROM items
		WHERE id = $1`
	var item types.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.ImageURL,
		&item.OfficialLink,
		&item.Category,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Item{}, ErrNotFound
		}
		return types.Item{}, err
	}
	return item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item types.Item) (types.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now()

	const query = `
		INSERT INTO items (id, title, description, image_url, official_link, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.Title,
		item.Description,
		item.ImageURL,
		item.OfficialLink,
		item.Category,
		item.CreatedAt,
	); err != nil {
		return types.Item{}, err
	}
	return item, nil
}

func (r *ItemRepository) Update(ctx context.Context, item types.Item) (types.Item, error) {
	const query = `
		UPDATE items
		SET title = $1,
			description = $2,
			image_url = $3,
			official_link = $4,
			category = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		item.Title,
		item.Description,
		item.ImageURL,
		item.OfficialLink,
		item.Category,
		item.ID,
	)
	if err != nil {
		return types.Item{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Item{}, err
	}
	if affected == 0 {
		return types.Item{}, ErrNotFound
	}
	return item, nil
}

// Delete removes the item and every comment referencing it in one
// transaction. The comments table also carries ON DELETE CASCADE, so
// the explicit delete keeps both backends honest about the same
// guarantee.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE item_id = $1`, id); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
