package types

import "time"

// Comment represents a user comment on an item. Comments are
// append-only: they are never edited, and are removed only when their
// owning item is deleted.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID string `json:"id" db:"id"`

	// ItemID references the item this comment was posted on.
	ItemID string `json:"item_id" db:"item_id"`

	// Category mirrors the owning item's category.
	Category string `json:"category" db:"category"`

	// Text is the comment body.
	Text string `json:"text" db:"text"`

	// UserID references the author.
	UserID string `json:"user_id" db:"user_id"`

	// UserName is the author's display name snapshotted at post time;
	// it does not follow later profile renames.
	UserName string `json:"user_name" db:"user_name"`

	// CreatedAt is the timestamp at which the comment was posted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
