package types

import "time"

// Content categories an item can belong to.
const (
	CategoryGames  = "games"
	CategoryHeroes = "heroes"
)

// ValidCategory reports whether category names a known content category.
func ValidCategory(category string) bool {
	return category == CategoryGames || category == CategoryHeroes
}

// Item represents a content entry in the Super Gamer catalog: a video
// game or a superhero, depending on its category.
type Item struct {
	// ID is the unique identifier of the item.
	ID string `json:"id" db:"id"`

	// Title is the human-readable name of the item.
	Title string `json:"title" db:"title"`

	// Description contains the free-form text shown on the detail page.
	Description string `json:"description" db:"description"`

	// ImageURL points at the cover image for the item. It is either
	// supplied by the admin or set by an image upload.
	ImageURL string `json:"image_url" db:"image_url"`

	// OfficialLink is an external URL to the item's official page.
	OfficialLink string `json:"official_link" db:"official_link"`

	// Category partitions items into "games" or "heroes".
	Category string `json:"category" db:"category"`

	// CreatedAt is the timestamp at which the item was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ItemPatch carries a partial item update. Nil fields are left
// untouched by the merge.
type ItemPatch struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	OfficialLink *string `json:"official_link"`
	Category     *string `json:"category"`
}

// Apply merges the patch onto item, returning the merged copy.
func (p ItemPatch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.OfficialLink != nil {
		item.OfficialLink = *p.OfficialLink
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	return item
}
