package models

// Category is a named grouping for posts, addressed by its unique slug.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;index" json:"name"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	// PostsCount is not persisted; computed at query time
	PostsCount int `gorm:"->" json:"posts_count"`
}
