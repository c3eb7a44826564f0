package domain

import "github.com/google/uuid"

// Category is a taxonomy term assignable to stories.
type Category struct {
	ID   uuid.UUID
	Slug string
	Name string
	// StoryCount is populated by listing queries; zero when not loaded.
	StoryCount int
}

// StoryCategory links a category to a story. Used for batched loading.
type StoryCategory struct {
	Category
	StoryID uuid.UUID
}
