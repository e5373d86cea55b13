package model

import "time"

// Conversation groups uploaded documents and an ordered message history.
// UpdatedAt moves forward on every mutation (new message, document change,
// title edit) so listings stay sorted by recency.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
