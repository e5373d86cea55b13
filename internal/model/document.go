package model

import "time"

// Document is one ingested source owned by a conversation. Namespace is the
// vector index partition holding exactly this document's chunks; it stays
// stable for the document's lifetime and dies with it.
type Document struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"conversation_id"`
	Filename       string    `gorm:"size:256;not null" json:"filename"` // generated storage name
	OriginalName   string    `gorm:"size:256;not null" json:"original_name"`
	Path           string    `gorm:"size:512" json:"path"`
	Namespace      string    `gorm:"size:256;not null;uniqueIndex" json:"namespace"`
	Pages          int       `json:"pages"`
	Title          string    `gorm:"size:256" json:"title"`
	Author         string    `gorm:"size:256" json:"author"`
	Size           int64     `json:"size"`
	ChunkCount     int       `json:"chunk_count"`
	UploadedAt     time.Time `json:"uploaded_at"`
}
