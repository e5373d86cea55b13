package model

import (
	"encoding/json"
	"time"
)

// Message belongs to exactly one conversation and is append-only.
// Citations are stored as a JSON array in a text column for portability;
// over the wire (API, queue, cache) they appear as a structured list.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;index"`
	Role           string    `gorm:"size:16;not null;index"`
	Content        string    `gorm:"type:text;not null"`
	Citations      string    `gorm:"type:text"` // JSON array of Citation
	CreatedAt      time.Time
}

// CitationList returns the parsed citations; empty on parse error.
func (m *Message) CitationList() []Citation {
	if m.Citations == "" {
		return nil
	}
	var list []Citation
	_ = json.Unmarshal([]byte(m.Citations), &list)
	return list
}

// SetCitations stores the citations as JSON.
func (m *Message) SetCitations(list []Citation) {
	if len(list) == 0 {
		m.Citations = ""
		return
	}
	b, _ := json.Marshal(list)
	m.Citations = string(b)
}

type messageJSON struct {
	ID             uint       `json:"id"`
	ConversationID uint       `json:"conversation_id"`
	Role           string     `json:"role"`
	Content        string     `json:"content"`
	Citations      []Citation `json:"citations,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Content:        m.Content,
		Citations:      m.CitationList(),
		CreatedAt:      m.CreatedAt,
	})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var j messageJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	m.ID = j.ID
	m.ConversationID = j.ConversationID
	m.Role = j.Role
	m.Content = j.Content
	m.CreatedAt = j.CreatedAt
	m.SetCitations(j.Citations)
	return nil
}
