package app

import "deepdocs/internal/model"

// Durable store contracts, satisfied by the gorm repositories.

type ConversationStore interface {
	Create(conversation *model.Conversation) error
	GetByID(id uint) (*model.Conversation, error)
	List() ([]model.Conversation, error)
	UpdateTitle(id uint, title string) error
	Touch(id uint) error
	Delete(id uint) error
}

type MessageStore interface {
	Create(message *model.Message) error
	ListRecentByConversationID(conversationID uint, limit int) ([]model.Message, error)
	DeleteByConversationID(conversationID uint) error
}

type DocumentStore interface {
	Create(document *model.Document) error
	GetByID(id uint) (*model.Document, error)
	ListByConversationID(conversationID uint) ([]model.Document, error)
	Delete(id uint) error
}
