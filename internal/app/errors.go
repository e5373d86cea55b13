package app

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrMessageEnqueue       = errors.New("message enqueue failed")
)
