package model

import (
	"encoding/json"
	"time"
)

type Book struct {
	Isbn      string `json:"isbn" db:"isbn" validate:"required"`
	AmazonURL string `json:"amazon_url" db:"amazon_url"`
	Author    string `json:"author" db:"author"`
	Language  string `json:"language" db:"language"`
	Pages     int    `json:"pages" db:"pages"`
	Publisher string `json:"publisher" db:"publisher"`
	Title     string `json:"title" db:"title"`
	Year      int    `json:"year" db:"year"`
}

// BookRequest keeps the payload raw so it can be checked field by field before decoding.
type BookRequest struct {
	Book json.RawMessage `json:"book"`
}

type BookResponse struct {
	Book Book `json:"book"`
}

type ListBooks struct {
	Books []Book `json:"books"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message []string `json:"message"`
}

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

type BookEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Isbn       string    `json:"isbn"`
	Book       *Book     `json:"book,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
