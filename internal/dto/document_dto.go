package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentItem struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
}

type ListDocumentsResponse struct {
	Documents []DocumentItem `json:"documents"`
}
