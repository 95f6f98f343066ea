package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	Filename  string
	PageCount int
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type DocumentPage struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;index"`
	PageNumber int
	Content    string
	Title      string // joined from documents
	Embedding  []float32
	Images     []*DocumentPageImage
	CreatedAt  time.Time
}

type DocumentPageImage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentPageId uuid.UUID `gorm:"type:uuid;index"`
	FileURL        string
	Position       int
	Dimensions     string
	CreatedAt      time.Time
}
