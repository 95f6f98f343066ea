package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DocumentPageImage struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentPageId uuid.UUID      `gorm:"type:uuid;not null;index"`
	FileURL        string         `gorm:"type:varchar(512);not null"`
	Position       int            `gorm:"default:0"`
	Dimensions     datatypes.JSON `gorm:"type:jsonb"` // {"width":..,"height":..}
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (DocumentPageImage) TableName() string {
	return "document_page_images"
}
