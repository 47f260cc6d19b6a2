package models

import (
	"time"

	"github.com/nmoreno/biblio-backend/pkg/types"
)

// Book represents a catalog entry with its current availability count.
// QuantityAvailable is mutated only by checkout/return, never by profile
// updates, and can never go negative.
type Book struct {
	ID                types.BookID `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string       `gorm:"column:title;not null" json:"title"`
	Author            string       `gorm:"column:author;not null" json:"author"`
	Genre             string       `gorm:"column:genre" json:"genre"`
	ISBN              string       `gorm:"column:isbn;type:text;not null;uniqueIndex" json:"isbn"`
	PublicationYear   int          `gorm:"column:publication_year" json:"publication_year"`
	QuantityAvailable int          `gorm:"column:quantity_available;not null;default:0" json:"quantity_available"`
	Location          string       `gorm:"column:location" json:"location"`
	AddedAt           time.Time    `gorm:"column:added_at;autoCreateTime" json:"added_at"`
	UpdatedAt         time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
