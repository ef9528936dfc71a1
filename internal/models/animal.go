package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnimalStatus string

const (
	AnimalInStock AnimalStatus = "IN_STOCK"
	AnimalSold    AnimalStatus = "SOLD"
)

func init() {
	// Money and weights go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Animal is created only by an entry and mutated only by an exit.
type Animal struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Tag           string          `gorm:"size:64;not null;uniqueIndex" json:"tag"`
	Species       string          `gorm:"size:50" json:"species"`
	Weight        decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"weight"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"purchasePrice"`
	PurchaseDate  time.Time       `gorm:"not null" json:"purchaseDate"`
	Status        AnimalStatus    `gorm:"size:20;not null;index" json:"status"`
	Pen           string          `gorm:"size:50" json:"pen"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (a *Animal) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
