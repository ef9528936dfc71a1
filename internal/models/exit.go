package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Exit is a batch sale. TotalProfit always equals the sum of its details' profit.
type Exit struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"clientId"`
	Client        *Client         `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	InvoiceNumber string          `gorm:"size:100" json:"invoiceNumber"`
	GuideNumber   string          `gorm:"size:100" json:"guideNumber"`
	ExitFolio     string          `gorm:"size:100" json:"exitFolio"`
	Observations  string          `gorm:"size:1000" json:"observations"`
	Date          time.Time       `gorm:"index;not null" json:"date"`
	TotalProfit   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"totalProfit"`
	Details       []ExitDetail    `gorm:"foreignKey:ExitID" json:"details,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ExitDetail struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ExitID   uuid.UUID       `gorm:"type:uuid;index;not null" json:"exitId"`
	AnimalID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"animalId"`
	Animal   *Animal         `gorm:"foreignKey:AnimalID;constraint:OnDelete:RESTRICT" json:"animal,omitempty"`
	Weight   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"weight"`
	Price    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	Profit   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"profit"`
}

func (e *Exit) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (d *ExitDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
