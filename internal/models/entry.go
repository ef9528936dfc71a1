package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry is a batch purchase of animals. Append-only once committed.
type Entry struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"clientId"`
	Client        *Client       `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT" json:"client,omitempty"`
	InvoiceNumber string        `gorm:"size:100" json:"invoiceNumber"`
	GuideNumber   string        `gorm:"size:100" json:"guideNumber"`
	EntryFolio    string        `gorm:"size:100" json:"entryFolio"`
	Observations  string        `gorm:"size:1000" json:"observations"`
	Date          time.Time     `gorm:"index;not null" json:"date"`
	Details       []EntryDetail `gorm:"foreignKey:EntryID" json:"details,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// EntryDetail snapshots an animal's weight and price at entry time.
type EntryDetail struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EntryID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"entryId"`
	AnimalID uuid.UUID       `gorm:"type:uuid;index;not null" json:"animalId"`
	Animal   *Animal         `gorm:"foreignKey:AnimalID;constraint:OnDelete:RESTRICT" json:"animal,omitempty"`
	Weight   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"weight"`
	Price    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
}

func (e *Entry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (d *EntryDetail) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
