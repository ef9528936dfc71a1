package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a counterparty of entries (seller) and exits (buyer).
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"size:150" json:"email"`
	Phone     string    `gorm:"size:50" json:"phone"`
	City      string    `gorm:"size:100" json:"city"`
	RFC       string    `gorm:"column:rfc;size:20" json:"rfc"`
	CURP      string    `gorm:"column:curp;size:20" json:"curp"`
	Address   string    `gorm:"size:255" json:"address"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
