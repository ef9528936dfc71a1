package audit

import (
	"encoding/json"
	"fmt"

	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the authenticated user on whose behalf a change is made.
type Actor struct {
	UserID   uuid.UUID
	UserName string
}

type LogOptions struct {
	Actor       Actor
	EntityType  string
	EntityID    uuid.UUID
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog records a change using db, which should be the transaction that
// made the change so the log commits or rolls back with it.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	log := models.AuditLog{
		UserID:      opts.Actor.UserID,
		UserName:    opts.Actor.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  marshalOrNull(opts.Before),
		AfterData:   marshalOrNull(opts.After),
	}

	if err := db.Create(&log).Error; err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func marshalOrNull(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
