package audit

import (
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxAuditRows = 500

// GET /api/audit-logs?entityType=exit&entityId=...&userId=...
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Model(&models.AuditLog{})

		if entityType := c.Query("entityType"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if s := c.Query("entityId"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid entityId")
			}
			q = q.Where("entity_id = ?", id)
		}
		if s := c.Query("userId"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid userId")
			}
			q = q.Where("user_id = ?", id)
		}

		logs := make([]models.AuditLog, 0)
		if err := q.Order("created_at DESC").Limit(maxAuditRows).Find(&logs).Error; err != nil {
			return err
		}
		return c.JSON(logs)
	}
}
