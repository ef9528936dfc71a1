package dashboard

import (
	"context"

	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stats is recomputed from the tables on every call. Every field is always
// present, zero on an empty store.
type Stats struct {
	InventoryValue decimal.Decimal `json:"inventoryValue"`
	HeadCount      int64           `json:"headCount"`
	TotalProfit    decimal.Decimal `json:"totalProfit"`
	ClientCount    int64           `json:"clientCount"`
}

func ComputeStats(ctx context.Context, db *gorm.DB) (Stats, error) {
	db = db.WithContext(ctx)
	stats := Stats{InventoryValue: decimal.Zero, TotalProfit: decimal.Zero}

	var stock struct {
		HeadCount      int64
		InventoryValue decimal.Decimal
	}
	err := db.Model(&models.Animal{}).
		Select("COUNT(*) AS head_count, COALESCE(SUM(purchase_price), 0) AS inventory_value").
		Where("status = ?", models.AnimalInStock).
		Scan(&stock).Error
	if err != nil {
		return stats, err
	}
	stats.HeadCount = stock.HeadCount
	stats.InventoryValue = stock.InventoryValue

	err = db.Model(&models.Exit{}).
		Select("COALESCE(SUM(total_profit), 0)").
		Row().
		Scan(&stats.TotalProfit)
	if err != nil {
		return stats, err
	}

	if err := db.Model(&models.Client{}).Count(&stats.ClientCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// GET /api/stats
func StatsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := ComputeStats(c.UserContext(), db)
		if err != nil {
			return err
		}
		return c.JSON(stats)
	}
}
