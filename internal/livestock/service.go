package livestock

import (
	"context"
	"errors"
	"time"

	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// amountScale matches the numeric(_,2) columns weights and money are stored in.
// Inputs are rounded to it up front so stored profits add up to the stored total.
const amountScale = 2

// Service runs the entry and exit workflows. Every write happens inside a
// single transaction, so a failed batch leaves no trace.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log, now: time.Now}
}

func ensureClient(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newError(ErrClientNotFound, "Client %s does not exist.", id)
	}
	return nil
}

// ListInStock returns animals still available for sale, newest first.
func (s *Service) ListInStock(ctx context.Context) ([]models.Animal, error) {
	animals := make([]models.Animal, 0)
	err := s.db.WithContext(ctx).
		Where("status = ?", models.AnimalInStock).
		Order("created_at DESC").
		Find(&animals).Error
	return animals, err
}

func notFound(err error, kind error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newError(kind, "%s", msg)
	}
	return err
}
