package livestock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nogthings/befosa-software/internal/audit"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExitSummary struct {
	models.Exit
	AnimalCount int64 `json:"animalCount"`
}

type saleItem struct {
	animalID  uuid.UUID
	salePrice decimal.Decimal
}

func normalizeExit(req *CreateExitRequest) (uuid.UUID, []saleItem, error) {
	if req.ExitData == nil {
		return uuid.Nil, nil, newError(ErrInvalidAnimal, "Exit data is required.")
	}
	clientID, err := uuid.Parse(req.ExitData.ClientID)
	if err != nil {
		return uuid.Nil, nil, newError(ErrClientNotFound, "Client %q does not exist.", req.ExitData.ClientID)
	}
	if len(req.Animals) == 0 {
		return uuid.Nil, nil, ErrNoAnimals
	}

	items := make([]saleItem, 0, len(req.Animals))
	for i, a := range req.Animals {
		id, err := uuid.Parse(strings.TrimSpace(a.ID))
		if err != nil {
			return uuid.Nil, nil, newError(ErrAnimalNotFound, "Animal with ID %q not found.", a.ID)
		}
		price := a.SalePrice.Round(amountScale)
		if price.IsNegative() {
			return uuid.Nil, nil, newError(ErrInvalidAnimal, "Animal #%d has a negative sale price.", i+1)
		}
		items = append(items, saleItem{animalID: id, salePrice: price})
	}
	return clientID, items, nil
}

// CreateExit registers a sale. Each animal must still be IN_STOCK; it is
// flipped to SOLD with a conditional update so two sales racing for the same
// animal cannot both succeed. Profit per animal may be negative.
func (s *Service) CreateExit(ctx context.Context, actor audit.Actor, req CreateExitRequest) (*models.Exit, error) {
	clientID, items, err := normalizeExit(&req)
	if err != nil {
		return nil, err
	}

	exit := models.Exit{
		ClientID:      clientID,
		InvoiceNumber: strings.TrimSpace(req.ExitData.InvoiceNumber),
		GuideNumber:   strings.TrimSpace(req.ExitData.GuideNumber),
		ExitFolio:     strings.TrimSpace(req.ExitData.ExitFolio),
		Observations:  strings.TrimSpace(req.ExitData.Observations),
		Date:          s.now(),
		TotalProfit:   decimal.Zero,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureClient(tx, clientID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&exit).Error; err != nil {
			return err
		}

		total := decimal.Zero
		exit.Details = make([]models.ExitDetail, 0, len(items))
		for _, item := range items {
			var animal models.Animal
			if err := tx.First(&animal, "id = ?", item.animalID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return newError(ErrAnimalNotFound, "Animal with ID %s not found.", item.animalID)
				}
				return err
			}

			res := tx.Model(&models.Animal{}).
				Where("id = ? AND status = ?", animal.ID, models.AnimalInStock).
				Update("status", models.AnimalSold)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return newError(ErrAnimalNotInStock, "Animal with tag %s is not in stock.", animal.Tag)
			}
			animal.Status = models.AnimalSold

			profit := item.salePrice.Sub(animal.PurchasePrice)
			detail := models.ExitDetail{
				ExitID:   exit.ID,
				AnimalID: animal.ID,
				Weight:   animal.Weight,
				Price:    item.salePrice,
				Profit:   profit,
			}
			if err := tx.Omit(clause.Associations).Create(&detail).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return newError(ErrAnimalNotInStock, "Animal with tag %s is not in stock.", animal.Tag)
				}
				return err
			}
			detail.Animal = &animal
			exit.Details = append(exit.Details, detail)
			total = total.Add(profit)
		}

		if err := tx.Model(&models.Exit{}).Where("id = ?", exit.ID).Update("total_profit", total).Error; err != nil {
			return err
		}
		exit.TotalProfit = total

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "exit",
			EntityID:    exit.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sale of %d animal(s), profit %s", len(exit.Details), total.StringFixed(2)),
			After:       exit,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("exit created",
		zap.String("exit_id", exit.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("animals", len(exit.Details)),
		zap.String("total_profit", exit.TotalProfit.String()),
	)
	return &exit, nil
}

// ListExits returns every exit with its client, newest first.
func (s *Service) ListExits(ctx context.Context) ([]ExitSummary, error) {
	db := s.db.WithContext(ctx)

	var exits []models.Exit
	if err := db.Preload("Client").Order("date DESC").Find(&exits).Error; err != nil {
		return nil, err
	}

	var counts []struct {
		ExitID      uuid.UUID
		AnimalCount int64
	}
	err := db.Model(&models.ExitDetail{}).
		Select("exit_id, COUNT(*) AS animal_count").
		Group("exit_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byExit := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byExit[c.ExitID] = c.AnimalCount
	}

	out := make([]ExitSummary, 0, len(exits))
	for _, e := range exits {
		out = append(out, ExitSummary{Exit: e, AnimalCount: byExit[e.ID]})
	}
	return out, nil
}

func (s *Service) GetExit(ctx context.Context, id uuid.UUID) (*models.Exit, error) {
	var exit models.Exit
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Details.Animal").
		First(&exit, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrExitNotFound, "Exit not found.")
	}
	return &exit, nil
}
