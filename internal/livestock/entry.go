package livestock

import (
	"context"
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

// EntrySummary is an entry as shown in the listing.
type EntrySummary struct {
	models.Entry
	AnimalCount int64           `json:"animalCount"`
	TotalWeight decimal.Decimal `json:"totalWeight"`
}

func normalizeEntry(req *CreateEntryRequest) (uuid.UUID, error) {
	if req.EntryData == nil {
		return uuid.Nil, newError(ErrInvalidAnimal, "Entry data is required.")
	}
	clientID, err := uuid.Parse(req.EntryData.ClientID)
	if err != nil {
		return uuid.Nil, newError(ErrClientNotFound, "Client %q does not exist.", req.EntryData.ClientID)
	}
	if len(req.Animals) == 0 {
		return uuid.Nil, ErrNoAnimals
	}

	seen := make(map[string]struct{}, len(req.Animals))
	for i := range req.Animals {
		a := &req.Animals[i]
		a.Tag = strings.TrimSpace(a.Tag)
		a.Species = strings.TrimSpace(a.Species)
		a.Pen = strings.TrimSpace(a.Pen)
		a.Weight = a.Weight.Round(amountScale)
		a.Price = a.Price.Round(amountScale)

		if a.Tag == "" {
			return uuid.Nil, newError(ErrInvalidAnimal, "Animal #%d has no tag.", i+1)
		}
		if a.Weight.IsNegative() {
			return uuid.Nil, newError(ErrInvalidAnimal, "Animal %s has a negative weight.", a.Tag)
		}
		if a.Price.IsNegative() {
			return uuid.Nil, newError(ErrInvalidAnimal, "Animal %s has a negative price.", a.Tag)
		}
		if _, dup := seen[a.Tag]; dup {
			return uuid.Nil, duplicateTag(a.Tag)
		}
		seen[a.Tag] = struct{}{}
	}
	return clientID, nil
}

func duplicateTag(tag string) error {
	return newError(ErrDuplicateTag, "An animal with tag %s already exists.", tag)
}

// CreateEntry registers a purchase: one entry, and for every animal an
// IN_STOCK animal plus the detail row linking it to the entry.
func (s *Service) CreateEntry(ctx context.Context, actor audit.Actor, req CreateEntryRequest) (*models.Entry, error) {
	clientID, err := normalizeEntry(&req)
	if err != nil {
		return nil, err
	}

	entry := models.Entry{
		ClientID:      clientID,
		InvoiceNumber: strings.TrimSpace(req.EntryData.InvoiceNumber),
		GuideNumber:   strings.TrimSpace(req.EntryData.GuideNumber),
		EntryFolio:    strings.TrimSpace(req.EntryData.EntryFolio),
		Observations:  strings.TrimSpace(req.EntryData.Observations),
		Date:          s.now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureClient(tx, clientID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
			return err
		}

		entry.Details = make([]models.EntryDetail, 0, len(req.Animals))
		for _, a := range req.Animals {
			var taken int64
			if err := tx.Model(&models.Animal{}).Where("tag = ?", a.Tag).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return duplicateTag(a.Tag)
			}

			animal := models.Animal{
				Tag:           a.Tag,
				Species:       a.Species,
				Weight:        a.Weight,
				PurchasePrice: a.Price,
				PurchaseDate:  entry.Date,
				Status:        models.AnimalInStock,
				Pen:           a.Pen,
			}
			if err := tx.Create(&animal).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return duplicateTag(a.Tag)
				}
				return err
			}

			detail := models.EntryDetail{
				EntryID:  entry.ID,
				AnimalID: animal.ID,
				Weight:   a.Weight,
				Price:    a.Price,
			}
			if err := tx.Omit(clause.Associations).Create(&detail).Error; err != nil {
				return err
			}
			detail.Animal = &animal
			entry.Details = append(entry.Details, detail)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			Actor:       actor,
			EntityType:  "entry",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Entry of %d animal(s)", len(entry.Details)),
			After:       entry,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.Int("animals", len(entry.Details)),
	)
	return &entry, nil
}

// ListEntries returns every entry with its client, newest first.
func (s *Service) ListEntries(ctx context.Context) ([]EntrySummary, error) {
	db := s.db.WithContext(ctx)

	var entries []models.Entry
	if err := db.Preload("Client").Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	var totals []struct {
		EntryID     uuid.UUID
		AnimalCount int64
		TotalWeight decimal.Decimal
	}
	err := db.Model(&models.EntryDetail{}).
		Select("entry_id, COUNT(*) AS animal_count, COALESCE(SUM(weight), 0) AS total_weight").
		Group("entry_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	byEntry := make(map[uuid.UUID]int, len(totals))
	for i, t := range totals {
		byEntry[t.EntryID] = i
	}

	out := make([]EntrySummary, 0, len(entries))
	for _, e := range entries {
		sum := EntrySummary{Entry: e, TotalWeight: decimal.Zero}
		if i, ok := byEntry[e.ID]; ok {
			sum.AnimalCount = totals[i].AnimalCount
			sum.TotalWeight = totals[i].TotalWeight
		}
		out = append(out, sum)
	}
	return out, nil
}

// GetEntry loads an entry with its client and every detail's animal.
func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).
		Preload("Client").
		Preload("Details.Animal").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrEntryNotFound, "Entry not found.")
	}
	return &entry, nil
}
