package livestock

import "github.com/shopspring/decimal"

type EntryData struct {
	ClientID      string `json:"clientId" validate:"required,uuid"`
	InvoiceNumber string `json:"invoiceNumber" validate:"max=100"`
	GuideNumber   string `json:"guideNumber" validate:"max=100"`
	EntryFolio    string `json:"entryFolio" validate:"max=100"`
	Observations  string `json:"observations" validate:"max=1000"`
}

type EntryAnimal struct {
	Tag     string          `json:"tag" validate:"required,max=64"`
	Species string          `json:"species" validate:"max=50"`
	Weight  decimal.Decimal `json:"weight"`
	Price   decimal.Decimal `json:"price"`
	Pen     string          `json:"pen" validate:"max=50"`
}

// POST /api/entries body.
type CreateEntryRequest struct {
	EntryData *EntryData    `json:"entryData" validate:"required"`
	Animals   []EntryAnimal `json:"animals" validate:"required,min=1,dive"`
}

type ExitData struct {
	ClientID      string `json:"clientId" validate:"required,uuid"`
	InvoiceNumber string `json:"invoiceNumber" validate:"max=100"`
	GuideNumber   string `json:"guideNumber" validate:"max=100"`
	ExitFolio     string `json:"exitFolio" validate:"max=100"`
	Observations  string `json:"observations" validate:"max=1000"`
}

type ExitAnimal struct {
	ID        string          `json:"id" validate:"required,uuid"`
	SalePrice decimal.Decimal `json:"salePrice"`
}

// POST /api/exits body.
type CreateExitRequest struct {
	ExitData *ExitData    `json:"exitData" validate:"required"`
	Animals  []ExitAnimal `json:"animals" validate:"required,min=1,dive"`
}
