package livestock

import (
	"bytes"

	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/xuri/excelize/v2"
)

const inStockSheet = "Inventario"

var inStockHeader = []interface{}{"Arete", "Especie", "Peso", "Precio compra", "Fecha compra", "Corral"}

// InStockWorkbook renders animals as a single-sheet XLSX file.
func InStockWorkbook(animals []models.Animal) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), inStockSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(inStockSheet, "A1", &inStockHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(inStockSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}

	for i, a := range animals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			a.Tag,
			a.Species,
			a.Weight.InexactFloat64(),
			a.PurchasePrice.InexactFloat64(),
			a.PurchaseDate.Format("2006-01-02"),
			a.Pen,
		}
		if err := f.SetSheetRow(inStockSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
