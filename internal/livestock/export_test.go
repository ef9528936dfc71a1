package livestock

import (
	"testing"
	"time"

	"github.com/Nogthings/befosa-software/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestInStockWorkbook(t *testing.T) {
	animals := []models.Animal{
		{Tag: "A1", Species: "Bovino", Weight: dec("500"), PurchasePrice: dec("1000.50"), PurchaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Pen: "C1"},
		{Tag: "A2", Species: "Ovino", Weight: dec("60"), PurchasePrice: dec("150"), PurchaseDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	buf, err := InStockWorkbook(animals)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(inStockSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Arete", rows[0][0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "1000.5", rows[1][3])
	assert.Equal(t, "2024-03-01", rows[1][4])
	assert.Equal(t, "A2", rows[2][0])
}
