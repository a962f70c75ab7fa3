package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	appinventory "github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
)

func TestGenerateTransferSlip(t *testing.T) {
	notes := "Cajas 1 a 3"
	data := appinventory.SlipData{
		BusinessName: "Confecciones La Esperanza",
		Transfer: &entity.TransferRecord{
			ID:           "8f14e45f-ceea-4c2b-9a3d-1f2e3d4c5b6a",
			ProductID:    "p1",
			Quantity:     30,
			FromLocation: entity.LocationManufacturing,
			ToLocation:   entity.LocationWholesale,
			Status:       entity.TransferStatusPending,
			TransferDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			Notes:        &notes,
		},
		Product:     &entity.Product{ID: "p1", SKU: "CAM-001", Name: "Camisa oxford", UnitPrice: decimal.NewFromInt(45000)},
		GeneratedAt: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}

	out, err := NewSlipGenerator().GenerateTransferSlip(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateTransferSlip_SinProducto(t *testing.T) {
	_, err := NewSlipGenerator().GenerateTransferSlip(context.Background(), appinventory.SlipData{
		Transfer: &entity.TransferRecord{ID: "x"},
	})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "950", formatMoney("950"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.350.000", formatMoney("1350000"))
}

func TestSlipNumberYEtiquetas(t *testing.T) {
	assert.Equal(t, "TR-8f14e45f", slipNumber("8f14e45f-ceea-4c2b"))
	assert.Equal(t, "TR-abc", slipNumber("abc"))
	assert.Equal(t, "Bodega Mayorista", locationLabel(cases.Title(language.Spanish), entity.LocationWholesale))
}
