package inventory_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/inventory"
)

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		delta   int64
		want    int64
		wantErr error
	}{
		{"crédito sobre cero", 0, 30, 30, nil},
		{"débito parcial", 100, -30, 70, nil},
		{"débito exacto deja cero", 30, -30, 0, nil},
		{"débito mayor al saldo", 10, -30, 10, domain.ErrInsufficientStock},
		{"delta cero", 5, 0, 5, nil},
		{"crédito que desborda", 10, math.MaxInt64, 10, domain.ErrInvalidInput},
		{"crédito hasta el máximo", 0, math.MaxInt64, math.MaxInt64, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.current, tc.delta)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransition_SoloDesdePendiente(t *testing.T) {
	assert.NoError(t, inventory.Transition(entity.TransferStatusPending, entity.TransferStatusCompleted))
	assert.NoError(t, inventory.Transition(entity.TransferStatusPending, entity.TransferStatusCancelled))

	for _, terminal := range []entity.TransferStatus{entity.TransferStatusCompleted, entity.TransferStatusCancelled} {
		assert.ErrorIs(t, inventory.Transition(terminal, entity.TransferStatusCompleted), domain.ErrAlreadyProcessed)
		assert.ErrorIs(t, inventory.Transition(terminal, entity.TransferStatusCancelled), domain.ErrAlreadyProcessed)
	}
	assert.ErrorIs(t, inventory.Transition(entity.TransferStatusPending, entity.TransferStatusPending), domain.ErrInvalidInput)
}

func TestDeclaredValue(t *testing.T) {
	got := inventory.DeclaredValue(30, decimal.RequireFromString("45000.50"))
	assert.True(t, got.Equal(decimal.RequireFromString("1350015")), "got %s", got)
	assert.True(t, inventory.DeclaredValue(0, decimal.NewFromInt(10)).IsZero())
	assert.True(t, inventory.DeclaredValue(3, decimal.Zero).IsZero())
}

func TestTransferRecordValidate(t *testing.T) {
	base := entity.TransferRecord{
		Quantity:     5,
		FromLocation: entity.LocationManufacturing,
		ToLocation:   entity.LocationWholesale,
	}
	require.NoError(t, base.Validate())

	zero := base
	zero.Quantity = 0
	assert.ErrorIs(t, zero.Validate(), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, zero.Validate(), domain.ErrInvalidInput)

	same := base
	same.ToLocation = entity.LocationManufacturing
	assert.ErrorIs(t, same.Validate(), domain.ErrInvalidLocations)

	unknown := base
	unknown.ToLocation = entity.Location("bodega-x")
	assert.ErrorIs(t, unknown.Validate(), domain.ErrUnknownLocation)
}

func TestParseLocation(t *testing.T) {
	l, err := entity.ParseLocation("  Wholesale ")
	require.NoError(t, err)
	assert.Equal(t, entity.LocationWholesale, l)

	_, err = entity.ParseLocation("almacen")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
