package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/usecase"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/memory"
)

var owner = entity.Actor{UserID: "u-owner", Role: entity.RoleOwner}

func TestProductUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Products())

	out, err := uc.Create(ctx, owner, dto.CreateProductRequest{
		SKU: " cam-001 ", Name: " Camisa oxford ", Category: "camisas", UnitPrice: decimal.RequireFromString("45000.50"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "CAM-001", out.SKU)
	assert.Equal(t, "Camisa oxford", out.Name)
	assert.True(t, out.UnitPrice.Equal(decimal.RequireFromString("45000.5")))

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "CAM-001", Name: "Otra"})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
}

func TestProductUseCase_Create_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Products())

	_, err := uc.Create(ctx, entity.Actor{UserID: "x", Role: entity.RoleIncharge}, dto.CreateProductRequest{SKU: "A", Name: "B"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "", Name: "B"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, owner, dto.CreateProductRequest{SKU: "A", Name: "B", UnitPrice: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_GetYList(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	for _, sku := range []string{"C-3", "A-1", "B-2"} {
		_, err := uc.Create(ctx, owner, dto.CreateProductRequest{SKU: sku, Name: "Prenda " + sku})
		require.NoError(t, err)
	}

	_, err := uc.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)

	page, err := uc.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "A-1", page.Items[0].SKU)
	assert.Equal(t, "B-2", page.Items[1].SKU)

	rest, err := uc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Equal(t, "C-3", rest.Items[0].SKU)
}
