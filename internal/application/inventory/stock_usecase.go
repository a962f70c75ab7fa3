package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

// StockUseCase lecturas del libro de stock y ajustes manuales (entrada de producción, conteos).
type StockUseCase struct {
	txRunner     TxRunner
	stockRepo    repository.StockRepository
	movRepo      repository.StockMovementRepository
	productRepo  repository.ProductRepository
	transferRepo repository.TransferRepository
	log          *logger.Logger
	now          func() time.Time
}

// NewStockUseCase construye el caso de uso. Los repos se usan para lecturas fuera de transacción.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	transferRepo repository.TransferRepository,
	log *logger.Logger,
) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		txRunner:     txRunner,
		stockRepo:    stockRepo,
		movRepo:      movRepo,
		productRepo:  productRepo,
		transferRepo: transferRepo,
		log:          log.Named("stock"),
		now:          time.Now,
	}
}

// GetQuantity saldo de un producto en una ubicación (0 si nunca tuvo movimientos).
func (uc *StockUseCase) GetQuantity(ctx context.Context, productID, location string) (int64, error) {
	loc, err := entity.ParseLocation(location)
	if err != nil {
		return 0, err
	}
	productID, ok := entity.ParseID(productID)
	if !ok {
		return 0, fmt.Errorf("%w: product_id debe ser un UUID", domain.ErrInvalidInput)
	}
	return uc.stockRepo.GetQuantity(ctx, productID, loc)
}

// ProductStock saldos de un producto en todas las ubicaciones más la cantidad en tránsito.
func (uc *StockUseCase) ProductStock(ctx context.Context, productID string) (*dto.ProductStockResponse, error) {
	productID, ok := entity.ParseID(productID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	levels, err := uc.stockRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	inTransit, err := uc.transferRepo.SumPendingByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStockResponse{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Levels:    make(map[string]int64, len(entity.Locations())),
		InTransit: inTransit,
	}
	for _, l := range entity.Locations() {
		out.Levels[l.String()] = 0
	}
	for _, l := range levels {
		out.Levels[l.Location.String()] = l.Quantity
		out.Total += l.Quantity
	}
	out.Total += inTransit
	return out, nil
}

// ListByLocation saldos de una ubicación, paginados.
func (uc *StockUseCase) ListByLocation(ctx context.Context, location string, limit, offset int) (*dto.StockListResponse, error) {
	loc, err := entity.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByLocation(ctx, loc, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLevelResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.StockLevelResponse{
			ProductID: s.ProductID,
			Location:  s.Location.String(),
			Quantity:  s.Quantity,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return &dto.StockListResponse{
		Location: loc.String(),
		Items:    items,
		Page:     dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListMovements historial del libro para un producto, más reciente primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) (*dto.StockMovementListResponse, error) {
	productID, ok := entity.ParseID(productID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			Location:      m.Location.String(),
			Type:          m.Type,
			Quantity:      m.Quantity,
			BalanceAfter:  m.BalanceAfter,
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// AdjustStockInput entrada de un ajuste manual.
type AdjustStockInput struct {
	ProductID string
	Location  string
	Delta     int64
	Reason    string
}

// AdjustStock aplica un ajuste manual al libro (solo dueño). Delta positivo = entrada de producción;
// negativo = merma o corrección. Nunca deja saldo negativo.
func (uc *StockUseCase) AdjustStock(ctx context.Context, actor entity.Actor, in AdjustStockInput) (*dto.AdjustStockResponse, error) {
	if !actor.IsOwner() {
		return nil, domain.ErrForbidden
	}
	loc, err := entity.ParseLocation(in.Location)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	productID, ok := entity.ParseID(in.ProductID)
	if !ok || in.Delta == 0 || reason == "" {
		return nil, fmt.Errorf("%w: product_id (UUID), delta distinto de cero y reason son requeridos", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: productID,
		Location:  loc,
		Type:      entity.MovementTypeAdjustment,
		Quantity:  in.Delta,
		Reason:    reason,
		CreatedAt: uc.now(),
		CreatedBy: actor.UserID,
	}
	mov.TransactionID = mov.ID
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		_ repository.TransferRepository,
		_ repository.NotificationRepository,
	) error {
		balance, err := stockRepo.Adjust(ctx, productID, loc, in.Delta)
		if err != nil {
			return err
		}
		mov.BalanceAfter = balance
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Str("location", loc.String()).
		Int64("delta", in.Delta).
		Int64("balance", mov.BalanceAfter).
		Str("reason", reason).
		Msg("ajuste de stock")
	return &dto.AdjustStockResponse{
		MovementID: mov.ID,
		ProductID:  productID,
		Location:   loc.String(),
		Quantity:   mov.BalanceAfter,
	}, nil
}
