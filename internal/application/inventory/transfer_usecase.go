package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/notification"
	"github.com/jhoicas/confecciones-stock/internal/domain"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/domain/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/repository"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

// TransferUseCase orquesta el ciclo de vida de los traslados entre ubicaciones.
// Es el único componente que modifica a la vez el libro de stock y el registro de traslados;
// cada operación es una sola transacción (TxRunner.Run) y no reintenta nada internamente.
//
//	pending ──ConfirmReceipt──▶ completed   (crédito en destino)
//	   └─────CancelTransfer───▶ cancelled   (reintegro en origen)
type TransferUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	transferRepo repository.TransferRepository
	emitter      *notification.Emitter
	publisher    EventPublisher
	slips        SlipGenerator
	businessName string
	log          *logger.Logger
	now          func() time.Time
}

// TransferDeps dependencias del caso de uso de traslados.
type TransferDeps struct {
	TxRunner     TxRunner
	ProductRepo  repository.ProductRepository
	TransferRepo repository.TransferRepository // lecturas fuera de transacción
	Emitter      *notification.Emitter
	Publisher    EventPublisher // nil = NoopPublisher
	Slips        SlipGenerator  // nil = sin nota PDF
	BusinessName string
	Logger       *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(deps TransferDeps) *TransferUseCase {
	pub := deps.Publisher
	if pub == nil {
		pub = NoopPublisher{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &TransferUseCase{
		txRunner:     deps.TxRunner,
		productRepo:  deps.ProductRepo,
		transferRepo: deps.TransferRepo,
		emitter:      deps.Emitter,
		publisher:    pub,
		slips:        deps.Slips,
		businessName: deps.BusinessName,
		log:          log.Named("transfers"),
		now:          time.Now,
	}
}

// InitiateTransferInput entrada para iniciar un traslado.
type InitiateTransferInput struct {
	ProductID    string
	Quantity     int64
	FromLocation string
	ToLocation   string
	Notes        string
}

// InitiateTransfer descuenta el stock de origen y crea el traslado en estado pending,
// avisando a los operadores del destino. Débito, registro y avisos confirman o revierten juntos.
func (uc *TransferUseCase) InitiateTransfer(ctx context.Context, actor entity.Actor, in InitiateTransferInput) (*dto.TransferResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	productID, ok := entity.ParseID(in.ProductID)
	if !ok {
		return nil, fmt.Errorf("%w: product_id debe ser un UUID", domain.ErrInvalidInput)
	}
	from, err := entity.ParseLocation(in.FromLocation)
	if err != nil {
		return nil, err
	}
	to, err := entity.ParseLocation(in.ToLocation)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	transfer := &entity.TransferRecord{
		ID:           uuid.New().String(),
		ProductID:    productID,
		Quantity:     in.Quantity,
		FromLocation: from,
		ToLocation:   to,
		Status:       entity.TransferStatusPending,
		InitiatedBy:  actor.UserID,
		TransferDate: now,
		Notes:        optionalString(in.Notes),
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	// Los destinatarios se resuelven antes de abrir la transacción.
	var recipients []string
	if uc.emitter != nil {
		recipients = uc.emitter.Recipients(ctx, to)
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		notifRepo repository.NotificationRepository,
	) error {
		// Débito atómico en origen: falla con ErrInsufficientStock sin tocar el saldo.
		balance, err := stockRepo.Adjust(ctx, transfer.ProductID, from, -transfer.Quantity)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: transfer.ID,
			ProductID:     transfer.ProductID,
			Location:      from,
			Type:          entity.MovementTypeTransferOut,
			Quantity:      -transfer.Quantity,
			BalanceAfter:  balance,
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
		}); err != nil {
			return err
		}
		if err := transferRepo.Create(ctx, transfer); err != nil {
			return err
		}
		if uc.emitter != nil {
			uc.emitter.NotifyAll(ctx, notifRepo, recipients, transfer, productLabel(product))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", transfer.ID).
		Str("product_id", transfer.ProductID).
		Int64("quantity", transfer.Quantity).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("initiated_by", actor.UserID).
		Msg("traslado iniciado")
	uc.publish(ctx, EventTransferInitiated, actor, transfer)
	return toTransferResponse(transfer), nil
}

// ConfirmReceipt acredita el destino y marca el traslado como completado.
// Confirmar dos veces nunca acredita dos veces: la segunda llamada devuelve ErrAlreadyProcessed.
func (uc *TransferUseCase) ConfirmReceipt(ctx context.Context, actor entity.Actor, transferID, notes string) (*dto.TransferResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	transferID, ok := entity.ParseID(transferID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	var done *entity.TransferRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		notifRepo repository.NotificationRepository,
	) error {
		t, err := loadPending(ctx, transferRepo, transferID, entity.TransferStatusCompleted)
		if err != nil {
			return err
		}
		balance, err := stockRepo.Adjust(ctx, t.ProductID, t.ToLocation, t.Quantity)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			ProductID:     t.ProductID,
			Location:      t.ToLocation,
			Type:          entity.MovementTypeTransferIn,
			Quantity:      t.Quantity,
			BalanceAfter:  balance,
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
		}); err != nil {
			return err
		}
		// Actualización condicional (status = pending): si otro operador confirmó primero,
		// devuelve ErrAlreadyProcessed y el crédito anterior se revierte con la transacción.
		done, err = transferRepo.MarkCompleted(ctx, t.ID, actor.UserID, optionalString(notes), now)
		if err != nil {
			return err
		}
		if uc.emitter != nil {
			uc.emitter.Resolve(ctx, notifRepo, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", done.ID).
		Str("to", done.ToLocation.String()).
		Int64("quantity", done.Quantity).
		Str("confirmed_by", actor.UserID).
		Msg("traslado confirmado")
	uc.publish(ctx, EventTransferCompleted, actor, done)
	return toTransferResponse(done), nil
}

// CancelTransfer reintegra el stock al origen y marca el traslado como cancelado.
// Solo el dueño, quien lo inició o el encargado del origen pueden cancelarlo.
func (uc *TransferUseCase) CancelTransfer(ctx context.Context, actor entity.Actor, transferID, reason string) (*dto.TransferResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	transferID, ok := entity.ParseID(transferID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	reason = strings.TrimSpace(reason)
	now := uc.now()
	var done *entity.TransferRecord
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		transferRepo repository.TransferRepository,
		notifRepo repository.NotificationRepository,
	) error {
		t, err := loadPending(ctx, transferRepo, transferID, entity.TransferStatusCancelled)
		if err != nil {
			return err
		}
		if !canCancel(actor, t) {
			return domain.ErrForbidden
		}
		balance, err := stockRepo.Adjust(ctx, t.ProductID, t.FromLocation, t.Quantity)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			ProductID:     t.ProductID,
			Location:      t.FromLocation,
			Type:          entity.MovementTypeTransferReturn,
			Quantity:      t.Quantity,
			BalanceAfter:  balance,
			Reason:        reason,
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
		}); err != nil {
			return err
		}
		done, err = transferRepo.MarkCancelled(ctx, t.ID, actor.UserID, reason, now)
		if err != nil {
			return err
		}
		if uc.emitter != nil {
			uc.emitter.Resolve(ctx, notifRepo, t.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", done.ID).
		Str("from", done.FromLocation.String()).
		Int64("quantity", done.Quantity).
		Str("cancelled_by", actor.UserID).
		Msg("traslado cancelado")
	uc.publish(ctx, EventTransferCancelled, actor, done)
	return toTransferResponse(done), nil
}

// GetTransfer obtiene un traslado por ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*dto.TransferResponse, error) {
	id, ok := entity.ParseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toTransferResponse(t), nil
}

// FindPending traslados pendientes de recibir en location, más recientes primero.
func (uc *TransferUseCase) FindPending(ctx context.Context, location string) ([]dto.TransferResponse, error) {
	loc, err := entity.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	list, err := uc.transferRepo.FindPending(ctx, loc)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTransferResponse(t))
	}
	return out, nil
}

// ListTransfersInput filtros opcionales del listado (cadenas vacías = sin filtro).
type ListTransfersInput struct {
	Location  string
	Status    string
	ProductID string
	Limit     int
	Offset    int
}

// ListTransfers lista traslados filtrados y paginados.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, in ListTransfersInput) (*dto.TransferListResponse, error) {
	filter := repository.TransferFilter{Limit: in.Limit, Offset: in.Offset}
	if in.ProductID != "" {
		productID, ok := entity.ParseID(in.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: product_id debe ser un UUID", domain.ErrInvalidInput)
		}
		filter.ProductID = productID
	}
	if in.Location != "" {
		loc, err := entity.ParseLocation(in.Location)
		if err != nil {
			return nil, err
		}
		filter.Location = loc
	}
	if in.Status != "" {
		st := entity.TransferStatus(strings.ToLower(in.Status))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, in.Status)
		}
		filter.Status = st
	}
	list, err := uc.transferRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// TransferSlip genera la nota de traslado en PDF. Devuelve (bytes, nombre de archivo).
func (uc *TransferUseCase) TransferSlip(ctx context.Context, id string) ([]byte, string, error) {
	if uc.slips == nil {
		return nil, "", fmt.Errorf("%w: generador de notas no configurado", domain.ErrConflict)
	}
	id, ok := entity.ParseID(id)
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if t == nil {
		return nil, "", domain.ErrNotFound
	}
	product, err := uc.productRepo.GetByID(ctx, t.ProductID)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.slips.GenerateTransferSlip(ctx, SlipData{
		BusinessName: uc.businessName,
		Transfer:     t,
		Product:      product,
		GeneratedAt:  uc.now(),
	})
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("traslado-%s.pdf", shortID(t.ID)), nil
}

// loadPending carga el traslado dentro de la transacción y verifica que admita la transición.
func loadPending(ctx context.Context, repo repository.TransferRepository, id string, target entity.TransferStatus) (*entity.TransferRecord, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if err := inventory.Transition(t.Status, target); err != nil {
		return nil, err
	}
	return t, nil
}

func canCancel(actor entity.Actor, t *entity.TransferRecord) bool {
	if actor.IsOwner() || actor.UserID == t.InitiatedBy {
		return true
	}
	return actor.Role == entity.RoleIncharge && actor.Location == t.FromLocation
}

// publish envía el evento post-commit. Un fallo se registra y no afecta la respuesta.
func (uc *TransferUseCase) publish(ctx context.Context, eventType string, actor entity.Actor, t *entity.TransferRecord) {
	ev := TransferEvent{Type: eventType, OccurredAt: uc.now(), ActorID: actor.UserID, Transfer: *t}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("transfer_id", t.ID).Str("event", eventType).Msg("evento de traslado no publicado")
	}
}

func productLabel(p *entity.Product) string {
	if p.SKU == "" {
		return p.Name
	}
	return p.SKU + " " + p.Name
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func toTransferResponse(t *entity.TransferRecord) *dto.TransferResponse {
	if t == nil {
		return nil
	}
	return &dto.TransferResponse{
		ID:           t.ID,
		ProductID:    t.ProductID,
		Quantity:     t.Quantity,
		FromLocation: t.FromLocation.String(),
		ToLocation:   t.ToLocation.String(),
		Status:       string(t.Status),
		InitiatedBy:  t.InitiatedBy,
		TransferDate: t.TransferDate,
		ConfirmedBy:  t.ConfirmedBy,
		ConfirmedAt:  t.ConfirmedAt,
		CancelledBy:  t.CancelledBy,
		CancelledAt:  t.CancelledAt,
		Notes:        t.Notes,
	}
}
