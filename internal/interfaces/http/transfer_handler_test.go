package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/application/dto"
	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/application/notification"
	"github.com/jhoicas/confecciones-stock/internal/application/usecase"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/memory"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/confecciones-stock/internal/interfaces/http"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

const (
	ownerID     = "u-owner"
	workshopID  = "u-taller"
	wholesaleID = "u-mayorista"
	retailID    = "u-tienda"
	productID   = "5a0c7e2b-1d3f-4b6a-8e9c-7f2a4d6b8c01"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI arma el router completo sobre el almacén en memoria con 100 unidades en el taller.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: productID, SKU: "CAM-001", Name: "Camisa oxford", UnitPrice: decimal.NewFromInt(45000),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))
	_, err := store.Stock().Adjust(ctx, productID, entity.LocationManufacturing, 100)
	require.NoError(t, err)
	for _, u := range []entity.User{
		{ID: ownerID, Role: entity.RoleOwner, Status: "active"},
		{ID: workshopID, Role: entity.RoleIncharge, Location: entity.LocationManufacturing, Status: "active"},
		{ID: wholesaleID, Role: entity.RoleIncharge, Location: entity.LocationWholesale, Status: "active"},
		{ID: retailID, Role: entity.RoleShopkeeper, Location: entity.LocationRetail, Status: "active"},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}

	log := logger.Nop()
	transferUC := inventory.NewTransferUseCase(inventory.TransferDeps{
		TxRunner:     store,
		ProductRepo:  store.Products(),
		TransferRepo: store.Transfers(),
		Emitter:      notification.NewEmitter(store.Users(), log),
		Slips:        pdf.NewSlipGenerator(),
		BusinessName: "Confecciones Test",
		Logger:       log,
	})
	stockUC := inventory.NewStockUseCase(store, store.Stock(), store.Movements(), store.Products(), store.Transfers(), log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		TransferUC:     transferUC,
		StockUC:        stockUC,
		ProductUC:      usecase.NewProductUseCase(store.Products()),
		NotificationUC: notification.NewUseCase(store.Notifications(), 30),
		JWTSecret:      testJWTSecret,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (f *apiFixture) quantity(t *testing.T, loc entity.Location) int64 {
	t.Helper()
	q, err := f.store.Stock().GetQuantity(context.Background(), productID, loc)
	require.NoError(t, err)
	return q
}

func (f *apiFixture) createTransfer(t *testing.T, qty int64, from, to string) dto.TransferResponse {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/transfers", tokenFor(t, workshopID, "incharge", from),
		dto.CreateTransferRequest{ProductID: productID, Quantity: qty, FromLocation: from, ToLocation: to})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.TransferResponse](t, resp)
}

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTransferHandler_Create_DescuentaOrigen(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 30, "manufacturing", "wholesale")

	assert.Equal(t, "pending", tr.Status)
	assert.Equal(t, workshopID, tr.InitiatedBy)
	assert.Equal(t, int64(70), f.quantity(t, entity.LocationManufacturing))
	assert.Equal(t, int64(0), f.quantity(t, entity.LocationWholesale))
}

func TestTransferHandler_Create_StockInsuficiente(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/transfers", tokenFor(t, workshopID, "incharge", "manufacturing"),
		dto.CreateTransferRequest{ProductID: productID, Quantity: 101, FromLocation: "manufacturing", ToLocation: "wholesale"})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, int64(100), f.quantity(t, entity.LocationManufacturing))
}

func TestTransferHandler_Create_Validacion(t *testing.T) {
	f := newAPI(t)
	auth := tokenFor(t, workshopID, "incharge", "manufacturing")

	cases := []dto.CreateTransferRequest{
		{ProductID: productID, Quantity: 5, FromLocation: "manufacturing", ToLocation: "manufacturing"},
		{ProductID: productID, Quantity: 0, FromLocation: "manufacturing", ToLocation: "wholesale"},
		{ProductID: productID, Quantity: 5, FromLocation: "manufacturing", ToLocation: "luna"},
	}
	for _, in := range cases {
		resp := f.do(t, http.MethodPost, "/api/transfers", auth, in)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	}
	assert.Equal(t, int64(100), f.quantity(t, entity.LocationManufacturing))
}

func TestTransferHandler_Create_CuerpoInvalido(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/transfers", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenFor(t, workshopID, "incharge", "manufacturing"))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestTransferHandler_GetByID_NoExiste(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodGet, "/api/transfers/no-existe", tokenForRole(t, "owner"), nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestTransferHandler_IDMalFormado(t *testing.T) {
	f := newAPI(t)
	owner := tokenForRole(t, "owner")

	for _, path := range []string{
		"/api/transfers/not-a-uuid/confirm",
		"/api/transfers/not-a-uuid/cancel",
	} {
		resp := f.do(t, http.MethodPost, path, owner, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code, path)
	}
	for _, path := range []string{
		"/api/transfers/not-a-uuid",
		"/api/transfers/not-a-uuid/slip",
		"/api/stock/not-a-uuid",
		"/api/products/not-a-uuid",
	} {
		resp := f.do(t, http.MethodGet, path, owner, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	resp := f.do(t, http.MethodPost, "/api/transfers", owner, dto.CreateTransferRequest{
		ProductID: "foo", Quantity: 1, FromLocation: "manufacturing", ToLocation: "wholesale",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

func TestTransferHandler_Confirm_DosVeces(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 40, "manufacturing", "wholesale")
	auth := tokenFor(t, wholesaleID, "incharge", "wholesale")

	resp := f.do(t, http.MethodPost, "/api/transfers/"+tr.ID+"/confirm", auth, dto.ConfirmTransferRequest{Notes: "llegó completo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decode[dto.TransferResponse](t, resp)
	assert.Equal(t, "completed", done.Status)
	require.NotNil(t, done.ConfirmedBy)
	assert.Equal(t, wholesaleID, *done.ConfirmedBy)

	resp = f.do(t, http.MethodPost, "/api/transfers/"+tr.ID+"/confirm", auth, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_PROCESSED", decode[dto.ErrorResponse](t, resp).Code)

	assert.Equal(t, int64(60), f.quantity(t, entity.LocationManufacturing))
	assert.Equal(t, int64(40), f.quantity(t, entity.LocationWholesale))
}

func TestTransferHandler_Cancel(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 25, "manufacturing", "retail")

	// un tendero que no inició el traslado no puede cancelarlo
	resp := f.do(t, http.MethodPost, "/api/transfers/"+tr.ID+"/cancel", tokenFor(t, retailID, "shopkeeper", "retail"),
		dto.CancelTransferRequest{Reason: "no lo quiero"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, int64(75), f.quantity(t, entity.LocationManufacturing))

	resp = f.do(t, http.MethodPost, "/api/transfers/"+tr.ID+"/cancel", tokenFor(t, ownerID, "owner", ""),
		dto.CancelTransferRequest{Reason: "error de despacho"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.TransferResponse](t, resp)
	assert.Equal(t, "cancelled", out.Status)
	require.NotNil(t, out.Notes)
	assert.Equal(t, "error de despacho", *out.Notes)
	assert.Equal(t, int64(100), f.quantity(t, entity.LocationManufacturing))
}

func TestTransferHandler_Pending_UsaUbicacionDelOperador(t *testing.T) {
	f := newAPI(t)
	first := f.createTransfer(t, 10, "manufacturing", "wholesale")
	f.createTransfer(t, 5, "manufacturing", "retail")

	resp := f.do(t, http.MethodGet, "/api/transfers/pending", tokenFor(t, wholesaleID, "incharge", "wholesale"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.TransferResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	// el dueño no tiene ubicación: debe indicarla
	resp = f.do(t, http.MethodGet, "/api/transfers/pending", tokenForRole(t, "owner"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestTransferHandler_List_FiltraPorEstado(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 10, "manufacturing", "wholesale")
	f.createTransfer(t, 10, "manufacturing", "wholesale")
	resp := f.do(t, http.MethodPost, "/api/transfers/"+tr.ID+"/confirm", tokenFor(t, wholesaleID, "incharge", "wholesale"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/api/transfers?status=completed", tokenForRole(t, "owner"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.TransferListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, tr.ID, list.Items[0].ID)

	resp = f.do(t, http.MethodGet, "/api/transfers?status=perdido", tokenForRole(t, "owner"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestTransferHandler_Slip(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 12, "manufacturing", "wholesale")

	resp := f.do(t, http.MethodGet, "/api/transfers/"+tr.ID+"/slip", tokenForRole(t, "owner"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "traslado-")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestStockHandler_Adjust_SoloOwner(t *testing.T) {
	f := newAPI(t)
	in := dto.AdjustStockRequest{ProductID: productID, Location: "manufacturing", Delta: 20, Reason: "lote 12"}

	resp := f.do(t, http.MethodPost, "/api/stock/adjustments", tokenFor(t, workshopID, "incharge", "manufacturing"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/stock/adjustments", tokenFor(t, ownerID, "owner", ""), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.AdjustStockResponse](t, resp)
	assert.Equal(t, int64(120), out.Quantity)
}

func TestStockHandler_ProductStock_IncluyeTransito(t *testing.T) {
	f := newAPI(t)
	f.createTransfer(t, 30, "manufacturing", "wholesale")

	resp := f.do(t, http.MethodGet, "/api/stock/"+productID, tokenForRole(t, "owner"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ProductStockResponse](t, resp)
	assert.Equal(t, int64(70), out.Levels["manufacturing"])
	assert.Equal(t, int64(30), out.InTransit)
	assert.Equal(t, int64(100), out.Total)
}

func TestNotificationHandler_AvisoAlDestino(t *testing.T) {
	f := newAPI(t)
	tr := f.createTransfer(t, 8, "manufacturing", "wholesale")
	auth := tokenFor(t, wholesaleID, "incharge", "wholesale")

	resp := f.do(t, http.MethodGet, "/api/notifications?unread=true", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.NotificationListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, tr.ID, list.Items[0].RelatedID)
	assert.Equal(t, int64(1), list.Unread)

	// otro operador no puede marcar el aviso ajeno
	resp = f.do(t, http.MethodPost, "/api/notifications/"+list.Items[0].ID+"/read", tokenFor(t, retailID, "shopkeeper", "retail"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		resp = f.do(t, http.MethodPost, "/api/notifications/"+list.Items[0].ID+"/read", auth, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp.Body.Close()
	}

	resp = f.do(t, http.MethodGet, "/api/notifications/unread-count", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	count := decode[map[string]int64](t, resp)
	assert.Equal(t, int64(0), count["unread"])
}

func TestNotificationHandler_Prune_SoloOwner(t *testing.T) {
	f := newAPI(t)
	resp := f.do(t, http.MethodPost, "/api/notifications/prune", tokenFor(t, wholesaleID, "incharge", "wholesale"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/notifications/prune", tokenForRole(t, "owner"), dto.PruneNotificationsRequest{OlderThanDays: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), decode[dto.PruneNotificationsResponse](t, resp).Deleted)
}

func TestProductHandler_CreateAndGet(t *testing.T) {
	f := newAPI(t)
	in := dto.CreateProductRequest{SKU: "pan-010", Name: "Pantalón dril", UnitPrice: decimal.NewFromInt(60000)}

	resp := f.do(t, http.MethodPost, "/api/products", tokenForRole(t, "shopkeeper"), in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = f.do(t, http.MethodPost, "/api/products", tokenForRole(t, "owner"), in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "PAN-010", created.SKU)

	resp = f.do(t, http.MethodPost, "/api/products", tokenForRole(t, "owner"), in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.do(t, http.MethodGet, "/api/products/"+created.ID, tokenForRole(t, "shopkeeper"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Pantalón dril", decode[dto.ProductResponse](t, resp).Name)
}
