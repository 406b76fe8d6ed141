package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerdto "github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/internal/wholesale/dto"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

// MockWholesaleRepository is a mock implementation of wholesale.Repository
type MockWholesaleRepository struct {
	mock.Mock
}

func (m *MockWholesaleRepository) CreateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder, items []model.WholesaleOrderItem) error {
	args := m.Called(ctx, tx, order, items)
	return args.Error(0)
}

func (m *MockWholesaleRepository) GetOrderByID(ctx context.Context, orderID string) (*model.WholesaleOrder, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*model.WholesaleOrder)
	return order, args.Error(1)
}

func (m *MockWholesaleRepository) GetOrderByToken(ctx context.Context, token string) (*model.WholesaleOrder, error) {
	args := m.Called(ctx, token)
	order, _ := args.Get(0).(*model.WholesaleOrder)
	return order, args.Error(1)
}

func (m *MockWholesaleRepository) GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, orderID string) (*model.WholesaleOrder, error) {
	args := m.Called(ctx, tx, orderID)
	order, _ := args.Get(0).(*model.WholesaleOrder)
	return order, args.Error(1)
}

func (m *MockWholesaleRepository) UpdateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockWholesaleRepository) ListItems(ctx context.Context, orderID string) ([]model.WholesaleOrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.WholesaleOrderItem)
	return items, args.Error(1)
}

func (m *MockWholesaleRepository) UpdateItemReceivedTx(ctx context.Context, tx *sqlx.Tx, itemID string, receivedUnits int) error {
	args := m.Called(ctx, tx, itemID, receivedUnits)
	return args.Error(0)
}

// MockCatalogRepository is a mock implementation of catalog.Repository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetByCaseSKU(ctx context.Context, caseSKU string) (*model.CatalogEntry, error) {
	args := m.Called(ctx, caseSKU)
	entry, _ := args.Get(0).(*model.CatalogEntry)
	return entry, args.Error(1)
}

// MockLedgerUseCase is a mock implementation of ledger.UseCase
type MockLedgerUseCase struct {
	mock.Mock
}

func (m *MockLedgerUseCase) ApplyDelta(ctx context.Context, input *ledgerdto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error) {
	args := m.Called(ctx, input)
	rec, _ := args.Get(0).(*model.InventoryRecord)
	txn, _ := args.Get(1).(*model.InventoryTransaction)
	return rec, txn, args.Error(2)
}

func (m *MockLedgerUseCase) ApplyDeltaTx(ctx context.Context, tx *sqlx.Tx, input *ledgerdto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error) {
	args := m.Called(ctx, tx, input)
	rec, _ := args.Get(0).(*model.InventoryRecord)
	txn, _ := args.Get(1).(*model.InventoryTransaction)
	return rec, txn, args.Error(2)
}

// WithTx runs fn against a nil handle; the repositories in these tests are
// mocks and never touch it. A stubbed error simulates a failed begin.
func (m *MockLedgerUseCase) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

// WithKeyLock runs fn directly; a stubbed error simulates lock contention.
func (m *MockLedgerUseCase) WithKeyLock(ctx context.Context, storeID, productSKU string, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, storeID, productSKU, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

func (m *MockLedgerUseCase) IndexTransaction(txn *model.InventoryTransaction) {
	m.Called(txn)
}

func (m *MockLedgerUseCase) GetRecord(ctx context.Context, storeID, productSKU string) (*model.InventoryRecord, error) {
	args := m.Called(ctx, storeID, productSKU)
	rec, _ := args.Get(0).(*model.InventoryRecord)
	return rec, args.Error(1)
}

func (m *MockLedgerUseCase) ListRecords(ctx context.Context, filters *ledgerdto.RecordFilters) ([]model.InventoryRecord, int, error) {
	args := m.Called(ctx, filters)
	recs, _ := args.Get(0).([]model.InventoryRecord)
	return recs, args.Int(1), args.Error(2)
}

func (m *MockLedgerUseCase) ListTransactions(ctx context.Context, filters *ledgerdto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	args := m.Called(ctx, filters)
	txns, _ := args.Get(0).([]model.InventoryTransaction)
	return txns, args.Int(1), args.Error(2)
}

func (m *MockLedgerUseCase) SearchTransactions(ctx context.Context, storeID, query string, size int) ([]model.InventoryTransaction, error) {
	args := m.Called(ctx, storeID, query, size)
	txns, _ := args.Get(0).([]model.InventoryTransaction)
	return txns, args.Error(1)
}

func newTestWholesaleUseCase(repo *MockWholesaleRepository, catalogRepo *MockCatalogRepository, ledgerUC *MockLedgerUseCase) *wholesaleUseCase {
	uc := NewWholesaleUseCase(repo, catalogRepo, ledgerUC, zap.NewNop())
	wu, _ := uc.(*wholesaleUseCase)
	return wu
}

func TestResolveItem_ConvertsCasesToUnits(t *testing.T) {
	catalogRepo := new(MockCatalogRepository)
	uc := newTestWholesaleUseCase(new(MockWholesaleRepository), catalogRepo, new(MockLedgerUseCase))

	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-MOIST-50").Return(&model.CatalogEntry{
		CaseSKU:      "CASE-MOIST-50",
		RetailSKU:    "MOIST-50",
		UnitsPerCase: 8,
		Active:       true,
	}, nil)

	item, itemErr := uc.resolveItem(context.Background(), "order-1", dto.FulfilledItemInput{
		CaseSKU:      "CASE-MOIST-50",
		CaseQuantity: 2,
	})
	require.Nil(t, itemErr)

	assert.Equal(t, "MOIST-50", item.RetailSKU)
	assert.Equal(t, 2, item.CaseQuantity)
	assert.Equal(t, 16, item.ExpectedUnits)
	assert.Equal(t, "order-1", item.OrderID)
}

func TestResolveItem_Rejections(t *testing.T) {
	catalogRepo := new(MockCatalogRepository)
	uc := newTestWholesaleUseCase(new(MockWholesaleRepository), catalogRepo, new(MockLedgerUseCase))

	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-UNKNOWN").Return(nil, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-RETIRED").Return(&model.CatalogEntry{
		CaseSKU: "CASE-RETIRED", RetailSKU: "RETIRED-01", UnitsPerCase: 6, Active: false,
	}, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-BADPACK").Return(&model.CatalogEntry{
		CaseSKU: "CASE-BADPACK", RetailSKU: "BADPACK-01", UnitsPerCase: 0, Active: true,
	}, nil)

	tests := []struct {
		name     string
		item     dto.FulfilledItemInput
		wantCode string
	}{
		{"zero case quantity", dto.FulfilledItemInput{CaseSKU: "CASE-MOIST-50", CaseQuantity: 0}, errs.CodeInvalidRequest},
		{"no catalog mapping", dto.FulfilledItemInput{CaseSKU: "CASE-UNKNOWN", CaseQuantity: 1}, errs.CodeUnresolvedCaseSku},
		{"inactive entry", dto.FulfilledItemInput{CaseSKU: "CASE-RETIRED", CaseQuantity: 1}, errs.CodeInactiveCatalogEntry},
		{"invalid pack size", dto.FulfilledItemInput{CaseSKU: "CASE-BADPACK", CaseQuantity: 1}, errs.CodeInvalidCasePackSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, itemErr := uc.resolveItem(context.Background(), "order-1", tt.item)
			require.NotNil(t, itemErr)
			assert.Nil(t, item)
			assert.Equal(t, tt.wantCode, itemErr.Code)
		})
	}
}

func TestMarkIncoming_MissingIdentifiers(t *testing.T) {
	uc := newTestWholesaleUseCase(new(MockWholesaleRepository), new(MockCatalogRepository), new(MockLedgerUseCase))

	_, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		Items: []dto.FulfilledItemInput{{CaseSKU: "CASE-1", CaseQuantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidRequest, errs.As(err).Code)
}

func TestMarkIncoming_NoItems(t *testing.T) {
	uc := newTestWholesaleUseCase(new(MockWholesaleRepository), new(MockCatalogRepository), new(MockLedgerUseCase))

	_, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		OrderID: "order-1",
		StoreID: "store-1",
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidRequest, errs.As(err).Code)
}

func TestMarkIncoming_DuplicateOrder(t *testing.T) {
	repo := new(MockWholesaleRepository)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), new(MockLedgerUseCase))

	repo.On("GetOrderByID", mock.Anything, "order-1").Return(&model.WholesaleOrder{
		ID:     "order-1",
		Status: model.OrderStatusFulfilled,
	}, nil)

	_, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		OrderID: "order-1",
		StoreID: "store-1",
		Items:   []dto.FulfilledItemInput{{CaseSKU: "CASE-1", CaseQuantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidRequest, errs.As(err).Code)
	repo.AssertNotCalled(t, "CreateOrderTx")
}

func TestMarkIncoming_AllItemsInvalid(t *testing.T) {
	repo := new(MockWholesaleRepository)
	catalogRepo := new(MockCatalogRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, catalogRepo, ledgerUC)

	repo.On("GetOrderByID", mock.Anything, "order-1").Return(nil, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-UNKNOWN").Return(nil, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-RETIRED").Return(&model.CatalogEntry{
		CaseSKU: "CASE-RETIRED", RetailSKU: "RETIRED-01", UnitsPerCase: 6, Active: false,
	}, nil)

	result, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		OrderID: "order-1",
		StoreID: "store-1",
		Items: []dto.FulfilledItemInput{
			{CaseSKU: "CASE-UNKNOWN", CaseQuantity: 1},
			{CaseSKU: "CASE-RETIRED", CaseQuantity: 2},
		},
	})
	require.NoError(t, err)

	// Nothing valid to record: no order row, per-item errors reported.
	assert.Nil(t, result.Order)
	assert.Len(t, result.ItemErrors, 2)
	assert.Equal(t, errs.CodeUnresolvedCaseSku, result.ItemErrors[0].Error.Code)
	assert.Equal(t, errs.CodeInactiveCatalogEntry, result.ItemErrors[1].Error.Code)
	repo.AssertNotCalled(t, "CreateOrderTx")
	ledgerUC.AssertNotCalled(t, "ApplyDelta")
}

func TestMarkIncoming_RecordsOrderAndIncomingTogether(t *testing.T) {
	repo := new(MockWholesaleRepository)
	catalogRepo := new(MockCatalogRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, catalogRepo, ledgerUC)

	repo.On("GetOrderByID", mock.Anything, "order-77").Return(nil, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-MOIST-50").Return(&model.CatalogEntry{
		CaseSKU: "CASE-MOIST-50", RetailSKU: "MOIST-50", UnitsPerCase: 8, Active: true,
	}, nil)

	ledgerUC.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateOrderTx", mock.Anything, mock.Anything, mock.AnythingOfType("*model.WholesaleOrder"), mock.AnythingOfType("[]model.WholesaleOrderItem")).Return(nil)
	ledgerUC.On("ApplyDeltaTx", mock.Anything, mock.Anything, mock.MatchedBy(func(in *ledgerdto.ApplyDeltaInput) bool {
		return in.Type == model.TxnWholesaleIncoming &&
			in.ProductSKU == "MOIST-50" &&
			in.IncomingDelta == 16 &&
			in.PendingOrderID != nil && *in.PendingOrderID == "order-77"
	})).Return(&model.InventoryRecord{}, &model.InventoryTransaction{ID: "txn-1"}, nil)
	ledgerUC.On("IndexTransaction", mock.Anything).Return()

	result, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		OrderID: "order-77",
		StoreID: "store-1",
		Items:   []dto.FulfilledItemInput{{CaseSKU: "CASE-MOIST-50", CaseQuantity: 2}},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Order)
	assert.Equal(t, model.OrderStatusFulfilled, result.Order.Status)
	assert.NotEmpty(t, result.Order.VerifyToken)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 16, result.Items[0].ExpectedUnits)
	repo.AssertExpectations(t)
	ledgerUC.AssertExpectations(t)
}

func TestMarkIncoming_FailedIncomingRaiseAbortsOrder(t *testing.T) {
	repo := new(MockWholesaleRepository)
	catalogRepo := new(MockCatalogRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, catalogRepo, ledgerUC)

	repo.On("GetOrderByID", mock.Anything, "order-77").Return(nil, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-MOIST-50").Return(&model.CatalogEntry{
		CaseSKU: "CASE-MOIST-50", RetailSKU: "MOIST-50", UnitsPerCase: 8, Active: true,
	}, nil)
	catalogRepo.On("GetByCaseSKU", mock.Anything, "CASE-SOAP-12").Return(&model.CatalogEntry{
		CaseSKU: "CASE-SOAP-12", RetailSKU: "SOAP-12", UnitsPerCase: 12, Active: true,
	}, nil)

	ledgerUC.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	repo.On("CreateOrderTx", mock.Anything, mock.Anything, mock.AnythingOfType("*model.WholesaleOrder"), mock.AnythingOfType("[]model.WholesaleOrderItem")).Return(nil)
	ledgerUC.On("ApplyDeltaTx", mock.Anything, mock.Anything, mock.MatchedBy(func(in *ledgerdto.ApplyDeltaInput) bool {
		return in.ProductSKU == "MOIST-50"
	})).Return(&model.InventoryRecord{}, &model.InventoryTransaction{ID: "txn-1"}, nil)
	ledgerUC.On("ApplyDeltaTx", mock.Anything, mock.Anything, mock.MatchedBy(func(in *ledgerdto.ApplyDeltaInput) bool {
		return in.ProductSKU == "SOAP-12"
	})).Return(nil, nil, errs.NewDatabaseError("upsert inventory record", assert.AnError))

	// One failed incoming raise aborts the whole order, rows included: a
	// partially recorded order could never pass receipt verification, while
	// an unrecorded one can simply be redelivered.
	result, err := uc.MarkIncoming(context.Background(), &dto.FulfilledOrderInput{
		OrderID: "order-77",
		StoreID: "store-1",
		Items: []dto.FulfilledItemInput{
			{CaseSKU: "CASE-MOIST-50", CaseQuantity: 2},
			{CaseSKU: "CASE-SOAP-12", CaseQuantity: 1},
		},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, errs.CodeDatabaseError, errs.As(err).Code)
	ledgerUC.AssertNotCalled(t, "IndexTransaction")
}

func TestGetVerification_UnknownToken(t *testing.T) {
	repo := new(MockWholesaleRepository)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), new(MockLedgerUseCase))

	repo.On("GetOrderByToken", mock.Anything, "bad-token").Return(nil, nil)

	_, err := uc.GetVerification(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Equal(t, errs.CodeOrderNotFound, errs.As(err).Code)
}

func TestGetVerification_AlreadyVerified(t *testing.T) {
	repo := new(MockWholesaleRepository)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), new(MockLedgerUseCase))

	now := time.Now().UTC()
	repo.On("GetOrderByToken", mock.Anything, "token-1").Return(&model.WholesaleOrder{
		ID:         "order-1",
		Status:     model.OrderStatusReceived,
		ReceivedAt: &now,
	}, nil)

	_, err := uc.GetVerification(context.Background(), "token-1")
	require.Error(t, err)
	assert.Equal(t, errs.CodeAlreadyVerified, errs.As(err).Code)
	repo.AssertNotCalled(t, "ListItems")
}

func TestGetVerification_PendingOrder(t *testing.T) {
	repo := new(MockWholesaleRepository)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), new(MockLedgerUseCase))

	order := &model.WholesaleOrder{ID: "order-1", StoreID: "store-1", Status: model.OrderStatusFulfilled}
	items := []model.WholesaleOrderItem{
		{ID: "item-1", OrderID: "order-1", CaseSKU: "CASE-MOIST-50", CaseQuantity: 2, RetailSKU: "MOIST-50", ExpectedUnits: 16},
	}
	repo.On("GetOrderByToken", mock.Anything, "token-1").Return(order, nil)
	repo.On("ListItems", mock.Anything, "order-1").Return(items, nil)

	view, err := uc.GetVerification(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", view.Order.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 16, view.Items[0].ExpectedUnits)
}

func TestVerifyReceipt_ShortfallClearsFullExpectation(t *testing.T) {
	repo := new(MockWholesaleRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), ledgerUC)

	order := &model.WholesaleOrder{ID: "order-1", StoreID: "store-1", Status: model.OrderStatusFulfilled}
	items := []model.WholesaleOrderItem{
		{ID: "item-1", OrderID: "order-1", CaseSKU: "CASE-MOIST-50", CaseQuantity: 2, RetailSKU: "MOIST-50", ExpectedUnits: 16},
	}
	repo.On("GetOrderByToken", mock.Anything, "token-1").Return(order, nil)
	repo.On("ListItems", mock.Anything, "order-1").Return(items, nil)
	repo.On("GetOrderForUpdate", mock.Anything, mock.Anything, "order-1").Return(order, nil)
	repo.On("UpdateItemReceivedTx", mock.Anything, mock.Anything, "item-1", 15).Return(nil)
	repo.On("UpdateOrderTx", mock.Anything, mock.Anything, mock.MatchedBy(func(o *model.WholesaleOrder) bool {
		return o.Status == model.OrderStatusReceived && o.ReceivedAt != nil
	})).Return(nil)

	ledgerUC.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	// 15 counted units enter on-hand while the full 16-unit expectation is
	// cleared; the shortfall lands in the notes.
	ledgerUC.On("ApplyDeltaTx", mock.Anything, mock.Anything, mock.MatchedBy(func(in *ledgerdto.ApplyDeltaInput) bool {
		return in.Type == model.TxnWholesaleReceived &&
			in.OnHandDelta == 15 && in.IncomingDelta == -16 &&
			in.ClearPendingOrder &&
			strings.Contains(in.Notes, "-1 discrepancy")
	})).Return(&model.InventoryRecord{}, &model.InventoryTransaction{ID: "txn-1"}, nil)
	ledgerUC.On("IndexTransaction", mock.Anything).Return()

	view, err := uc.VerifyReceipt(context.Background(), "token-1", &dto.VerifyReceiptInput{
		ReceivedQuantities: map[string]int{"item-1": 15},
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusReceived, view.Order.Status)
	require.Len(t, view.Items, 1)
	require.NotNil(t, view.Items[0].ReceivedUnits)
	assert.Equal(t, 15, *view.Items[0].ReceivedUnits)
	repo.AssertExpectations(t)
	ledgerUC.AssertExpectations(t)
}

func TestVerifyReceipt_UnknownToken(t *testing.T) {
	repo := new(MockWholesaleRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), ledgerUC)

	repo.On("GetOrderByToken", mock.Anything, "bad-token").Return(nil, nil)

	_, err := uc.VerifyReceipt(context.Background(), "bad-token", &dto.VerifyReceiptInput{})
	require.Error(t, err)
	assert.Equal(t, errs.CodeOrderNotFound, errs.As(err).Code)
	ledgerUC.AssertNotCalled(t, "WithTx")
}

func TestVerifyReceipt_AlreadyVerified(t *testing.T) {
	repo := new(MockWholesaleRepository)
	ledgerUC := new(MockLedgerUseCase)
	uc := newTestWholesaleUseCase(repo, new(MockCatalogRepository), ledgerUC)

	now := time.Now().UTC()
	repo.On("GetOrderByToken", mock.Anything, "token-1").Return(&model.WholesaleOrder{
		ID:         "order-1",
		Status:     model.OrderStatusReceived,
		ReceivedAt: &now,
	}, nil)

	_, err := uc.VerifyReceipt(context.Background(), "token-1", &dto.VerifyReceiptInput{})
	require.Error(t, err)
	assert.Equal(t, errs.CodeAlreadyVerified, errs.As(err).Code)
	ledgerUC.AssertNotCalled(t, "WithTx")
	ledgerUC.AssertNotCalled(t, "ApplyDeltaTx")
}
