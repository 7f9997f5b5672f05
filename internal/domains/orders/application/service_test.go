package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/orderhub/order-service/internal/domains/orders/application/types"
	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

type fakeRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	insertErr error
	inserts   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[int64]*domain.Order{}}
}

func (f *fakeRepo) Insert(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.inserts++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	clone := *order
	f.nextID++
	clone.ID = f.nextID
	f.orders[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if _, ok := f.orders[order.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	f.orders[clone.ID] = &clone
	return &clone, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, o := range f.orders {
		clone := *o
		list = append(list, &clone)
	}
	return list, nil
}

type fakeCatalog struct {
	products map[int64]domain.Product
	err      error
	calls    int
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[id]; ok {
		return &p, nil
	}
	return nil, ports.ErrProductNotFound
}

func (f *fakeCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var list []domain.Product
	for _, p := range f.products {
		list = append(list, p)
	}
	return list, nil
}

type adjustment struct {
	productID int64
	delta     int32
	reason    string
}

type fakeStock struct {
	adjustments []adjustment
	rejectWith  error
}

func (f *fakeStock) Adjust(_ context.Context, productID int64, delta int32, reason string) error {
	f.adjustments = append(f.adjustments, adjustment{productID: productID, delta: delta, reason: reason})
	return f.rejectWith
}

func newTestService(repo *fakeRepo, catalog *fakeCatalog, stock ports.StockAdjuster) *Service {
	return NewService(repo, catalog, stock)
}

func catalogWith(ids ...int64) *fakeCatalog {
	products := map[int64]domain.Product{}
	for _, id := range ids {
		products[id] = domain.Product{ID: id, Name: "widget", Price: decimal.NewFromInt(5)}
	}
	return &fakeCatalog{products: products}
}

func createCmd(productID int64, quantity int32) types.CreateOrderCommand {
	return types.CreateOrderCommand{
		ProductID:  productID,
		Quantity:   quantity,
		TotalPrice: decimal.NewFromFloat(50.00),
		UserID:     "caller-7",
	}
}

func TestCreate_ReservesStockAndPersists(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	svc := newTestService(repo, catalogWith(123), stock)

	saved, err := svc.Create(context.Background(), createCmd(123, 10))
	require.NoError(t, err)

	assert.NotZero(t, saved.ID)
	assert.Equal(t, int64(123), saved.ProductID)
	assert.Equal(t, int32(10), saved.Quantity)
	assert.Equal(t, "caller-7", saved.UserID)
	require.Len(t, stock.adjustments, 1)
	assert.Equal(t, int32(-10), stock.adjustments[0].delta)
	assert.Equal(t, int64(123), stock.adjustments[0].productID)
}

func TestCreate_OwnerComesFromVerifiedIdentity(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, catalogWith(123), &fakeStock{})

	cmd := createCmd(123, 1)
	cmd.UserID = "verified-identity"

	saved, err := svc.Create(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "verified-identity", saved.UserID)
}

func TestCreate_ProductMissing_NoStockCallNoInsert(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	svc := newTestService(repo, catalogWith(123), stock)

	_, err := svc.Create(context.Background(), createCmd(999, 1))
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, stock.adjustments)
	assert.Zero(t, repo.inserts)
}

func TestCreate_CatalogUnavailable_IsNotProductNotFound(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	catalog := &fakeCatalog{err: ports.ErrCatalogUnavailable}
	svc := newTestService(repo, catalog, stock)

	_, err := svc.Create(context.Background(), createCmd(123, 1))
	require.ErrorIs(t, err, ports.ErrCatalogUnavailable)
	assert.NotErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, stock.adjustments)
}

func TestCreate_StockRejected_NoInsert(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{rejectWith: ports.ErrStockRejected}
	svc := newTestService(repo, catalogWith(123), stock)

	_, err := svc.Create(context.Background(), createCmd(123, 5))
	require.ErrorIs(t, err, ErrStockUnavailable)
	assert.ErrorIs(t, err, ports.ErrStockRejected)
	assert.Zero(t, repo.inserts)
	assert.Len(t, stock.adjustments, 1)
}

func TestCreate_StockUnreachable_MapsToStockUnavailable(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{rejectWith: ports.ErrStockUnreachable}
	svc := newTestService(repo, catalogWith(123), stock)

	_, err := svc.Create(context.Background(), createCmd(123, 5))
	require.ErrorIs(t, err, ErrStockUnavailable)
	assert.ErrorIs(t, err, ports.ErrStockUnreachable)
	assert.Zero(t, repo.inserts)
}

func TestCreate_InsertFailure_ReleasesReservationOnce(t *testing.T) {
	repo := newFakeRepo()
	insertErr := errors.New("connection reset")
	repo.insertErr = insertErr
	stock := &fakeStock{}
	svc := newTestService(repo, catalogWith(123), stock)

	_, err := svc.Create(context.Background(), createCmd(123, 10))
	require.ErrorIs(t, err, insertErr)

	require.Len(t, stock.adjustments, 2)
	assert.Equal(t, int32(-10), stock.adjustments[0].delta)
	assert.Equal(t, int32(10), stock.adjustments[1].delta)
	assert.Equal(t, int64(123), stock.adjustments[1].productID)
	assert.Contains(t, stock.adjustments[1].reason, "rollback")
}

func TestCreate_ReleaseFailure_StillSurfacesInsertError(t *testing.T) {
	repo := newFakeRepo()
	insertErr := errors.New("disk full")
	repo.insertErr = insertErr
	// The reservation succeeds, the release then fails.
	stock := &releaseFailingStock{inner: &fakeStock{}}
	svc := newTestService(repo, catalogWith(123), stock)

	_, err := svc.Create(context.Background(), createCmd(123, 3))
	require.ErrorIs(t, err, insertErr)
	assert.NotErrorIs(t, err, ports.ErrStockUnreachable)
}

type releaseFailingStock struct {
	inner *fakeStock
}

func (f *releaseFailingStock) Adjust(ctx context.Context, productID int64, delta int32, reason string) error {
	_ = f.inner.Adjust(ctx, productID, delta, reason)
	if delta > 0 {
		return ports.ErrStockUnreachable
	}
	return nil
}

func TestCreate_InsertFailure_ReleasesAfterCancellation(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("connection reset")
	stock := &fakeStock{}
	svc := newTestService(repo, catalogWith(123), stock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, createCmd(123, 4))
	require.Error(t, err)
	// The release still goes out on a cancelled request context.
	require.Len(t, stock.adjustments, 2)
	assert.Equal(t, int32(-4), stock.adjustments[0].delta)
	assert.Equal(t, int32(4), stock.adjustments[1].delta)
}

func TestCreate_InvalidInput_NoRemoteCalls(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	catalog := catalogWith(123)
	svc := newTestService(repo, catalog, stock)

	_, err := svc.Create(context.Background(), createCmd(123, 0))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, catalog.calls)
	assert.Empty(t, stock.adjustments)
}

func TestGetByID_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, catalogWith(123), &fakeStock{})

	saved, err := svc.Create(context.Background(), createCmd(123, 2))
	require.NoError(t, err)

	first, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	second, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReplace_OverwritesWithoutRevalidation(t *testing.T) {
	repo := newFakeRepo()
	catalog := catalogWith(123)
	stock := &fakeStock{}
	svc := newTestService(repo, catalog, stock)

	saved, err := svc.Create(context.Background(), createCmd(123, 2))
	require.NoError(t, err)
	catalogCalls := catalog.calls
	stockCalls := len(stock.adjustments)

	when := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	updated, err := svc.Replace(context.Background(), saved.ID, types.ReplaceOrderCommand{
		ProductID:  456, // not in the catalog fake; replace must not care
		Quantity:   9,
		TotalPrice: decimal.NewFromInt(90),
		OrderDate:  when,
		UserID:     "other-user",
	})
	require.NoError(t, err)

	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, int64(456), updated.ProductID)
	assert.Equal(t, int32(9), updated.Quantity)
	assert.Equal(t, "other-user", updated.UserID)
	assert.Equal(t, when, updated.OrderDate)
	assert.Equal(t, catalogCalls, catalog.calls)
	assert.Equal(t, stockCalls, len(stock.adjustments))
}

func TestReplace_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), catalogWith(123), &fakeStock{})

	_, err := svc.Replace(context.Background(), 42, types.ReplaceOrderCommand{
		ProductID: 1, Quantity: 1, TotalPrice: decimal.Zero, UserID: "u",
	})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDelete_ThenGone_NoStockRelease(t *testing.T) {
	repo := newFakeRepo()
	stock := &fakeStock{}
	svc := newTestService(repo, catalogWith(123), stock)

	saved, err := svc.Create(context.Background(), createCmd(123, 2))
	require.NoError(t, err)
	adjustmentsBefore := len(stock.adjustments)

	require.NoError(t, svc.Delete(context.Background(), saved.ID))
	_, err = svc.GetByID(context.Background(), saved.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), saved.ID), ports.ErrNotFound)
	assert.Equal(t, adjustmentsBefore, len(stock.adjustments))
}
