package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/model"
	"github.com/orderflow/orderflow/pkg/store"
)

type fixture struct {
	clients  *memClients
	products *memProducts
	orders   *memOrders
	items    *memItems

	clientSvc  *ClientService
	productSvc *ProductService
	orderSvc   *OrderService
	itemSvc    *OrderItemService
}

func newFixture() *fixture {
	f := &fixture{
		clients:  &memClients{},
		products: &memProducts{},
		orders:   &memOrders{},
		items:    &memItems{},
	}
	log := zap.NewNop()
	f.itemSvc = NewOrderItemService(f.items, log)
	f.orderSvc = NewOrderService(f.orders, f.itemSvc, f.clients, f.products, log)
	f.clientSvc = NewClientService(f.clients, f.orderSvc, log)
	f.productSvc = NewProductService(f.products, f.orderSvc, f.itemSvc, log)
	return f
}

func TestClientUpsert_CreatesThenOverwrites(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	outcome, err := f.clientSvc.UpsertByName(ctx, "Alice", "1 Oak St")
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	require.Len(t, f.clients.rows, 1)
	assert.Equal(t, 1, f.clients.rows[0].ID)

	outcome, err = f.clientSvc.UpsertByName(ctx, "alice", "2 Elm St")
	require.NoError(t, err)
	assert.Equal(t, UpdatedExisting, outcome)
	require.Len(t, f.clients.rows, 1, "name is a natural key, no second row")
	assert.Equal(t, "2 Elm St", f.clients.rows[0].Address)
	assert.Equal(t, "Alice", f.clients.rows[0].Name, "original casing kept")
}

func TestClientUpsert_RevivesSoftDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.clientSvc.UpsertByName(ctx, "Alice", "1 Oak St")
	require.NoError(t, err)
	require.NoError(t, f.clientSvc.SoftDeleteByName(ctx, "Alice"))
	require.Equal(t, model.SoftDeleted, f.clients.rows[0].Deleted)

	outcome, err := f.clientSvc.UpsertByName(ctx, "Alice", "3 Pine St")
	require.NoError(t, err)
	assert.Equal(t, UpdatedExisting, outcome)
	assert.Equal(t, model.Active, f.clients.rows[0].Deleted)
}

func TestProductUpsert_AccumulatesStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	outcome, err := f.productSvc.UpsertByName(ctx, "Widget", 10, 2.5)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)

	outcome, err = f.productSvc.UpsertByName(ctx, "widget", 5, 3.0)
	require.NoError(t, err)
	assert.Equal(t, UpdatedExisting, outcome)
	require.Len(t, f.products.rows, 1)
	assert.Equal(t, 15, f.products.rows[0].Quantity, "quantities add up")
	assert.Equal(t, float32(3.0), f.products.rows[0].Price, "price is replaced")
}

func TestPlace_CreatesOrderAndDecrementsStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)

	outcome, err := f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)
	assert.Equal(t, Accepted, outcome)

	require.Len(t, f.orders.rows, 1)
	assert.Equal(t, float32(10), f.orders.rows[0].Total)
	require.Len(t, f.items.rows, 1)
	assert.Equal(t, 4, f.items.rows[0].Quantity)
	assert.Equal(t, 6, f.products.rows[0].Quantity, "stock decremented")
}

func TestPlace_AggregatesIntoActiveOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.productSvc.UpsertByName(ctx, "Bolt", 100, 0.5)
	require.NoError(t, err)

	_, err = f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)
	_, err = f.orderSvc.Place(ctx, "Alice", "Bolt", 10)
	require.NoError(t, err)

	require.Len(t, f.orders.rows, 1, "one active order per client")
	assert.Equal(t, float32(15), f.orders.rows[0].Total, "10 + 5")
	require.Len(t, f.items.rows, 2)
	assert.Equal(t, f.orders.rows[0].ID, f.items.rows[1].OrderID)
}

func TestPlace_RejectsWithoutMutation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)

	outcome, err := f.orderSvc.Place(ctx, "Alice", "Widget", 11)
	require.NoError(t, err)
	assert.Equal(t, RejectedInsufficientStock, outcome)

	assert.Empty(t, f.orders.rows, "no order row on rejection")
	assert.Empty(t, f.items.rows, "no item row on rejection")
	assert.Equal(t, 10, f.products.rows[0].Quantity, "stock untouched")
}

func TestPlace_ExactStockIsAccepted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)

	outcome, err := f.orderSvc.Place(ctx, "Alice", "Widget", 10)
	require.NoError(t, err)
	assert.Equal(t, Accepted, outcome)
	assert.Equal(t, 0, f.products.rows[0].Quantity)
}

func TestPlace_UnresolvedNames(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)

	_, err := f.orderSvc.Place(ctx, "Nobody", "Widget", 1)
	require.ErrorIs(t, err, ErrUnresolvedName)

	_, err = f.orderSvc.Place(ctx, "Alice", "Vapor", 1)
	require.ErrorIs(t, err, ErrUnresolvedName)
}

func TestPlace_AfterSoftDeleteOpensNewOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)

	_, err := f.orderSvc.Place(ctx, "Alice", "Widget", 2)
	require.NoError(t, err)
	first, err := f.orderSvc.FindByClient(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.orderSvc.SoftDelete(ctx, first))

	_, err = f.orderSvc.Place(ctx, "Alice", "Widget", 3)
	require.NoError(t, err)

	require.Len(t, f.orders.rows, 2)
	active, err := f.orderSvc.FindByClient(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, active.ID, "soft-deleted order never aggregates")
	assert.Equal(t, float32(7.5), active.Total)
}

func TestOrderSoftDelete_PreservesItemSiblings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.productSvc.UpsertByName(ctx, "Bolt", 100, 0.5)
	require.NoError(t, err)

	_, err = f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)
	_, err = f.orderSvc.Place(ctx, "Alice", "Bolt", 10)
	require.NoError(t, err)

	order, err := f.orderSvc.FindByClient(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.orderSvc.SoftDelete(ctx, order))

	require.Len(t, f.items.rows, 2)
	byProduct := map[int]model.OrderItem{}
	for _, item := range f.items.rows {
		assert.Equal(t, model.SoftDeleted, item.Deleted)
		byProduct[item.ProductID] = item
	}
	assert.Equal(t, 4, byProduct[1].Quantity, "sibling rows keep their own values")
	assert.Equal(t, 10, byProduct[2].Quantity)
}

func TestClientSoftDelete_Cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)

	require.NoError(t, f.clientSvc.SoftDeleteByName(ctx, "alice"))

	assert.Equal(t, model.SoftDeleted, f.clients.rows[0].Deleted)
	assert.Equal(t, model.SoftDeleted, f.orders.rows[0].Deleted)
	assert.Equal(t, model.SoftDeleted, f.items.rows[0].Deleted)
	assert.Equal(t, model.Active, f.products.rows[0].Deleted, "products untouched")
}

func TestClientSoftDelete_UnknownNameIsNoop(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.clientSvc.SoftDeleteByName(context.Background(), "Ghost"))
}

func TestClientHardDelete_Cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)

	client, err := f.clientSvc.FindByName(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, f.clientSvc.HardDelete(ctx, client))

	assert.Empty(t, f.clients.rows)
	assert.Empty(t, f.orders.rows)
	assert.Empty(t, f.items.rows)
	assert.Len(t, f.products.rows, 1, "products survive client removal")
}

func TestProductSoftDelete_CascadesThroughOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)

	require.NoError(t, f.productSvc.SoftDeleteByName(ctx, "widget"))

	assert.Equal(t, model.SoftDeleted, f.products.rows[0].Deleted)
	assert.Equal(t, model.SoftDeleted, f.orders.rows[0].Deleted)
	assert.Equal(t, model.SoftDeleted, f.items.rows[0].Deleted)
	assert.Equal(t, model.Active, f.clients.rows[0].Deleted, "client itself untouched")
}

func TestProductHardDelete_RemovesWholeOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	mustSeed(t, f, ctx)
	_, err := f.productSvc.UpsertByName(ctx, "Bolt", 100, 0.5)
	require.NoError(t, err)
	_, err = f.orderSvc.Place(ctx, "Alice", "Widget", 4)
	require.NoError(t, err)
	_, err = f.orderSvc.Place(ctx, "Alice", "Bolt", 10)
	require.NoError(t, err)

	product, err := f.productSvc.FindByName(ctx, "Widget")
	require.NoError(t, err)
	require.NoError(t, f.productSvc.HardDelete(ctx, product))

	assert.Len(t, f.products.rows, 1, "only the deleted product goes")
	assert.Empty(t, f.orders.rows, "the whole order goes, not just its line")
	assert.Empty(t, f.items.rows)
}

func TestUpdate_VanishedRowIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.clientSvc.Update(ctx, &model.Client{ID: 99, Name: "Ghost"})
	require.NoError(t, err)
	assert.Empty(t, f.clients.rows)

	err = f.productSvc.Update(ctx, &model.Product{ID: 99})
	require.NoError(t, err)

	err = f.orderSvc.Update(ctx, &model.Order{ID: 99})
	require.NoError(t, err)
}

func TestFindByClient_NoActiveOrder(t *testing.T) {
	f := newFixture()
	_, err := f.orderSvc.FindByClient(context.Background(), 1)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestNextID_NeverCollidesWithLiveRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.clientSvc.UpsertByName(ctx, "Alice", "1 Oak St")
	require.NoError(t, err)
	_, err = f.clientSvc.UpsertByName(ctx, "Bob", "2 Elm St")
	require.NoError(t, err)

	// Remove the lower id; a row count would now hand out Bob's id.
	alice, err := f.clientSvc.FindByName(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, f.clientSvc.HardDelete(ctx, alice))

	_, err = f.clientSvc.UpsertByName(ctx, "Carol", "3 Pine St")
	require.NoError(t, err)
	carol, err := f.clientSvc.FindByName(ctx, "Carol")
	require.NoError(t, err)
	assert.Equal(t, 3, carol.ID, "max+1, not row count")
}

func TestSetDeletedRejectionSurfaces(t *testing.T) {
	var c model.Client
	err := c.SetDeleted(7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidFlag))
}

// mustSeed inserts one client (Alice, id 1) and one product (Widget, id 1,
// 10 on hand at 2.50).
func mustSeed(t *testing.T, f *fixture, ctx context.Context) {
	t.Helper()
	_, err := f.clientSvc.UpsertByName(ctx, "Alice", "1 Oak St")
	require.NoError(t, err)
	_, err = f.productSvc.UpsertByName(ctx, "Widget", 10, 2.5)
	require.NoError(t, err)
}
