// Package repo binds the generic persistence engine to the four entities.
//
// Repositories hold no logic of their own: they supply the key-column
// literals and the one or two filtered finders each entity needs.
package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/engine"
	"github.com/orderflow/orderflow/pkg/model"
)

// Clients is the client repository.
type Clients struct {
	*engine.Engine[model.Client]
}

// NewClients builds the client repository on a store handle.
func NewClients(db engine.Querier, log *zap.Logger) *Clients {
	return &Clients{engine.New(db, model.ClientTable, log)}
}

// FindByID looks a client up by its primary key.
func (r *Clients) FindByID(ctx context.Context, id int) (*model.Client, error) {
	return r.FindBy(ctx, "idclient", id)
}

// Products is the product repository.
type Products struct {
	*engine.Engine[model.Product]
}

// NewProducts builds the product repository on a store handle.
func NewProducts(db engine.Querier, log *zap.Logger) *Products {
	return &Products{engine.New(db, model.ProductTable, log)}
}

// FindByID looks a product up by its primary key.
func (r *Products) FindByID(ctx context.Context, id int) (*model.Product, error) {
	return r.FindBy(ctx, "idproduct", id)
}

// Orders is the order repository.
type Orders struct {
	*engine.Engine[model.Order]
}

// NewOrders builds the order repository on a store handle.
func NewOrders(db engine.Querier, log *zap.Logger) *Orders {
	return &Orders{engine.New(db, model.OrderTable, log)}
}

// FindByID looks an order up by its primary key.
func (r *Orders) FindByID(ctx context.Context, id int) (*model.Order, error) {
	return r.FindBy(ctx, "idorder", id)
}

// FindAllByClient returns every order of one client.
func (r *Orders) FindAllByClient(ctx context.Context, clientID int) ([]model.Order, error) {
	return r.FindAllBy(ctx, "idclient", clientID)
}

// Items is the order-item repository.
type Items struct {
	*engine.Engine[model.OrderItem]
}

// NewItems builds the order-item repository on a store handle.
func NewItems(db engine.Querier, log *zap.Logger) *Items {
	return &Items{engine.New(db, model.OrderItemTable, log)}
}

// FindAllByOrder returns every item under one order.
func (r *Items) FindAllByOrder(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	return r.FindAllBy(ctx, "idorder", orderID)
}

// FindAllByProduct returns every item referencing one product.
func (r *Items) FindAllByProduct(ctx context.Context, productID int) ([]model.OrderItem, error) {
	return r.FindAllBy(ctx, "idproduct", productID)
}
