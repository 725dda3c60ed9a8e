// Package service implements the business rules on top of the repositories:
// natural-key upserts, stock-checked order placement, per-client order
// aggregation and cascading deletes.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/orderflow/orderflow/pkg/model"
	"github.com/orderflow/orderflow/pkg/store"
)

// ErrUnresolvedName is returned when order placement references a client or
// product name absent from the store. It is distinct from a stock rejection.
var ErrUnresolvedName = errors.New("client or product name not found")

// UpsertOutcome reports what an upsert by natural key did.
type UpsertOutcome int

const (
	// Created means a new row was inserted with the next synthetic id.
	Created UpsertOutcome = iota
	// UpdatedExisting means a row with the same name was overwritten in
	// place and revived if it had been soft-deleted.
	UpdatedExisting
)

// PlaceOutcome reports the result of an order placement.
type PlaceOutcome int

const (
	// Accepted means the order was recorded and stock decremented.
	Accepted PlaceOutcome = iota
	// RejectedInsufficientStock means stock was too low; nothing changed.
	RejectedInsufficientStock
)

// ClientStore is the persistence surface the services need for clients.
type ClientStore interface {
	FindAll(ctx context.Context) ([]model.Client, error)
	FindByID(ctx context.Context, id int) (*model.Client, error)
	Insert(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	Delete(ctx context.Context, c *model.Client) error
	NextID(ctx context.Context) (int, error)
}

// ProductStore is the persistence surface the services need for products.
type ProductStore interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int) (*model.Product, error)
	Insert(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, p *model.Product) error
	NextID(ctx context.Context) (int, error)
}

// OrderStore is the persistence surface the services need for orders.
type OrderStore interface {
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, id int) (*model.Order, error)
	FindAllByClient(ctx context.Context, clientID int) ([]model.Order, error)
	Insert(ctx context.Context, o *model.Order) error
	Update(ctx context.Context, o *model.Order) error
	Delete(ctx context.Context, o *model.Order) error
	NextID(ctx context.Context) (int, error)
}

// ItemStore is the persistence surface the services need for order items.
// Delete is keyed on the item's order id and removes every item of that
// order sharing it.
type ItemStore interface {
	FindAll(ctx context.Context) ([]model.OrderItem, error)
	FindAllByOrder(ctx context.Context, orderID int) ([]model.OrderItem, error)
	FindAllByProduct(ctx context.Context, productID int) ([]model.OrderItem, error)
	Insert(ctx context.Context, i *model.OrderItem) error
	Update(ctx context.Context, i *model.OrderItem) error
	Delete(ctx context.Context, i *model.OrderItem) error
}

// notFound collapses the store's not-found sentinel into a boolean while
// letting real store failures pass through.
func notFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// findClientByName scans for a client by case-insensitive name. Both active
// and soft-deleted rows match, so upserts can revive deleted clients.
func findClientByName(ctx context.Context, clients ClientStore, name string) (*model.Client, error) {
	all, err := clients.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// findProductByName scans for a product by case-insensitive name.
func findProductByName(ctx context.Context, products ProductStore, name string) (*model.Product, error) {
	all, err := products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, name) {
			return &all[i], nil
		}
	}
	return nil, store.ErrNotFound
}
