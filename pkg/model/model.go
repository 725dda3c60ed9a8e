// Package model defines the four stored entities and their descriptors.
package model

import (
	"errors"
	"fmt"

	"github.com/orderflow/orderflow/pkg/schema"
)

// Deleted-flag values. Rows are soft-deleted by flipping the flag, never by
// removing them.
const (
	Active      = 0
	SoftDeleted = 1
)

// ErrInvalidFlag is returned when a deleted flag outside {0,1} is assigned.
// The field keeps its previous value.
var ErrInvalidFlag = errors.New("invalid deleted flag")

// Client is a customer identified by a case-insensitively unique name.
type Client struct {
	ID      int
	Name    string
	Address string
	Deleted int
}

// SetDeleted assigns the deleted flag, rejecting values outside {0,1}.
func (c *Client) SetDeleted(flag int) error {
	if flag != Active && flag != SoftDeleted {
		return fmt.Errorf("%w for client %d: %d", ErrInvalidFlag, c.ID, flag)
	}
	c.Deleted = flag
	return nil
}

// Product is a stock item; Quantity is the units on hand.
type Product struct {
	ID       int
	Name     string
	Price    float32
	Quantity int
	Deleted  int
}

// SetDeleted assigns the deleted flag, rejecting values outside {0,1}.
func (p *Product) SetDeleted(flag int) error {
	if flag != Active && flag != SoftDeleted {
		return fmt.Errorf("%w for product %d: %d", ErrInvalidFlag, p.ID, flag)
	}
	p.Deleted = flag
	return nil
}

// Order aggregates every accepted purchase of one client. At most one active
// order exists per client; repeated purchases accumulate into its total.
type Order struct {
	ID       int
	ClientID int
	Total    float32
	Deleted  int
}

// SetDeleted assigns the deleted flag, rejecting values outside {0,1}.
func (o *Order) SetDeleted(flag int) error {
	if flag != Active && flag != SoftDeleted {
		return fmt.Errorf("%w for order %d: %d", ErrInvalidFlag, o.ID, flag)
	}
	o.Deleted = flag
	return nil
}

// OrderItem is one product line under an order. It has no id of its own; its
// identity is the (order, product) pair.
type OrderItem struct {
	OrderID   int
	ProductID int
	Quantity  int
	Deleted   int
}

// SetDeleted assigns the deleted flag, rejecting values outside {0,1}.
func (i *OrderItem) SetDeleted(flag int) error {
	if flag != Active && flag != SoftDeleted {
		return fmt.Errorf("%w for order item %d/%d: %d", ErrInvalidFlag, i.OrderID, i.ProductID, flag)
	}
	i.Deleted = flag
	return nil
}

// Descriptors for the four tables. The first field of each is its key, and
// the engine relies on the explicit Key marker to find it.
var (
	ClientTable = schema.New("client",
		schema.Int("idclient", func(c *Client) int { return c.ID }, func(c *Client, v int) { c.ID = v }).Key(),
		schema.String("name", func(c *Client) string { return c.Name }, func(c *Client, v string) { c.Name = v }),
		schema.String("address", func(c *Client) string { return c.Address }, func(c *Client, v string) { c.Address = v }),
		schema.Int("deleted", func(c *Client) int { return c.Deleted }, func(c *Client, v int) { c.Deleted = v }),
	)

	ProductTable = schema.New("product",
		schema.Int("idproduct", func(p *Product) int { return p.ID }, func(p *Product, v int) { p.ID = v }).Key(),
		schema.String("name", func(p *Product) string { return p.Name }, func(p *Product, v string) { p.Name = v }),
		schema.Float32("price", func(p *Product) float32 { return p.Price }, func(p *Product, v float32) { p.Price = v }),
		schema.Int("quantity", func(p *Product) int { return p.Quantity }, func(p *Product, v int) { p.Quantity = v }),
		schema.Int("deleted", func(p *Product) int { return p.Deleted }, func(p *Product, v int) { p.Deleted = v }),
	)

	OrderTable = schema.New("orders",
		schema.Int("idorder", func(o *Order) int { return o.ID }, func(o *Order, v int) { o.ID = v }).Key(),
		schema.Int("idclient", func(o *Order) int { return o.ClientID }, func(o *Order, v int) { o.ClientID = v }),
		schema.Float32("total", func(o *Order) float32 { return o.Total }, func(o *Order, v float32) { o.Total = v }),
		schema.Int("deleted", func(o *Order) int { return o.Deleted }, func(o *Order, v int) { o.Deleted = v }),
	)

	OrderItemTable = schema.New("orderitem",
		schema.Int("idorder", func(i *OrderItem) int { return i.OrderID }, func(i *OrderItem, v int) { i.OrderID = v }).Key(),
		schema.Int("idproduct", func(i *OrderItem) int { return i.ProductID }, func(i *OrderItem, v int) { i.ProductID = v }),
		schema.Int("quantity", func(i *OrderItem) int { return i.Quantity }, func(i *OrderItem, v int) { i.Quantity = v }),
		schema.Int("deleted", func(i *OrderItem) int { return i.Deleted }, func(i *OrderItem, v int) { i.Deleted = v }),
	)
)
