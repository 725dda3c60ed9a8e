package service

import (
	"context"

	"github.com/orderflow/orderflow/pkg/model"
	"github.com/orderflow/orderflow/pkg/store"
)

// In-memory stores mirroring the persistence engine's semantics: updates and
// deletes are keyed on the descriptor's key column, so item operations touch
// every row of the order.

type memClients struct {
	rows []model.Client
}

func (m *memClients) FindAll(ctx context.Context) ([]model.Client, error) {
	return append([]model.Client(nil), m.rows...), nil
}

func (m *memClients) FindByID(ctx context.Context, id int) (*model.Client, error) {
	for _, r := range m.rows {
		if r.ID == id {
			c := r
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memClients) Insert(ctx context.Context, c *model.Client) error {
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memClients) Update(ctx context.Context, c *model.Client) error {
	for i := range m.rows {
		if m.rows[i].ID == c.ID {
			m.rows[i] = *c
		}
	}
	return nil
}

func (m *memClients) Delete(ctx context.Context, c *model.Client) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ID != c.ID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memClients) NextID(ctx context.Context) (int, error) {
	max := 0
	for _, r := range m.rows {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1, nil
}

type memProducts struct {
	rows []model.Product
}

func (m *memProducts) FindAll(ctx context.Context) ([]model.Product, error) {
	return append([]model.Product(nil), m.rows...), nil
}

func (m *memProducts) FindByID(ctx context.Context, id int) (*model.Product, error) {
	for _, r := range m.rows {
		if r.ID == id {
			p := r
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memProducts) Insert(ctx context.Context, p *model.Product) error {
	m.rows = append(m.rows, *p)
	return nil
}

func (m *memProducts) Update(ctx context.Context, p *model.Product) error {
	for i := range m.rows {
		if m.rows[i].ID == p.ID {
			m.rows[i] = *p
		}
	}
	return nil
}

func (m *memProducts) Delete(ctx context.Context, p *model.Product) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ID != p.ID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memProducts) NextID(ctx context.Context) (int, error) {
	max := 0
	for _, r := range m.rows {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1, nil
}

type memOrders struct {
	rows []model.Order
}

func (m *memOrders) FindAll(ctx context.Context) ([]model.Order, error) {
	return append([]model.Order(nil), m.rows...), nil
}

func (m *memOrders) FindByID(ctx context.Context, id int) (*model.Order, error) {
	for _, r := range m.rows {
		if r.ID == id {
			o := r
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memOrders) FindAllByClient(ctx context.Context, clientID int) ([]model.Order, error) {
	var out []model.Order
	for _, r := range m.rows {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memOrders) Insert(ctx context.Context, o *model.Order) error {
	m.rows = append(m.rows, *o)
	return nil
}

func (m *memOrders) Update(ctx context.Context, o *model.Order) error {
	for i := range m.rows {
		if m.rows[i].ID == o.ID {
			m.rows[i] = *o
		}
	}
	return nil
}

func (m *memOrders) Delete(ctx context.Context, o *model.Order) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.ID != o.ID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memOrders) NextID(ctx context.Context) (int, error) {
	max := 0
	for _, r := range m.rows {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1, nil
}

type memItems struct {
	rows []model.OrderItem
}

func (m *memItems) FindAll(ctx context.Context) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), m.rows...), nil
}

func (m *memItems) FindAllByOrder(ctx context.Context, orderID int) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, r := range m.rows {
		if r.OrderID == orderID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memItems) FindAllByProduct(ctx context.Context, productID int) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, r := range m.rows {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memItems) Insert(ctx context.Context, i *model.OrderItem) error {
	m.rows = append(m.rows, *i)
	return nil
}

// Update rewrites every row sharing the item's order id, as a key-column
// UPDATE would.
func (m *memItems) Update(ctx context.Context, item *model.OrderItem) error {
	for i := range m.rows {
		if m.rows[i].OrderID == item.OrderID {
			m.rows[i] = *item
		}
	}
	return nil
}

// Delete removes every row sharing the item's order id, as a key-column
// DELETE would.
func (m *memItems) Delete(ctx context.Context, item *model.OrderItem) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.OrderID != item.OrderID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}
