package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/model"
)

// ClientService implements the client business rules: upsert by name,
// existence-guarded updates and the cascades into the client's order.
type ClientService struct {
	clients ClientStore
	orders  *OrderService
	log     *zap.Logger
}

// NewClientService builds the client service.
func NewClientService(clients ClientStore, orders *OrderService, log *zap.Logger) *ClientService {
	return &ClientService{clients: clients, orders: orders, log: log}
}

// UpsertByName inserts a client, or overwrites the address of an existing
// client with the same name (case-insensitive) and revives it if it was
// soft-deleted. Names are the natural key; at most one row per name exists.
func (s *ClientService) UpsertByName(ctx context.Context, name, address string) (UpsertOutcome, error) {
	existing, err := findClientByName(ctx, s.clients, name)
	if err != nil && !notFound(err) {
		return 0, err
	}
	if existing != nil {
		existing.Address = address
		if err := existing.SetDeleted(model.Active); err != nil {
			return 0, err
		}
		if err := s.clients.Update(ctx, existing); err != nil {
			return 0, err
		}
		return UpdatedExisting, nil
	}

	id, err := s.clients.NextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.clients.Insert(ctx, &model.Client{ID: id, Name: name, Address: address}); err != nil {
		return 0, err
	}
	return Created, nil
}

// FindByName resolves a client by case-insensitive name.
func (s *ClientService) FindByName(ctx context.Context, name string) (*model.Client, error) {
	return findClientByName(ctx, s.clients, name)
}

// FindByID returns the client with the given id.
func (s *ClientService) FindByID(ctx context.Context, id int) (*model.Client, error) {
	return s.clients.FindByID(ctx, id)
}

// FindAll returns every client row.
func (s *ClientService) FindAll(ctx context.Context) ([]model.Client, error) {
	return s.clients.FindAll(ctx)
}

// Update rewrites a client after verifying it still exists; a vanished
// client is a no-op.
func (s *ClientService) Update(ctx context.Context, client *model.Client) error {
	if _, err := s.clients.FindByID(ctx, client.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	return s.clients.Update(ctx, client)
}

// HardDelete removes the client row together with its orders and their
// items. A vanished client is a no-op.
func (s *ClientService) HardDelete(ctx context.Context, client *model.Client) error {
	if _, err := s.clients.FindByID(ctx, client.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, client); err != nil {
		return err
	}
	orders, err := s.orders.orders.FindAllByClient(ctx, client.ID)
	if err != nil {
		return err
	}
	for i := range orders {
		if err := s.orders.HardDelete(ctx, &orders[i]); err != nil {
			return err
		}
	}
	return nil
}

// SoftDeleteByName flags the client as deleted and cascades the flag through
// its active order down to the order's items. An unknown name is a no-op.
func (s *ClientService) SoftDeleteByName(ctx context.Context, name string) error {
	client, err := findClientByName(ctx, s.clients, name)
	if notFound(err) {
		s.log.Debug("soft delete skipped, client not found", zap.String("name", name))
		return nil
	} else if err != nil {
		return err
	}
	if err := client.SetDeleted(model.SoftDeleted); err != nil {
		return err
	}
	if err := s.clients.Update(ctx, client); err != nil {
		return err
	}
	order, err := s.orders.activeOrder(ctx, client.ID)
	if err != nil {
		return err
	}
	if order != nil {
		return s.orders.SoftDelete(ctx, order)
	}
	return nil
}
