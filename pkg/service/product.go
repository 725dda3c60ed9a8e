package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/model"
)

// ProductService implements the product business rules: upsert by name with
// stock accumulation and the cascades into orders containing the product.
type ProductService struct {
	products ProductStore
	orders   *OrderService
	items    *OrderItemService
	log      *zap.Logger
}

// NewProductService builds the product service.
func NewProductService(products ProductStore, orders *OrderService, items *OrderItemService, log *zap.Logger) *ProductService {
	return &ProductService{products: products, orders: orders, items: items, log: log}
}

// UpsertByName inserts a product, or, when a product with the same name
// exists (case-insensitive), replaces its price, adds the given quantity to
// its stock and revives it if it was soft-deleted.
func (s *ProductService) UpsertByName(ctx context.Context, name string, quantity int, price float32) (UpsertOutcome, error) {
	existing, err := findProductByName(ctx, s.products, name)
	if err != nil && !notFound(err) {
		return 0, err
	}
	if existing != nil {
		existing.Price = price
		existing.Quantity += quantity
		if err := existing.SetDeleted(model.Active); err != nil {
			return 0, err
		}
		if err := s.products.Update(ctx, existing); err != nil {
			return 0, err
		}
		return UpdatedExisting, nil
	}

	id, err := s.products.NextID(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.products.Insert(ctx, &model.Product{ID: id, Name: name, Price: price, Quantity: quantity}); err != nil {
		return 0, err
	}
	return Created, nil
}

// FindByName resolves a product by case-insensitive name.
func (s *ProductService) FindByName(ctx context.Context, name string) (*model.Product, error) {
	return findProductByName(ctx, s.products, name)
}

// FindByID returns the product with the given id.
func (s *ProductService) FindByID(ctx context.Context, id int) (*model.Product, error) {
	return s.products.FindByID(ctx, id)
}

// FindAll returns every product row.
func (s *ProductService) FindAll(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx)
}

// Update rewrites a product after verifying it still exists; a vanished
// product is a no-op.
func (s *ProductService) Update(ctx context.Context, product *model.Product) error {
	if _, err := s.products.FindByID(ctx, product.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	return s.products.Update(ctx, product)
}

// HardDelete removes the product row and every order containing an item for
// it, items included. Whole orders go, not just the offending lines. A
// vanished product is a no-op.
func (s *ProductService) HardDelete(ctx context.Context, product *model.Product) error {
	if _, err := s.products.FindByID(ctx, product.ID); notFound(err) {
		return nil
	} else if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, product); err != nil {
		return err
	}
	items, err := s.items.FindAllByProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	for i := range items {
		order, err := s.orders.FindByID(ctx, items[i].OrderID)
		if notFound(err) {
			continue
		} else if err != nil {
			return err
		}
		if err := s.orders.HardDelete(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

// SoftDeleteByName flags the product as deleted and cascades the flag to
// every order containing it, items included — the same depth the hard
// delete reaches. An unknown name is a no-op.
func (s *ProductService) SoftDeleteByName(ctx context.Context, name string) error {
	product, err := findProductByName(ctx, s.products, name)
	if notFound(err) {
		s.log.Debug("soft delete skipped, product not found", zap.String("name", name))
		return nil
	} else if err != nil {
		return err
	}
	if err := product.SetDeleted(model.SoftDeleted); err != nil {
		return err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return err
	}
	items, err := s.items.FindAllByProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	for i := range items {
		order, err := s.orders.FindByID(ctx, items[i].OrderID)
		if notFound(err) {
			continue
		} else if err != nil {
			return err
		}
		if err := s.orders.SoftDelete(ctx, order); err != nil {
			return err
		}
	}
	return nil
}
