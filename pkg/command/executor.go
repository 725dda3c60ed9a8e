package command

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/report"
	"github.com/orderflow/orderflow/pkg/service"
)

// Executor dispatches parsed commands to the domain services, collects the
// rejection notifications and numbers the rendered documents.
type Executor struct {
	clients  *service.ClientService
	products *service.ProductService
	orders   *service.OrderService
	renderer report.Renderer
	log      *zap.Logger

	seq    int
	notifs []report.Notification
}

// NewExecutor wires an executor.
func NewExecutor(clients *service.ClientService, products *service.ProductService, orders *service.OrderService, renderer report.Renderer, log *zap.Logger) *Executor {
	return &Executor{clients: clients, products: products, orders: orders, renderer: renderer, log: log}
}

// Execute runs the commands in order, one at a time. Malformed arguments and
// unknown tables are logged and skipped; a store failure is logged and the
// batch moves on to the next command. An unresolved client or product name
// in an order aborts the run.
func (e *Executor) Execute(ctx context.Context, commands []Command) error {
	for i, cmd := range commands {
		if err := e.dispatch(ctx, cmd); err != nil {
			if errors.Is(err, service.ErrUnresolvedName) {
				return err
			}
			e.log.Error("command failed", zap.Int("line", i+1), zap.Error(err))
		}
	}
	return nil
}

func (e *Executor) dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case KindInsert:
		return e.insert(ctx, cmd)
	case KindOrder:
		return e.order(ctx, cmd)
	case KindDelete:
		return e.delete(ctx, cmd)
	case KindReport:
		return e.reportTable(ctx, cmd.Table)
	}
	return nil
}

func (e *Executor) insert(ctx context.Context, cmd Command) error {
	switch cmd.Table {
	case "client":
		if len(cmd.Args) != 2 {
			e.log.Warn("malformed client insert, skipped", zap.Strings("args", cmd.Args))
			return nil
		}
		_, err := e.clients.UpsertByName(ctx, cmd.Args[0], cmd.Args[1])
		return err
	case "product":
		if len(cmd.Args) != 3 {
			e.log.Warn("malformed product insert, skipped", zap.Strings("args", cmd.Args))
			return nil
		}
		quantity, err := strconv.Atoi(cmd.Args[1])
		if err != nil {
			e.log.Warn("bad product quantity, skipped", zap.String("value", cmd.Args[1]))
			return nil
		}
		price, err := strconv.ParseFloat(cmd.Args[2], 32)
		if err != nil {
			e.log.Warn("bad product price, skipped", zap.String("value", cmd.Args[2]))
			return nil
		}
		_, err = e.products.UpsertByName(ctx, cmd.Args[0], quantity, float32(price))
		return err
	case "order":
		// "insert order" is an alias for the order verb.
		return e.order(ctx, cmd)
	default:
		e.log.Warn("insert into unknown table, skipped", zap.String("table", cmd.Table))
		return nil
	}
}

func (e *Executor) order(ctx context.Context, cmd Command) error {
	if len(cmd.Args) != 3 {
		e.log.Warn("malformed order, skipped", zap.Strings("args", cmd.Args))
		return nil
	}
	quantity, err := strconv.Atoi(cmd.Args[2])
	if err != nil {
		e.log.Warn("bad order quantity, skipped", zap.String("value", cmd.Args[2]))
		return nil
	}

	outcome, err := e.orders.Place(ctx, cmd.Args[0], cmd.Args[1], quantity)
	if err != nil {
		return err
	}
	if outcome == service.RejectedInsufficientStock {
		e.notifs = append(e.notifs, report.Notification{
			Client:   cmd.Args[0],
			Product:  cmd.Args[1],
			Quantity: quantity,
		})
	}
	return nil
}

func (e *Executor) delete(ctx context.Context, cmd Command) error {
	if len(cmd.Args) < 1 {
		e.log.Warn("malformed delete, skipped", zap.Strings("args", cmd.Args))
		return nil
	}
	switch cmd.Table {
	case "client":
		return e.clients.SoftDeleteByName(ctx, cmd.Args[0])
	case "product":
		return e.products.SoftDeleteByName(ctx, cmd.Args[0])
	default:
		e.log.Warn("delete from unknown table, skipped", zap.String("table", cmd.Table))
		return nil
	}
}

func (e *Executor) reportTable(ctx context.Context, table string) error {
	var err error
	switch table {
	case "client":
		err = e.renderer.ClientReport(ctx, e.seq)
	case "product":
		err = e.renderer.ProductReport(ctx, e.seq)
	case "order":
		err = e.renderer.OrderReport(ctx, e.seq)
	default:
		e.log.Warn("report for unknown table, skipped", zap.String("table", table))
		return nil
	}
	if err != nil {
		return err
	}
	e.seq++
	return nil
}

// RenderBills writes the closing documents: one bill per client with an
// active order, and one notification document per client whose orders were
// all rejected.
func (e *Executor) RenderBills(ctx context.Context) error {
	if err := e.renderer.Bills(ctx, e.notifs, e.seq); err != nil {
		return err
	}
	e.seq++
	return nil
}

// Notifications returns the rejections collected so far.
func (e *Executor) Notifications() []report.Notification {
	return e.notifs
}

// Reset empties all four tables, orders first (items go with them), then
// clients, then products.
func (e *Executor) Reset(ctx context.Context) error {
	orders, err := e.orders.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range orders {
		if err := e.orders.HardDelete(ctx, &orders[i]); err != nil {
			return err
		}
	}

	clients, err := e.clients.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range clients {
		if err := e.clients.HardDelete(ctx, &clients[i]); err != nil {
			return err
		}
	}

	products, err := e.products.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range products {
		if err := e.products.HardDelete(ctx, &products[i]); err != nil {
			return err
		}
	}
	return nil
}
