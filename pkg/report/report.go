// Package report renders the run's documents: per-table reports, and one
// bill per client with an active order, plus rejection notifications.
//
// The renderer reads through the domain services and lays the data out as
// aligned text. Every document name carries a run-scoped sequence number so
// repeated reports never overwrite each other.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/orderflow/orderflow/pkg/model"
	"github.com/orderflow/orderflow/pkg/service"
	"github.com/orderflow/orderflow/pkg/store"
)

// Notification records one order rejected for insufficient stock.
type Notification struct {
	Client   string
	Product  string
	Quantity int
}

// Renderer produces the run's documents.
type Renderer interface {
	ClientReport(ctx context.Context, seq int) error
	ProductReport(ctx context.Context, seq int) error
	OrderReport(ctx context.Context, seq int) error
	Bills(ctx context.Context, notifs []Notification, seq int) error
}

// TextRenderer writes documents as plain-text files under one directory.
type TextRenderer struct {
	dir      string
	clients  *service.ClientService
	products *service.ProductService
	orders   *service.OrderService
	items    *service.OrderItemService
}

// NewTextRenderer builds a renderer writing into dir, creating it if needed.
func NewTextRenderer(dir string, clients *service.ClientService, products *service.ProductService, orders *service.OrderService, items *service.OrderItemService) (*TextRenderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &TextRenderer{dir: dir, clients: clients, products: products, orders: orders, items: items}, nil
}

// ClientReport lists every active client.
func (r *TextRenderer) ClientReport(ctx context.Context, seq int) error {
	clients, err := r.clients.FindAll(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tADDRESS")
	for _, c := range clients {
		if c.Deleted != model.Active {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Address)
	}
	w.Flush()
	return r.write(fmt.Sprintf("client_report_%d.txt", seq), sb.String())
}

// ProductReport lists every active product with price and stock.
func (r *TextRenderer) ProductReport(ctx context.Context, seq int) error {
	products, err := r.products.FindAll(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQUANTITY")
	for _, p := range products {
		if p.Deleted != model.Active {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, money(p.Price), p.Quantity)
	}
	w.Flush()
	return r.write(fmt.Sprintf("product_report_%d.txt", seq), sb.String())
}

// OrderReport lists every order line whose client and product are both still
// active.
func (r *TextRenderer) OrderReport(ctx context.Context, seq int) error {
	items, err := r.items.FindAll(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tPRODUCT\tQUANTITY")
	for _, item := range items {
		// Dangling references are skipped; store failures are not absence.
		order, err := r.orders.FindByID(ctx, item.OrderID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}
		client, err := r.clients.FindByID(ctx, order.ClientID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}
		product, err := r.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}
		if client.Deleted != model.Active || product.Deleted != model.Active {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", item.OrderID, client.Name, product.Name, item.Quantity)
	}
	w.Flush()
	return r.write(fmt.Sprintf("order_report_%d.txt", seq), sb.String())
}

// Bills writes one bill per active order: the client's name, one line per
// item, the order total, then the client's rejection notifications or a
// confirmation that everything went through. Clients whose every order was
// rejected get a notification-only document.
func (r *TextRenderer) Bills(ctx context.Context, notifs []Notification, seq int) error {
	orders, err := r.orders.FindAll(ctx)
	if err != nil {
		return err
	}

	remaining := make([]Notification, len(notifs))
	copy(remaining, notifs)

	for _, order := range orders {
		if order.Deleted != model.Active {
			continue
		}
		client, err := r.clients.FindByID(ctx, order.ClientID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		} else if err != nil {
			return err
		}

		var sb strings.Builder
		sb.WriteString("Bill\n")
		sb.WriteString(client.Name + "\n")
		items, err := r.items.FindAllByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		for _, item := range items {
			product, err := r.products.FindByID(ctx, item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				continue
			} else if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", product.Name, item.Quantity, money(product.Price))
		}
		w.Flush()
		sb.WriteString("Total: " + money(order.Total) + "\n")

		var mine []Notification
		mine, remaining = splitByClient(remaining, client.Name)
		if len(mine) == 0 {
			sb.WriteString("All orders have been processed successfully.\n")
		} else {
			writeNotifications(&sb, mine)
		}
		if err := r.write(billName(client.Name, seq), sb.String()); err != nil {
			return err
		}
	}

	// Clients with rejections but no accepted order still get notified.
	for len(remaining) > 0 {
		name := remaining[0].Client
		var mine []Notification
		mine, remaining = splitByClient(remaining, name)

		var sb strings.Builder
		writeNotifications(&sb, mine)
		if err := r.write(billName(name, seq), sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeNotifications(sb *strings.Builder, notifs []Notification) {
	sb.WriteString("Notifications\n")
	for _, n := range notifs {
		fmt.Fprintf(sb, "Could not process order for %d %s(s). Not enough products in stock.\n", n.Quantity, n.Product)
	}
}

// splitByClient partitions notifications into those of one client
// (case-insensitive) and the rest.
func splitByClient(notifs []Notification, client string) (mine, rest []Notification) {
	for _, n := range notifs {
		if strings.EqualFold(n.Client, client) {
			mine = append(mine, n)
		} else {
			rest = append(rest, n)
		}
	}
	return mine, rest
}

func billName(client string, seq int) string {
	return fmt.Sprintf("bill_%s_%d.txt", strings.ReplaceAll(client, " ", "_"), seq)
}

// money renders a float without trailing zero noise (2.5, 10, 0.75).
func money(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func (r *TextRenderer) write(name, content string) error {
	return os.WriteFile(filepath.Join(r.dir, name), []byte(content), 0o644)
}
