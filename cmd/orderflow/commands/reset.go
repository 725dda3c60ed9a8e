package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/orderflow/orderflow/cmd/orderflow/output"
	"github.com/orderflow/orderflow/pkg/command"
	"github.com/orderflow/orderflow/pkg/config"
	"github.com/orderflow/orderflow/pkg/repo"
	"github.com/orderflow/orderflow/pkg/service"
	"github.com/orderflow/orderflow/pkg/store"
)

// resetCmd empties all tables without executing anything
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Empty all tables",
	Long: `Remove every order, client and product from the database.

Examples:
  orderflow reset                       # Use configured database
  orderflow reset --db postgres://...   # Use an explicit database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(ctx context.Context) error {
	log, err := buildLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	db, err := store.ConnectURL(ctx, cfg.DatabaseURL)
	if err != nil {
		output.Error("Could not connect to database: %v", err)
		return err
	}
	defer db.Close()

	clients := repo.NewClients(db, log)
	products := repo.NewProducts(db, log)
	orders := repo.NewOrders(db, log)
	items := repo.NewItems(db, log)

	for _, ensure := range []func(context.Context) error{
		clients.EnsureTable, products.EnsureTable, orders.EnsureTable, items.EnsureTable,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}

	itemSvc := service.NewOrderItemService(items, log)
	orderSvc := service.NewOrderService(orders, itemSvc, clients, products, log)
	clientSvc := service.NewClientService(clients, orderSvc, log)
	productSvc := service.NewProductService(products, orderSvc, itemSvc, log)

	exec := command.NewExecutor(clientSvc, productSvc, orderSvc, nil, log)
	if err := exec.Reset(ctx); err != nil {
		output.Error("Reset failed: %v", err)
		return err
	}
	output.Success("All tables emptied")
	return nil
}
