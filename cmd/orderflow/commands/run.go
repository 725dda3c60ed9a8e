package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderflow/orderflow/cmd/orderflow/output"
	"github.com/orderflow/orderflow/pkg/command"
	"github.com/orderflow/orderflow/pkg/config"
	"github.com/orderflow/orderflow/pkg/report"
	"github.com/orderflow/orderflow/pkg/repo"
	"github.com/orderflow/orderflow/pkg/service"
	"github.com/orderflow/orderflow/pkg/store"
)

// runCmd executes a command file
var runCmd = &cobra.Command{
	Use:   "run <input-file> [reset]",
	Short: "Execute a command file against the database",
	Long: `Execute a line-oriented command file: inserts, orders, deletes and
report requests, in file order. Reports and bills land in the output
directory, numbered per run.

Examples:
  orderflow run orders.txt                # Execute against existing data
  orderflow run orders.txt reset         # Empty all tables first
  orderflow run orders.txt --out ./docs  # Write documents elsewhere`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reset := false
		if len(args) == 2 {
			if !strings.EqualFold(args[1], "reset") {
				return fmt.Errorf("unknown argument %q, expected \"reset\"", args[1])
			}
			reset = true
		}
		return runFile(cmd.Context(), args[0], reset)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFile(ctx context.Context, path string, reset bool) error {
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
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}

	runID := uuid.NewString()
	log.Info("starting run", zap.String("run_id", runID), zap.String("input", path))

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

	renderer, err := report.NewTextRenderer(cfg.OutputDir, clientSvc, productSvc, orderSvc, itemSvc)
	if err != nil {
		return err
	}
	exec := command.NewExecutor(clientSvc, productSvc, orderSvc, renderer, log)

	if reset {
		output.Info("Resetting all tables")
		if err := exec.Reset(ctx); err != nil {
			output.Error("Reset failed: %v", err)
			return err
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	cmds, err := command.Parse(f, log)
	if err != nil {
		return err
	}
	output.Muted("Parsed %d commands from %s", len(cmds), path)

	if err := exec.Execute(ctx, cmds); err != nil {
		output.Error("Run aborted: %v", err)
		return err
	}
	if err := exec.RenderBills(ctx); err != nil {
		output.Error("Could not render bills: %v", err)
		return err
	}

	rejected := len(exec.Notifications())
	if rejected > 0 {
		output.Warning("%d order(s) rejected for insufficient stock", rejected)
	}
	output.Success("Run %s complete, documents written to %s", runID, cfg.OutputDir)
	log.Info("run complete", zap.String("run_id", runID), zap.Int("commands", len(cmds)), zap.Int("rejected", rejected))
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
