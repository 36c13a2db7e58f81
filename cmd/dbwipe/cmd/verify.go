package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that all user tables are empty",
	Long: `Verify counts rows across every user table (excluding views and
bookkeeping tables) and reports any that still hold data. Useful as a
standalone audit after an external cleanup.

Example:
  dbwipe verify --config dbwipe.yaml`,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, cl, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer manager.Close()

	return runEmptinessAudit(ctx, cfg, manager.DB, cl, log)
}
