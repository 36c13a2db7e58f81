package cmd

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbwipe/dbwipe/internal/cleaner"
	"github.com/dbwipe/dbwipe/internal/config"
	"github.com/dbwipe/dbwipe/internal/logger"
	"github.com/dbwipe/dbwipe/internal/verifier"
)

var (
	cleanOnly       []string
	cleanExcept     []string
	cleanFast       bool
	cleanNoResetIDs bool
	cleanVerify     bool
	cleanYes        bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clear all user data from the database",
	Long: `Clean clears every user table in the connected database, preserving
schema and skipping views and migration bookkeeping tables.

Foreign-key enforcement is disabled for the duration and restored on every
exit path, so tables are cleared in catalog order with no dependency
analysis.

WARNING: This permanently deletes data. Intended for test databases only.

Example:
  dbwipe clean --config dbwipe.yaml --fast
  dbwipe clean --driver mysql --dsn "root:root@tcp(127.0.0.1:3306)/app_test" --except audit_log`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringSliceVar(&cleanOnly, "only", nil,
		"Restrict cleaning to exactly these tables")
	cleanCmd.Flags().StringSliceVar(&cleanExcept, "except", nil,
		"Tables to leave untouched (wins over --only)")
	cleanCmd.Flags().BoolVar(&cleanFast, "fast", false,
		"Skip tables the dialect can prove empty")
	cleanCmd.Flags().BoolVar(&cleanNoResetIDs, "no-reset-ids", false,
		"Preserve auto-increment/identity counters")
	cleanCmd.Flags().BoolVar(&cleanVerify, "verify", false,
		"Audit that all targeted tables are empty afterwards")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false,
		"Skip the confirmation prompt")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer log.Sync()

	opts := cleaner.Options{
		Only:     cfg.Cleanup.Only,
		Except:   cfg.Cleanup.Except,
		Fast:     cfg.Cleanup.Fast,
		ResetIDs: cfg.Cleanup.ResetIDs,
	}
	if len(cleanOnly) > 0 {
		opts.Only = cleanOnly
	}
	if len(cleanExcept) > 0 {
		opts.Except = cleanExcept
	}
	if cmd.Flags().Changed("fast") {
		opts.Fast = cleanFast
	}
	if cleanNoResetIDs {
		opts.ResetIDs = false
	}

	if !cleanYes {
		if err := confirm(cmd, fmt.Sprintf("Clear all data in %s database? [y/N] ", cfg.Database.Driver)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, cl, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer manager.Close()

	stats, err := cl.Clean(ctx, opts)
	if err != nil {
		return err
	}

	color.Green.Printf("✔ cleaned %d/%d tables (%d skipped, %d statements) in %s\n",
		stats.TablesCleaned, stats.TablesTargeted, stats.TablesSkipped,
		stats.Statements, stats.Duration.Round(time.Millisecond))

	if cleanVerify {
		return runEmptinessAudit(ctx, cfg, manager.DB, cl, log)
	}
	return nil
}

// runEmptinessAudit re-reads the inventory and checks that every user table
// outside the bookkeeping set is row-empty.
func runEmptinessAudit(ctx context.Context, cfg *config.Config, db *sql.DB, cl *cleaner.Cleaner, log *logger.Logger) error {
	tables, err := auditTargets(ctx, cfg, cl)
	if err != nil {
		return err
	}

	v, err := verifier.New(db, cl.Dialect(), log)
	if err != nil {
		return err
	}
	report, err := v.VerifyEmpty(ctx, tables)
	if err != nil {
		return err
	}

	if !report.Clean() {
		for _, r := range report.Residuals {
			color.Red.Printf("✘ table %s still holds %d rows\n", r.Table, r.Rows)
		}
		return fmt.Errorf("%d tables still hold rows", len(report.Residuals))
	}
	color.Green.Printf("✔ verified %d tables empty\n", report.TablesChecked)
	return nil
}

// auditTargets lists all user tables minus views and bookkeeping tables.
func auditTargets(ctx context.Context, cfg *config.Config, cl *cleaner.Cleaner) ([]string, error) {
	all, err := cl.Inventory().Tables(ctx)
	if err != nil {
		return nil, err
	}
	views := cl.Inventory().Views(ctx)

	skip := make(map[string]struct{}, len(cfg.Cleanup.MigrationTables))
	for _, t := range cfg.Cleanup.MigrationTables {
		skip[t] = struct{}{}
	}

	var targets []string
	for _, t := range all {
		if _, ok := skip[t]; ok {
			continue
		}
		if _, ok := views[t]; ok {
			continue
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func confirm(cmd *cobra.Command, prompt string) error {
	cmd.Print(prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("aborted: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return fmt.Errorf("aborted by user")
	}
}
