package cmd

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables a clean would target",
	Long: `Tables prints the live schema inventory: user tables, views, and the
migration bookkeeping tables, with the ones a clean would never touch
marked as such.

Example:
  dbwipe tables --driver postgres --dsn "postgres://localhost/app_test?sslmode=disable"`,
	RunE: runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
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

	tables, err := cl.Inventory().Tables(ctx)
	if err != nil {
		return err
	}
	views := cl.Inventory().Views(ctx)

	bookkeeping := make(map[string]struct{}, len(cfg.Cleanup.MigrationTables))
	for _, t := range cfg.Cleanup.MigrationTables {
		bookkeeping[t] = struct{}{}
	}

	viewNames := make([]string, 0, len(views))
	for v := range views {
		viewNames = append(viewNames, v)
	}
	sort.Strings(viewNames)

	names := make([]string, 0, len(tables)+len(viewNames))
	names = append(names, tables...)
	names = append(names, viewNames...)

	width := runewidth.StringWidth("TABLE")
	for _, name := range names {
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}

	cmd.Printf("%s  %s\n", runewidth.FillRight("TABLE", width), "KIND")
	targeted := 0
	for _, name := range tables {
		padded := runewidth.FillRight(name, width)
		if _, ok := bookkeeping[name]; ok {
			cmd.Printf("%s  %s\n", padded, color.Yellow.Render("bookkeeping (never cleaned)"))
			continue
		}
		cmd.Printf("%s  %s\n", padded, "table")
		targeted++
	}
	for _, name := range viewNames {
		cmd.Printf("%s  %s\n", runewidth.FillRight(name, width), color.Cyan.Render("view (never cleaned)"))
	}

	cmd.Printf("\n%d of %d tables would be cleaned\n", targeted, len(tables))
	return nil
}
