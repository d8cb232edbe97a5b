package main

import (
	"context"
	"fmt"

	"github.com/clavisure/clavis/internal/cli"
	"github.com/clavisure/clavis/internal/detect"
	"github.com/clavisure/clavis/internal/storage"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the pattern rule table",
		Long: `Inspect and replace the pattern rule table used by the matcher.

Rules imported into the database override the built-in table on every
subsequent run; the --rules file flag still takes precedence over both.`,
	}

	cmd.AddCommand(rulesImportCmd())
	cmd.AddCommand(rulesListCmd())

	return cmd
}

func rulesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a YAML rule table into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rules, err := detect.LoadRules(args[0])
			if err != nil {
				return err
			}
			// Compile once so a broken table is rejected before it is stored.
			if _, err := detect.NewMatcher(rules); err != nil {
				return err
			}

			db, closeDB, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := db.ReplacePatternRules(ctx, recordsFromRules(rules)); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d rules", len(rules))))
			return nil
		},
	}
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the rule table currently in the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, closeDB, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			records, err := db.ListPatternRules(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No rules in the database; the built-in table is active."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%d pattern rules", len(records))))
			for _, rec := range records {
				fmt.Printf("%s  %s/%s  keywords=%d patterns=%d\n",
					rec.Name, rec.Category, rec.Language, len(rec.Keywords), len(rec.Patterns))
			}
			return nil
		},
	}
}

// openStorage opens the audit database with migrations applied.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, func(), error) {
	dbPath, err := defaultDBPath()
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, func() { _ = db.Close() }, nil
}
