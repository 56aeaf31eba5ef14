package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/store"
)

var (
	migrateSource       string
	migrateDefaultGroup string
	migrateRemoveSource bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert legacy flat YAML prompts to the markdown format",
	Long: `Convert legacy prompts stored as flat <name>.yaml files into grouped
markdown files with YAML front-matter. Prompts that already exist in the
new format are skipped. Legacy files are kept unless --remove-source is
given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := newStore()
		if err != nil {
			return err
		}

		defaultGroup := migrateDefaultGroup
		if !cmd.Flags().Changed("default-group") {
			defaultGroup = cfg.DefaultGroup
		}

		m := store.NewMigrator(st, migrateSource)
		result, err := m.MigrateAll(defaultGroup, migrateRemoveSource, func(action, message string) {
			fmt.Printf("%-9s %s\n", action, message)
		})
		if err != nil {
			return err
		}

		fmt.Printf("\n%d migrated, %d skipped, %d failed (%d total)\n",
			result.Migrated, result.Skipped, result.Failed, result.TotalProcessed())
		if result.Failed > 0 {
			return fmt.Errorf("%d prompt(s) failed to migrate", result.Failed)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateSource, "source", "", "directory holding legacy YAML files (default: the prompts directory)")
	migrateCmd.Flags().StringVar(&migrateDefaultGroup, "default-group", "", "group assigned to legacy prompts without one")
	migrateCmd.Flags().BoolVar(&migrateRemoveSource, "remove-source", false, "delete legacy files after successful migration")
}
