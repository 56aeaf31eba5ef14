package main

import (
	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/config"
	"github.com/entrhq/butler/pkg/store"
)

var (
	cfgFile    string
	promptsDir string
)

var rootCmd = &cobra.Command{
	Use:   "butler",
	Short: "Manage reusable prompt templates stored as plain files",
	Long: `Butler stores prompt templates as markdown files with YAML front-matter
under a single directory tree, organized into named groups.

Each prompt carries a name, description, tags, a system prompt, and an
optional user prompt. Prompts can be listed, fuzzy-searched, copied to the
clipboard, edited in your editor, served over HTTP, or browsed in an
interactive terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ~/.config/butler/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&promptsDir, "dir", "", "prompts directory (default: $PROMPTS_DIR or the configured prompts_dir)",
	)

	rootCmd.AddCommand(
		listCmd,
		searchCmd,
		showCmd,
		addCmd,
		editCmd,
		deleteCmd,
		copyCmd,
		cloneCmd,
		tagCmd,
		groupCmd,
		migrateCmd,
		configCmd,
		serveCmd,
		tuiCmd,
		versionCmd,
	)
}

// loadConfig opens the configuration service honoring the --config flag.
func loadConfig() (*config.Service, config.Config, error) {
	svc, err := config.NewService(cfgFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	return svc, svc.Load(), nil
}

// newStore opens the prompt store, honoring --dir over the configured
// prompts directory.
func newStore() (*store.Store, config.Config, error) {
	_, cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	dir := promptsDir
	if dir == "" {
		dir = cfg.ResolvePromptsDir()
	}
	st, err := store.New(dir)
	if err != nil {
		return nil, cfg, err
	}
	return st, cfg, nil
}
