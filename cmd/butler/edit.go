package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var editGroup string

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Open a prompt's backing file in your editor",
	Long: `Open the prompt's markdown file in the configured editor (config
"editor", then $EDITOR, then vi). The file is re-read afterwards so a
malformed edit is reported immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := newStore()
		if err != nil {
			return err
		}

		p, err := resolvePrompt(cmd, st, args[0], editGroup)
		if err != nil {
			return err
		}
		path, err := st.Path(p.Name, p.Group)
		if err != nil {
			return err
		}

		editor := cfg.ResolveEditor()
		editorCmd := exec.Command(editor, path)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return fmt.Errorf("editor %s failed: %w", editor, err)
		}

		// Surface a broken edit right away instead of on the next scan.
		if _, err := st.Get(p.Name, p.Group); err != nil {
			return fmt.Errorf("prompt no longer parses after edit: %w", err)
		}
		fmt.Printf("Updated %s\n", describeLocation(p))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editGroup, "group", "", "group to look in (omit to search all groups)")
}
