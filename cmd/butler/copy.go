package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

var (
	copyGroup string
	copyUser  bool
	copyAll   bool
)

var copyCmd = &cobra.Command{
	Use:   "copy <name>",
	Short: "Copy prompt content to the clipboard",
	Long: `Copy a prompt's system prompt to the clipboard. Use --user for the
user prompt instead, or --all for both sections separated by a blank line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolvePrompt(cmd, st, args[0], copyGroup)
		if err != nil {
			return err
		}

		content := p.SystemPrompt
		what := "system prompt"
		switch {
		case copyAll:
			content = p.SystemPrompt
			if p.UserPrompt != "" {
				content += "\n\n" + p.UserPrompt
			}
			what = "prompt content"
		case copyUser:
			if p.UserPrompt == "" {
				return fmt.Errorf("prompt %s has no user prompt", p.Name)
			}
			content = p.UserPrompt
			what = "user prompt"
		}

		if err := clipboard.WriteAll(content); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Printf("Copied %s of %s to clipboard\n", what, describeLocation(p))
		return nil
	},
}

func init() {
	copyCmd.Flags().StringVar(&copyGroup, "group", "", "group to look in (omit to search all groups)")
	copyCmd.Flags().BoolVar(&copyUser, "user", false, "copy the user prompt instead of the system prompt")
	copyCmd.Flags().BoolVar(&copyAll, "all", false, "copy both sections")
}
