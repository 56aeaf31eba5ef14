package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/prompt"
)

var (
	addDescription string
	addGroup       string
	addTags        []string
	addSystem      string
	addUser        string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new prompt",
	Long: `Create a new prompt. The system prompt comes from --system, or from
stdin when the flag is omitted (pipe or paste, then EOF). The group
defaults to the configured default_group.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := newStore()
		if err != nil {
			return err
		}

		group := addGroup
		if !cmd.Flags().Changed("group") {
			group = cfg.DefaultGroup
		}

		system := addSystem
		if system == "" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read system prompt from stdin: %w", err)
			}
			system = string(b)
		}

		p := &prompt.Prompt{
			Name:         args[0],
			Description:  addDescription,
			SystemPrompt: system,
			UserPrompt:   addUser,
			Group:        group,
			Tags:         addTags,
		}
		if err := st.Create(p); err != nil {
			return err
		}
		fmt.Printf("Created %s\n", describeLocation(p))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "short description")
	addCmd.Flags().StringVarP(&addGroup, "group", "g", "", "group to create the prompt in")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "tag (repeatable)")
	addCmd.Flags().StringVar(&addSystem, "system", "", "system prompt content (stdin when omitted)")
	addCmd.Flags().StringVar(&addUser, "user", "", "optional user prompt content")
}

func describeLocation(p *prompt.Prompt) string {
	if p.Group == "" {
		return p.Name
	}
	return p.Group + "/" + p.Name
}
