package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cloneGroup   string
	cloneToGroup string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <source> <new-name>",
	Short: "Duplicate a prompt under a new name",
	Long: `Create a copy of an existing prompt with all content preserved.
--to-group places the clone in a different group than the source.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		src, err := resolvePrompt(cmd, st, args[0], cloneGroup)
		if err != nil {
			return err
		}

		group := src.Group
		if cmd.Flags().Changed("to-group") {
			group = cloneToGroup
		}

		clone := src.Clone()
		clone.Name = args[1]
		clone.Group = group
		if err := st.Create(clone); err != nil {
			return err
		}
		fmt.Printf("Cloned %s to %s\n", describeLocation(src), describeLocation(clone))
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneGroup, "group", "", "group of the source prompt (omit to search all groups)")
	cloneCmd.Flags().StringVar(&cloneToGroup, "to-group", "", "group for the clone (defaults to the source group)")
}
