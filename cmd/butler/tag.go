package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags across all prompts",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags with usage counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		counts, err := st.TagCounts()
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No tags in use.")
			return nil
		}
		for _, tc := range counts {
			fmt.Printf("%-30s %d\n", tc.Tag, tc.Count)
		}
		return nil
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a tag across every prompt that carries it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		count, err := st.RenameTag(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed tag %q to %q on %d prompt(s)\n", args[0], args[1], count)
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagListCmd, tagRenameCmd)
}
