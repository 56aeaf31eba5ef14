package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search prompts by name, description, and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		prompts, err := st.Search(args[0], searchLimit)
		if err != nil {
			return err
		}
		if len(prompts) == 0 {
			fmt.Println("No matching prompts.")
			return nil
		}
		fmt.Println(renderTable(prompts))
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
}
