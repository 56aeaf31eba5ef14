package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var groupIncludeEmpty bool

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage prompt groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		groups, err := st.ListGroups(groupIncludeEmpty)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups.")
			return nil
		}
		for _, g := range groups {
			fmt.Println(g)
		}
		return nil
	},
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		created, err := st.CreateGroup(args[0])
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("group %q already exists", args[0])
		}
		fmt.Printf("Created group %s\n", args[0])
		return nil
	},
}

var groupRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a group, moving all of its prompts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		moved, err := st.RenameGroup(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed group %q to %q, moved %d prompt(s)\n", args[0], args[1], moved)
		return nil
	},
}

func init() {
	groupListCmd.Flags().BoolVar(&groupIncludeEmpty, "include-empty", false, "also list groups without prompts")
	groupCmd.AddCommand(groupListCmd, groupCreateCmd, groupRenameCmd)
}
