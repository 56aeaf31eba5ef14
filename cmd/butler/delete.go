package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	deleteGroup string
	deleteForce bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolvePrompt(cmd, st, args[0], deleteGroup)
		if err != nil {
			return err
		}

		if !deleteForce {
			fmt.Printf("Delete %s? [y/N] ", describeLocation(p))
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := st.Delete(p.Name, p.Group); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", describeLocation(p))
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteGroup, "group", "", "group to look in (omit to search all groups)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}
