package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/prompt"
	"github.com/entrhq/butler/pkg/store"
)

var (
	listTag   string
	listGroup string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List prompts, optionally filtered or fuzzy-searched",
	Long: `List all prompts sorted by (group, name). An optional query argument
performs a fuzzy search first. The --tag and --group filters accept glob
patterns (e.g. --tag 'dev*') and can be combined with a query.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}

		var prompts []*prompt.Prompt
		if len(args) == 1 && args[0] != "" {
			prompts, err = st.Search(args[0], listLimit)
		} else {
			prompts, err = st.List(store.ListOptions{})
		}
		if err != nil {
			return err
		}

		prompts, err = applyGlobFilters(prompts, listTag, listGroup)
		if err != nil {
			return err
		}

		if len(prompts) == 0 {
			fmt.Println("No prompts found.")
			return nil
		}
		fmt.Println(renderTable(prompts))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "filter by tag (glob patterns allowed)")
	listCmd.Flags().StringVar(&listGroup, "group", "", "filter by group (glob patterns allowed)")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "maximum results when a query is given")
}

// applyGlobFilters narrows prompts by tag and group glob patterns. Plain
// strings without metacharacters behave as exact matches.
func applyGlobFilters(prompts []*prompt.Prompt, tagPattern, groupPattern string) ([]*prompt.Prompt, error) {
	out := prompts
	if tagPattern != "" {
		g, err := glob.Compile(tagPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern: %w", err)
		}
		var filtered []*prompt.Prompt
		for _, p := range out {
			for _, t := range p.Tags {
				if g.Match(t) {
					filtered = append(filtered, p)
					break
				}
			}
		}
		out = filtered
	}
	if groupPattern != "" {
		g, err := glob.Compile(groupPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid group pattern: %w", err)
		}
		var filtered []*prompt.Prompt
		for _, p := range out {
			if g.Match(p.Group) {
				filtered = append(filtered, p)
			}
		}
		out = filtered
	}
	return out, nil
}

func renderTable(prompts []*prompt.Prompt) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("GROUP", "NAME", "DESCRIPTION", "TAGS")
	for _, p := range prompts {
		group := p.Group
		if group == "" {
			group = "-"
		}
		t.Row(group, p.Name, truncate(p.Description, 50), strings.Join(p.Tags, ", "))
	}
	return t.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
