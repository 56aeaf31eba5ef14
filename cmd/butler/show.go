package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkoukk/tiktoken-go"
	"github.com/spf13/cobra"

	"github.com/entrhq/butler/pkg/prompt"
	"github.com/entrhq/butler/pkg/store"
)

var (
	showGroup  string
	showTokens bool
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Display a prompt",
	Long: `Display one prompt with its metadata and content. Without --group the
prompt is looked up at the storage root first, then across all groups in
lexicographic order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := newStore()
		if err != nil {
			return err
		}
		p, err := resolvePrompt(cmd, st, args[0], showGroup)
		if err != nil {
			return err
		}
		displayPrompt(p)
		if showTokens {
			printTokenCounts(p)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showGroup, "group", "", "group to look in (omit to search all groups)")
	showCmd.Flags().BoolVar(&showTokens, "tokens", false, "print token counts (cl100k_base)")
}

// resolvePrompt looks a prompt up by name. A --group flag that was
// explicitly set (even to "") pins the lookup to that group; otherwise the
// store's two-phase lookup is used.
func resolvePrompt(cmd *cobra.Command, st *store.Store, name, group string) (*prompt.Prompt, error) {
	if cmd.Flags().Changed("group") {
		return st.Get(name, group)
	}
	return st.Lookup(name)
}

func displayPrompt(p *prompt.Prompt) {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

	fmt.Println(title.Render(p.Name))
	if p.Group != "" {
		fmt.Println(label.Render("Group:"), p.Group)
	}
	if p.Description != "" {
		fmt.Println(label.Render("Description:"), p.Description)
	}
	if len(p.Tags) > 0 {
		fmt.Println(label.Render("Tags:"), strings.Join(p.Tags, ", "))
	}

	fmt.Println()
	fmt.Println(label.Render("System prompt"))
	printMarkdown(p.SystemPrompt)
	if p.UserPrompt != "" {
		fmt.Println()
		fmt.Println(label.Render("User prompt"))
		printMarkdown(p.UserPrompt)
	}
}

// printMarkdown renders prompt content with terminal syntax highlighting,
// falling back to plain output when highlighting fails.
func printMarkdown(content string) {
	if err := quick.Highlight(os.Stdout, content+"\n", "markdown", "terminal256", "monokai"); err != nil {
		fmt.Println(content)
	}
}

func printTokenCounts(p *prompt.Prompt) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		fmt.Fprintf(os.Stderr, "token counting unavailable: %v\n", err)
		return
	}
	system := len(enc.Encode(p.SystemPrompt, nil, nil))
	user := len(enc.Encode(p.UserPrompt, nil, nil))
	fmt.Println()
	fmt.Printf("Tokens: system=%d user=%d total=%d\n", system, user, system+user)
}
