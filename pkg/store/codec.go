package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/butler/pkg/prompt"
)

const (
	frontMatterDelimiter = "---"

	// userSeparator is the literal sentinel line splitting the system
	// prompt from the optional user prompt in a record's body.
	userSeparator = "---user---"
)

// frontMatter holds the metadata block at the top of a record file. The
// group is deliberately absent: it is reconstructed from the containing
// directory, never stored in the file itself.
type frontMatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags,omitempty"`
}

// parsePrompt deserializes a raw record file. The group is supplied by the
// caller from the file's location; fallbackName is used when the metadata
// block carries no name (typically the file's stem).
func parsePrompt(raw []byte, group, fallbackName string) (*prompt.Prompt, error) {
	s := string(raw)
	if !strings.HasPrefix(s, frontMatterDelimiter) {
		return nil, fmt.Errorf("store: missing front-matter delimiter")
	}
	rest := s[len(frontMatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx == -1 {
		return nil, fmt.Errorf("store: unclosed front-matter block")
	}
	yamlBlock := rest[:idx]
	body := rest[idx+len("\n"+frontMatterDelimiter):]

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(yamlBlock), &meta); err != nil {
		return nil, fmt.Errorf("store: front-matter parse error: %w", err)
	}

	name := meta.Name
	if name == "" {
		name = fallbackName
	}

	system, user := splitBody(body)
	return &prompt.Prompt{
		Name:         name,
		Description:  meta.Description,
		SystemPrompt: system,
		UserPrompt:   user,
		Group:        group,
		Tags:         meta.Tags,
	}, nil
}

// splitBody separates a record body on the user separator sentinel. Text
// before the sentinel is the system prompt, text after it the user prompt,
// both trimmed. A body without the sentinel has no user prompt.
func splitBody(body string) (system, user string) {
	if idx := strings.Index(body, userSeparator); idx != -1 {
		system = strings.TrimSpace(body[:idx])
		user = strings.TrimSpace(body[idx+len(userSeparator):])
		return system, user
	}
	return strings.TrimSpace(body), ""
}

// serializePrompt renders a prompt to its on-disk byte representation.
// When the user prompt is empty the sentinel and second section are omitted
// entirely, so "no user prompt" and "empty user prompt" are identical after
// a round trip. That is accepted, consistent behavior.
func serializePrompt(p *prompt.Prompt) ([]byte, error) {
	meta := frontMatter{
		Name:        p.Name,
		Description: p.Description,
		Tags:        p.Tags,
	}
	yamlBytes, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("store: serialize error: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontMatterDelimiter + "\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontMatterDelimiter + "\n\n")
	sb.WriteString(p.SystemPrompt)
	if p.UserPrompt != "" {
		sb.WriteString("\n\n" + userSeparator + "\n" + p.UserPrompt)
	}
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}
