// Package prompt defines the prompt record type, its validation rules,
// and the tri-state patch type used for partial updates.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxNameLength is the maximum number of characters allowed in a prompt name.
	MaxNameLength = 100

	// MaxTagLength is the maximum number of characters allowed per tag.
	MaxTagLength = 50

	// MaxPromptLength is the maximum number of characters allowed in either
	// the system or the user prompt body.
	MaxPromptLength = 50000
)

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	tagPattern  = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)
)

// Prompt is the unit of storage: one prompt template with its metadata.
// Group is structural (which directory the backing file lives in) and is
// never written into the file's own metadata; an empty Group means the
// record lives at the storage root.
type Prompt struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Group        string   `json:"group"`
	Tags         []string `json:"tags"`
}

// ValidationError reports a field that failed pattern or length constraints.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("prompt: invalid %s: %s", e.Field, e.Message)
}

// Validate checks all field constraints and returns the first violation
// as a *ValidationError.
func (p *Prompt) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if len(p.Name) > MaxNameLength {
		return &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)}
	}
	if !namePattern.MatchString(p.Name) {
		return &ValidationError{Field: "name", Message: "must contain only alphanumeric characters, underscores, and hyphens"}
	}
	if p.Group != "" && !namePattern.MatchString(p.Group) {
		return &ValidationError{Field: "group", Message: "must contain only alphanumeric characters, underscores, and hyphens"}
	}
	if p.SystemPrompt == "" {
		return &ValidationError{Field: "system_prompt", Message: "must not be empty"}
	}
	if len(p.SystemPrompt) > MaxPromptLength {
		return &ValidationError{Field: "system_prompt", Message: fmt.Sprintf("must be at most %d characters", MaxPromptLength)}
	}
	if len(p.UserPrompt) > MaxPromptLength {
		return &ValidationError{Field: "user_prompt", Message: fmt.Sprintf("must be at most %d characters", MaxPromptLength)}
	}
	return ValidateTags(p.Tags)
}

// ValidateTags checks every tag against the tag pattern and length bounds.
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			return &ValidationError{Field: "tags", Message: "tag must be at least 1 character long"}
		}
		if len(tag) > MaxTagLength {
			return &ValidationError{Field: "tags", Message: fmt.Sprintf("tag must be at most %d characters long", MaxTagLength)}
		}
		if !tagPattern.MatchString(tag) {
			return &ValidationError{Field: "tags", Message: "tag must contain only alphanumeric characters, spaces, underscores, and hyphens"}
		}
	}
	return nil
}

// HasTag reports whether the prompt carries the given tag (exact match).
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Searchable builds the string a fuzzy search query is matched against:
// name, description, and tags joined by spaces.
func (p *Prompt) Searchable() string {
	parts := []string{p.Name, p.Description}
	parts = append(parts, p.Tags...)
	return strings.Join(parts, " ")
}

// Clone returns a deep copy of the prompt. The Tags slice is copied so the
// clone never aliases the original's backing array.
func (p *Prompt) Clone() *Prompt {
	out := *p
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return &out
}
